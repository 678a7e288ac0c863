package models

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// Account is a customer bank account as listed by GET /accounts
type Account struct {
	ID            string          `json:"_id" yaml:"id"`
	Type          string          `json:"type" yaml:"type"`
	AccountNumber string          `json:"accountNumber" yaml:"account_number"`
	Balance       decimal.Decimal `json:"balance" yaml:"balance"`
}

// DisplayType renders the account type for humans; chequing is shown as CHECKING.
func (a Account) DisplayType() string {
	t := strings.ToLower(strings.TrimSpace(a.Type))
	if t == "chequing" {
		return "CHECKING"
	}
	return strings.ToUpper(a.Type)
}

// AmountRequest is the body of deposit and withdrawal calls
type AmountRequest struct {
	AccountID string      `json:"accountId"`
	Amount    json.Number `json:"amount"`
}

// TransferRequest moves money between two of the customer's accounts
type TransferRequest struct {
	FromAccountID string      `json:"fromAccountId"`
	ToAccountID   string      `json:"toAccountId"`
	Amount        json.Number `json:"amount"`
	Description   string      `json:"description"`
}

// TransferResponse is the acknowledgement of an account transfer
type TransferResponse struct {
	Message   string `json:"message,omitempty"`
	Reference string `json:"reference,omitempty"`
}

// BillPaymentRequest pays a biller from one account
type BillPaymentRequest struct {
	AccountID       string      `json:"accountId"`
	Amount          json.Number `json:"amount"`
	BillerName      string      `json:"billerName"`
	ReferenceNumber string      `json:"referenceNumber"`
	Description     string      `json:"description"`
}

// AmountNumber converts a decimal to the JSON number representation sent to the backend
func AmountNumber(d decimal.Decimal) json.Number {
	return json.Number(d.String())
}
