package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is one ledger entry as returned by the transaction endpoints
type Transaction struct {
	ID            string          `json:"_id" yaml:"id"`
	CreatedAt     time.Time       `json:"createdAt" yaml:"created_at"`
	PostedAt      *time.Time      `json:"postedAt,omitempty" yaml:"posted_at,omitempty"`
	Type          string          `json:"type" yaml:"type"`
	Direction     string          `json:"direction" yaml:"direction"`
	Amount        decimal.Decimal `json:"amount" yaml:"amount"`
	Reference     string          `json:"reference" yaml:"reference"`
	Description   string          `json:"description" yaml:"description"`
	AccountID     string          `json:"accountId,omitempty" yaml:"account_id,omitempty"`
	AccountNumber string          `json:"accountNumber,omitempty" yaml:"account_number,omitempty"`
	UserEmail     string          `json:"userEmail,omitempty" yaml:"user_email,omitempty"`
}

// Date returns the posting date when set, otherwise the creation date
func (t Transaction) Date() time.Time {
	if t.PostedAt != nil && !t.PostedAt.IsZero() {
		return *t.PostedAt
	}
	return t.CreatedAt
}

// TransactionPage is the envelope of the transaction list endpoints
type TransactionPage struct {
	Items      []Transaction `json:"items" yaml:"items"`
	TotalPages int           `json:"totalPages,omitempty" yaml:"total_pages,omitempty"`
}

// TransactionFilter holds the optional query parameters of the list endpoints
type TransactionFilter struct {
	AccountID string
	Page      int
	Limit     int
	Search    string
	Type      string
	Direction string
}
