package wire

import (
	"strings"
	"unicode"

	"github.com/shopspring/decimal"

	"github.com/premiumbank/pbank/internal/models"
	"github.com/premiumbank/pbank/internal/utils"
)

// DefaultDescription is sent when the draft has no description
const DefaultDescription = "Wire transfer"

// Routing number length bounds, after normalization
const (
	MinRoutingDigits = 5
	MaxRoutingDigits = 12
)

// Draft holds the wire form fields as the user typed them
type Draft struct {
	FromAccountID     string
	RoutingNumber     string
	Amount            string
	BeneficiaryName   string
	BankName          string
	BankAccountNumber string
	Description       string
}

// Validated is a draft that passed every rule, normalized for submission
type Validated struct {
	FromAccountID     string
	RoutingNumber     string
	Amount            decimal.Decimal
	BeneficiaryName   string
	BankName          string
	BankAccountNumber string
	Description       string
}

// NormalizeRouting removes whitespace and hyphens
func NormalizeRouting(raw string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || r == '-' {
			return -1
		}
		return r
	}, raw)
}

// Validate applies the rules in order and reports the first failure
func (d Draft) Validate() (Validated, error) {
	if strings.TrimSpace(d.FromAccountID) == "" {
		return Validated{}, utils.NewValidationError("fromAccountId", "Select account.")
	}

	routing := NormalizeRouting(d.RoutingNumber)
	if routing == "" {
		return Validated{}, utils.NewValidationError("routingNumber", "Enter routing number.")
	}
	if !validRouting(routing) {
		return Validated{}, utils.NewValidationError("routingNumber", "Routing number must be 5-12 digits.")
	}

	amount, ok := utils.ParseAmount(d.Amount)
	if !ok {
		return Validated{}, utils.NewValidationError("amount", "Enter valid amount.")
	}

	beneficiary := strings.TrimSpace(d.BeneficiaryName)
	if beneficiary == "" {
		return Validated{}, utils.NewValidationError("beneficiaryName", "Enter beneficiary name.")
	}
	bank := strings.TrimSpace(d.BankName)
	if bank == "" {
		return Validated{}, utils.NewValidationError("bankName", "Enter bank name.")
	}
	account := strings.TrimSpace(d.BankAccountNumber)
	if account == "" {
		return Validated{}, utils.NewValidationError("bankAccountNumber", "Enter bank account number.")
	}

	description := strings.TrimSpace(d.Description)
	if description == "" {
		description = DefaultDescription
	}

	return Validated{
		FromAccountID:     strings.TrimSpace(d.FromAccountID),
		RoutingNumber:     routing,
		Amount:            amount,
		BeneficiaryName:   beneficiary,
		BankName:          bank,
		BankAccountNumber: account,
		Description:       description,
	}, nil
}

func validRouting(s string) bool {
	if len(s) < MinRoutingDigits || len(s) > MaxRoutingDigits {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Request builds the request-OTP payload
func (v Validated) Request() models.WireOTPRequest {
	return models.WireOTPRequest{
		FromAccountID:     v.FromAccountID,
		RoutingNumber:     v.RoutingNumber,
		Amount:            models.AmountNumber(v.Amount),
		BeneficiaryName:   v.BeneficiaryName,
		BankName:          v.BankName,
		BankAccountNumber: v.BankAccountNumber,
		Description:       v.Description,
	}
}

// Summary is what the user reviews before the final confirm
type Summary struct {
	Amount             decimal.Decimal
	Fee                decimal.Decimal
	Total              decimal.Decimal
	Beneficiary        string
	Bank               string
	DestinationAccount string
	RoutingNumber      string
	SourceAccount      string
	Description        string
}

// Summary computes the review figures. Wires carry no client-side fee.
func (v Validated) Summary() Summary {
	fee := decimal.Zero
	return Summary{
		Amount:             v.Amount,
		Fee:                fee,
		Total:              v.Amount.Add(fee),
		Beneficiary:        v.BeneficiaryName,
		Bank:               v.BankName,
		DestinationAccount: v.BankAccountNumber,
		RoutingNumber:      v.RoutingNumber,
		SourceAccount:      v.FromAccountID,
		Description:        v.Description,
	}
}
