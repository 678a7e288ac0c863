package utils

import (
	"net/mail"
	"strings"

	"github.com/shopspring/decimal"
)

// MinPasswordLength is the shortest password the backend accepts.
const MinPasswordLength = 6

// NormalizeEmail trims and lower-cases an email address the way the backend stores it
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail validates an email address
func ValidateEmail(email string) error {
	if strings.TrimSpace(email) == "" {
		return NewValidationError("email", "Email is required")
	}

	// a bare address only; forms like "Jane <a@b.com>" are rejected
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != strings.TrimSpace(email) {
		return NewValidationError("email", "Invalid email format")
	}

	return nil
}

// ValidatePassword validates a new password and its confirmation
func ValidatePassword(password, confirm string) error {
	if len(password) < MinPasswordLength {
		return NewValidationError("password", "Password must be at least 6 characters.")
	}
	if password != confirm {
		return NewValidationError("password", "Passwords do not match.")
	}
	return nil
}

// ValidateRequired validates that a string is not empty after trimming
func ValidateRequired(value, field, message string) error {
	if strings.TrimSpace(value) == "" {
		return NewValidationError(field, message)
	}
	return nil
}

// ParseAmount parses a user-entered amount. It must be a finite number greater than zero.
func ParseAmount(value string) (decimal.Decimal, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return decimal.Zero, false
	}
	amount, err := decimal.NewFromString(value)
	if err != nil || !amount.IsPositive() {
		return decimal.Zero, false
	}
	return amount, true
}
