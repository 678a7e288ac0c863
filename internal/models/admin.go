package models

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// User statuses accepted by the admin status endpoint
const (
	StatusActive   = "active"
	StatusDisabled = "disabled"
)

// Customer is a user as listed by GET /admin/users
type Customer struct {
	ID        string     `json:"_id" yaml:"id"`
	FullName  string     `json:"fullName" yaml:"full_name"`
	Email     string     `json:"email" yaml:"email"`
	Status    string     `json:"status" yaml:"status"`
	Role      string     `json:"role" yaml:"role"`
	CreatedAt *time.Time `json:"createdAt,omitempty" yaml:"created_at,omitempty"`
}

// NextStatus toggles between active and disabled. A missing status counts as active.
func (c Customer) NextStatus() string {
	current := strings.ToLower(strings.TrimSpace(c.Status))
	if current == "" || current == StatusActive {
		return StatusDisabled
	}
	return StatusActive
}

// CustomerAccount is an account as listed by GET /admin/accounts
type CustomerAccount struct {
	ID            string          `json:"_id" yaml:"id"`
	AccountNumber string          `json:"accountNumber" yaml:"account_number"`
	Type          string          `json:"type" yaml:"type"`
	Balance       decimal.Decimal `json:"balance" yaml:"balance"`
	UserEmail     string          `json:"userEmail" yaml:"user_email"`
	UserName      string          `json:"userName" yaml:"user_name"`
	CreatedAt     *time.Time      `json:"createdAt,omitempty" yaml:"created_at,omitempty"`
}

// UserStatusRequest is the body of PATCH /admin/users/{id}/status
type UserStatusRequest struct {
	Status string `json:"status"`
}

// CreateCustomerRequest opens a customer profile with optional accounts
type CreateCustomerRequest struct {
	Email           string      `json:"email"`
	FullName        string      `json:"fullName"`
	Password        string      `json:"password"`
	CreateChequing  bool        `json:"createChequing"`
	CreateSavings   bool        `json:"createSavings"`
	ChequingOpening json.Number `json:"chequingOpening"`
	SavingsOpening  json.Number `json:"savingsOpening"`
	OpeningDate     *time.Time  `json:"openingDate,omitempty"`
}
