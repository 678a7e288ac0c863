package api

import (
	"context"
	"net/http"

	"github.com/premiumbank/pbank/internal/models"
)

// ListAccounts returns the accounts of the logged-in customer
func (c *Client) ListAccounts(ctx context.Context) ([]models.Account, error) {
	var accounts []models.Account
	if err := c.do(ctx, request{method: http.MethodGet, path: "/accounts"}, &accounts); err != nil {
		return nil, err
	}
	return accounts, nil
}

// Deposit credits an account
func (c *Client) Deposit(ctx context.Context, req models.AmountRequest) error {
	return c.do(ctx, request{method: http.MethodPost, path: "/transactions/deposit", body: req}, nil)
}

// Withdraw debits an account
func (c *Client) Withdraw(ctx context.Context, req models.AmountRequest) error {
	return c.do(ctx, request{method: http.MethodPost, path: "/transactions/withdraw", body: req}, nil)
}

// Transfer moves money between two accounts of the customer
func (c *Client) Transfer(ctx context.Context, req models.TransferRequest) (*models.TransferResponse, error) {
	var resp models.TransferResponse
	if err := c.do(ctx, request{method: http.MethodPost, path: "/transactions/transfer", body: req}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// PayBill pays a biller
func (c *Client) PayBill(ctx context.Context, req models.BillPaymentRequest) error {
	return c.do(ctx, request{method: http.MethodPost, path: "/transactions/bill-payment", body: req}, nil)
}
