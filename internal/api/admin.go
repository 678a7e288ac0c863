package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/premiumbank/pbank/internal/models"
)

// AdminTransactionsPageSize is the page size used by the admin transaction list
const AdminTransactionsPageSize = 20

// ListCustomers returns every customer profile
func (c *Client) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	var customers []models.Customer
	if err := c.do(ctx, request{method: http.MethodGet, path: "/admin/users"}, &customers); err != nil {
		return nil, err
	}
	return customers, nil
}

// ListAllAccounts returns every account with its owner
func (c *Client) ListAllAccounts(ctx context.Context) ([]models.CustomerAccount, error) {
	var accounts []models.CustomerAccount
	if err := c.do(ctx, request{method: http.MethodGet, path: "/admin/accounts"}, &accounts); err != nil {
		return nil, err
	}
	return accounts, nil
}

// SetUserStatus enables or disables a customer
func (c *Client) SetUserStatus(ctx context.Context, userID, status string) error {
	return c.do(ctx, request{
		method: http.MethodPatch,
		path:   "/admin/users/" + url.PathEscape(userID) + "/status",
		body:   models.UserStatusRequest{Status: status},
	}, nil)
}

// CreateCustomer opens a customer profile with its initial accounts
func (c *Client) CreateCustomer(ctx context.Context, req models.CreateCustomerRequest) error {
	return c.do(ctx, request{method: http.MethodPost, path: "/admin/create-customer", body: req}, nil)
}
