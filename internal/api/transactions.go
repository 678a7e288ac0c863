package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/premiumbank/pbank/internal/models"
)

// ListTransactions returns the customer's transactions, optionally for one account
func (c *Client) ListTransactions(ctx context.Context, accountID string) (*models.TransactionPage, error) {
	query := url.Values{}
	if accountID != "" {
		query.Set("accountId", accountID)
	}

	var page models.TransactionPage
	if err := c.do(ctx, request{method: http.MethodGet, path: "/transactions", query: query}, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// AdminListTransactions returns one page of all customers' transactions
func (c *Client) AdminListTransactions(ctx context.Context, filter models.TransactionFilter) (*models.TransactionPage, error) {
	var page models.TransactionPage
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "/admin/transactions",
		query:  filterQuery(filter),
	}, &page)
	if err != nil {
		return nil, err
	}
	return &page, nil
}

func filterQuery(f models.TransactionFilter) url.Values {
	query := url.Values{}
	if f.AccountID != "" {
		query.Set("accountId", f.AccountID)
	}
	if f.Page > 0 {
		query.Set("page", strconv.Itoa(f.Page))
	}
	if f.Limit > 0 {
		query.Set("limit", strconv.Itoa(f.Limit))
	}
	if f.Search != "" {
		query.Set("search", f.Search)
	}
	if f.Type != "" {
		query.Set("type", f.Type)
	}
	if f.Direction != "" {
		query.Set("direction", f.Direction)
	}
	return query
}
