package transactions

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/premiumbank/pbank/internal/models"
)

func TestHistoryTable(t *testing.T) {
	posted := time.Date(2024, 3, 9, 10, 30, 0, 0, time.Local)
	h := History{Items: []models.Transaction{
		{Type: "wire", Direction: "debit", Amount: decimal.NewFromInt(250), Reference: "W-1", CreatedAt: posted},
		{Type: "deposit", Direction: "credit", Amount: decimal.RequireFromString("1200.5"), CreatedAt: posted},
	}}

	table := h.Table()
	if len(table.Headers) != 5 {
		t.Fatalf("headers = %v", table.Headers)
	}
	if got := table.Rows[0][4]; got != "-$250.00" {
		t.Errorf("debit amount = %q", got)
	}
	if got := table.Rows[1][4]; got != "$1,200.50" {
		t.Errorf("credit amount = %q", got)
	}
	if got := table.Rows[0][0]; got != "2024-03-09 10:30" {
		t.Errorf("date = %q", got)
	}

	h.ShowCustomer = true
	h.Items[0].UserEmail = "c@b.com"
	table = h.Table()
	if table.Headers[0] != "Customer" || table.Rows[0][0] != "c@b.com" || table.Rows[1][0] != "-" {
		t.Fatalf("customer column = %v", table.Rows)
	}
}
