package transactions

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/premiumbank/pbank/internal/app"
	"github.com/premiumbank/pbank/internal/format"
	"github.com/premiumbank/pbank/internal/guard"
	"github.com/premiumbank/pbank/internal/models"
)

// TransactionsCmd lists transaction history
var TransactionsCmd = &cobra.Command{
	Use:   "transactions",
	Short: "Show transaction history",
	Long: `Show transaction history.

Customers see their own transactions, optionally for one account.
Staff accounts see every customer's transactions.`,
	Annotations: app.Route(guard.RouteTransactions),
	RunE: app.Guarded(func(cmd *cobra.Command, args []string) error {
		ref, _ := cmd.Flags().GetString("account")
		return show(cmd.Context(), ref)
	}),
}

// History lists transactions newest first as returned by the backend
type History struct {
	Items []models.Transaction `json:"items" yaml:"items"`
	// ShowCustomer adds the customer column for staff views
	ShowCustomer bool `json:"-" yaml:"-"`
}

func (t History) Table() format.Table {
	headers := []string{"Date", "Type", "Description", "Reference", "Amount"}
	if t.ShowCustomer {
		headers = append([]string{"Customer"}, headers...)
	}

	table := format.Table{Headers: headers}
	for _, tx := range t.Items {
		row := []string{
			format.Date(tx.Date()),
			tx.Type,
			tx.Description,
			tx.Reference,
			format.SignedMoney(tx.Amount, tx.Direction),
		}
		if t.ShowCustomer {
			customer := tx.UserEmail
			if customer == "" {
				customer = "-"
			}
			row = append([]string{customer}, row...)
		}
		table.Rows = append(table.Rows, row)
	}
	return table
}

func show(ctx context.Context, accountRef string) error {
	a := app.Get()
	s, _ := a.Sessions.Get()

	if s != nil && s.User.IsAdmin() {
		page, err := a.Client.AdminListTransactions(ctx, models.TransactionFilter{AccountID: accountRef})
		if err != nil {
			return fmt.Errorf("failed to load transactions: %w", err)
		}
		return format.Print(History{Items: page.Items, ShowCustomer: true})
	}

	accountID := ""
	if accountRef != "" {
		accounts, err := a.Client.ListAccounts(ctx)
		if err != nil {
			return fmt.Errorf("failed to load accounts: %w", err)
		}
		acct, ok := app.FindAccount(accounts, accountRef)
		if !ok {
			return fmt.Errorf("no account matches %q", accountRef)
		}
		accountID = acct.ID
	}

	page, err := a.Client.ListTransactions(ctx, accountID)
	if err != nil {
		return fmt.Errorf("failed to load transactions: %w", err)
	}
	return format.Print(History{Items: page.Items})
}

func init() {
	TransactionsCmd.Flags().StringP("account", "a", "", "only this account (id, number or type)")

	app.RegisterView(guard.RouteTransactions, func(ctx context.Context) error {
		return show(ctx, "")
	})
}
