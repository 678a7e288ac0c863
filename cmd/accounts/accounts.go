package accounts

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/premiumbank/pbank/internal/app"
	"github.com/premiumbank/pbank/internal/format"
	"github.com/premiumbank/pbank/internal/guard"
	"github.com/premiumbank/pbank/internal/models"
)

// AccountsCmd shows the customer dashboard
var AccountsCmd = &cobra.Command{
	Use:         "accounts",
	Aliases:     []string{"dashboard"},
	Short:       "Show your accounts and total balance",
	Long:        "Show the customer dashboard: every account with its balance, and the total.",
	Annotations: app.Route(guard.RouteDashboard),
	RunE: app.Guarded(func(cmd *cobra.Command, args []string) error {
		return dashboardView(cmd.Context())
	}),
}

// accountTable renders accounts with a total row
type accountTable []models.Account

func (t accountTable) Table() format.Table {
	table := format.Table{Headers: []string{"Type", "Account Number", "Balance"}}
	for _, acct := range t {
		table.Rows = append(table.Rows, []string{acct.DisplayType(), acct.AccountNumber, format.Money(acct.Balance)})
	}
	table.Footer = []string{"Total", "", format.Money(TotalBalance(t))}
	return table
}

// TotalBalance sums the balances of all accounts
func TotalBalance(accounts []models.Account) decimal.Decimal {
	total := decimal.Zero
	for _, acct := range accounts {
		total = total.Add(acct.Balance)
	}
	return total
}

// Greeting returns the salutation for the hour of day
func Greeting(now time.Time) string {
	switch h := now.Hour(); {
	case h < 12:
		return "Good morning"
	case h < 18:
		return "Good afternoon"
	default:
		return "Good evening"
	}
}

func dashboardView(ctx context.Context) error {
	a := app.Get()
	accounts, err := a.Client.ListAccounts(ctx)
	if err != nil {
		return fmt.Errorf("failed to load accounts: %w", err)
	}

	if !format.IsStructured() {
		if s, ok := a.Sessions.Get(); ok {
			format.PrintInfo("%s, %s", Greeting(time.Now()), s.User.DisplayName())
		}
	}
	return format.Print(accountTable(accounts))
}

func init() {
	app.RegisterView(guard.RouteDashboard, dashboardView)
}
