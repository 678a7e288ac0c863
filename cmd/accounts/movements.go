package accounts

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/premiumbank/pbank/internal/app"
	"github.com/premiumbank/pbank/internal/format"
	"github.com/premiumbank/pbank/internal/guard"
	"github.com/premiumbank/pbank/internal/models"
	"github.com/premiumbank/pbank/internal/utils"
)

// DepositCmd credits one of the customer's accounts
var DepositCmd = &cobra.Command{
	Use:         "deposit [amount]",
	Short:       "Deposit money into an account",
	Args:        cobra.MaximumNArgs(1),
	Annotations: app.Route(guard.RouteDashboard),
	RunE: app.Guarded(func(cmd *cobra.Command, args []string) error {
		return runMovement(cmd, args, "Deposit")
	}),
}

// WithdrawCmd debits one of the customer's accounts
var WithdrawCmd = &cobra.Command{
	Use:         "withdraw [amount]",
	Short:       "Withdraw money from an account",
	Args:        cobra.MaximumNArgs(1),
	Annotations: app.Route(guard.RouteDashboard),
	RunE: app.Guarded(func(cmd *cobra.Command, args []string) error {
		return runMovement(cmd, args, "Withdrawal")
	}),
}

func runMovement(cmd *cobra.Command, args []string, kind string) error {
	a := app.Get()
	ctx := cmd.Context()
	ref, _ := cmd.Flags().GetString("account")

	accounts, err := a.Client.ListAccounts(ctx)
	if err != nil {
		return fmt.Errorf("failed to load accounts: %w", err)
	}
	accountID, err := a.SelectAccount(ctx, "Account", ref, accounts)
	if err != nil {
		return err
	}

	raw := ""
	if len(args) > 0 {
		raw = args[0]
	} else if raw, err = a.Prompt.Line(ctx, "Amount"); err != nil {
		return err
	}

	req, err := movementRequest(accountID, raw)
	if err != nil {
		return err
	}

	if kind == "Deposit" {
		err = a.Client.Deposit(ctx, req)
	} else {
		err = a.Client.Withdraw(ctx, req)
	}
	if err != nil {
		return fmt.Errorf("%s failed: %s", kind, utils.MessageOf(err, "Server error"))
	}

	format.PrintSuccess("%s successful", kind)
	return refresh(ctx)
}

// movementRequest validates a deposit or withdrawal
func movementRequest(accountID, rawAmount string) (models.AmountRequest, error) {
	if accountID == "" {
		return models.AmountRequest{}, utils.NewValidationError("accountId", "Please select an account")
	}
	amount, ok := utils.ParseAmount(rawAmount)
	if !ok {
		return models.AmountRequest{}, utils.NewValidationError("amount", "Enter a valid amount")
	}
	return models.AmountRequest{AccountID: accountID, Amount: models.AmountNumber(amount)}, nil
}

// refresh shows the updated balances
func refresh(ctx context.Context) error {
	if format.IsStructured() {
		return nil
	}
	return dashboardView(ctx)
}

func init() {
	DepositCmd.Flags().StringP("account", "a", "", "account id, number or type (chequing, savings)")
	WithdrawCmd.Flags().StringP("account", "a", "", "account id, number or type (chequing, savings)")
}
