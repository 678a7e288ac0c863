package pay

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/premiumbank/pbank/internal/app"
	"github.com/premiumbank/pbank/internal/format"
	"github.com/premiumbank/pbank/internal/guard"
	"github.com/premiumbank/pbank/internal/models"
	"github.com/premiumbank/pbank/internal/utils"
)

// PayCmd groups the payment commands
var PayCmd = &cobra.Command{
	Use:   "pay",
	Short: "Transfers, bill payments and wire transfers",
	Long: `Payment commands for pbank.

This command group includes transfers between your own accounts, bill
payments and wire transfers to other banks. Wire transfers need an
approval code issued by the bank.`,
}

// transferCmd moves money between the customer's accounts
var transferCmd = &cobra.Command{
	Use:         "transfer",
	Short:       "Transfer between your accounts",
	Annotations: app.Route(guard.RouteTransfers),
	RunE: app.Guarded(func(cmd *cobra.Command, args []string) error {
		return runTransfer(cmd.Context(), transferFlags{
			from:        flag(cmd, "from"),
			to:          flag(cmd, "to"),
			amount:      flag(cmd, "amount"),
			description: flag(cmd, "description"),
		})
	}),
}

// billCmd pays a biller
var billCmd = &cobra.Command{
	Use:         "bill",
	Short:       "Pay a bill",
	Annotations: app.Route(guard.RouteBills),
	RunE: app.Guarded(func(cmd *cobra.Command, args []string) error {
		return runBill(cmd.Context(), billFlags{
			account:   flag(cmd, "account"),
			amount:    flag(cmd, "amount"),
			biller:    flag(cmd, "biller"),
			reference: flag(cmd, "reference"),
		})
	}),
}

func flag(cmd *cobra.Command, name string) string {
	value, _ := cmd.Flags().GetString(name)
	return value
}

type transferFlags struct {
	from, to, amount, description string
}

// transferRequest applies the transfer form rules in order
func transferRequest(fromID, toID, rawAmount, description string) (models.TransferRequest, error) {
	if fromID == "" {
		return models.TransferRequest{}, utils.NewValidationError("fromAccountId", "You need to choose a From account.")
	}
	if toID == "" {
		return models.TransferRequest{}, utils.NewValidationError("toAccountId", "You need to choose a To account.")
	}
	if fromID == toID {
		return models.TransferRequest{}, utils.NewValidationError("toAccountId", "From and To accounts cannot be the same.")
	}
	amount, ok := utils.ParseAmount(rawAmount)
	if !ok {
		return models.TransferRequest{}, utils.NewValidationError("amount", "Enter a valid amount.")
	}
	if strings.TrimSpace(description) == "" {
		description = "Transfer"
	}
	return models.TransferRequest{
		FromAccountID: fromID,
		ToAccountID:   toID,
		Amount:        models.AmountNumber(amount),
		Description:   strings.TrimSpace(description),
	}, nil
}

func runTransfer(ctx context.Context, f transferFlags) error {
	a := app.Get()

	accounts, err := a.Client.ListAccounts(ctx)
	if err != nil {
		return fmt.Errorf("failed to load accounts: %w", err)
	}

	fromID, err := a.SelectAccount(ctx, "From account", f.from, accounts)
	if err != nil {
		return err
	}
	toID, err := a.SelectAccount(ctx, "To account", f.to, accounts)
	if err != nil {
		return err
	}
	amount := f.amount
	if amount == "" {
		if amount, err = a.Prompt.Line(ctx, "Amount"); err != nil {
			return err
		}
	}

	req, err := transferRequest(fromID, toID, amount, f.description)
	if err != nil {
		return err
	}

	resp, err := a.Client.Transfer(ctx, req)
	if err != nil {
		return fmt.Errorf("transfer failed: %s", utils.MessageOf(err, "Transfer failed."))
	}

	if resp.Reference != "" {
		format.PrintSuccess("Transfer successful (Ref: %s)", resp.Reference)
	} else {
		format.PrintSuccess("Transfer successful")
	}
	if !format.IsStructured() {
		a.Navigate(guard.RouteDashboard)
	}
	return nil
}

type billFlags struct {
	account, amount, biller, reference string
}

// billRequest applies the bill payment rules in order
func billRequest(accountID, rawAmount, biller, reference string) (models.BillPaymentRequest, error) {
	if accountID == "" {
		return models.BillPaymentRequest{}, utils.NewValidationError("accountId", "Select account.")
	}
	amount, ok := utils.ParseAmount(rawAmount)
	if !ok {
		return models.BillPaymentRequest{}, utils.NewValidationError("amount", "Enter valid amount.")
	}
	if err := utils.ValidateRequired(biller, "billerName", "Enter biller name."); err != nil {
		return models.BillPaymentRequest{}, err
	}
	if err := utils.ValidateRequired(reference, "referenceNumber", "Enter reference number."); err != nil {
		return models.BillPaymentRequest{}, err
	}
	return models.BillPaymentRequest{
		AccountID:       accountID,
		Amount:          models.AmountNumber(amount),
		BillerName:      strings.TrimSpace(biller),
		ReferenceNumber: strings.TrimSpace(reference),
		Description:     "Bill payment",
	}, nil
}

func runBill(ctx context.Context, f billFlags) error {
	a := app.Get()

	accounts, err := a.Client.ListAccounts(ctx)
	if err != nil {
		return fmt.Errorf("failed to load accounts: %w", err)
	}
	accountID, err := a.SelectAccount(ctx, "Pay from", f.account, accounts)
	if err != nil {
		return err
	}

	fields := []struct {
		value *string
		label string
	}{
		{&f.biller, "Biller name"},
		{&f.reference, "Reference number"},
		{&f.amount, "Amount"},
	}
	for _, field := range fields {
		if *field.value != "" {
			continue
		}
		if *field.value, err = a.Prompt.Line(ctx, field.label); err != nil {
			return err
		}
	}

	req, err := billRequest(accountID, f.amount, f.biller, f.reference)
	if err != nil {
		return err
	}
	if err := a.Client.PayBill(ctx, req); err != nil {
		return fmt.Errorf("bill payment failed: %s", utils.MessageOf(err, "Bill payment failed."))
	}

	format.PrintSuccess("Bill payment successful")
	return nil
}

func init() {
	transferCmd.Flags().String("from", "", "source account (id, number or type)")
	transferCmd.Flags().String("to", "", "destination account (id, number or type)")
	transferCmd.Flags().String("amount", "", "amount in CAD")
	transferCmd.Flags().String("description", "", "description (default \"Transfer\")")

	billCmd.Flags().StringP("account", "a", "", "account to pay from (id, number or type)")
	billCmd.Flags().String("amount", "", "amount in CAD")
	billCmd.Flags().String("biller", "", "biller name")
	billCmd.Flags().String("reference", "", "reference number on the bill")

	PayCmd.AddCommand(transferCmd)
	PayCmd.AddCommand(billCmd)

	app.RegisterView(guard.RouteTransfers, func(ctx context.Context) error {
		return runTransfer(ctx, transferFlags{})
	})
	app.RegisterView(guard.RouteBills, func(ctx context.Context) error {
		return runBill(ctx, billFlags{})
	})
}
