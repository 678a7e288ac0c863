package pay

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/premiumbank/pbank/internal/app"
	"github.com/premiumbank/pbank/internal/format"
	"github.com/premiumbank/pbank/internal/guard"
	"github.com/premiumbank/pbank/internal/models"
	"github.com/premiumbank/pbank/internal/prompt"
	"github.com/premiumbank/pbank/internal/utils"
	"github.com/premiumbank/pbank/internal/wire"
)

const bankNotice = `Wire transfers leave Premium Bank and cannot be recalled once sent.
The bank reviews each request and issues an approval code (OTP) to complete it.`

// wireCmd sends money to another bank
var wireCmd = &cobra.Command{
	Use:   "wire",
	Short: "Send a wire transfer to another bank",
	Long: `Send a wire transfer to an account at another bank.

Values not given as flags are prompted for. After the bank notice is
accepted an approval code is requested; enter it to review and send the
transfer. Answer "cancel" at the code prompt to abandon the transfer.`,
	Annotations: app.Route(guard.RouteWire),
	RunE: app.Guarded(func(cmd *cobra.Command, args []string) error {
		return runWire(cmd.Context(), wire.Draft{
			FromAccountID:     flag(cmd, "from"),
			RoutingNumber:     flag(cmd, "routing"),
			Amount:            flag(cmd, "amount"),
			BeneficiaryName:   flag(cmd, "beneficiary"),
			BankName:          flag(cmd, "bank"),
			BankAccountNumber: flag(cmd, "account-number"),
			Description:       flag(cmd, "description"),
		})
	}),
}

// summaryView renders the review shown before the final confirm
type summaryView struct {
	wire.Summary
	source string
}

func (s summaryView) Table() format.Table {
	return format.Table{
		Headers: []string{"Field", "Value"},
		Rows: [][]string{
			{"From", s.source},
			{"Beneficiary", s.Beneficiary},
			{"Bank", s.Bank},
			{"Account number", s.DestinationAccount},
			{"Routing number", s.RoutingNumber},
			{"Description", s.Description},
			{"Amount", format.Money(s.Amount)},
			{"Fee", format.Money(s.Fee)},
			{"Total", format.Money(s.Total)},
		},
	}
}

// wireSession runs one interactive wire transfer
type wireSession struct {
	app      *app.App
	p        *prompt.Prompter
	m        *wire.Machine
	accounts []models.Account
	// fromRef is the account given on the command line, resolved on the first form pass
	fromRef string
}

func runWire(ctx context.Context, initial wire.Draft) error {
	a := app.Get()

	accounts, err := a.Client.ListAccounts(ctx)
	if err != nil {
		return fmt.Errorf("failed to load accounts: %w", err)
	}

	m := wire.NewMachine(a.Client, a, wire.Options{
		ResetOnCancel: a.Config.Wire.ResetOnCancel(),
		Logger:        a.Logger,
	})
	fromRef := initial.FromAccountID
	initial.FromAccountID = ""
	if err := m.UpdateDraft(func(d *wire.Draft) { *d = initial }); err != nil {
		return err
	}

	s := &wireSession{app: a, p: a.Prompt, m: m, accounts: accounts, fromRef: fromRef}
	err = s.run(ctx)
	if err != nil {
		// abandoned: drop the pending request so nothing can confirm it later
		_ = m.Cancel()
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

func (s *wireSession) run(ctx context.Context) error {
	for {
		snap := s.m.Snapshot()
		var err error
		switch snap.State {
		case wire.StateForm:
			err = s.form(ctx, snap)
		case wire.StatePendingBankNotice:
			err = s.notice(ctx)
		case wire.StatePendingConfirm:
			err = s.approve(ctx, snap)
		case wire.StateSuccess:
			format.PrintSuccess(snap.Message)
			return s.m.DismissSuccess()
		default:
			return fmt.Errorf("unexpected wire state %s", snap.State)
		}
		if errors.Is(err, errAbandoned) {
			format.PrintInfo("Wire transfer cancelled")
			return nil
		}
		if err != nil {
			return err
		}
	}
}

var errAbandoned = errors.New("wire transfer abandoned")

// cancelAnswer abandons the transfer at the approval code prompt
const cancelAnswer = "cancel"

// form completes the draft and submits it
func (s *wireSession) form(ctx context.Context, snap wire.Snapshot) error {
	if snap.Error != "" {
		format.PrintError(snap.Error)
		retry, err := s.p.Confirm(ctx, "Edit and try again", true)
		if err != nil {
			return err
		}
		if !retry {
			return errAbandoned
		}
	}

	d := snap.Draft
	var err error
	if d.FromAccountID == "" || snap.Error != "" {
		ref := s.fromRef
		s.fromRef = ""
		if d.FromAccountID, err = s.app.SelectAccount(ctx, "From account", ref, s.accounts); err != nil {
			return err
		}
	}

	editing := snap.Error != ""
	fields := []struct {
		value *string
		label string
	}{
		{&d.BeneficiaryName, "Beneficiary name"},
		{&d.BankName, "Bank name"},
		{&d.BankAccountNumber, "Bank account number"},
		{&d.RoutingNumber, "Routing number"},
		{&d.Amount, "Amount"},
	}
	for _, field := range fields {
		if *field.value != "" && !editing {
			continue
		}
		if *field.value, err = s.p.Default(ctx, field.label, *field.value); err != nil {
			return err
		}
	}
	if d.Description == "" || editing {
		if d.Description, err = s.p.Default(ctx, "Description", orDefault(d.Description, wire.DefaultDescription)); err != nil {
			return err
		}
	}

	if err := s.m.UpdateDraft(func(draft *wire.Draft) { *draft = d }); err != nil {
		return err
	}
	if err := s.m.Submit(); err != nil && !utils.IsValidationError(err) {
		return err
	}
	return nil
}

// notice shows the bank notice and requests the approval code
func (s *wireSession) notice(ctx context.Context) error {
	format.PrintWarning(bankNotice)
	ok, err := s.p.Confirm(ctx, "Continue", true)
	if err != nil {
		return err
	}
	if !ok {
		if err := s.m.Cancel(); err != nil {
			return err
		}
		return errAbandoned
	}

	format.PrintInfo("Requesting approval code...")
	err = s.m.AcknowledgeNotice(ctx)
	if err != nil && ctx.Err() != nil {
		return ctx.Err()
	}
	// failures are reported by the form step
	return nil
}

// approve collects the code, shows the review and sends the transfer
func (s *wireSession) approve(ctx context.Context, snap wire.Snapshot) error {
	if snap.Error != "" {
		format.PrintError(snap.Error)
	} else if snap.Message != "" {
		format.PrintInfo(snap.Message)
	}

	// after a failed confirm the code is kept, so Enter retries with it
	code, err := s.p.Default(ctx, `Approval code (OTP), or "`+cancelAnswer+`"`, snap.OTP)
	if err != nil {
		return err
	}
	if strings.EqualFold(code, cancelAnswer) {
		if err := s.m.Cancel(); err != nil {
			return err
		}
		return errAbandoned
	}
	if err := s.m.SetOTP(code); err != nil {
		return err
	}

	summary, err := s.m.SubmitOTP()
	if err != nil {
		if utils.IsValidationError(err) {
			return nil
		}
		return err
	}

	if err := format.NewTableFormatter(format.Stdout, s.app.Config.Format.Colors).Format(summaryView{
		Summary: summary,
		source:  s.accountLabel(summary.SourceAccount),
	}); err != nil {
		return err
	}
	send, err := s.p.Confirm(ctx, "Send wire transfer", false)
	if err != nil {
		return err
	}
	if !send {
		return s.m.DismissOverlay()
	}

	err = s.m.Confirm(ctx)
	if err != nil && ctx.Err() != nil {
		return ctx.Err()
	}
	return nil
}

func (s *wireSession) accountLabel(id string) string {
	if acct, ok := app.FindAccount(s.accounts, id); ok {
		return app.AccountLabel(acct)
	}
	return id
}

func orDefault(value, def string) string {
	if value == "" {
		return def
	}
	return value
}

func init() {
	wireCmd.Flags().String("from", "", "source account (id, number or type)")
	wireCmd.Flags().String("routing", "", "routing number of the receiving bank")
	wireCmd.Flags().String("amount", "", "amount in CAD")
	wireCmd.Flags().String("beneficiary", "", "beneficiary name")
	wireCmd.Flags().String("bank", "", "receiving bank name")
	wireCmd.Flags().String("account-number", "", "beneficiary account number")
	wireCmd.Flags().String("description", "", "description (default \""+wire.DefaultDescription+"\")")

	PayCmd.AddCommand(wireCmd)

	app.RegisterView(guard.RouteWire, func(ctx context.Context) error {
		return runWire(ctx, wire.Draft{})
	})
}
