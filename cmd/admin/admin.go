package admin

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/premiumbank/pbank/cmd/transactions"
	"github.com/premiumbank/pbank/internal/api"
	"github.com/premiumbank/pbank/internal/app"
	"github.com/premiumbank/pbank/internal/format"
	"github.com/premiumbank/pbank/internal/guard"
	"github.com/premiumbank/pbank/internal/models"
	"github.com/premiumbank/pbank/internal/utils"
)

// openingDateLayout is the local date-time form accepted by --opening-date
const openingDateLayout = "2006-01-02 15:04"

// AdminCmd represents the staff command group
var AdminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Staff commands",
	Long: `Staff commands for pbank.

Without a subcommand the overview of customers, accounts and the latest
transactions is shown. Only staff accounts can use these commands.`,
	Annotations: app.Route(guard.RouteAdmin),
	RunE: app.Guarded(func(cmd *cobra.Command, args []string) error {
		return overview(cmd.Context())
	}),
}

// usersCmd lists customers
var usersCmd = &cobra.Command{
	Use:         "users",
	Short:       "List customers",
	Annotations: app.Route(guard.RouteAdmin),
	RunE: app.Guarded(func(cmd *cobra.Command, args []string) error {
		return listUsers(cmd.Context())
	}),
}

// accountsCmd lists every account
var accountsCmd = &cobra.Command{
	Use:         "accounts",
	Short:       "List all customer accounts",
	Annotations: app.Route(guard.RouteAdmin),
	RunE: app.Guarded(func(cmd *cobra.Command, args []string) error {
		return listAccounts(cmd.Context())
	}),
}

// transactionsCmd pages through all transactions
var transactionsCmd = &cobra.Command{
	Use:         "transactions",
	Short:       "Browse all transactions",
	Annotations: app.Route(guard.RouteAdmin),
	RunE: app.Guarded(func(cmd *cobra.Command, args []string) error {
		page, _ := cmd.Flags().GetInt("page")
		search, _ := cmd.Flags().GetString("search")
		txType, _ := cmd.Flags().GetString("type")
		direction, _ := cmd.Flags().GetString("direction")
		return listTransactions(cmd.Context(), models.TransactionFilter{
			Page:      page,
			Search:    strings.TrimSpace(search),
			Type:      strings.TrimSpace(txType),
			Direction: strings.TrimSpace(direction),
		})
	}),
}

// setStatusCmd enables or disables a customer
var setStatusCmd = &cobra.Command{
	Use:   "set-status <user-id>",
	Short: "Enable or disable a customer",
	Long: `Enable or disable a customer.

Without --status the current status is toggled: active customers are
disabled and disabled customers are activated.`,
	Args:        cobra.ExactArgs(1),
	Annotations: app.Route(guard.RouteAdmin),
	RunE: app.Guarded(func(cmd *cobra.Command, args []string) error {
		status, _ := cmd.Flags().GetString("status")
		return setStatus(cmd.Context(), args[0], status)
	}),
}

// createCustomerCmd opens a customer profile
var createCustomerCmd = &cobra.Command{
	Use:         "create-customer",
	Short:       "Create a customer with chequing and savings accounts",
	Annotations: app.Route(guard.RouteAdmin),
	RunE:        app.Guarded(runCreateCustomer),
}

// customerList renders customers
type customerList []models.Customer

func (l customerList) Table() format.Table {
	table := format.Table{Headers: []string{"ID", "Name", "Email", "Role", "Status", "Created"}}
	for _, c := range l {
		status := strings.ToLower(c.Status)
		if status == "" {
			status = models.StatusActive
		}
		created := "-"
		if c.CreatedAt != nil {
			created = format.Date(*c.CreatedAt)
		}
		table.Rows = append(table.Rows, []string{c.ID, dash(c.FullName), c.Email, dash(c.Role), status, created})
	}
	return table
}

// accountList renders every customer account with the bank-wide total
type accountList []models.CustomerAccount

func (l accountList) Table() format.Table {
	table := format.Table{Headers: []string{"Owner", "Email", "Type", "Number", "Balance"}}
	total := decimal.Zero
	for _, acct := range l {
		display := models.Account{Type: acct.Type}
		table.Rows = append(table.Rows, []string{
			dash(acct.UserName),
			dash(acct.UserEmail),
			display.DisplayType(),
			acct.AccountNumber,
			format.Money(acct.Balance),
		})
		total = total.Add(acct.Balance)
	}
	table.Footer = []string{"", "", "", "Total", format.Money(total)}
	return table
}

func dash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func listUsers(ctx context.Context) error {
	customers, err := app.Get().Client.ListCustomers(ctx)
	if err != nil {
		return fmt.Errorf("failed to load customers: %s", utils.MessageOf(err, "Failed to load customers"))
	}
	return format.Print(customerList(customers))
}

func listAccounts(ctx context.Context) error {
	accounts, err := app.Get().Client.ListAllAccounts(ctx)
	if err != nil {
		return fmt.Errorf("failed to load accounts: %s", utils.MessageOf(err, "Failed to load accounts"))
	}
	return format.Print(accountList(accounts))
}

// normalizeFilter applies the fixed page size and the first page default
func normalizeFilter(f models.TransactionFilter) models.TransactionFilter {
	if f.Page < 1 {
		f.Page = 1
	}
	f.Limit = api.AdminTransactionsPageSize
	return f
}

func listTransactions(ctx context.Context, filter models.TransactionFilter) error {
	filter = normalizeFilter(filter)
	page, err := app.Get().Client.AdminListTransactions(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to load transactions: %s", utils.MessageOf(err, "Failed to load transactions"))
	}

	if format.IsStructured() {
		return format.Print(page)
	}
	if err := format.Print(transactions.History{Items: page.Items, ShowCustomer: true}); err != nil {
		return err
	}
	if page.TotalPages > 0 {
		format.PrintInfo("Page %d of %d", filter.Page, page.TotalPages)
	}
	return nil
}

// resolveStatus validates an explicit status or toggles the customer's current one
func resolveStatus(customers []models.Customer, userID, requested string) (string, error) {
	requested = strings.ToLower(strings.TrimSpace(requested))
	switch requested {
	case models.StatusActive, models.StatusDisabled:
		return requested, nil
	case "":
	default:
		return "", utils.NewValidationError("status", "Status must be active or disabled")
	}

	for _, c := range customers {
		if c.ID == userID {
			return c.NextStatus(), nil
		}
	}
	return "", fmt.Errorf("no customer with id %q", userID)
}

func setStatus(ctx context.Context, userID, requested string) error {
	a := app.Get()

	var customers []models.Customer
	if strings.TrimSpace(requested) == "" {
		var err error
		if customers, err = a.Client.ListCustomers(ctx); err != nil {
			return fmt.Errorf("failed to load customers: %s", utils.MessageOf(err, "Failed to load customers"))
		}
	}
	status, err := resolveStatus(customers, userID, requested)
	if err != nil {
		return err
	}

	if err := a.Client.SetUserStatus(ctx, userID, status); err != nil {
		return fmt.Errorf("%s", utils.MessageOf(err, "Failed to update user status"))
	}
	format.PrintSuccess("User status updated to %s", status)
	return nil
}

// customerForm holds the create-customer inputs as typed
type customerForm struct {
	email, fullName, password, confirm string
	chequing, savings                  bool
	chequingOpening, savingsOpening    string
	openingDate                        string
}

// openingAmount parses an optional opening balance; empty means zero
func openingAmount(raw, field string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, nil
	}
	amount, err := decimal.NewFromString(raw)
	if err != nil || amount.IsNegative() {
		return decimal.Zero, utils.NewValidationError(field, "Enter a valid opening balance")
	}
	return amount, nil
}

// customerRequest applies the create-customer rules in order
func customerRequest(f customerForm) (models.CreateCustomerRequest, error) {
	email := utils.NormalizeEmail(f.email)
	if email == "" {
		return models.CreateCustomerRequest{}, utils.NewValidationError("email", "Email is required")
	}
	if len(f.password) < utils.MinPasswordLength {
		return models.CreateCustomerRequest{}, utils.NewValidationError("password", "Password must be at least 6 characters")
	}
	if f.password != f.confirm {
		return models.CreateCustomerRequest{}, utils.NewValidationError("confirm", "Passwords do not match")
	}
	if !f.chequing && !f.savings {
		return models.CreateCustomerRequest{}, utils.NewValidationError("accounts", "Select at least one account type")
	}

	chequingOpening, err := openingAmount(f.chequingOpening, "chequingOpening")
	if err != nil {
		return models.CreateCustomerRequest{}, err
	}
	savingsOpening, err := openingAmount(f.savingsOpening, "savingsOpening")
	if err != nil {
		return models.CreateCustomerRequest{}, err
	}

	req := models.CreateCustomerRequest{
		Email:           email,
		FullName:        strings.TrimSpace(f.fullName),
		Password:        f.password,
		CreateChequing:  f.chequing,
		CreateSavings:   f.savings,
		ChequingOpening: models.AmountNumber(chequingOpening),
		SavingsOpening:  models.AmountNumber(savingsOpening),
	}

	// backdating only applies to an opening deposit
	opening := decimal.Zero
	if f.chequing {
		opening = opening.Add(chequingOpening)
	}
	if f.savings {
		opening = opening.Add(savingsOpening)
	}
	if raw := strings.TrimSpace(f.openingDate); raw != "" && opening.IsPositive() {
		at, err := time.ParseInLocation(openingDateLayout, raw, time.Local)
		if err != nil {
			return models.CreateCustomerRequest{}, utils.NewValidationError("openingDate", "Opening date must look like 2024-01-31 09:00")
		}
		utc := at.UTC()
		req.OpeningDate = &utc
	}
	return req, nil
}

func runCreateCustomer(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a := app.Get()

	f := customerForm{}
	f.email, _ = cmd.Flags().GetString("email")
	f.fullName, _ = cmd.Flags().GetString("full-name")
	f.password, _ = cmd.Flags().GetString("password")
	f.chequing, _ = cmd.Flags().GetBool("chequing")
	f.savings, _ = cmd.Flags().GetBool("savings")
	f.chequingOpening, _ = cmd.Flags().GetString("chequing-opening")
	f.savingsOpening, _ = cmd.Flags().GetString("savings-opening")
	f.openingDate, _ = cmd.Flags().GetString("opening-date")

	var err error
	if f.email == "" {
		if f.email, err = a.Prompt.Line(ctx, "Email"); err != nil {
			return err
		}
	}
	if f.fullName == "" {
		if f.fullName, err = a.Prompt.Line(ctx, "Full name"); err != nil {
			return err
		}
	}
	if f.password == "" {
		if f.password, err = a.Prompt.Password(ctx, "Password"); err != nil {
			return err
		}
		if f.confirm, err = a.Prompt.Password(ctx, "Confirm password"); err != nil {
			return err
		}
	} else {
		f.confirm = f.password
	}

	req, err := customerRequest(f)
	if err != nil {
		return err
	}
	if err := a.Client.CreateCustomer(ctx, req); err != nil {
		return fmt.Errorf("%s", utils.MessageOf(err, "Failed to create customer"))
	}
	format.PrintSuccess("Customer created successfully")
	return nil
}

// overview loads the staff lists one after another, as the staff console does
func overview(ctx context.Context) error {
	a := app.Get()
	if s, ok := a.Sessions.Get(); ok && !format.IsStructured() {
		format.PrintInfo("Signed in as %s (staff)", s.User.DisplayName())
	}

	if err := listUsers(ctx); err != nil {
		return err
	}
	if err := listAccounts(ctx); err != nil {
		return err
	}
	return listTransactions(ctx, models.TransactionFilter{Page: 1})
}

func init() {
	transactionsCmd.Flags().Int("page", 1, "page number")
	transactionsCmd.Flags().String("search", "", "search text")
	transactionsCmd.Flags().String("type", "", "transaction type")
	transactionsCmd.Flags().String("direction", "", "credit or debit")

	setStatusCmd.Flags().String("status", "", "active or disabled (default: toggle)")

	createCustomerCmd.Flags().StringP("email", "e", "", "customer email")
	createCustomerCmd.Flags().String("full-name", "", "customer full name")
	createCustomerCmd.Flags().StringP("password", "p", "", "initial password (prompted when empty)")
	createCustomerCmd.Flags().Bool("chequing", true, "open a chequing account")
	createCustomerCmd.Flags().Bool("savings", false, "open a savings account")
	createCustomerCmd.Flags().String("chequing-opening", "0", "chequing opening balance")
	createCustomerCmd.Flags().String("savings-opening", "0", "savings opening balance")
	createCustomerCmd.Flags().String("opening-date", "", "backdate the opening deposit (\""+openingDateLayout+"\", local time)")

	AdminCmd.AddCommand(usersCmd)
	AdminCmd.AddCommand(accountsCmd)
	AdminCmd.AddCommand(transactionsCmd)
	AdminCmd.AddCommand(setStatusCmd)
	AdminCmd.AddCommand(createCustomerCmd)

	app.RegisterView(guard.RouteAdmin, overview)
}
