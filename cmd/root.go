package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/premiumbank/pbank/cmd/accounts"
	"github.com/premiumbank/pbank/cmd/admin"
	"github.com/premiumbank/pbank/cmd/auth"
	"github.com/premiumbank/pbank/cmd/config"
	"github.com/premiumbank/pbank/cmd/pay"
	"github.com/premiumbank/pbank/cmd/transactions"
	"github.com/premiumbank/pbank/internal/app"
	appConfig "github.com/premiumbank/pbank/internal/config"
	"github.com/premiumbank/pbank/internal/guard"
	"github.com/premiumbank/pbank/internal/logging"
)

var (
	cfgFile string
	debug   bool
	output  string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "pbank",
	Short: "Premium Bank - online banking from the terminal",
	Long: `pbank gives customers and bank staff access to Premium Bank online banking.

Customers can review accounts and transactions, move money between their
accounts, pay bills and send wire transfers approved with a one-time code.
Staff accounts get the admin console instead.

Run without a command to open the home view for the current session.`,
	Version:       "1.0.0",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Initialize configuration
		if err := appConfig.Initialize(cfgFile); err != nil {
			return fmt.Errorf("failed to initialize configuration: %w", err)
		}
		cfg := appConfig.Get()

		// Set debug mode
		level := cfg.Log.Level
		if debug {
			appConfig.SetDebug(true)
			level = "debug"
		}
		logger := logging.Setup(level)

		// Set output format
		if output != "" {
			appConfig.SetOutputFormat(output)
		}
		if !cfg.Format.Colors {
			color.NoColor = true
		}

		logger.Debug("configuration loaded", "file", appConfig.Path(), "server", cfg.Server.URL)
		app.Init(app.NewDefault(cfg, logger))
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return app.Get().Render(cmd.Context(), guard.RouteRoot)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	// A .env file is optional; PBANK_API_URL usually comes from it during development.
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "error", err)
	}

	// Interrupts cancel the running view so pending work such as a wire approval is dropped.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.pbank.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", "", "output format (table, json, yaml, text)")

	// Add subcommands
	rootCmd.AddCommand(auth.AuthCmd)
	rootCmd.AddCommand(accounts.AccountsCmd)
	rootCmd.AddCommand(accounts.DepositCmd)
	rootCmd.AddCommand(accounts.WithdrawCmd)
	rootCmd.AddCommand(transactions.TransactionsCmd)
	rootCmd.AddCommand(pay.PayCmd)
	rootCmd.AddCommand(admin.AdminCmd)
	rootCmd.AddCommand(config.ConfigCmd)
}
