package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/premiumbank/pbank/internal/app"
	"github.com/premiumbank/pbank/internal/format"
	"github.com/premiumbank/pbank/internal/guard"
	"github.com/premiumbank/pbank/internal/session"
	"github.com/premiumbank/pbank/internal/utils"
)

// AuthCmd represents the auth command
var AuthCmd = &cobra.Command{
	Use:   "auth",
	Short: "Sign in, sign out and password recovery",
	Long: `Authentication commands for pbank.

This command group includes login, logout, session status and the
password recovery flow (forgot-password, verify-otp, reset-password).`,
}

// loginCmd represents the login command
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to online banking",
	Long: `Authenticate with email and password. Missing values are prompted for.

With --remember (the default) the session is kept in the config file and
survives new terminals; with --remember=false it only lasts for this terminal.`,
	RunE: runLogin,
}

// logoutCmd represents the logout command
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out",
	Long:  "Remove the stored session from this machine",
	RunE:  runLogout,
}

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show authentication status",
	Long:  "Display current authentication status and user information",
	RunE:  runStatus,
}

func runLogin(cmd *cobra.Command, args []string) error {
	email, _ := cmd.Flags().GetString("email")
	password, _ := cmd.Flags().GetString("password")
	remember, _ := cmd.Flags().GetBool("remember")
	noHome, _ := cmd.Flags().GetBool("no-home")

	a := app.Get()
	ctx := cmd.Context()

	var err error
	if email == "" {
		if email, err = a.Prompt.Line(ctx, "Email"); err != nil {
			return err
		}
	}
	if password == "" {
		if password, err = a.Prompt.Password(ctx, "Password"); err != nil {
			return err
		}
	}

	if err := login(ctx, email, password, remember); err != nil {
		return err
	}
	if noHome || format.IsStructured() {
		return nil
	}
	return a.Render(ctx, a.Guard.ResolveLanding())
}

// login authenticates and persists the session in the chosen scope
func login(ctx context.Context, email, password string, remember bool) error {
	if err := utils.ValidateEmail(email); err != nil {
		return err
	}
	if err := utils.ValidateRequired(password, "password", "Password is required"); err != nil {
		return err
	}

	a := app.Get()
	s, err := a.Client.Login(ctx, email, password)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	if err := a.Sessions.Set(*s, remember); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	a.Logger.Debug("logged in", "email", s.User.Email, "role", s.User.Role, "remember", remember)
	format.PrintSuccess("Signed in as %s", s.User.Email)
	return nil
}

// loginView prompts for credentials and continues to the home view
func loginView(ctx context.Context) error {
	a := app.Get()
	format.PrintInfo("Sign in to Premium Bank")

	email, err := a.Prompt.Line(ctx, "Email")
	if err != nil {
		return err
	}
	password, err := a.Prompt.Password(ctx, "Password")
	if err != nil {
		return err
	}
	remember, err := a.Prompt.Confirm(ctx, "Remember me", true)
	if err != nil {
		return err
	}

	if err := login(ctx, email, password, remember); err != nil {
		return err
	}
	a.Navigate(a.Guard.ResolveLanding())
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	a := app.Get()
	s, ok := a.Sessions.Get()
	if !ok {
		format.PrintInfo("Not logged in")
		return nil
	}

	if err := a.Sessions.Clear(); err != nil {
		return fmt.Errorf("logout failed: %w", err)
	}

	format.PrintSuccess("Signed out %s", s.User.Email)
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	a := app.Get()
	s, ok := a.Sessions.Get()
	if !ok {
		return format.Print(map[string]interface{}{
			"status": "not logged in",
			"server": a.Client.BaseURL,
		})
	}

	scope := "this terminal"
	if a.Sessions.Remembered() {
		scope = "remembered"
	}
	status := map[string]interface{}{
		"status": "logged in",
		"email":  s.User.Email,
		"name":   s.User.DisplayName(),
		"role":   s.User.Role,
		"scope":  scope,
		"home":   a.Guard.ResolveLanding(),
		"server": a.Client.BaseURL,
	}
	if exp, ok := session.ExpiresAt(s.Token); ok {
		status["expires"] = exp.Local().Format(time.RFC1123)
		if time.Now().After(exp) {
			status["status"] = "expired"
		}
	}

	return format.Print(status)
}

func init() {
	// Add login command flags
	loginCmd.Flags().StringP("email", "e", "", "Email address")
	loginCmd.Flags().StringP("password", "p", "", "Password")
	loginCmd.Flags().Bool("remember", true, "keep the session after this terminal closes")
	loginCmd.Flags().Bool("no-home", false, "do not open the home view after signing in")

	// Add subcommands
	AuthCmd.AddCommand(loginCmd)
	AuthCmd.AddCommand(logoutCmd)
	AuthCmd.AddCommand(statusCmd)

	app.RegisterView(guard.RouteLogin, loginView)
}
