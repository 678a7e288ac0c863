package auth

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/premiumbank/pbank/internal/app"
	"github.com/premiumbank/pbank/internal/format"
	"github.com/premiumbank/pbank/internal/guard"
	"github.com/premiumbank/pbank/internal/utils"
)

// recovery carries the email and code between the password recovery views
var recovery struct {
	sync.Mutex
	email string
	otp   string
}

func setRecovery(email, otp string) {
	recovery.Lock()
	defer recovery.Unlock()
	recovery.email, recovery.otp = email, otp
}

func getRecovery() (string, string) {
	recovery.Lock()
	defer recovery.Unlock()
	return recovery.email, recovery.otp
}

// forgotPasswordCmd requests a password reset code
var forgotPasswordCmd = &cobra.Command{
	Use:   "forgot-password",
	Short: "Email a password reset code",
	Long: `Ask the bank to email a one-time code for resetting your password.

Without --email the whole recovery flow runs interactively.`,
	RunE: runForgotPassword,
}

// verifyOTPCmd checks a reset code
var verifyOTPCmd = &cobra.Command{
	Use:   "verify-otp",
	Short: "Check a password reset code",
	RunE:  runVerifyOTP,
}

// resetPasswordCmd sets a new password
var resetPasswordCmd = &cobra.Command{
	Use:   "reset-password",
	Short: "Set a new password with a reset code",
	RunE:  runResetPassword,
}

func runForgotPassword(cmd *cobra.Command, args []string) error {
	email, _ := cmd.Flags().GetString("email")
	if email == "" {
		return app.Get().Render(cmd.Context(), guard.RouteForgotPassword)
	}
	return sendResetCode(cmd.Context(), email)
}

func runVerifyOTP(cmd *cobra.Command, args []string) error {
	email, _ := cmd.Flags().GetString("email")
	otp, _ := cmd.Flags().GetString("otp")
	return verifyResetCode(cmd.Context(), email, otp)
}

func runResetPassword(cmd *cobra.Command, args []string) error {
	email, _ := cmd.Flags().GetString("email")
	otp, _ := cmd.Flags().GetString("otp")

	a := app.Get()
	ctx := cmd.Context()
	password, err := a.Prompt.Password(ctx, "New password")
	if err != nil {
		return err
	}
	confirm, err := a.Prompt.Password(ctx, "Confirm new password")
	if err != nil {
		return err
	}
	return resetPassword(ctx, email, otp, password, confirm)
}

func sendResetCode(ctx context.Context, email string) error {
	if err := utils.ValidateEmail(email); err != nil {
		return err
	}
	if err := app.Get().Client.ForgotPassword(ctx, email); err != nil {
		return fmt.Errorf("failed to send reset code: %w", err)
	}
	setRecovery(utils.NormalizeEmail(email), "")
	format.PrintSuccess("OTP sent. Check your email (Inbox/Spam).")
	return nil
}

func verifyResetCode(ctx context.Context, email, otp string) error {
	if err := utils.ValidateEmail(email); err != nil {
		return err
	}
	otp = strings.TrimSpace(otp)
	if err := utils.ValidateRequired(otp, "otp", "Enter the code from your email."); err != nil {
		return err
	}
	if err := app.Get().Client.VerifyOTP(ctx, email, otp); err != nil {
		return fmt.Errorf("OTP verification failed: %w", err)
	}
	setRecovery(utils.NormalizeEmail(email), otp)
	format.PrintSuccess("OTP verified.")
	return nil
}

func resetPassword(ctx context.Context, email, otp, password, confirm string) error {
	if email == "" || strings.TrimSpace(otp) == "" {
		return utils.NewValidationError("otp", "Verify the reset code first.")
	}
	if err := utils.ValidatePassword(password, confirm); err != nil {
		return err
	}
	if err := app.Get().Client.ResetPassword(ctx, email, strings.TrimSpace(otp), password); err != nil {
		return fmt.Errorf("password reset failed: %w", err)
	}
	setRecovery("", "")
	format.PrintSuccess("Password reset successful.")
	return nil
}

func forgotPasswordView(ctx context.Context) error {
	a := app.Get()
	email, err := a.Prompt.Line(ctx, "Email")
	if err != nil {
		return err
	}
	if err := sendResetCode(ctx, email); err != nil {
		return err
	}
	a.Navigate(guard.RouteVerifyOTP)
	return nil
}

func verifyOTPView(ctx context.Context) error {
	a := app.Get()
	email, _ := getRecovery()
	if email == "" {
		a.Navigate(guard.RouteForgotPassword)
		return nil
	}

	for {
		otp, err := a.Prompt.Line(ctx, "Code (leave empty to resend)")
		if err != nil {
			return err
		}
		if otp == "" {
			if err := sendResetCode(ctx, email); err != nil {
				format.PrintError(utils.MessageOf(err, "Failed to resend OTP"))
			}
			continue
		}
		if err := verifyResetCode(ctx, email, otp); err != nil {
			format.PrintError(utils.MessageOf(err, "OTP verification failed"))
			continue
		}
		a.Navigate(guard.RouteResetPassword)
		return nil
	}
}

func resetPasswordView(ctx context.Context) error {
	a := app.Get()
	email, otp := getRecovery()
	if email == "" || otp == "" {
		a.Navigate(guard.RouteForgotPassword)
		return nil
	}

	for {
		password, err := a.Prompt.Password(ctx, "New password")
		if err != nil {
			return err
		}
		confirm, err := a.Prompt.Password(ctx, "Confirm new password")
		if err != nil {
			return err
		}
		err = resetPassword(ctx, email, otp, password, confirm)
		if err == nil {
			a.Navigate(guard.RouteLogin)
			return nil
		}
		if !utils.IsValidationError(err) {
			return err
		}
		format.PrintError(utils.MessageOf(err, ""))
	}
}

func init() {
	forgotPasswordCmd.Flags().StringP("email", "e", "", "Email address")

	verifyOTPCmd.Flags().StringP("email", "e", "", "Email address")
	verifyOTPCmd.Flags().String("otp", "", "Code from the reset email")
	verifyOTPCmd.MarkFlagRequired("email")
	verifyOTPCmd.MarkFlagRequired("otp")

	resetPasswordCmd.Flags().StringP("email", "e", "", "Email address")
	resetPasswordCmd.Flags().String("otp", "", "Verified code from the reset email")
	resetPasswordCmd.MarkFlagRequired("email")
	resetPasswordCmd.MarkFlagRequired("otp")

	AuthCmd.AddCommand(forgotPasswordCmd)
	AuthCmd.AddCommand(verifyOTPCmd)
	AuthCmd.AddCommand(resetPasswordCmd)

	app.RegisterView(guard.RouteForgotPassword, forgotPasswordView)
	app.RegisterView(guard.RouteVerifyOTP, verifyOTPView)
	app.RegisterView(guard.RouteResetPassword, resetPasswordView)
}
