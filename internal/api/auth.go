package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/premiumbank/pbank/internal/models"
	"github.com/premiumbank/pbank/internal/utils"
)

// ErrIncompleteLogin is returned when the login response lacks the token or the user
var ErrIncompleteLogin = errors.New("Login response missing token/user")

// Login authenticates with email and password and returns the new session.
// The caller decides where the session is persisted.
func (c *Client) Login(ctx context.Context, email, password string) (*models.Session, error) {
	var resp models.LoginResponse
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/auth/login",
		body: models.LoginRequest{
			Email:    utils.NormalizeEmail(email),
			Password: password,
		},
		retry: true,
	}, &resp)
	if err != nil {
		return nil, err
	}

	if resp.Token == "" || resp.User == nil {
		return nil, ErrIncompleteLogin
	}

	return &models.Session{Token: resp.Token, User: *resp.User}, nil
}

// ForgotPassword asks the backend to email a password-reset OTP
func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	return c.do(ctx, request{
		method: http.MethodPost,
		path:   "/auth/forgot-password",
		body:   models.ForgotPasswordRequest{Email: utils.NormalizeEmail(email)},
	}, nil)
}

// VerifyOTP checks a password-reset OTP without consuming the reset
func (c *Client) VerifyOTP(ctx context.Context, email, otp string) error {
	return c.do(ctx, request{
		method: http.MethodPost,
		path:   "/auth/verify-otp",
		body:   models.VerifyOTPRequest{Email: utils.NormalizeEmail(email), OTP: otp},
	}, nil)
}

// ResetPassword sets a new password using a verified OTP
func (c *Client) ResetPassword(ctx context.Context, email, otp, newPassword string) error {
	return c.do(ctx, request{
		method: http.MethodPost,
		path:   "/auth/reset-password",
		body: models.ResetPasswordRequest{
			Email:       utils.NormalizeEmail(email),
			OTP:         otp,
			NewPassword: newPassword,
		},
	}, nil)
}
