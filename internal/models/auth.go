package models

import "strings"

// RoleAdmin is the role name the backend assigns to bank staff
const RoleAdmin = "admin"

// User is the profile returned by the backend at login
type User struct {
	ID       string `json:"id" yaml:"id"`
	Email    string `json:"email" yaml:"email"`
	Role     string `json:"role" yaml:"role"`
	FullName string `json:"fullName,omitempty" yaml:"full_name,omitempty"`
}

// IsAdmin reports whether the user carries the admin role (case-insensitive)
func (u User) IsAdmin() bool {
	return strings.EqualFold(strings.TrimSpace(u.Role), RoleAdmin)
}

// DisplayName returns the full name, falling back to a generic label
func (u User) DisplayName() string {
	if name := strings.TrimSpace(u.FullName); name != "" {
		return name
	}
	return "Customer"
}

// Session is the locally cached proof of authentication
type Session struct {
	Token string `json:"token" yaml:"token"`
	User  User   `json:"user" yaml:"user"`
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse represents a login response
type LoginResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// ForgotPasswordRequest asks the backend to email a password-reset OTP
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// VerifyOTPRequest checks a password-reset OTP
type VerifyOTPRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

// ResetPasswordRequest sets a new password using a verified OTP
type ResetPasswordRequest struct {
	Email       string `json:"email"`
	OTP         string `json:"otp"`
	NewPassword string `json:"newPassword"`
}
