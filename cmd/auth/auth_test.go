package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/premiumbank/pbank/internal/app"
	"github.com/premiumbank/pbank/internal/config"
	"github.com/premiumbank/pbank/internal/format"
	"github.com/premiumbank/pbank/internal/models"
	"github.com/premiumbank/pbank/internal/session"
	"github.com/premiumbank/pbank/internal/utils"
)

// setupApp installs an App talking to handler with in-memory session scopes
func setupApp(t *testing.T, handler http.HandlerFunc) (*app.App, *session.MemoryStorage, *session.MemoryStorage) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	var out bytes.Buffer
	prevOut := format.Stdout
	format.Stdout = &out
	t.Cleanup(func() { format.Stdout = prevOut })

	local, scoped := session.NewMemoryStorage(), session.NewMemoryStorage()
	cfg := &config.Config{Server: config.ServerConfig{URL: srv.URL}}
	a := app.New(cfg, session.NewManager(local, scoped), slog.New(slog.NewTextHandler(io.Discard, nil)))
	app.Init(a)
	return a, local, scoped
}

func loginHandler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/login" {
			http.NotFound(w, r)
			return
		}
		var req models.LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode login: %v", err)
		}
		if req.Email != "jane@bank.com" || req.Password != "pw" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"Invalid credentials"}`))
			return
		}
		_, _ = w.Write([]byte(`{"token":"t1","user":{"id":"u1","email":"jane@bank.com","role":"customer"}}`))
	}
}

func TestLogin_RememberStoresLocally(t *testing.T) {
	a, local, scoped := setupApp(t, loginHandler(t))

	if err := login(context.Background(), " Jane@Bank.com ", "pw", true); err != nil {
		t.Fatalf("login: %v", err)
	}
	if token, ok := local.Get(session.KeyToken); !ok || token != "t1" {
		t.Fatalf("local token = %q, %v", token, ok)
	}
	if _, ok := scoped.Get(session.KeyToken); ok {
		t.Error("terminal scope should be empty")
	}
	if !a.Sessions.Remembered() {
		t.Error("expected remembered session")
	}
	if got := a.Guard.ResolveLanding(); got != "/dashboard" {
		t.Errorf("landing = %q", got)
	}
}

func TestLogin_WithoutRememberStoresPerTerminal(t *testing.T) {
	a, local, _ := setupApp(t, loginHandler(t))

	if err := login(context.Background(), "jane@bank.com", "pw", false); err != nil {
		t.Fatalf("login: %v", err)
	}
	if _, ok := local.Get(session.KeyToken); ok {
		t.Error("remembered scope should be empty")
	}
	if a.Sessions.Remembered() || a.Sessions.Token() != "t1" {
		t.Errorf("remembered = %v, token = %q", a.Sessions.Remembered(), a.Sessions.Token())
	}
}

func TestLogin_Rejected(t *testing.T) {
	a, _, _ := setupApp(t, loginHandler(t))

	err := login(context.Background(), "jane@bank.com", "wrong", true)
	if !utils.IsAuthError(err) {
		t.Fatalf("expected auth error, got %v", err)
	}
	if got := utils.MessageOf(err, ""); got != "Invalid credentials" {
		t.Errorf("message = %q", got)
	}
	if _, ok := a.Sessions.Get(); ok {
		t.Error("no session expected after a rejected login")
	}
}

func TestLogin_ValidatesBeforeCalling(t *testing.T) {
	called := false
	setupApp(t, func(w http.ResponseWriter, r *http.Request) { called = true })

	for _, email := range []string{"not-an-email", "Jane <jane@bank.com>"} {
		if err := login(context.Background(), email, "pw", true); !utils.IsValidationError(err) {
			t.Errorf("login(%q): expected validation error, got %v", email, err)
		}
	}
	if err := login(context.Background(), "jane@bank.com", " ", true); !utils.IsValidationError(err) {
		t.Errorf("expected validation error, got %v", err)
	}
	if called {
		t.Error("no request expected for invalid input")
	}
}

func TestResetPasswordRules(t *testing.T) {
	var body models.ResetPasswordRequest
	setupApp(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&body)
		_, _ = w.Write([]byte(`{"message":"ok"}`))
	})
	ctx := context.Background()

	if err := resetPassword(ctx, "jane@bank.com", "", "secret1", "secret1"); utils.MessageOf(err, "") != "Verify the reset code first." {
		t.Errorf("missing code: %v", err)
	}
	if err := resetPassword(ctx, "jane@bank.com", "123456", "abc", "abc"); utils.MessageOf(err, "") != "Password must be at least 6 characters." {
		t.Errorf("short password: %v", err)
	}
	if err := resetPassword(ctx, "jane@bank.com", "123456", "secret1", "secret2"); utils.MessageOf(err, "") != "Passwords do not match." {
		t.Errorf("mismatch: %v", err)
	}

	setRecovery("jane@bank.com", "123456")
	if err := resetPassword(ctx, "jane@bank.com", " 123456 ", "secret1", "secret1"); err != nil {
		t.Fatalf("resetPassword: %v", err)
	}
	if body.OTP != "123456" || body.NewPassword != "secret1" {
		t.Errorf("request = %+v", body)
	}
	if email, otp := getRecovery(); email != "" || otp != "" {
		t.Errorf("recovery state not cleared: %q %q", email, otp)
	}
}
