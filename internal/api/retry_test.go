package api

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/premiumbank/pbank/internal/models"
)

// flakyDoer fails the first failures calls with a transport error
type flakyDoer struct {
	failures int
	calls    int
	bodies   []string
}

func (f *flakyDoer) Do(req *http.Request) (*http.Response, error) {
	f.calls++
	if req.Body != nil {
		data, _ := io.ReadAll(req.Body)
		f.bodies = append(f.bodies, string(data))
	}
	if f.calls <= f.failures {
		return nil, errors.New("connection refused")
	}
	return &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(strings.NewReader(`[]`)),
		Header:     make(http.Header),
	}, nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func clientWithDoer(next Doer, attempts int) *Client {
	return &Client{
		BaseURL:    "http://bank.test/api",
		HTTPClient: NewRetryDoer(next, attempts, time.Millisecond, quietLogger()),
		tokens:     staticTokens("t1"),
		logger:     quietLogger(),
	}
}

func TestRetry_GetRecoversFromTransportFailure(t *testing.T) {
	doer := &flakyDoer{failures: 2}
	client := clientWithDoer(doer, 2)

	if _, err := client.ListAccounts(context.Background()); err != nil {
		t.Fatalf("ListAccounts returned error: %v", err)
	}
	if doer.calls != 3 {
		t.Fatalf("calls = %d, want 3", doer.calls)
	}
}

func TestRetry_GivesUpAfterAttempts(t *testing.T) {
	doer := &flakyDoer{failures: 5}
	client := clientWithDoer(doer, 2)

	if _, err := client.ListAccounts(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if doer.calls != 3 {
		t.Fatalf("calls = %d, want 3", doer.calls)
	}
}

func TestRetry_LoginResendsBody(t *testing.T) {
	doer := &flakyDoer{failures: 1}
	client := clientWithDoer(doer, 2)

	// The stub returns [] which is not a login response; only the resend matters here.
	_, _ = client.Login(context.Background(), "a@b.com", "secret1")
	if doer.calls != 2 {
		t.Fatalf("calls = %d, want 2", doer.calls)
	}
	if len(doer.bodies) != 2 || doer.bodies[0] != doer.bodies[1] || doer.bodies[1] == "" {
		t.Fatalf("bodies = %q", doer.bodies)
	}
}

func TestRetry_WireNeverRetried(t *testing.T) {
	doer := &flakyDoer{failures: 1}
	client := clientWithDoer(doer, 2)

	if err := client.ConfirmWire(context.Background(), models.WireConfirmRequest{OTP: "000111", RequestID: "r1"}); err == nil {
		t.Fatal("expected transport error")
	}
	if doer.calls != 1 {
		t.Fatalf("calls = %d, want 1", doer.calls)
	}
}

func TestRetry_DisabledWithZeroAttempts(t *testing.T) {
	doer := &flakyDoer{failures: 1}
	client := clientWithDoer(doer, 0)

	if _, err := client.ListAccounts(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if doer.calls != 1 {
		t.Fatalf("calls = %d, want 1", doer.calls)
	}
}
