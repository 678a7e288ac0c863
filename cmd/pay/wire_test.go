package pay

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/premiumbank/pbank/internal/app"
	"github.com/premiumbank/pbank/internal/config"
	"github.com/premiumbank/pbank/internal/format"
	"github.com/premiumbank/pbank/internal/guard"
	"github.com/premiumbank/pbank/internal/models"
	"github.com/premiumbank/pbank/internal/prompt"
	"github.com/premiumbank/pbank/internal/session"
)

// wireBackend answers the calls of the wire flow. Replies are consumed in order.
type wireBackend struct {
	otpReplies     []reply
	confirmReplies []reply
	otpBodies      []models.WireOTPRequest
	confirmBodies  []models.WireConfirmRequest
}

type reply struct {
	status int
	body   string
}

func (b *wireBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/api/accounts":
		_, _ = w.Write([]byte(`[{"_id":"acc1","type":"chequing","accountNumber":"12340300","balance":500}]`))
	case "/api/transactions/wire/request-otp":
		var req models.WireOTPRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		b.otpBodies = append(b.otpBodies, req)
		b.otpReplies = next(w, b.otpReplies)
	case "/api/transactions/wire/confirm":
		var req models.WireConfirmRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		b.confirmBodies = append(b.confirmBodies, req)
		b.confirmReplies = next(w, b.confirmReplies)
	default:
		http.NotFound(w, r)
	}
}

func next(w http.ResponseWriter, replies []reply) []reply {
	if len(replies) == 0 {
		w.WriteHeader(http.StatusInternalServerError)
		return nil
	}
	w.WriteHeader(replies[0].status)
	_, _ = w.Write([]byte(replies[0].body))
	return replies[1:]
}

// wireRun holds what the user saw during one scripted run
type wireRun struct {
	prompts bytes.Buffer
	stdout  bytes.Buffer
	stderr  bytes.Buffer
}

// startWireApp signs a customer in against backend and answers prompts from lines
func startWireApp(t *testing.T, backend http.Handler, lines ...string) (*app.App, *wireRun) {
	t.Helper()
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	run := &wireRun{}
	prevOut, prevErr := format.Stdout, format.Stderr
	format.Stdout, format.Stderr = &run.stdout, &run.stderr
	t.Cleanup(func() { format.Stdout, format.Stderr = prevOut, prevErr })

	sessions := session.NewManager(session.NewMemoryStorage(), session.NewMemoryStorage())
	err := sessions.Set(models.Session{Token: "t1", User: models.User{Email: "jane@bank.com", Role: "customer"}}, false)
	if err != nil {
		t.Fatalf("Set: %v", err)
	}

	cfg := &config.Config{Server: config.ServerConfig{URL: srv.URL}}
	a := app.New(cfg, sessions, slog.New(slog.NewTextHandler(io.Discard, nil)))
	script := strings.Join(lines, "\n") + "\n"
	a.Prompt = prompt.New(strings.NewReader(script), &run.prompts, nil)
	app.Init(a)
	return a, run
}

// recordDashboard replaces the dashboard view and reports whether it was shown
func recordDashboard() *bool {
	shown := new(bool)
	app.RegisterView(guard.RouteDashboard, func(ctx context.Context) error {
		*shown = true
		return nil
	})
	return shown
}

// form answers for an empty draft with a single account
var formAnswers = []string{
	"1",           // from account
	"Jane Doe",    // beneficiary
	"Bank X",      // bank
	"555111",      // account number
	"12 345-6789", // routing number
	"100",         // amount
	"",            // description, default
}

func TestWireFlow_RequestFailureKeepsDraft(t *testing.T) {
	backend := &wireBackend{otpReplies: []reply{{http.StatusBadRequest, `{"message":"Insufficient funds"}`}}}
	answers := append(append([]string{}, formAnswers...),
		"y", // continue past the bank notice
		"y", // edit and try again
		"1", "", "", "", "", "", "", // keep every field
		"n", // decline the notice this time
	)
	a, run := startWireApp(t, backend, answers...)
	dashboard := recordDashboard()

	if err := a.Render(context.Background(), guard.RouteWire); err != nil {
		t.Fatalf("Render: %v", err)
	}

	if !strings.Contains(run.stderr.String(), "Insufficient funds") {
		t.Errorf("server message not shown, stderr = %q", run.stderr.String())
	}
	for _, hint := range []string{"[Jane Doe]", "[Bank X]", "[555111]", "[12 345-6789]", "[100]", "[Wire transfer]"} {
		if !strings.Contains(run.prompts.String(), hint) {
			t.Errorf("re-edit did not offer %s, prompts = %q", hint, run.prompts.String())
		}
	}
	if len(backend.otpBodies) != 1 {
		t.Fatalf("request-otp calls = %d, want 1", len(backend.otpBodies))
	}
	if got := backend.otpBodies[0]; got.RoutingNumber != "123456789" || got.FromAccountID != "acc1" || got.Description != "Wire transfer" {
		t.Errorf("request = %+v", got)
	}
	if len(backend.confirmBodies) != 0 {
		t.Errorf("confirm called %d times", len(backend.confirmBodies))
	}
	if *dashboard {
		t.Error("dashboard shown for an unfinished transfer")
	}
}

func TestWireFlow_ConfirmRetryWithKeptCode(t *testing.T) {
	backend := &wireBackend{
		otpReplies: []reply{{http.StatusOK, `{"requestId":"r1"}`}},
		confirmReplies: []reply{
			{http.StatusBadRequest, `{"message":"Invalid OTP"}`},
			{http.StatusOK, `{"message":"ok"}`},
		},
	}
	answers := append(append([]string{}, formAnswers...),
		"y",      // continue past the bank notice
		"000111", // approval code
		"y",      // send
		"",       // keep the code after the failure
		"y",      // send again
	)
	a, run := startWireApp(t, backend, answers...)
	dashboard := recordDashboard()

	if err := a.Render(context.Background(), guard.RouteWire); err != nil {
		t.Fatalf("Render: %v", err)
	}

	if !strings.Contains(run.stderr.String(), "Invalid OTP") {
		t.Errorf("confirm failure not shown, stderr = %q", run.stderr.String())
	}
	if !strings.Contains(run.prompts.String(), "[000111]") {
		t.Errorf("kept code not offered, prompts = %q", run.prompts.String())
	}
	want := models.WireConfirmRequest{OTP: "000111", RequestID: "r1", OTPID: "r1"}
	if len(backend.confirmBodies) != 2 || backend.confirmBodies[0] != want || backend.confirmBodies[1] != want {
		t.Fatalf("confirm bodies = %+v, want twice %+v", backend.confirmBodies, want)
	}
	if len(backend.otpBodies) != 1 {
		t.Errorf("request-otp calls = %d, want 1", len(backend.otpBodies))
	}
	if !strings.Contains(run.stdout.String(), "Wire transfer successful") {
		t.Errorf("success not shown, stdout = %q", run.stdout.String())
	}
	if !*dashboard {
		t.Error("expected the dashboard after a successful transfer")
	}
}

func TestWireFlow_CancelAtCode(t *testing.T) {
	backend := &wireBackend{otpReplies: []reply{{http.StatusOK, `{"otpId":"o1"}`}}}
	answers := append(append([]string{}, formAnswers...), "y", "CANCEL")
	a, run := startWireApp(t, backend, answers...)
	dashboard := recordDashboard()

	if err := a.Render(context.Background(), guard.RouteWire); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if len(backend.confirmBodies) != 0 {
		t.Errorf("confirm called after cancel")
	}
	if !strings.Contains(run.stdout.String(), "Wire transfer cancelled") {
		t.Errorf("stdout = %q", run.stdout.String())
	}
	if *dashboard {
		t.Error("dashboard shown after cancel")
	}
}

func TestWireFlow_EmptyCodeAsksAgain(t *testing.T) {
	backend := &wireBackend{
		otpReplies:     []reply{{http.StatusOK, `{"requestId":"r1"}`}},
		confirmReplies: []reply{{http.StatusOK, `{}`}},
	}
	answers := append(append([]string{}, formAnswers...), "y", "", "000111", "y")
	a, run := startWireApp(t, backend, answers...)
	recordDashboard()

	if err := a.Render(context.Background(), guard.RouteWire); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(run.stderr.String(), "Enter approval code (OTP).") {
		t.Errorf("stderr = %q", run.stderr.String())
	}
	if len(backend.confirmBodies) != 1 || backend.confirmBodies[0].OTP != "000111" {
		t.Errorf("confirm bodies = %+v", backend.confirmBodies)
	}
}
