package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/premiumbank/pbank/internal/models"
	"github.com/premiumbank/pbank/internal/utils"
)

type staticTokens string

func (s staticTokens) Token() string { return string(s) }

func newTestClient(t *testing.T, handler http.HandlerFunc, token string) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, staticTokens(token), Options{})
}

func TestNormalizeBaseURL(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"https://bank.example.com", "https://bank.example.com/api"},
		{"https://bank.example.com/", "https://bank.example.com/api"},
		{"https://bank.example.com/api", "https://bank.example.com/api"},
		{"https://bank.example.com/api///", "https://bank.example.com/api"},
		{"  http://localhost:5000  ", "http://localhost:5000/api"},
	}
	for _, tt := range tests {
		if got := NormalizeBaseURL(tt.raw); got != tt.want {
			t.Errorf("NormalizeBaseURL(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestLogin_NormalizesEmailWithoutBearer(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/login" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "" {
			t.Errorf("auth endpoint received Authorization %q", got)
		}
		if r.Header.Get("X-Request-ID") == "" {
			t.Error("missing X-Request-ID")
		}
		var req models.LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if req.Email != "a@b.com" || req.Password != "secret1" {
			t.Errorf("login body = %+v", req)
		}
		_, _ = w.Write([]byte(`{"token":"t1","user":{"id":"u1","email":"a@b.com","role":"customer"}}`))
	}, "stale-token")

	session, err := client.Login(context.Background(), "  A@B.com ", "secret1")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if session.Token != "t1" || session.User.Email != "a@b.com" {
		t.Fatalf("session = %+v", session)
	}
}

func TestLogin_MissingUser(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"token":"t1"}`))
	}, "")

	_, err := client.Login(context.Background(), "a@b.com", "secret1")
	if !errors.Is(err, ErrIncompleteLogin) {
		t.Fatalf("expected ErrIncompleteLogin, got %v", err)
	}
}

func TestBearerAttachedOutsideAuth(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer t1" {
			t.Errorf("Authorization = %q", got)
		}
		_, _ = w.Write([]byte(`[{"_id":"a1","type":"chequing","accountNumber":"0001","balance":12.5}]`))
	}, "t1")

	accounts, err := client.ListAccounts(context.Background())
	if err != nil {
		t.Fatalf("ListAccounts returned error: %v", err)
	}
	if len(accounts) != 1 || accounts[0].ID != "a1" || accounts[0].Balance.String() != "12.5" {
		t.Fatalf("accounts = %+v", accounts)
	}
}

func TestServerMessageSurfaced(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"Insufficient funds"}`))
	}, "t1")

	err := client.Withdraw(context.Background(), models.AmountRequest{AccountID: "a1", Amount: "10"})
	if err == nil {
		t.Fatal("expected error")
	}
	if got := utils.MessageOf(err, "Transfer failed."); got != "Insufficient funds" {
		t.Fatalf("message = %q", got)
	}
}

func TestUnauthorizedIsAuthError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}, "t1")

	_, err := client.ListAccounts(context.Background())
	if !utils.IsAuthError(err) {
		t.Fatalf("expected auth error, got %v", err)
	}
}

func TestUnexpectedShape(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"accounts":[]}`))
	}, "t1")

	_, err := client.ListAccounts(context.Background())
	if !errors.Is(err, ErrUnexpectedResponse) {
		t.Fatalf("expected ErrUnexpectedResponse, got %v", err)
	}
}

func TestAdminTransactionsQuery(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("page") != "2" || q.Get("limit") != "20" || q.Get("search") != "rent" ||
			q.Get("type") != "wire" || q.Get("direction") != "debit" {
			t.Errorf("query = %v", q)
		}
		if q.Has("accountId") {
			t.Error("empty accountId should be omitted")
		}
		_, _ = w.Write([]byte(`{"items":[{"_id":"t1","type":"wire","amount":"5.00"}],"totalPages":3}`))
	}, "t1")

	page, err := client.AdminListTransactions(context.Background(), models.TransactionFilter{
		Page: 2, Limit: AdminTransactionsPageSize, Search: "rent", Type: "wire", Direction: "debit",
	})
	if err != nil {
		t.Fatalf("AdminListTransactions returned error: %v", err)
	}
	if page.TotalPages != 3 || len(page.Items) != 1 {
		t.Fatalf("page = %+v", page)
	}
}

func TestRequestWireOTPPayload(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/transactions/wire/request-otp" || r.Method != http.MethodPost {
			t.Errorf("%s %s", r.Method, r.URL.Path)
		}
		body, _ := io.ReadAll(r.Body)
		var got map[string]interface{}
		if err := json.Unmarshal(body, &got); err != nil {
			t.Fatalf("decode: %v", err)
		}
		for _, key := range []string{"fromAccountId", "routingNumber", "amount", "beneficiaryName",
			"bankName", "bankAccountNumber", "description"} {
			if _, ok := got[key]; !ok {
				t.Errorf("payload missing %s: %s", key, body)
			}
		}
		if got["amount"] != 100.0 {
			t.Errorf("amount = %v, want numeric 100", got["amount"])
		}
		_, _ = w.Write([]byte(`{"requestId":"r1"}`))
	}, "t1")

	resp, err := client.RequestWireOTP(context.Background(), models.WireOTPRequest{
		FromAccountID:     "a1",
		RoutingNumber:     "123456789",
		Amount:            "100",
		BeneficiaryName:   "Jane",
		BankName:          "First",
		BankAccountNumber: "555",
		Description:       "Wire transfer",
	})
	if err != nil {
		t.Fatalf("RequestWireOTP returned error: %v", err)
	}
	if resp.Handle() != "r1" {
		t.Fatalf("handle = %q", resp.Handle())
	}
}

func TestSetUserStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch || r.URL.Path != "/api/admin/users/u1/status" {
			t.Errorf("%s %s", r.Method, r.URL.Path)
		}
		var req models.UserStatusRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Status != models.StatusDisabled {
			t.Errorf("status = %q", req.Status)
		}
		w.WriteHeader(http.StatusNoContent)
	}, "t1")

	if err := client.SetUserStatus(context.Background(), "u1", models.StatusDisabled); err != nil {
		t.Fatalf("SetUserStatus returned error: %v", err)
	}
}

func TestRequestWireOTPNumericHandle(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"message":"OTP sent","id":12345}`))
	}, "t1")

	resp, err := client.RequestWireOTP(context.Background(), models.WireOTPRequest{FromAccountID: "a1", Amount: "5"})
	if err != nil {
		t.Fatalf("RequestWireOTP returned error: %v", err)
	}
	if got := resp.Handle(); got != "12345" {
		t.Errorf("handle = %q, want 12345", got)
	}
}
