package guard

import (
	"testing"

	"github.com/premiumbank/pbank/internal/models"
)

// stubSessions is an in-memory session store
type stubSessions struct {
	session *models.Session
	clears  int
}

func (s *stubSessions) Get() (*models.Session, bool) {
	if s.session == nil {
		return nil, false
	}
	return s.session, true
}

func (s *stubSessions) Clear() error {
	s.clears++
	s.session = nil
	return nil
}

func customer() *stubSessions {
	return &stubSessions{session: &models.Session{Token: "t1", User: models.User{Email: "c@b.com", Role: "customer"}}}
}

func admin() *stubSessions {
	return &stubSessions{session: &models.Session{Token: "t2", User: models.User{Email: "a@b.com", Role: "ADMIN"}}}
}

func TestResolveSession(t *testing.T) {
	if st := New(&stubSessions{}).ResolveSession(); st.Authenticated || st.IsAdmin {
		t.Errorf("empty store = %+v", st)
	}
	if st := New(customer()).ResolveSession(); !st.Authenticated || st.IsAdmin {
		t.Errorf("customer = %+v", st)
	}
	if st := New(admin()).ResolveSession(); !st.Authenticated || !st.IsAdmin {
		t.Errorf("admin = %+v", st)
	}
	blank := &stubSessions{session: &models.Session{Token: "  "}}
	if st := New(blank).ResolveSession(); st.Authenticated {
		t.Errorf("blank token = %+v", st)
	}
}

func TestRequireChecks(t *testing.T) {
	anon, cust, adm := New(&stubSessions{}), New(customer()), New(admin())

	tests := []struct {
		name string
		got  Decision
		want Decision
	}{
		{"anon authenticated", anon.RequireAuthenticated(RouteTransactions), Decision{RouteLogin, true}},
		{"customer authenticated", cust.RequireAuthenticated(RouteTransactions), Decision{RouteTransactions, false}},
		{"anon customer", anon.RequireCustomer(RouteDashboard), Decision{RouteLogin, true}},
		{"admin customer", adm.RequireCustomer(RouteWire), Decision{RouteAdmin, true}},
		{"customer customer", cust.RequireCustomer(RouteWire), Decision{RouteWire, false}},
		{"anon admin", anon.RequireAdmin(RouteAdmin), Decision{RouteDashboard, true}},
		{"customer admin", cust.RequireAdmin(RouteAdmin), Decision{RouteDashboard, true}},
		{"admin admin", adm.RequireAdmin(RouteAdmin), Decision{RouteAdmin, false}},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s: got %+v, want %+v", tt.name, tt.got, tt.want)
		}
	}
}

func TestResolveLanding(t *testing.T) {
	if got := New(&stubSessions{}).ResolveLanding(); got != RouteLogin {
		t.Errorf("anon landing = %q", got)
	}
	if got := New(customer()).ResolveLanding(); got != RouteDashboard {
		t.Errorf("customer landing = %q", got)
	}
	if got := New(admin()).ResolveLanding(); got != RouteAdmin {
		t.Errorf("admin landing = %q", got)
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name     string
		sessions *stubSessions
		route    string
		want     Decision
	}{
		{"anon root", &stubSessions{}, "/", Decision{RouteLogin, true}},
		{"anon admin chains to login", &stubSessions{}, RouteAdmin, Decision{RouteLogin, true}},
		{"anon public", &stubSessions{}, RouteForgotPassword, Decision{RouteForgotPassword, false}},
		{"unknown route acts like root", customer(), "/nowhere", Decision{RouteDashboard, true}},
		{"customer to admin", customer(), RouteAdmin, Decision{RouteDashboard, true}},
		{"admin to dashboard", admin(), RouteDashboard, Decision{RouteAdmin, true}},
		{"admin transfer page", admin(), RouteTransfers, Decision{RouteAdmin, true}},
		{"admin transactions allowed", admin(), RouteTransactions, Decision{RouteTransactions, false}},
		{"trailing slash", customer(), "/dashboard/", Decision{RouteDashboard, false}},
		{"empty is root", admin(), "", Decision{RouteAdmin, true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := New(tt.sessions).Resolve(tt.route); got != tt.want {
				t.Errorf("Resolve(%q) = %+v, want %+v", tt.route, got, tt.want)
			}
		})
	}
}

func TestAdminNeverRendersCustomerViews(t *testing.T) {
	g := New(admin())
	for route, access := range routes {
		if access != AccessCustomer {
			continue
		}
		if d := g.Resolve(route); d.Route != RouteAdmin {
			t.Errorf("admin on %s rendered %s", route, d.Route)
		}
	}
}
