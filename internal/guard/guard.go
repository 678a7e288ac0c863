package guard

import (
	"strings"

	"github.com/premiumbank/pbank/internal/models"
)

// Routes
const (
	RouteRoot           = "/"
	RouteLogin          = "/login"
	RouteRegister       = "/register"
	RouteForgotPassword = "/forgot-password"
	RouteVerifyOTP      = "/verify-otp"
	RouteResetPassword  = "/reset-password"
	RouteDashboard      = "/dashboard"
	RouteTransactions   = "/transactions"
	RouteTransfers      = "/pay-transfer/transfers"
	RouteBills          = "/pay-transfer/bills"
	RouteWire           = "/pay-transfer/wire"
	RouteAdmin          = "/admin"
)

// Access is the requirement a route places on the session
type Access int

const (
	AccessLanding Access = iota
	AccessPublic
	AccessAuthenticated
	AccessCustomer
	AccessAdmin
)

var routes = map[string]Access{
	RouteRoot:           AccessLanding,
	RouteLogin:          AccessPublic,
	RouteRegister:       AccessPublic,
	RouteForgotPassword: AccessPublic,
	RouteVerifyOTP:      AccessPublic,
	RouteResetPassword:  AccessPublic,
	RouteTransactions:   AccessAuthenticated,
	RouteDashboard:      AccessCustomer,
	RouteTransfers:      AccessCustomer,
	RouteBills:          AccessCustomer,
	RouteWire:           AccessCustomer,
	RouteAdmin:          AccessAdmin,
}

// maxHops bounds redirect chains; the table never needs more than two.
const maxHops = 4

// AccessOf returns the requirement of route; unknown routes behave like "/".
func AccessOf(route string) Access {
	if access, ok := routes[normalize(route)]; ok {
		return access
	}
	return AccessLanding
}

// Sessions is the view of the session store the guard needs
type Sessions interface {
	Get() (*models.Session, bool)
	Clear() error
}

// Navigator moves the user to another route
type Navigator interface {
	Navigate(route string)
}

// State is the authentication state derived from the persisted session
type State struct {
	Authenticated bool
	IsAdmin       bool
}

// Decision is the outcome of a guard check: the route to render, and whether
// that differs from the one requested.
type Decision struct {
	Route    string
	Redirect bool
}

func render(route string) Decision {
	return Decision{Route: route}
}

func redirect(route string) Decision {
	return Decision{Route: route, Redirect: true}
}

// Guard decides which view a route may render for the current session
type Guard struct {
	sessions Sessions
}

// New creates a guard over the session store
func New(sessions Sessions) *Guard {
	return &Guard{sessions: sessions}
}

// ResolveSession reads the persisted session. Missing or malformed data means logged out.
func (g *Guard) ResolveSession() State {
	s, ok := g.sessions.Get()
	if !ok || s == nil || strings.TrimSpace(s.Token) == "" {
		return State{}
	}
	return State{Authenticated: true, IsAdmin: s.User.IsAdmin()}
}

// RequireAuthenticated renders route when a session exists, otherwise redirects to login
func (g *Guard) RequireAuthenticated(route string) Decision {
	if !g.ResolveSession().Authenticated {
		return redirect(RouteLogin)
	}
	return render(route)
}

// RequireCustomer is RequireAuthenticated for customer-only views; admins go to the admin view
func (g *Guard) RequireCustomer(route string) Decision {
	state := g.ResolveSession()
	switch {
	case !state.Authenticated:
		return redirect(RouteLogin)
	case state.IsAdmin:
		return redirect(RouteAdmin)
	default:
		return render(route)
	}
}

// RequireAdmin renders route for admins and sends everyone else to the default landing
func (g *Guard) RequireAdmin(route string) Decision {
	state := g.ResolveSession()
	if !state.Authenticated || !state.IsAdmin {
		return redirect(RouteDashboard)
	}
	return render(route)
}

// ResolveLanding returns where "/" leads for the current session
func (g *Guard) ResolveLanding() string {
	state := g.ResolveSession()
	switch {
	case !state.Authenticated:
		return RouteLogin
	case state.IsAdmin:
		return RouteAdmin
	default:
		return RouteDashboard
	}
}

// Resolve applies the route table and follows redirects until a route renders.
func (g *Guard) Resolve(route string) Decision {
	requested := normalize(route)
	current := requested
	for i := 0; i < maxHops; i++ {
		d := g.check(current)
		if !d.Redirect {
			return Decision{Route: current, Redirect: current != requested}
		}
		current = d.Route
	}
	return redirect(RouteLogin)
}

func (g *Guard) check(route string) Decision {
	switch AccessOf(route) {
	case AccessPublic:
		return render(route)
	case AccessAuthenticated:
		return g.RequireAuthenticated(route)
	case AccessCustomer:
		return g.RequireCustomer(route)
	case AccessAdmin:
		return g.RequireAdmin(route)
	default:
		return redirect(g.ResolveLanding())
	}
}

func normalize(route string) string {
	r := strings.TrimSpace(route)
	if r == "" {
		return RouteRoot
	}
	if !strings.HasPrefix(r, "/") {
		r = "/" + r
	}
	if r = strings.TrimRight(r, "/"); r == "" {
		return RouteRoot
	}
	return r
}
