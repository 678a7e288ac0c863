package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/spf13/cobra"

	"github.com/premiumbank/pbank/internal/api"
	"github.com/premiumbank/pbank/internal/config"
	"github.com/premiumbank/pbank/internal/format"
	"github.com/premiumbank/pbank/internal/guard"
	"github.com/premiumbank/pbank/internal/prompt"
	"github.com/premiumbank/pbank/internal/session"
)

// RouteAnnotation is the cobra annotation naming the route a command belongs to
const RouteAnnotation = "route"

// maxRenders bounds view-to-view navigation within one command
const maxRenders = 8

var (
	// ErrNotLoggedIn is returned when a guarded command runs without a session
	ErrNotLoggedIn = errors.New("not logged in, run 'pbank auth login'")
	// ErrSessionEnded is returned when the session is cleared while a view is open
	ErrSessionEnded = errors.New("session ended after inactivity, run 'pbank auth login' to sign in again")
)

// View renders one route
type View func(ctx context.Context) error

var (
	viewsMu sync.RWMutex
	views   = make(map[string]View)
)

// RegisterView binds a view to a route; command packages call it from init
func RegisterView(route string, v View) {
	viewsMu.Lock()
	defer viewsMu.Unlock()
	views[route] = v
}

func lookupView(route string) (View, bool) {
	viewsMu.RLock()
	defer viewsMu.RUnlock()
	v, ok := views[route]
	return v, ok
}

// App holds the process-wide collaborators of a command run
type App struct {
	Config   *config.Config
	Sessions *session.Manager
	Client   *api.Client
	Guard    *guard.Guard
	Signals  *guard.Signals
	Prompt   *prompt.Prompter
	Logger   *slog.Logger

	mu      sync.Mutex
	pending string
}

// New wires an App from configuration and the two session scopes
func New(cfg *config.Config, sessions *session.Manager, logger *slog.Logger) *App {
	if logger == nil {
		logger = slog.Default()
	}
	signals := guard.NewSignals()

	return &App{
		Config:   cfg,
		Sessions: sessions,
		Client: api.NewClient(cfg.Server.URL, sessions, api.Options{
			Timeout:       cfg.Server.TimeoutDuration(),
			RetryAttempts: cfg.Server.RetryAttempts,
			RetryDelay:    cfg.Server.RetryDelayDuration(),
			Logger:        logger,
		}),
		Guard:   guard.New(sessions),
		Signals: signals,
		Prompt:  prompt.Stdio(func() { signals.Emit(guard.ActivityKeyDown) }),
		Logger:  logger,
	}
}

// NewDefault uses the config file for remembered sessions and a per-terminal file otherwise
func NewDefault(cfg *config.Config, logger *slog.Logger) *App {
	sessions := session.NewManager(config.NewAuthStorage(), session.NewFileStorage(session.ScopePath()))
	return New(cfg, sessions, logger)
}

var current *App

// Init installs the App used by commands
func Init(a *App) {
	current = a
}

// Get returns the App installed by Init
func Get() *App {
	if current == nil {
		panic("app not initialized")
	}
	return current
}

// Navigate records the route to render once the current view returns
func (a *App) Navigate(route string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.pending = route
}

func (a *App) takePending() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	route := a.pending
	a.pending = ""
	return route
}

// Render shows route through the guard and then follows any navigation the view requested
func (a *App) Render(ctx context.Context, route string) error {
	for i := 0; i < maxRenders; i++ {
		target, err := a.authorize(route)
		if err != nil {
			return err
		}

		view, ok := lookupView(target)
		if !ok {
			return fmt.Errorf("nothing to show for %s", target)
		}
		a.Logger.Debug("rendering view", "route", target)
		signedIn := a.Guard.ResolveSession().Authenticated
		next, err := a.afterView(signedIn, a.run(ctx, signedIn, view))
		if err != nil || next == "" {
			return err
		}
		route = next
	}
	return fmt.Errorf("too many redirects while showing %s", route)
}

// afterView returns the navigation requested by the view that just ended.
// Losing the session while the view was open ends the command.
func (a *App) afterView(signedIn bool, err error) (string, error) {
	next := a.takePending()
	if signedIn && next == guard.RouteLogin && !a.Guard.ResolveSession().Authenticated {
		return "", ErrSessionEnded
	}
	if err != nil {
		return "", err
	}
	return next, nil
}

// authorize resolves route to the route that may render. Guarded routes without
// a session fail instead of showing the login prompt.
func (a *App) authorize(route string) (string, error) {
	d := a.Guard.Resolve(route)
	if !d.Redirect {
		return d.Route, nil
	}
	if d.Route == guard.RouteLogin {
		switch guard.AccessOf(route) {
		case guard.AccessAuthenticated, guard.AccessCustomer, guard.AccessAdmin:
			return "", ErrNotLoggedIn
		}
		return d.Route, nil
	}
	if guard.AccessOf(route) != guard.AccessLanding {
		format.PrintWarning("%s is not available for this account, showing %s instead", route, d.Route)
	}
	return d.Route, nil
}

// Route builds the annotation map for a guarded command
func Route(route string) map[string]string {
	return map[string]string{RouteAnnotation: route}
}

// Guarded wraps a command so it only runs when the guard renders its route.
// Any other outcome shows the redirect target's view instead.
func Guarded(run func(cmd *cobra.Command, args []string) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a := Get()
		parent := cmd.Context()
		if parent == nil {
			parent = context.Background()
		}
		route := cmd.Annotations[RouteAnnotation]
		target, err := a.authorize(route)
		if err != nil {
			return err
		}
		if target != route {
			return a.Render(parent, target)
		}
		signedIn := a.Guard.ResolveSession().Authenticated
		next, err := a.afterView(signedIn, a.run(parent, signedIn, func(ctx context.Context) error {
			cmd.SetContext(ctx)
			defer cmd.SetContext(parent)
			return run(cmd, args)
		}))
		if err != nil || next == "" {
			return err
		}
		return a.Render(parent, next)
	}
}

// run shows one view. Signed-in views end when the user goes idle.
func (a *App) run(ctx context.Context, signedIn bool, view View) error {
	if !signedIn {
		return view(ctx)
	}
	ctx, stop := a.Idle(ctx)
	defer stop()
	return view(ctx)
}

// Idle returns a context that ends when the user has been inactive for the
// configured idle timeout. The session is cleared at that point. Call stop when done.
func (a *App) Idle(ctx context.Context) (context.Context, func()) {
	ctx, cancel := context.WithCancel(ctx)
	timer := a.Guard.StartInactivityTimer(a.Signals, a.Config.Session.IdleTimeoutDuration(), a)

	go func() {
		select {
		case <-timer.Expired():
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, func() {
		timer.Stop()
		cancel()
	}
}
