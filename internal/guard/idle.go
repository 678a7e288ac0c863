package guard

import (
	"log/slog"
	"sync"
	"time"
)

// Activity is a kind of user input that counts as presence
type Activity string

const (
	ActivityPointerMove Activity = "mousemove"
	ActivityPointerDown Activity = "mousedown"
	ActivityKeyDown     Activity = "keydown"
	ActivityScroll      Activity = "scroll"
	ActivityTouchStart  Activity = "touchstart"
)

// Activities lists every kind that resets the inactivity countdown
var Activities = []Activity{
	ActivityPointerMove,
	ActivityPointerDown,
	ActivityKeyDown,
	ActivityScroll,
	ActivityTouchStart,
}

// ActivitySource delivers activity notifications. The returned func unsubscribes.
type ActivitySource interface {
	Subscribe(kind Activity, fn func()) (unsubscribe func())
}

// Signals is an in-process ActivitySource; prompts emit into it
type Signals struct {
	mu   sync.Mutex
	next int
	subs map[Activity]map[int]func()
}

// NewSignals returns an empty activity hub
func NewSignals() *Signals {
	return &Signals{subs: make(map[Activity]map[int]func())}
}

// Subscribe implements ActivitySource
func (s *Signals) Subscribe(kind Activity, fn func()) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.next
	s.next++
	if s.subs[kind] == nil {
		s.subs[kind] = make(map[int]func())
	}
	s.subs[kind][id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs[kind], id)
			s.mu.Unlock()
		})
	}
}

// Emit notifies the subscribers of kind. Callbacks run outside the lock.
func (s *Signals) Emit(kind Activity) {
	s.mu.Lock()
	fns := make([]func(), 0, len(s.subs[kind]))
	for _, fn := range s.subs[kind] {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// Subscribers returns the number of live subscriptions
func (s *Signals) Subscribers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, subs := range s.subs {
		n += len(subs)
	}
	return n
}

type stopper interface {
	Stop() bool
}

type afterFunc func(d time.Duration, f func()) stopper

func realAfterFunc(d time.Duration, f func()) stopper {
	return time.AfterFunc(d, f)
}

// IdleTimer ends the session after a period without activity.
// Expiry happens at most once; Stop is safe to call any number of times.
type IdleTimer struct {
	mu       sync.Mutex
	timeout  time.Duration
	after    afterFunc
	timer    stopper
	gen      uint64
	done     bool
	unsubs   []func()
	onExpire func()
	expired  chan struct{}
	once     sync.Once
}

// StartInactivityTimer begins the countdown. Any activity from src restarts it;
// on expiry the session is cleared and nav is sent to the login route.
// A non-positive timeout returns a timer that never fires.
func (g *Guard) StartInactivityTimer(src ActivitySource, timeout time.Duration, nav Navigator) *IdleTimer {
	return startIdleTimer(src, timeout, realAfterFunc, func() {
		if err := g.sessions.Clear(); err != nil {
			slog.Warn("failed to clear session on idle timeout", "error", err)
		}
		slog.Info("session ended after inactivity", "timeout", timeout)
		if nav != nil {
			nav.Navigate(RouteLogin)
		}
	})
}

func startIdleTimer(src ActivitySource, timeout time.Duration, after afterFunc, onExpire func()) *IdleTimer {
	t := &IdleTimer{
		timeout:  timeout,
		after:    after,
		onExpire: onExpire,
		expired:  make(chan struct{}),
	}
	if timeout <= 0 {
		t.done = true
		return t
	}

	if src != nil {
		for _, kind := range Activities {
			t.unsubs = append(t.unsubs, src.Subscribe(kind, t.reset))
		}
	}

	t.mu.Lock()
	t.arm()
	t.mu.Unlock()
	return t
}

// Expired is closed when the timer fires
func (t *IdleTimer) Expired() <-chan struct{} {
	return t.expired
}

// Stop cancels the countdown and drops every subscription
func (t *IdleTimer) Stop() {
	t.mu.Lock()
	t.done = true
	t.gen++
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	unsubs := t.unsubs
	t.unsubs = nil
	t.mu.Unlock()

	for _, unsub := range unsubs {
		unsub()
	}
}

func (t *IdleTimer) reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.done {
		return
	}
	t.arm()
}

// arm replaces the pending countdown; caller holds mu
func (t *IdleTimer) arm() {
	if t.timer != nil {
		t.timer.Stop()
	}
	t.gen++
	gen := t.gen
	t.timer = t.after(t.timeout, func() { t.fire(gen) })
}

func (t *IdleTimer) fire(gen uint64) {
	t.mu.Lock()
	if t.done || gen != t.gen {
		t.mu.Unlock()
		return
	}
	t.done = true
	t.timer = nil
	unsubs := t.unsubs
	t.unsubs = nil
	t.mu.Unlock()

	for _, unsub := range unsubs {
		unsub()
	}
	t.once.Do(func() {
		t.onExpire()
		close(t.expired)
	})
}
