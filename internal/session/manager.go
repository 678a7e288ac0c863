package session

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/premiumbank/pbank/internal/models"
)

// Persisted keys. Both are always written to the same scope.
const (
	KeyToken = "token"
	KeyUser  = "user"
)

// Manager reads and writes the session pair across the two storage scopes.
// The local scope survives restarts ("remember me"); the session scope lives
// as long as the terminal.
type Manager struct {
	mu      sync.Mutex
	local   Storage
	session Storage
}

// NewManager creates a session manager over the two scopes
func NewManager(local, session Storage) *Manager {
	return &Manager{local: local, session: session}
}

// Get returns the persisted session. Local is consulted first, then session.
// A scope only counts when it holds a token and a well-formed user.
func (m *Manager) Get() (*models.Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, store := range []Storage{m.local, m.session} {
		if s, ok := read(store); ok {
			return s, true
		}
	}
	return nil, false
}

// Remembered reports whether the current session lives in the local scope
func (m *Manager) Remembered() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := read(m.local)
	return ok
}

// Token returns the current bearer token, or "" when logged out
func (m *Manager) Token() string {
	s, ok := m.Get()
	if !ok {
		return ""
	}
	return s.Token
}

// Set persists the session in the scope chosen by remember and removes
// both entries from the other scope.
func (m *Manager) Set(s models.Session, remember bool) error {
	if strings.TrimSpace(s.Token) == "" {
		return fmt.Errorf("session token is empty")
	}
	user, err := json.Marshal(s.User)
	if err != nil {
		return fmt.Errorf("failed to encode user: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	target, other := m.session, m.local
	if remember {
		target, other = m.local, m.session
	}
	if err := target.Put(map[string]string{KeyToken: s.Token, KeyUser: string(user)}); err != nil {
		return err
	}
	return other.Delete(KeyToken, KeyUser)
}

// Clear removes the session from both scopes
func (m *Manager) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	errLocal := m.local.Delete(KeyToken, KeyUser)
	errSession := m.session.Delete(KeyToken, KeyUser)
	if errLocal != nil {
		return errLocal
	}
	return errSession
}

func read(store Storage) (*models.Session, bool) {
	token, ok := store.Get(KeyToken)
	if !ok || strings.TrimSpace(token) == "" {
		return nil, false
	}
	raw, ok := store.Get(KeyUser)
	if !ok {
		return nil, false
	}
	var user models.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return nil, false
	}
	return &models.Session{Token: token, User: user}, true
}
