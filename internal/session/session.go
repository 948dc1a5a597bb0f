// Package session tracks whether the console has a live admin session.
//
// The store resolves its initial state synchronously from the persisted
// token's presence and expiry window alone; no server round-trip validates
// freshness until the first authenticated call comes back 401, which the
// HTTP client reports through the store's HandleUnauthorized hook.
package session

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/ferrovax/gamedesk/internal/repositories"
	"golang.org/x/oauth2"
)

// State is the session store's view of the admin session.
type State int

const (
	StateUnknown State = iota
	StateAuthenticated
	StateUnauthenticated
)

func (s State) String() string {
	switch s {
	case StateAuthenticated:
		return "authenticated"
	case StateUnauthenticated:
		return "unauthenticated"
	default:
		return "unknown"
	}
}

// Authenticator exchanges admin credentials for a bearer token.
// *services.Client satisfies this.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (string, error)
}

// Store holds the session state and the current token. It implements
// services.TokenSource so the HTTP client reads the token from here on
// every request.
type Store struct {
	mu      sync.RWMutex
	state   State
	token   *oauth2.Token
	creds   *repositories.CredentialRepository
	auth    Authenticator
	logger  *log.Logger
	watcher func(State)
}

// NewStore creates a Store in [StateUnknown]; call [Store.Resolve] before use.
func NewStore(creds *repositories.CredentialRepository, auth Authenticator, logger *log.Logger) *Store {
	return &Store{
		state:  StateUnknown,
		creds:  creds,
		auth:   auth,
		logger: logger,
	}
}

// Resolve settles the initial state from persisted storage. It checks only
// that a non-expired token exists.
func (s *Store) Resolve() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	token, err := s.creds.Load()
	if err != nil {
		s.logger.Warn("failed to load stored token", "error", err)
		token = nil
	}

	s.token = token
	if token != nil {
		s.state = StateAuthenticated
	} else {
		s.state = StateUnauthenticated
	}

	s.notify()
	return s.state
}

// State returns the current session state.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Token returns the current bearer token, or "" when unauthenticated.
// Implements services.TokenSource.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.token == nil {
		return ""
	}
	return s.token.AccessToken
}

// Login exchanges credentials for a token and persists it. It returns true
// only on an affirmative token from the backend; every failure leaves the
// state unauthenticated and is reported as a boolean, not an error.
func (s *Store) Login(ctx context.Context, username, password string) bool {
	token, err := s.auth.Login(ctx, username, password)
	if err != nil || token == "" {
		s.logger.Warn("login failed", "error", err)
		s.mu.Lock()
		s.state = StateUnauthenticated
		s.token = nil
		s.notify()
		s.mu.Unlock()
		return false
	}

	stored := &oauth2.Token{AccessToken: token}
	if err := s.creds.Save(stored); err != nil {
		// The session is still usable for this process; only persistence failed.
		s.logger.Warn("failed to persist token", "error", err)
	}

	s.mu.Lock()
	s.token = stored
	s.state = StateAuthenticated
	s.notify()
	s.mu.Unlock()

	return true
}

// Logout clears the session synchronously and unconditionally.
func (s *Store) Logout() {
	if err := s.creds.Clear(); err != nil {
		s.logger.Warn("failed to clear stored token", "error", err)
	}

	s.mu.Lock()
	s.token = nil
	s.state = StateUnauthenticated
	s.notify()
	s.mu.Unlock()
}

// HandleUnauthorized is wired as the HTTP client's unauthorized hook: any
// 401, from any operation, invalidates the session exactly the same way.
func (s *Store) HandleUnauthorized() {
	s.logger.Info("session expired, clearing stored token")
	s.Logout()
}

// Watch registers a single observer notified on every state transition.
// Navigation (sending the user back to the login view) lives in the
// observer, not here.
func (s *Store) Watch(fn func(State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.watcher = fn
}

// notify must be called with the lock held.
func (s *Store) notify() {
	if s.watcher != nil {
		s.watcher(s.state)
	}
}
