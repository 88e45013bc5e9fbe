// ABOUTME: Auth session store holding the identity decoded from the bearer token
// ABOUTME: Persists the token through a Storage port and notifies subscribers on change

package auth

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Session is the decoded identity of the current user.
type Session struct {
	Username        string
	Token           string
	IssuedAt        time.Time
	ExpiresAt       time.Time
	IsAuthenticated bool
}

// Store owns the current Session. All methods are safe for concurrent use.
type Store struct {
	storage Storage
	now     func() time.Time
	logger  *slog.Logger

	mu          sync.RWMutex
	session     Session
	loaded      bool
	subscribers []func(Session)
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides time.Now for expiry checks.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLogger sets the logger used for storage warnings.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// NewStore creates an empty, not-yet-loaded store.
func NewStore(storage Storage, opts ...Option) *Store {
	s := &Store{
		storage: storage,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// Initialize loads the persisted token, if any, and marks the store loaded.
func (s *Store) Initialize(ctx context.Context) {
	token, ok, err := s.storage.Read(ctx, TokenKey)
	if err != nil {
		s.logger.Warn("failed to read stored token", "error", err)
	}
	if err == nil && ok && token != "" {
		s.SetFromToken(ctx, token)
	}

	s.mu.Lock()
	s.loaded = true
	s.mu.Unlock()
}

// SetFromToken replaces the session with the identity in token.
// A token that cannot be decoded, lacks a username, or has expired resets
// the session instead.
func (s *Store) SetFromToken(ctx context.Context, token string) {
	claims, err := DecodeClaims(token, s.now())
	if err != nil {
		s.logger.Debug("discarding token", "error", err)
		s.Reset(ctx)
		return
	}

	if err := s.storage.Write(ctx, TokenKey, token); err != nil {
		s.logger.Warn("failed to persist token", "error", err)
	}
	s.replace(sessionFromClaims(token, claims))
}

// Reload re-reads the persisted token after another process changed it.
// Unlike SetFromToken it never writes back, so a storage watcher calling it
// does not retrigger itself.
func (s *Store) Reload(ctx context.Context) {
	token, ok, err := s.storage.Read(ctx, TokenKey)
	if err != nil {
		s.logger.Warn("failed to read stored token", "error", err)
		return
	}
	if ok && token == s.Token() {
		return
	}

	next := Session{}
	if ok && token != "" {
		if claims, err := DecodeClaims(token, s.now()); err == nil {
			next = sessionFromClaims(token, claims)
		}
	}
	if !next.IsAuthenticated && !s.Snapshot().IsAuthenticated {
		return
	}
	s.replace(next)
}

func sessionFromClaims(token string, claims *Claims) Session {
	next := Session{
		Username:        claims.Username,
		Token:           token,
		IsAuthenticated: true,
	}
	if claims.IssuedAt != nil {
		next.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		next.ExpiresAt = claims.ExpiresAt.Time
	}
	return next
}

// Reset clears the session and removes the persisted token.
func (s *Store) Reset(ctx context.Context) {
	if err := s.storage.Delete(ctx, TokenKey); err != nil {
		s.logger.Warn("failed to delete stored token", "error", err)
	}
	s.replace(Session{})
}

// IsLoaded reports whether Initialize has completed.
func (s *Store) IsLoaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// Snapshot returns a copy of the current session.
func (s *Store) Snapshot() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session
}

// Token returns the bearer token, or "" when not authenticated.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.session.IsAuthenticated {
		return ""
	}
	return s.session.Token
}

// Subscribe registers fn to be called after every session replacement.
func (s *Store) Subscribe(fn func(Session)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

func (s *Store) replace(next Session) {
	s.mu.Lock()
	s.session = next
	subs := make([]func(Session), len(s.subscribers))
	copy(subs, s.subscribers)
	s.mu.Unlock()

	for _, fn := range subs {
		fn(next)
	}
}
