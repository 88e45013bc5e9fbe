// ABOUTME: Tests for the auth session store
// ABOUTME: Covers token decoding, persistence, reset, and subscriber notification

package auth

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type fakeStorage struct {
	mu       sync.Mutex
	values   map[string]string
	failRead bool
	failAll  bool
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{values: map[string]string{}}
}

func (f *fakeStorage) Read(_ context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failRead || f.failAll {
		return "", false, errors.New("disk on fire")
	}
	v, ok := f.values[key]
	return v, ok, nil
}

func (f *fakeStorage) Write(_ context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return errors.New("disk on fire")
	}
	f.values[key] = value
	return nil
}

func (f *fakeStorage) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return errors.New("disk on fire")
	}
	delete(f.values, key)
	return nil
}

func mintToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return token
}

func validToken(t *testing.T, username string) string {
	return mintToken(t, jwt.MapClaims{
		"username": username,
		"iat":      fixedNow.Add(-time.Hour).Unix(),
		"exp":      fixedNow.Add(time.Hour).Unix(),
	})
}

func newTestStore(storage Storage) *Store {
	return NewStore(storage, WithClock(func() time.Time { return fixedNow }))
}

func TestSetFromToken_Valid(t *testing.T) {
	storage := newFakeStorage()
	store := newTestStore(storage)
	token := validToken(t, "ann")

	store.SetFromToken(context.Background(), token)

	s := store.Snapshot()
	if !s.IsAuthenticated {
		t.Fatal("expected authenticated session")
	}
	if s.Username != "ann" {
		t.Errorf("expected username ann, got %s", s.Username)
	}
	if s.Token != token {
		t.Error("expected session to carry the token")
	}
	if !s.ExpiresAt.Equal(fixedNow.Add(time.Hour)) {
		t.Errorf("expected exp %v, got %v", fixedNow.Add(time.Hour), s.ExpiresAt)
	}
	if !s.IssuedAt.Equal(fixedNow.Add(-time.Hour)) {
		t.Errorf("expected iat %v, got %v", fixedNow.Add(-time.Hour), s.IssuedAt)
	}
	if storage.values[TokenKey] != token {
		t.Error("expected token to be persisted")
	}
	if store.Token() != token {
		t.Error("expected Token() to return the bearer token")
	}
}

func TestSetFromToken_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		token func(t *testing.T) string
	}{
		{"garbage", func(t *testing.T) string { return "not-a-token" }},
		{"bad payload", func(t *testing.T) string { return "eyJhbGciOiJIUzI1NiJ9.!!!.sig" }},
		{"no username", func(t *testing.T) string {
			return mintToken(t, jwt.MapClaims{"exp": fixedNow.Add(time.Hour).Unix()})
		}},
		{"expired", func(t *testing.T) string {
			return mintToken(t, jwt.MapClaims{"username": "ann", "exp": fixedNow.Add(-time.Minute).Unix()})
		}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			storage := newFakeStorage()
			storage.values[TokenKey] = "stale"
			store := newTestStore(storage)

			store.SetFromToken(context.Background(), tc.token(t))

			if s := store.Snapshot(); s != (Session{}) {
				t.Errorf("expected empty session, got %+v", s)
			}
			if _, ok := storage.values[TokenKey]; ok {
				t.Error("expected persisted token to be removed")
			}
			if store.Token() != "" {
				t.Error("expected no bearer token")
			}
		})
	}
}

func TestSetFromToken_NoExpiryIsAccepted(t *testing.T) {
	store := newTestStore(newFakeStorage())
	store.SetFromToken(context.Background(), mintToken(t, jwt.MapClaims{"username": "bob"}))

	if !store.Snapshot().IsAuthenticated {
		t.Error("expected token without exp to authenticate")
	}
}

func TestInitialize_RestoresPersistedToken(t *testing.T) {
	storage := newFakeStorage()
	storage.values[TokenKey] = validToken(t, "ann")
	store := newTestStore(storage)

	if store.IsLoaded() {
		t.Fatal("expected store to start unloaded")
	}
	store.Initialize(context.Background())

	if !store.IsLoaded() {
		t.Error("expected store to be loaded")
	}
	if got := store.Snapshot().Username; got != "ann" {
		t.Errorf("expected username ann, got %q", got)
	}
}

func TestResetThenInitialize(t *testing.T) {
	storage := newFakeStorage()
	store := newTestStore(storage)
	ctx := context.Background()

	store.SetFromToken(ctx, validToken(t, "ann"))
	store.Reset(ctx)
	store.Initialize(ctx)

	if s := store.Snapshot(); s != (Session{}) {
		t.Errorf("expected empty session, got %+v", s)
	}
	if !store.IsLoaded() {
		t.Error("expected store to be loaded")
	}
}

func TestInitialize_StorageFailureStillLoads(t *testing.T) {
	storage := newFakeStorage()
	storage.failRead = true
	store := newTestStore(storage)

	store.Initialize(context.Background())

	if !store.IsLoaded() {
		t.Error("expected store to be loaded despite read failure")
	}
	if store.Snapshot().IsAuthenticated {
		t.Error("expected unauthenticated session")
	}
}

func TestSetFromToken_PersistFailureKeepsSession(t *testing.T) {
	storage := newFakeStorage()
	storage.failAll = true
	store := newTestStore(storage)

	store.SetFromToken(context.Background(), validToken(t, "ann"))

	if !store.Snapshot().IsAuthenticated {
		t.Error("expected session to be set even when persisting fails")
	}
}

func TestSubscribe(t *testing.T) {
	store := newTestStore(newFakeStorage())
	ctx := context.Background()

	var seen []string
	store.Subscribe(func(s Session) { seen = append(seen, s.Username) })

	store.SetFromToken(ctx, validToken(t, "ann"))
	store.Reset(ctx)

	if len(seen) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(seen))
	}
	if seen[0] != "ann" || seen[1] != "" {
		t.Errorf("expected [ann, \"\"], got %q", seen)
	}
}

func TestSnapshot_IsCopy(t *testing.T) {
	store := newTestStore(newFakeStorage())
	store.SetFromToken(context.Background(), validToken(t, "ann"))

	s := store.Snapshot()
	s.Username = "mallory"

	if store.Snapshot().Username != "ann" {
		t.Error("expected snapshot mutation not to affect the store")
	}
}

func TestReload(t *testing.T) {
	storage := newFakeStorage()
	store := newTestStore(storage)
	ctx := context.Background()
	store.Initialize(ctx)

	var notified int
	store.Subscribe(func(Session) { notified++ })

	// Another process logs in
	storage.values[TokenKey] = validToken(t, "bob")
	store.Reload(ctx)
	if got := store.Snapshot().Username; got != "bob" {
		t.Errorf("expected bob after reload, got %q", got)
	}

	// Unchanged token is not re-announced
	store.Reload(ctx)
	if notified != 1 {
		t.Errorf("expected 1 notification, got %d", notified)
	}

	// Another process logs out
	delete(storage.values, TokenKey)
	store.Reload(ctx)
	if store.Snapshot().IsAuthenticated {
		t.Error("expected session cleared after token removal")
	}
	if notified != 2 {
		t.Errorf("expected 2 notifications, got %d", notified)
	}
}

func TestReload_DoesNotWriteBack(t *testing.T) {
	storage := newFakeStorage()
	store := newTestStore(storage)
	storage.values[TokenKey] = "garbage"

	store.Reload(context.Background())

	if store.Snapshot().IsAuthenticated {
		t.Error("expected undecodable token to be ignored")
	}
	if storage.values[TokenKey] != "garbage" {
		t.Error("expected reload to leave storage alone")
	}
}
