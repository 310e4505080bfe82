package session

import (
	"context"
	"errors"
	"testing"
	"time"
)

// failingStore wraps the in-memory store and fails selected operations.
type failingStore struct {
	*InMemoryStore
	saveErr error
}

func (s *failingStore) Save(ctx context.Context, sess Session) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	return s.InMemoryStore.Save(ctx, sess)
}

func TestManagerBeginPersistsAnonymousSession(t *testing.T) {
	store := NewInMemoryStore()
	manager := NewManager(time.Hour, store)

	sess, err := manager.Begin(context.Background())
	if err != nil {
		t.Fatalf("begin session: %v", err)
	}

	if sess.ID == "" {
		t.Fatal("expected a generated session id")
	}
	if sess.Authenticated() {
		t.Fatal("fresh session must not be authenticated")
	}
	if !store.Has(sess.ID) {
		t.Fatal("expected session to be persisted")
	}

	other, err := manager.Begin(context.Background())
	if err != nil {
		t.Fatalf("begin second session: %v", err)
	}
	if other.ID == sess.ID {
		t.Fatal("expected distinct session ids")
	}
}

func TestManagerFindExpiresStaleSessions(t *testing.T) {
	store := NewInMemoryStore()
	manager := NewManager(time.Hour, store)

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	manager.NowFunc = func() time.Time { return now }

	sess, err := manager.Begin(context.Background())
	if err != nil {
		t.Fatalf("begin session: %v", err)
	}

	if _, err := manager.Find(context.Background(), sess.ID); err != nil {
		t.Fatalf("find fresh session: %v", err)
	}

	now = now.Add(2 * time.Hour)

	if _, err := manager.Find(context.Background(), sess.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound for expired session, got %v", err)
	}
	if store.Has(sess.ID) {
		t.Fatal("expected expired session to be deleted from the store")
	}
}

func TestManagerFindRejectsEmptyID(t *testing.T) {
	manager := NewManager(time.Hour, NewInMemoryStore())

	if _, err := manager.Find(context.Background(), ""); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound for empty id, got %v", err)
	}
}

func TestManagerTokenLifecycle(t *testing.T) {
	ctx := context.Background()
	manager := NewManager(time.Hour, NewInMemoryStore())

	sess, err := manager.Begin(ctx)
	if err != nil {
		t.Fatalf("begin session: %v", err)
	}

	if got := manager.Token(ctx, sess.ID); got != "" {
		t.Fatalf("expected empty token before login, got %q", got)
	}
	if got := manager.Token(ctx, "unknown"); got != "" {
		t.Fatalf("expected empty token for unknown session, got %q", got)
	}

	if err := manager.SetToken(ctx, sess.ID, "api-token"); err != nil {
		t.Fatalf("set token: %v", err)
	}
	if got := manager.Token(ctx, sess.ID); got != "api-token" {
		t.Fatalf("expected stored token, got %q", got)
	}

	manager.ClearToken(ctx, sess.ID)
	if got := manager.Token(ctx, sess.ID); got != "" {
		t.Fatalf("expected token cleared, got %q", got)
	}
}

func TestManagerClearTokenSwallowsStoreErrors(t *testing.T) {
	ctx := context.Background()
	store := &failingStore{InMemoryStore: NewInMemoryStore()}
	manager := NewManager(time.Hour, store)

	sess, err := manager.Begin(ctx)
	if err != nil {
		t.Fatalf("begin session: %v", err)
	}
	if err := manager.SetToken(ctx, sess.ID, "api-token"); err != nil {
		t.Fatalf("set token: %v", err)
	}

	store.saveErr = errors.New("store unavailable")

	// Must not panic and must not surface the error.
	manager.ClearToken(ctx, sess.ID)
}

func TestManagerMutatePersistsPlaybackState(t *testing.T) {
	ctx := context.Background()
	manager := NewManager(time.Hour, NewInMemoryStore())

	sess, err := manager.Begin(ctx)
	if err != nil {
		t.Fatalf("begin session: %v", err)
	}

	if err := manager.Mutate(ctx, sess.ID, func(s *Session) {
		s.SelectedVideoID = 5
		s.ResumeSeconds = 90.5
	}); err != nil {
		t.Fatalf("mutate session: %v", err)
	}

	loaded, err := manager.Find(ctx, sess.ID)
	if err != nil {
		t.Fatalf("find session: %v", err)
	}
	if loaded.SelectedVideoID != 5 || loaded.ResumeSeconds != 90.5 {
		t.Fatalf("unexpected session after mutate: %+v", loaded)
	}

	if err := manager.Mutate(ctx, "unknown", func(s *Session) {}); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound mutating unknown session, got %v", err)
	}
}
