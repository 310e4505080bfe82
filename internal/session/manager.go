package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"
)

// ErrSessionNotFound indicates the provided session id does not map to an
// active browser session.
var ErrSessionNotFound = errors.New("session not found")

// Session is the per-browser session record. Token holds the opaque bearer
// credential issued by the streaming API; SelectedVideoID and ResumeSeconds
// carry the playback state that survives reloads within the same session.
type Session struct {
	ID              string
	Token           string
	SelectedVideoID int
	ResumeSeconds   float64
	ExpiresAt       time.Time
}

// Authenticated reports whether the session currently holds an API token.
// Token absence is the sole authorization predicate used by the route guards.
func (s Session) Authenticated() bool {
	return s.Token != ""
}

// Store persists browser sessions so they can survive process restarts.
type Store interface {
	Save(ctx context.Context, session Session) error
	Find(ctx context.Context, id string) (Session, error)
	Delete(ctx context.Context, id string) error
}

// Manager manages the lifecycle of browser sessions backed by a persistent store.
type Manager struct {
	ttl   time.Duration
	store Store

	// NowFunc overrides the time source in tests.
	NowFunc func() time.Time
}

// NewManager constructs a Manager that issues sessions with the provided TTL.
func NewManager(ttl time.Duration, store Store) *Manager {
	if store == nil {
		panic("session: store must not be nil")
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Manager{ttl: ttl, store: store}
}

// Begin creates and persists a fresh anonymous session.
func (m *Manager) Begin(ctx context.Context) (Session, error) {
	id, err := randomID()
	if err != nil {
		return Session{}, err
	}

	session := Session{
		ID:        id,
		ExpiresAt: m.now().Add(m.ttl),
	}
	if err := m.store.Save(ctx, session); err != nil {
		return Session{}, err
	}
	return session, nil
}

// Find loads a session by id, expiring it when its TTL has elapsed.
func (m *Manager) Find(ctx context.Context, id string) (Session, error) {
	if id == "" {
		return Session{}, ErrSessionNotFound
	}

	session, err := m.store.Find(ctx, id)
	if err != nil {
		return Session{}, err
	}

	if m.now().After(session.ExpiresAt) {
		_ = m.store.Delete(ctx, id)
		return Session{}, ErrSessionNotFound
	}

	return session, nil
}

// Token returns the API token held by the session, or the empty string when
// the session is unknown or unauthenticated.
func (m *Manager) Token(ctx context.Context, id string) string {
	session, err := m.Find(ctx, id)
	if err != nil {
		return ""
	}
	return session.Token
}

// SetToken overwrites any token the session currently holds.
func (m *Manager) SetToken(ctx context.Context, id, token string) error {
	return m.Mutate(ctx, id, func(s *Session) {
		s.Token = token
	})
}

// ClearToken removes the token unconditionally. Errors are swallowed: a
// pending server-side failure must not leave the session falsely believing it
// is still authenticated, so by the time ClearToken returns the token is gone
// from every path that could observe it.
func (m *Manager) ClearToken(ctx context.Context, id string) {
	_ = m.Mutate(ctx, id, func(s *Session) {
		s.Token = ""
	})
}

// Mutate applies fn to the stored session record and persists the result.
func (m *Manager) Mutate(ctx context.Context, id string, fn func(*Session)) error {
	session, err := m.Find(ctx, id)
	if err != nil {
		return err
	}
	fn(&session)
	session.ID = id
	return m.store.Save(ctx, session)
}

func (m *Manager) now() time.Time {
	if m.NowFunc != nil {
		return m.NowFunc()
	}
	return time.Now().UTC()
}

func randomID() (string, error) {
	const size = 32
	buf := make([]byte, size)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
