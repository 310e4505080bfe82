package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/videoflix/webclient/internal/db"
	"github.com/videoflix/webclient/internal/session"
)

// PostgresSessionStore persists browser sessions to PostgreSQL so that login
// state and playback position survive frontend restarts.
type PostgresSessionStore struct {
	q db.Querier
}

// NewPostgresSessionStore constructs a session store backed by PostgreSQL.
func NewPostgresSessionStore(q db.Querier) *PostgresSessionStore {
	return &PostgresSessionStore{q: q}
}

// EnsureSchema creates the web_sessions table when it does not exist yet.
func (s *PostgresSessionStore) EnsureSchema(ctx context.Context) error {
	_, err := s.q.Exec(ctx, `
        CREATE TABLE IF NOT EXISTS web_sessions (
            id TEXT PRIMARY KEY,
            token TEXT NOT NULL DEFAULT '',
            selected_video_id INT NOT NULL DEFAULT 0,
            resume_seconds DOUBLE PRECISION NOT NULL DEFAULT 0,
            expires_at TIMESTAMPTZ NOT NULL
        )
    `)
	if err != nil {
		return fmt.Errorf("ensure web_sessions table: %w", err)
	}
	return nil
}

// Save stores or updates a session record.
func (s *PostgresSessionStore) Save(ctx context.Context, sess session.Session) error {
	_, err := s.q.Exec(ctx, `
        INSERT INTO web_sessions (id, token, selected_video_id, resume_seconds, expires_at)
        VALUES ($1, $2, $3, $4, $5)
        ON CONFLICT (id)
        DO UPDATE SET token = EXCLUDED.token,
                      selected_video_id = EXCLUDED.selected_video_id,
                      resume_seconds = EXCLUDED.resume_seconds,
                      expires_at = EXCLUDED.expires_at
    `, sess.ID, sess.Token, sess.SelectedVideoID, sess.ResumeSeconds, sess.ExpiresAt.UTC())
	if err != nil {
		return fmt.Errorf("upsert session: %w", err)
	}

	return nil
}

// Find loads a session by its id.
func (s *PostgresSessionStore) Find(ctx context.Context, id string) (session.Session, error) {
	row := s.q.QueryRow(ctx, `
        SELECT id, token, selected_video_id, resume_seconds, expires_at
        FROM web_sessions
        WHERE id = $1
    `, id)

	var sess session.Session
	var expiresAt time.Time
	if err := row.Scan(&sess.ID, &sess.Token, &sess.SelectedVideoID, &sess.ResumeSeconds, &expiresAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return session.Session{}, session.ErrSessionNotFound
		}
		return session.Session{}, fmt.Errorf("select session: %w", err)
	}

	sess.ExpiresAt = expiresAt.UTC()
	return sess, nil
}

// Delete removes a session by its id.
func (s *PostgresSessionStore) Delete(ctx context.Context, id string) error {
	tag, err := s.q.Exec(ctx, `
        DELETE FROM web_sessions
        WHERE id = $1
    `, id)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return session.ErrSessionNotFound
	}

	return nil
}
