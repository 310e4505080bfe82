package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"

	"github.com/videoflix/webclient/internal/session"
)

func newMockStore(t *testing.T) (*PostgresSessionStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("create pgx mock: %v", err)
	}
	t.Cleanup(mock.Close)
	return NewPostgresSessionStore(mock), mock
}

func TestPostgresSessionStore_SaveUpserts(t *testing.T) {
	store, mock := newMockStore(t)

	expires := time.Now().UTC().Add(24 * time.Hour)
	sess := session.Session{
		ID:              "sess-1",
		Token:           "api-token",
		SelectedVideoID: 7,
		ResumeSeconds:   12.5,
		ExpiresAt:       expires,
	}

	mock.ExpectExec("INSERT INTO web_sessions").
		WithArgs(sess.ID, sess.Token, sess.SelectedVideoID, sess.ResumeSeconds, expires).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	if err := store.Save(context.Background(), sess); err != nil {
		t.Fatalf("save session: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPostgresSessionStore_FindReturnsRecord(t *testing.T) {
	store, mock := newMockStore(t)

	expires := time.Now().UTC().Add(time.Hour)
	rows := pgxmock.NewRows([]string{"id", "token", "selected_video_id", "resume_seconds", "expires_at"}).
		AddRow("sess-1", "api-token", 7, 12.5, expires)

	mock.ExpectQuery("SELECT id, token, selected_video_id, resume_seconds, expires_at").
		WithArgs("sess-1").
		WillReturnRows(rows)

	sess, err := store.Find(context.Background(), "sess-1")
	if err != nil {
		t.Fatalf("find session: %v", err)
	}

	if sess.Token != "api-token" || sess.SelectedVideoID != 7 || sess.ResumeSeconds != 12.5 {
		t.Fatalf("unexpected session loaded: %+v", sess)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPostgresSessionStore_FindMissingMapsToSessionNotFound(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("SELECT id, token, selected_video_id, resume_seconds, expires_at").
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	if _, err := store.Find(context.Background(), "missing"); !errors.Is(err, session.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestPostgresSessionStore_DeleteMissingReportsNotFound(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec("DELETE FROM web_sessions").
		WithArgs("missing").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	if err := store.Delete(context.Background(), "missing"); !errors.Is(err, session.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}
