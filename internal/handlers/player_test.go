package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/videoflix/webclient/internal/gateway"
	"github.com/videoflix/webclient/internal/models"
	"github.com/videoflix/webclient/internal/playback"
	"github.com/videoflix/webclient/internal/session"
	"github.com/videoflix/webclient/internal/toast"
)

// fakeVideoAPI serves canned video data for the player and dashboard handlers.
type fakeVideoAPI struct {
	fail  map[string]bool
	video models.Video
	hero  models.HeroVideo

	historySeconds []float64
}

func (f *fakeVideoAPI) err(op string) error {
	if f.fail[op] {
		return gateway.ErrRequestFailed
	}
	return nil
}

func (f *fakeVideoAPI) Dashboard(ctx context.Context, token string) (models.DashboardData, error) {
	if err := f.err("dashboard"); err != nil {
		return models.DashboardData{}, err
	}
	return models.DashboardData{}, nil
}

func (f *fakeVideoAPI) Hero(ctx context.Context, token string, id int) (models.HeroVideo, error) {
	if err := f.err("hero"); err != nil {
		return models.HeroVideo{}, err
	}
	return f.hero, nil
}

func (f *fakeVideoAPI) Video(ctx context.Context, token string, id int, resolution models.Resolution) (models.Video, error) {
	if err := f.err("video"); err != nil {
		return models.Video{}, err
	}
	return f.video, nil
}

func (f *fakeVideoAPI) UpdateWatchHistory(ctx context.Context, token string, videoID int, seconds float64) error {
	f.historySeconds = append(f.historySeconds, seconds)
	return f.err("history")
}

type playerEnv struct {
	player    PlayerHandler
	state     *playback.State
	api       *fakeVideoAPI
	sessionID string
}

func newPlayerEnv(t *testing.T) *playerEnv {
	t.Helper()

	renderer, err := NewRenderer()
	if err != nil {
		t.Fatalf("build renderer: %v", err)
	}

	api := &fakeVideoAPI{
		fail:  map[string]bool{},
		video: models.Video{ID: 9, Title: "Example", Timestamp: 130.5, HLSFile: "https://cdn.example.com/9/360p.m3u8"},
	}

	sessions := session.NewManager(time.Hour, session.NewInMemoryStore())
	toasts := toast.NewRegistry(time.Minute)
	state := playback.NewState(api, sessions, toasts)

	sess, err := sessions.Begin(context.Background())
	if err != nil {
		t.Fatalf("begin session: %v", err)
	}
	if err := sessions.SetToken(context.Background(), sess.ID, "api-token"); err != nil {
		t.Fatalf("set token: %v", err)
	}

	return &playerEnv{
		player:    PlayerHandler{Playback: state, Render: renderer},
		state:     state,
		api:       api,
		sessionID: sess.ID,
	}
}

func (env *playerEnv) request(method, path string, form url.Values) *http.Request {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	return req.WithContext(session.WithID(req.Context(), env.sessionID))
}

func TestSelectStoresVideoAndEntersPlayer(t *testing.T) {
	env := newPlayerEnv(t)

	rec := httptest.NewRecorder()
	env.player.Select(rec, env.request(http.MethodPost, "/watch", url.Values{"video_id": {"9"}}))

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/player" {
		t.Fatalf("expected redirect to /player, got %s", loc)
	}
	if got := env.state.SelectedVideo(context.Background(), env.sessionID); got != 9 {
		t.Fatalf("expected selection 9, got %d", got)
	}
}

func TestSelectWithBadIDReturnsToDashboard(t *testing.T) {
	env := newPlayerEnv(t)

	rec := httptest.NewRecorder()
	env.player.Select(rec, env.request(http.MethodPost, "/watch", url.Values{"video_id": {"nope"}}))

	if loc := rec.Header().Get("Location"); loc != "/dashboard" {
		t.Fatalf("expected redirect to /dashboard, got %s", loc)
	}
}

func TestShowOffersResumeConfirm(t *testing.T) {
	env := newPlayerEnv(t)
	env.state.SetSelectedVideo(context.Background(), env.sessionID, 9)

	rec := httptest.NewRecorder()
	env.player.Show(rec, env.request(http.MethodGet, "/player", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "data-resume=\"130.5\"") {
		t.Fatal("expected the server timestamp as the resume position")
	}
}

func TestShowAfterRestartStartsFromZero(t *testing.T) {
	env := newPlayerEnv(t)
	env.state.SetSelectedVideo(context.Background(), env.sessionID, 9)

	rec := httptest.NewRecorder()
	env.player.Restart(rec, env.request(http.MethodPost, "/player/restart", url.Values{}))
	if loc := rec.Header().Get("Location"); loc != "/player?from=restart" {
		t.Fatalf("unexpected redirect %s", loc)
	}

	rec = httptest.NewRecorder()
	env.player.Show(rec, env.request(http.MethodGet, "/player?from=restart", nil))

	body := rec.Body.String()
	if !strings.Contains(body, "data-resume=\"0\"") {
		t.Fatal("expected restart to zero the resume position")
	}
	if got := env.state.ReadResumeTimestamp(context.Background(), env.sessionID); got != 0 {
		t.Fatalf("expected stored resume 0, got %v", got)
	}
}

func TestProgressRecordsAndStores(t *testing.T) {
	env := newPlayerEnv(t)
	env.state.SetSelectedVideo(context.Background(), env.sessionID, 9)

	req := httptest.NewRequest(http.MethodPost, "/player/progress", strings.NewReader(`{"seconds":55.5}`))
	req.Header.Set("Content-Type", "application/json")
	req = req.WithContext(session.WithID(req.Context(), env.sessionID))

	rec := httptest.NewRecorder()
	env.player.Progress(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]bool
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp["ok"] {
		t.Fatal("expected ok response")
	}

	if len(env.api.historySeconds) != 1 || env.api.historySeconds[0] != 55.5 {
		t.Fatalf("expected history update at 55.5, got %v", env.api.historySeconds)
	}
	if got := env.state.ReadResumeTimestamp(context.Background(), env.sessionID); got != 55.5 {
		t.Fatalf("expected resume 55.5, got %v", got)
	}
}

func TestProgressRejectsBadPayload(t *testing.T) {
	env := newPlayerEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/player/progress", strings.NewReader("not json"))
	req = req.WithContext(session.WithID(req.Context(), env.sessionID))

	rec := httptest.NewRecorder()
	env.player.Progress(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestSetResolutionIgnoresUnsupportedValues(t *testing.T) {
	env := newPlayerEnv(t)

	rec := httptest.NewRecorder()
	env.player.SetResolution(rec, env.request(http.MethodPost, "/player/resolution", url.Values{"resolution": {"720"}}))
	if loc := rec.Header().Get("Location"); loc != "/player" {
		t.Fatalf("expected redirect to /player, got %s", loc)
	}

	rec = httptest.NewRecorder()
	env.player.SetResolution(rec, env.request(http.MethodPost, "/player/resolution", url.Values{"resolution": {"144"}}))

	if got := env.state.Resolution(env.sessionID); got != models.Resolution720 {
		t.Fatalf("expected 720 to stand, got %d", got)
	}
}

func TestExitClearsPlaybackAndReturnsToDashboard(t *testing.T) {
	env := newPlayerEnv(t)
	env.state.SetSelectedVideo(context.Background(), env.sessionID, 9)
	env.state.StoreResumeTimestamp(context.Background(), env.sessionID, 99)

	rec := httptest.NewRecorder()
	env.player.Exit(rec, env.request(http.MethodPost, "/player/exit", url.Values{}))

	if loc := rec.Header().Get("Location"); loc != "/dashboard" {
		t.Fatalf("expected redirect to /dashboard, got %s", loc)
	}
	if got := env.state.SelectedVideo(context.Background(), env.sessionID); got != 0 {
		t.Fatalf("expected selection cleared, got %d", got)
	}
	if got := env.state.ReadResumeTimestamp(context.Background(), env.sessionID); got != 0 {
		t.Fatalf("expected resume cleared, got %v", got)
	}
}
