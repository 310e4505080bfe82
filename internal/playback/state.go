// Package playback tracks which video a session is watching, at which
// resolution, and where to resume. Selected video and resume position live in
// the session record so a reload restores them; the resolution preference is
// deliberately memory-only and resets with the process.
package playback

import (
	"context"
	"sync"

	"github.com/videoflix/webclient/internal/logging"
	"github.com/videoflix/webclient/internal/models"
	"github.com/videoflix/webclient/internal/session"
	"github.com/videoflix/webclient/internal/toast"
)

const (
	msgDashboardFailed = "Getting your data failed."
	msgHeroFailed      = "Getting hero video data failed."
	msgVideoFailed     = "Getting video data failed"
	msgHistoryFailed   = "Getting your watch history failed."
)

// API is the slice of the streaming-API client used for video data.
type API interface {
	Dashboard(ctx context.Context, token string) (models.DashboardData, error)
	Hero(ctx context.Context, token string, id int) (models.HeroVideo, error)
	Video(ctx context.Context, token string, id int, resolution models.Resolution) (models.Video, error)
	UpdateWatchHistory(ctx context.Context, token string, videoID int, seconds float64) error
}

// Sessions is the slice of the session manager the playback state needs.
type Sessions interface {
	Token(ctx context.Context, sessionID string) string
	Find(ctx context.Context, sessionID string) (session.Session, error)
	Mutate(ctx context.Context, sessionID string, fn func(*session.Session)) error
}

// Notifier hands out the per-session toast bus.
type Notifier interface {
	For(sessionID string) *toast.Bus
}

// State is the per-session video state shared by dashboard and player views.
type State struct {
	api      API
	sessions Sessions
	toasts   Notifier

	mu          sync.RWMutex
	resolutions map[string]models.Resolution
}

// NewState constructs the playback state over its collaborators.
func NewState(api API, sessions Sessions, toasts Notifier) *State {
	return &State{
		api:         api,
		sessions:    sessions,
		toasts:      toasts,
		resolutions: make(map[string]models.Resolution),
	}
}

// SetSelectedVideo records the video picked on the dashboard, mirroring it
// into the session record so a reload inside the player keeps working.
func (s *State) SetSelectedVideo(ctx context.Context, sessionID string, id int) {
	if err := s.sessions.Mutate(ctx, sessionID, func(sess *session.Session) {
		sess.SelectedVideoID = id
	}); err != nil {
		logging.FromContext(ctx).Warn("persist selected video", "error", err)
	}
}

// SelectedVideo returns the id recorded for this session, or 0.
func (s *State) SelectedVideo(ctx context.Context, sessionID string) int {
	sess, err := s.sessions.Find(ctx, sessionID)
	if err != nil {
		return 0
	}
	return sess.SelectedVideoID
}

// SetResolution stores the resolution preference in memory only. Consumers
// re-fetch the video themselves after switching.
func (s *State) SetResolution(sessionID string, resolution models.Resolution) {
	if !resolution.Valid() {
		return
	}
	s.mu.Lock()
	s.resolutions[sessionID] = resolution
	s.mu.Unlock()
}

// Resolution returns the session's resolution preference, defaulting to 360p.
func (s *State) Resolution(sessionID string) models.Resolution {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if r, ok := s.resolutions[sessionID]; ok {
		return r
	}
	return models.Resolution360
}

// StoreResumeTimestamp persists the playback position in the session record.
func (s *State) StoreResumeTimestamp(ctx context.Context, sessionID string, seconds float64) {
	if err := s.sessions.Mutate(ctx, sessionID, func(sess *session.Session) {
		sess.ResumeSeconds = seconds
	}); err != nil {
		logging.FromContext(ctx).Warn("persist resume timestamp", "error", err)
	}
}

// ReadResumeTimestamp returns the stored playback position; absent reads as 0.
func (s *State) ReadResumeTimestamp(ctx context.Context, sessionID string) float64 {
	sess, err := s.sessions.Find(ctx, sessionID)
	if err != nil {
		return 0
	}
	return sess.ResumeSeconds
}

// FetchVideo resolves the selected video from the session record, fetches its
// playback manifest at the requested resolution, and persists the returned
// resume timestamp alongside the id. Failures show a toast; there is no retry.
func (s *State) FetchVideo(ctx context.Context, sessionID string, resolution models.Resolution) (models.Video, bool) {
	sess, err := s.sessions.Find(ctx, sessionID)
	if err != nil {
		s.toasts.For(sessionID).ShowPlain(msgVideoFailed)
		return models.Video{}, false
	}

	video, err := s.api.Video(ctx, sess.Token, sess.SelectedVideoID, resolution)
	if err != nil {
		s.toasts.For(sessionID).ShowPlain(msgVideoFailed)
		return models.Video{}, false
	}

	if err := s.sessions.Mutate(ctx, sessionID, func(sess *session.Session) {
		sess.ResumeSeconds = video.Timestamp
		sess.SelectedVideoID = video.ID
	}); err != nil {
		logging.FromContext(ctx).Warn("persist playback state", "error", err)
	}

	return video, true
}

// RecordWatchProgress posts the playback position to the watch history.
// Best effort: a progress update lost to a transient failure stays lost.
func (s *State) RecordWatchProgress(ctx context.Context, sessionID string, seconds float64) bool {
	sess, err := s.sessions.Find(ctx, sessionID)
	if err != nil {
		s.toasts.For(sessionID).ShowPlain(msgHistoryFailed)
		return false
	}

	if err := s.api.UpdateWatchHistory(ctx, sess.Token, sess.SelectedVideoID, seconds); err != nil {
		s.toasts.For(sessionID).ShowPlain(msgHistoryFailed)
		return false
	}
	return true
}

// ExitPlayer clears the per-session playback keys when the player view is
// left. The resolution preference survives; it belongs to the tab, not the
// video.
func (s *State) ExitPlayer(ctx context.Context, sessionID string) {
	if err := s.sessions.Mutate(ctx, sessionID, func(sess *session.Session) {
		sess.SelectedVideoID = 0
		sess.ResumeSeconds = 0
	}); err != nil {
		logging.FromContext(ctx).Warn("clear playback state", "error", err)
	}
}

// Dashboard fetches the dashboard aggregate, replacing any previous
// projection wholesale.
func (s *State) Dashboard(ctx context.Context, sessionID string) (models.DashboardData, bool) {
	token := s.sessions.Token(ctx, sessionID)
	data, err := s.api.Dashboard(ctx, token)
	if err != nil {
		s.toasts.For(sessionID).ShowPlain(msgDashboardFailed)
		return models.DashboardData{}, false
	}
	return data, true
}

// Hero fetches the hero detail for the currently selected video and records
// the id the API answered with.
func (s *State) Hero(ctx context.Context, sessionID string) (models.HeroVideo, bool) {
	sess, err := s.sessions.Find(ctx, sessionID)
	if err != nil {
		s.toasts.For(sessionID).ShowPlain(msgHeroFailed)
		return models.HeroVideo{}, false
	}

	hero, err := s.api.Hero(ctx, sess.Token, sess.SelectedVideoID)
	if err != nil {
		s.toasts.For(sessionID).ShowPlain(msgHeroFailed)
		return models.HeroVideo{}, false
	}

	s.SetSelectedVideo(ctx, sessionID, hero.ID)
	return hero, true
}
