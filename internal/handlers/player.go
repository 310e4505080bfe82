package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/videoflix/webclient/internal/logging"
	"github.com/videoflix/webclient/internal/models"
	"github.com/videoflix/webclient/internal/playback"
	"github.com/videoflix/webclient/internal/session"
)

type playerPageData struct {
	pageData
	Video              models.Video
	Resume             float64
	Resolution         models.Resolution
	Resolutions        []models.Resolution
	ShowRestartConfirm bool
}

// PlayerHandler serves the player view and its form/JSON endpoints.
type PlayerHandler struct {
	Playback *playback.State
	Render   *Renderer
}

// Select handles POST /watch: it records the picked video and moves the
// browser into the player.
func (h PlayerHandler) Select(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	id, err := strconv.Atoi(r.FormValue("video_id"))
	if err != nil || id <= 0 {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}

	h.Playback.SetSelectedVideo(ctx, session.IDFromContext(ctx), id)
	http.Redirect(w, r, "/player", http.StatusSeeOther)
}

// Show handles GET /player. The video is fetched at the session's preferred
// resolution; a stored resume position brings up the continue-or-restart
// confirm.
func (h PlayerHandler) Show(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	sid := session.IDFromContext(ctx)

	resolution := h.Playback.Resolution(sid)
	video, ok := h.Playback.FetchVideo(ctx, sid, resolution)

	// Fetching restores the server-side resume position; when the user just
	// asked to start over, zero it again before the player reads it.
	restarted := r.URL.Query().Get("from") == "restart"
	if restarted {
		h.Playback.StoreResumeTimestamp(ctx, sid, 0)
	}
	resume := h.Playback.ReadResumeTimestamp(ctx, sid)

	h.Render.Render(w, r, "player", playerPageData{
		pageData:           pageData{LoggedIn: true},
		Video:              video,
		Resume:             resume,
		Resolution:         resolution,
		Resolutions:        []models.Resolution{models.Resolution360, models.Resolution480, models.Resolution720, models.Resolution1080},
		ShowRestartConfirm: ok && !restarted && resume != 0,
	})
}

// SetResolution handles POST /player/resolution. Switching stores the
// preference only; the redirect back into the player performs the re-fetch.
func (h PlayerHandler) SetResolution(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	sid := session.IDFromContext(r.Context())
	value, err := strconv.Atoi(r.FormValue("resolution"))
	if err == nil {
		h.Playback.SetResolution(sid, models.Resolution(value))
	}
	http.Redirect(w, r, "/player", http.StatusSeeOther)
}

type progressRequest struct {
	Seconds float64 `json:"seconds"`
}

// Progress handles POST /player/progress, the periodic beacon from the
// player script. Best effort end to end.
func (h PlayerHandler) Progress(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	var req progressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logging.FromContext(ctx).Warn("invalid progress payload", "error", err)
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	sid := session.IDFromContext(ctx)
	ok := h.Playback.RecordWatchProgress(ctx, sid, req.Seconds)
	h.Playback.StoreResumeTimestamp(ctx, sid, req.Seconds)

	respondJSON(ctx, w, http.StatusOK, map[string]bool{"ok": ok})
}

// Restart handles POST /player/restart: the user chose to watch from the
// beginning, so the stored resume position goes back to zero.
func (h PlayerHandler) Restart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	h.Playback.StoreResumeTimestamp(ctx, session.IDFromContext(ctx), 0)
	http.Redirect(w, r, "/player?from=restart", http.StatusSeeOther)
}

// Exit handles POST /player/exit. Leaving the player clears the per-session
// playback keys before returning to the dashboard.
func (h PlayerHandler) Exit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	h.Playback.ExitPlayer(ctx, session.IDFromContext(ctx))
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}
