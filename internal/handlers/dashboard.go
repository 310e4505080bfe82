package handlers

import (
	"net/http"

	"github.com/videoflix/webclient/internal/models"
	"github.com/videoflix/webclient/internal/playback"
	"github.com/videoflix/webclient/internal/session"
)

type dashboardPageData struct {
	pageData
	Data models.DashboardData
	Hero models.HeroVideo
}

// DashboardHandler renders the video dashboard with its hero area.
type DashboardHandler struct {
	Playback *playback.State
	Render   *Renderer
}

// Show handles GET /dashboard. Both projections are fetched fresh on every
// visit and replace whatever was shown before; failures surface as toasts
// and the page renders with what it has.
func (h DashboardHandler) Show(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	sid := session.IDFromContext(ctx)

	data, _ := h.Playback.Dashboard(ctx, sid)
	hero, _ := h.Playback.Hero(ctx, sid)

	h.Render.Render(w, r, "dashboard", dashboardPageData{
		pageData: pageData{LoggedIn: true},
		Data:     data,
		Hero:     hero,
	})
}
