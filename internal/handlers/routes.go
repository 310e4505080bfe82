package handlers

import (
	"embed"
	"net/http"

	"github.com/videoflix/webclient/internal/authflow"
	"github.com/videoflix/webclient/internal/middleware"
	"github.com/videoflix/webclient/internal/playback"
	"github.com/videoflix/webclient/internal/session"
	"github.com/videoflix/webclient/internal/toast"
)

//go:embed static
var staticFS embed.FS

// Dependencies aggregates collaborators required by the HTTP handlers.
type Dependencies struct {
	Auth     *authflow.Workflow
	Playback *playback.State
	Sessions *session.Manager
	Toasts   *toast.Registry
	Limiter  RateLimiter
	Renderer *Renderer
}

// RegisterRoutes wires HTTP handlers into the provided ServeMux.
func RegisterRoutes(mux *http.ServeMux, deps Dependencies) {
	health := HealthHandler{}
	pages := PageHandler{Auth: deps.Auth, Render: deps.Renderer, Limiter: deps.Limiter}
	dashboard := DashboardHandler{Playback: deps.Playback, Render: deps.Renderer}
	player := PlayerHandler{Playback: deps.Playback, Render: deps.Renderer}
	toasts := ToastHandler{Toasts: deps.Toasts}

	requireAuth := middleware.RequireAuth(deps.Sessions)
	requireAnon := middleware.RequireAnon(deps.Sessions)

	mux.HandleFunc("/healthz", health.Handle)
	mux.Handle("/static/", http.FileServerFS(staticFS))

	mux.HandleFunc("/", pages.Landing)
	mux.HandleFunc("/start", pages.Start)
	mux.Handle("/login", requireAnon(http.HandlerFunc(pages.Login)))
	mux.Handle("/sign-up", requireAnon(http.HandlerFunc(pages.SignUp)))
	mux.Handle("/forgot-password", requireAnon(http.HandlerFunc(pages.ForgotPassword)))
	mux.Handle("/reset-password/", requireAnon(http.HandlerFunc(pages.ResetPassword)))
	mux.Handle("/verify/", requireAnon(http.HandlerFunc(pages.Verify)))
	mux.Handle("/logout", requireAuth(http.HandlerFunc(pages.Logout)))

	mux.Handle("/dashboard", requireAuth(http.HandlerFunc(dashboard.Show)))
	mux.Handle("/watch", requireAuth(http.HandlerFunc(player.Select)))
	mux.Handle("/player", requireAuth(http.HandlerFunc(player.Show)))
	mux.Handle("/player/resolution", requireAuth(http.HandlerFunc(player.SetResolution)))
	mux.Handle("/player/progress", requireAuth(http.HandlerFunc(player.Progress)))
	mux.Handle("/player/restart", requireAuth(http.HandlerFunc(player.Restart)))
	mux.Handle("/player/exit", requireAuth(http.HandlerFunc(player.Exit)))

	mux.HandleFunc("/toasts", toasts.Snapshot)
	mux.HandleFunc("/toasts/retry", toasts.Retry)
	mux.HandleFunc("/toasts/hide", toasts.Hide)
}
