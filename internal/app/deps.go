package app

import (
	"time"

	"github.com/videoflix/webclient/internal/authflow"
	"github.com/videoflix/webclient/internal/config"
	"github.com/videoflix/webclient/internal/gateway"
	"github.com/videoflix/webclient/internal/handlers"
	"github.com/videoflix/webclient/internal/middleware"
	"github.com/videoflix/webclient/internal/playback"
	"github.com/videoflix/webclient/internal/session"
	"github.com/videoflix/webclient/internal/toast"
)

// rateLimiterTTL bounds how long idle rate-limit buckets stay in memory.
const rateLimiterTTL = 10 * time.Minute

func buildDependencies(cfg config.Config, store session.Store) (handlers.Dependencies, error) {
	renderer, err := handlers.NewRenderer()
	if err != nil {
		return handlers.Dependencies{}, err
	}

	sessions := session.NewManager(cfg.SessionTTL, store)
	toasts := toast.NewRegistry(cfg.ToastTTL)
	api := gateway.New(cfg.APIBaseURL, cfg.UpstreamTimeout)

	return handlers.Dependencies{
		Auth:     authflow.NewWorkflow(api, sessions, toasts),
		Playback: playback.NewState(api, sessions, toasts),
		Sessions: sessions,
		Toasts:   toasts,
		Limiter:  middleware.NewIPRateLimiter(cfg.AuthRateLimit, cfg.AuthRateWindow, cfg.AuthRateBurst, rateLimiterTTL),
		Renderer: renderer,
	}, nil
}
