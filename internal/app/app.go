package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/videoflix/webclient/internal/config"
	"github.com/videoflix/webclient/internal/db"
	"github.com/videoflix/webclient/internal/handlers"
	"github.com/videoflix/webclient/internal/httpserver"
	"github.com/videoflix/webclient/internal/logging"
	"github.com/videoflix/webclient/internal/middleware"
	"github.com/videoflix/webclient/internal/repositories"
	"github.com/videoflix/webclient/internal/session"
)

// Run bootstraps the Videoflix web frontend.
func Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("expected command: serve or migrate")
	}

	switch args[0] {
	case "serve":
		return serve(ctx)
	case "migrate":
		return runMigrations(ctx)
	default:
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func serve(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		AddSource: true,
		Level:     logging.ParseLevel(cfg.LogLevel),
	}))
	slog.SetDefault(logger)

	store, closeStore, err := newSessionStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	deps, err := buildDependencies(cfg, store)
	if err != nil {
		return err
	}

	mux := http.NewServeMux()
	handlers.RegisterRoutes(mux, deps)

	handler := middleware.RequestLogger(logger)(
		middleware.EnsureSession(deps.Sessions, cfg.CookieName, cfg.CookieSecure)(mux),
	)

	srv := httpserver.New(cfg.AppPort, handler)

	logger.Info("starting http server", "port", cfg.AppPort, "api_base_url", cfg.APIBaseURL)

	srvErr := make(chan error, 1)
	go func() {
		srvErr <- srv.Start()
	}()

	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-ctx.Done():
		logger.Info("context canceled, shutting down server")
	case sig := <-signalCh:
		logger.Info("received signal, shutting down", "signal", sig.String())
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), httpserver.ShutdownTimeout)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}

// newSessionStore picks the configured session backend. The memory store
// serves single-instance deployments; Postgres keeps logins across restarts.
func newSessionStore(ctx context.Context, cfg config.Config) (session.Store, func(), error) {
	switch cfg.SessionStore {
	case config.SessionStorePostgres:
		pool, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return repositories.NewPostgresSessionStore(pool), pool.Close, nil
	default:
		return session.NewInMemoryStore(), func() {}, nil
	}
}

func runMigrations(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	pool, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	store := repositories.NewPostgresSessionStore(pool)
	if err := store.EnsureSchema(ctx); err != nil {
		return err
	}

	fmt.Println("web_sessions schema is up to date")
	return nil
}
