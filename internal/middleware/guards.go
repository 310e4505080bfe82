package middleware

import (
	"context"
	"net/http"

	"github.com/videoflix/webclient/internal/session"
)

// Routes the guards redirect to. They are navigation targets, not API paths.
const (
	LoginRoute     = "/login"
	DashboardRoute = "/dashboard"
)

// TokenChecker reports the API token a session currently holds, if any.
type TokenChecker interface {
	Token(ctx context.Context, sessionID string) string
}

// RequireAuth permits the request only when the session holds a token;
// otherwise the browser is redirected to the login page. Token presence is
// the entire check: no claims, no expiry parsing, nothing else.
func RequireAuth(sessions TokenChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if sessions.Token(ctx, session.IDFromContext(ctx)) == "" {
				http.Redirect(w, r, LoginRoute, http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAnon is the mirror guard for the login, sign-up, reset, and
// verification pages: an already authenticated browser is sent to the
// dashboard instead.
func RequireAnon(sessions TokenChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if sessions.Token(ctx, session.IDFromContext(ctx)) != "" {
				http.Redirect(w, r, DashboardRoute, http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Chain applies middlewares left to right: the first one sees the request
// first. Guards composed this way evaluate as a sequential AND.
func Chain(h http.Handler, mws ...func(http.Handler) http.Handler) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}
