package middleware

import (
	"net/http"

	"github.com/videoflix/webclient/internal/logging"
	"github.com/videoflix/webclient/internal/session"
)

// EnsureSession resolves the browser session from the cookie, creating a
// fresh anonymous session (and setting the cookie) when none exists. The
// session id ends up on the request context for everything downstream.
func EnsureSession(manager *session.Manager, cookieName string, secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if cookie, err := r.Cookie(cookieName); err == nil {
				if sess, err := manager.Find(ctx, cookie.Value); err == nil {
					next.ServeHTTP(w, r.WithContext(session.WithID(ctx, sess.ID)))
					return
				}
			}

			sess, err := manager.Begin(ctx)
			if err != nil {
				logging.FromContext(ctx).Error("begin session", "error", err)
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}

			http.SetCookie(w, &http.Cookie{
				Name:     cookieName,
				Value:    sess.ID,
				Path:     "/",
				Expires:  sess.ExpiresAt,
				HttpOnly: true,
				Secure:   secure,
				SameSite: http.SameSiteLaxMode,
			})

			next.ServeHTTP(w, r.WithContext(session.WithID(ctx, sess.ID)))
		})
	}
}
