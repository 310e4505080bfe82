package handlers

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/videoflix/webclient/internal/authflow"
	"github.com/videoflix/webclient/internal/session"
)

type pageData struct {
	LoggedIn bool
}

type authPageData struct {
	pageData
	Email string
}

type resetPageData struct {
	pageData
	Token string
}

type verifyPageData struct {
	pageData
	Verified bool
}

// PageHandler serves the landing page and every account page.
type PageHandler struct {
	Auth    *authflow.Workflow
	Render  *Renderer
	Limiter RateLimiter
}

// Landing serves GET /. The root pattern catches everything unmatched, so
// any other path is a 404 here.
func (h PageHandler) Landing(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	h.Render.Render(w, r, "landing", pageData{})
}

// Start carries the email typed on the landing page over to the sign-up form.
func (h PageHandler) Start(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	email := strings.TrimSpace(r.FormValue("email"))
	http.Redirect(w, r, "/sign-up?email="+url.QueryEscape(email), http.StatusSeeOther)
}

// Login serves the login form and handles its submission. On success the
// browser moves to the dashboard; on failure the page re-renders and the
// toast banner explains, offering to resend the verification email.
func (h PageHandler) Login(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.Render.Render(w, r, "login", authPageData{Email: r.URL.Query().Get("email")})
	case http.MethodPost:
		if !allowRequest(h.Limiter, r, "login") {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}

		ctx := r.Context()
		email := strings.TrimSpace(strings.ToLower(r.FormValue("email")))
		password := r.FormValue("password")

		if h.Auth.Login(ctx, session.IDFromContext(ctx), email, password) {
			http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
			return
		}
		h.Render.Render(w, r, "login", authPageData{Email: email})
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// SignUp serves the registration form. A successful signup does not log the
// user in; they are sent to the login page to wait for the verification email.
func (h PageHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.Render.Render(w, r, "sign_up", authPageData{Email: r.URL.Query().Get("email")})
	case http.MethodPost:
		if !allowRequest(h.Limiter, r, "signup") {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}

		ctx := r.Context()
		email := strings.TrimSpace(strings.ToLower(r.FormValue("email")))
		password := r.FormValue("password")

		if h.Auth.SignUp(ctx, session.IDFromContext(ctx), email, password) {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		h.Render.Render(w, r, "sign_up", authPageData{Email: email})
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// ForgotPassword serves the reset-request form. The toast wording is the
// same whether or not the address exists, so the page just re-renders.
func (h PageHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.Render.Render(w, r, "forgot_password", pageData{})
	case http.MethodPost:
		if !allowRequest(h.Limiter, r, "forgot") {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}

		ctx := r.Context()
		email := strings.TrimSpace(strings.ToLower(r.FormValue("email")))
		h.Auth.SendResetPasswordEmail(ctx, session.IDFromContext(ctx), email)
		h.Render.Render(w, r, "forgot_password", pageData{})
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// ResetPassword applies a new password using the token from the emailed link.
func (h PageHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	token := strings.TrimPrefix(r.URL.Path, "/reset-password/")
	if token == "" {
		http.NotFound(w, r)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.Render.Render(w, r, "reset_password", resetPageData{Token: token})
	case http.MethodPost:
		if !allowRequest(h.Limiter, r, "reset") {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}

		ctx := r.Context()
		password := r.FormValue("password")

		if h.Auth.ResetPassword(ctx, session.IDFromContext(ctx), password, token) {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		h.Render.Render(w, r, "reset_password", resetPageData{Token: token})
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// Verify confirms the email address behind the token in the link. Success is
// an in-page state rather than a toast; failure leaves the CTA toast with the
// resend offer.
func (h PageHandler) Verify(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	token := strings.TrimPrefix(r.URL.Path, "/verify/")
	if token == "" {
		http.NotFound(w, r)
		return
	}

	ctx := r.Context()
	verified := h.Auth.VerifyEmail(ctx, session.IDFromContext(ctx), token)
	h.Render.Render(w, r, "verify", verifyPageData{Verified: verified})
}

// Logout clears the session token and sends the browser home. The network
// outcome of the upstream logout is not interesting to this caller.
func (h PageHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	h.Auth.Logout(ctx, session.IDFromContext(ctx))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
