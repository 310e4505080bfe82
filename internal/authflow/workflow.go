// Package authflow implements the account workflows: signup, login, logout,
// email verification, and password reset. Every operation converts upstream
// failures into a boolean result plus a toast; no error crosses this boundary.
package authflow

import (
	"context"
	"strings"

	"github.com/videoflix/webclient/internal/logging"
	"github.com/videoflix/webclient/internal/toast"
)

// User-facing toast wording, kept exactly as shipped.
const (
	msgAccountCreated = "Account created. Please verify your email."
	msgGenericError   = "An error occured. Please contact our support."
	msgEmailSent      = "An email has been sent to this address."
	msgPasswordReset  = "Password reset."

	msgLoginFailed       = "Something went wrong. Already have an account?"
	labelSendVerifyEmail = "Send verification email"
	msgVerifyFailed      = "Sorry, something went wrong."
	labelResendEmail     = "Resend email"
)

// API is the slice of the streaming-API client used by the auth workflows.
type API interface {
	SignUp(ctx context.Context, email, password string) error
	VerifyEmail(ctx context.Context, token string) error
	ResendVerificationEmail(ctx context.Context, email string) error
	SendResetPasswordEmail(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, password, token string) error
	Login(ctx context.Context, email, password string) (string, error)
	Logout(ctx context.Context, token string) error
}

// TokenStore is the slice of the session manager the workflows need.
type TokenStore interface {
	Token(ctx context.Context, sessionID string) string
	SetToken(ctx context.Context, sessionID, token string) error
	ClearToken(ctx context.Context, sessionID string)
}

// Notifier hands out the per-session toast bus.
type Notifier interface {
	For(sessionID string) *toast.Bus
}

// Workflow wires the gateway, session store, and notification bus together.
type Workflow struct {
	API      API
	Sessions TokenStore
	Toasts   Notifier
}

// NewWorkflow constructs the auth workflow over its collaborators.
func NewWorkflow(api API, sessions TokenStore, toasts Notifier) *Workflow {
	return &Workflow{API: api, Sessions: sessions, Toasts: toasts}
}

// SignUp creates a new account. It never logs the user in: the account must
// be verified by email first.
func (w *Workflow) SignUp(ctx context.Context, sessionID, email, password string) bool {
	if err := w.API.SignUp(ctx, email, password); err != nil {
		w.Toasts.For(sessionID).ShowPlain(msgGenericError)
		return false
	}
	w.Toasts.For(sessionID).ShowPlain(msgAccountCreated)
	return true
}

// Login exchanges credentials for a token and stores it in the session. On
// success no toast is shown; the caller performs the view transition. On
// failure the CTA toast offers to resend the verification email to the
// submitted address.
func (w *Workflow) Login(ctx context.Context, sessionID, email, password string) bool {
	token, err := w.API.Login(ctx, email, password)
	if err != nil {
		w.Toasts.For(sessionID).ShowCTA(toast.CTA{
			Message:     msgLoginFailed,
			ButtonLabel: labelSendVerifyEmail,
			Retry: func(ctx context.Context) bool {
				return w.ResendVerificationEmail(ctx, sessionID, email)
			},
		})
		return false
	}

	if err := w.Sessions.SetToken(ctx, sessionID, token); err != nil {
		logging.FromContext(ctx).Error("store login token", "error", err)
		w.Toasts.For(sessionID).ShowPlain(msgGenericError)
		return false
	}
	return true
}

// Logout removes the token from the session before the network call resolves:
// even if the upstream logout fails, the frontend must already treat the user
// as logged out. The boolean reflects the network outcome only.
func (w *Workflow) Logout(ctx context.Context, sessionID string) bool {
	token := w.Sessions.Token(ctx, sessionID)
	w.Sessions.ClearToken(ctx, sessionID)

	if err := w.API.Logout(ctx, token); err != nil {
		logging.FromContext(ctx).Warn("upstream logout failed", "error", err)
		return false
	}
	return true
}

// VerifyEmail confirms the address belonging to the verification token. On
// success the caller shows an in-page success state, so no toast is emitted.
// On failure the resend target is recovered from the token itself.
func (w *Workflow) VerifyEmail(ctx context.Context, sessionID, token string) bool {
	if err := w.API.VerifyEmail(ctx, token); err != nil {
		email := ExtractEmailFromToken(token)
		w.Toasts.For(sessionID).ShowCTA(toast.CTA{
			Message:     msgVerifyFailed,
			ButtonLabel: labelResendEmail,
			Retry: func(ctx context.Context) bool {
				return w.ResendVerificationEmail(ctx, sessionID, email)
			},
		})
		return false
	}
	return true
}

// ResendVerificationEmail asks for a fresh verification email. The user sees
// the same toast whether the call worked or not; only the return value tells.
func (w *Workflow) ResendVerificationEmail(ctx context.Context, sessionID, email string) bool {
	err := w.API.ResendVerificationEmail(ctx, email)
	w.Toasts.For(sessionID).ShowPlain(msgEmailSent)
	return err == nil
}

// SendResetPasswordEmail requests a password-reset email. Like the resend
// flow, the toast does not reveal whether the address exists.
func (w *Workflow) SendResetPasswordEmail(ctx context.Context, sessionID, email string) bool {
	err := w.API.SendResetPasswordEmail(ctx, email)
	w.Toasts.For(sessionID).ShowPlain(msgEmailSent)
	return err == nil
}

// ResetPassword applies the new password using the reset token.
func (w *Workflow) ResetPassword(ctx context.Context, sessionID, password, token string) bool {
	if err := w.API.ResetPassword(ctx, password, token); err != nil {
		w.Toasts.For(sessionID).ShowPlain(msgGenericError)
		return false
	}
	w.Toasts.For(sessionID).ShowPlain(msgPasswordReset)
	return true
}

// ExtractEmailFromToken recovers the email address from a verification token.
// The deployed API prefixes tokens with the plaintext address followed by a
// colon; if that format ever changes this returns garbage, which is the
// documented status quo rather than something to guard against here.
func ExtractEmailFromToken(token string) string {
	parts := strings.Split(token, ":")
	return parts[0]
}
