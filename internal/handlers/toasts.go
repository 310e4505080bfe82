package handlers

import (
	"net/http"

	"github.com/videoflix/webclient/internal/session"
	"github.com/videoflix/webclient/internal/toast"
)

// ToastHandler exposes the per-session toast state to the polling banner.
type ToastHandler struct {
	Toasts *toast.Registry
}

type ctaView struct {
	Message     string `json:"message"`
	ButtonLabel string `json:"button_label"`
}

type toastView struct {
	VisiblePlain bool     `json:"visible_plain"`
	VisibleCTA   bool     `json:"visible_cta"`
	PlainMessage string   `json:"plain_message"`
	CTA          *ctaView `json:"cta,omitempty"`
}

// Snapshot handles GET /toasts.
func (h ToastHandler) Snapshot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	state := h.Toasts.For(session.IDFromContext(ctx)).Snapshot()

	view := toastView{
		VisiblePlain: state.VisiblePlain,
		VisibleCTA:   state.VisibleCTA,
		PlainMessage: state.PlainMessage,
	}
	if state.CTA != nil {
		view.CTA = &ctaView{Message: state.CTA.Message, ButtonLabel: state.CTA.ButtonLabel}
	}

	respondJSON(ctx, w, http.StatusOK, view)
}

// Retry handles POST /toasts/retry: it runs the retry action bound to the
// current call-to-action toast.
func (h ToastHandler) Retry(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	ok := h.Toasts.For(session.IDFromContext(ctx)).RetryCTA(ctx)
	respondJSON(ctx, w, http.StatusOK, map[string]bool{"ok": ok})
}

// Hide handles POST /toasts/hide.
func (h ToastHandler) Hide(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	h.Toasts.For(session.IDFromContext(r.Context())).Hide()
	w.WriteHeader(http.StatusNoContent)
}
