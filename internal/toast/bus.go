// Package toast implements the transient notification banners: a plain
// message toast and a call-to-action toast carrying a one-click retry.
package toast

import (
	"context"
	"sync"
	"time"
)

// DefaultTTL is how long a toast stays visible before it hides itself.
const DefaultTTL = 5 * time.Second

// CTA is the call-to-action toast payload. Retry is bound at creation time,
// typically over the email address the failed operation was attempted with.
type CTA struct {
	Message     string
	ButtonLabel string
	Retry       func(ctx context.Context) bool
}

// State is the externally visible bus state. At most one of VisiblePlain and
// VisibleCTA is true at any instant; the most recent Show call wins.
type State struct {
	VisiblePlain bool
	VisibleCTA   bool
	PlainMessage string
	CTA          *CTA
}

// Subscriber receives the full bus state on every change. New subscribers are
// immediately replayed the current state.
type Subscriber func(State)

// stopper is the part of time.Timer the bus needs; tests swap in manual timers.
type stopper interface {
	Stop() bool
}

type realTimer struct{ *time.Timer }

// Bus coordinates the two toast kinds and their independent auto-hide timers.
type Bus struct {
	mu          sync.Mutex
	state       State
	subscribers []Subscriber
	ttl         time.Duration

	plainTimer stopper
	ctaTimer   stopper

	// newTimer overrides timer creation in tests.
	newTimer func(d time.Duration, fn func()) stopper
}

// NewBus constructs a Bus whose toasts auto-hide after ttl.
func NewBus(ttl time.Duration) *Bus {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Bus{
		ttl: ttl,
		newTimer: func(d time.Duration, fn func()) stopper {
			return realTimer{time.AfterFunc(d, fn)}
		},
	}
}

// ShowPlain hides whatever toast is up, then displays the plain toast with
// the given message for the configured TTL. Re-showing within the TTL
// replaces the pending hide, so only the latest scheduled hide ever fires.
func (b *Bus) ShowPlain(message string) {
	b.mu.Lock()
	b.hideLocked()
	b.state.PlainMessage = message
	b.state.VisiblePlain = true

	b.stopPlainTimerLocked()
	b.plainTimer = b.newTimer(b.ttl, b.expirePlain)
	b.mu.Unlock()

	b.notify()
}

// ShowCTA hides whatever toast is up, then displays the call-to-action toast
// for the configured TTL.
func (b *Bus) ShowCTA(data CTA) {
	b.mu.Lock()
	b.hideLocked()
	cta := data
	b.state.CTA = &cta
	b.state.VisibleCTA = true

	b.stopCTATimerLocked()
	b.ctaTimer = b.newTimer(b.ttl, b.expireCTA)
	b.mu.Unlock()

	b.notify()
}

// Hide dismisses both toast kinds immediately.
func (b *Bus) Hide() {
	b.mu.Lock()
	b.hideLocked()
	b.mu.Unlock()

	b.notify()
}

// hideLocked stops the plain-toast timer and hides both kinds. The CTA timer
// is left running on purpose: this mirrors the long-standing behavior of the
// toast service this package replaced. Do not "fix" without confirming the
// product actually wants the pending CTA hide cancelled.
func (b *Bus) hideLocked() {
	b.stopPlainTimerLocked()
	b.state.VisiblePlain = false
	b.state.VisibleCTA = false
}

// Subscribe registers fn and immediately replays the current state to it.
func (b *Bus) Subscribe(fn Subscriber) {
	if fn == nil {
		return
	}
	b.mu.Lock()
	b.subscribers = append(b.subscribers, fn)
	state := b.state
	b.mu.Unlock()
	fn(state)
}

// Snapshot returns the current bus state.
func (b *Bus) Snapshot() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// RetryCTA invokes the retry action of the currently stored CTA toast and
// reports its outcome. It returns false when no CTA has been shown yet.
func (b *Bus) RetryCTA(ctx context.Context) bool {
	b.mu.Lock()
	cta := b.state.CTA
	b.mu.Unlock()

	if cta == nil || cta.Retry == nil {
		return false
	}
	return cta.Retry(ctx)
}

func (b *Bus) expirePlain() {
	b.mu.Lock()
	b.state.VisiblePlain = false
	b.mu.Unlock()

	b.notify()
}

func (b *Bus) expireCTA() {
	b.mu.Lock()
	b.state.VisibleCTA = false
	b.mu.Unlock()

	b.notify()
}

func (b *Bus) stopPlainTimerLocked() {
	if b.plainTimer != nil {
		b.plainTimer.Stop()
		b.plainTimer = nil
	}
}

func (b *Bus) stopCTATimerLocked() {
	if b.ctaTimer != nil {
		b.ctaTimer.Stop()
		b.ctaTimer = nil
	}
}

func (b *Bus) notify() {
	b.mu.Lock()
	state := b.state
	subscribers := make([]Subscriber, len(b.subscribers))
	copy(subscribers, b.subscribers)
	b.mu.Unlock()

	for _, fn := range subscribers {
		fn(state)
	}
}
