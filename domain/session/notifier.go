package session

import "github.com/soocke/captol-go/domain/region"

// Notifier receives presentation signals from the capture loop. All calls
// must return immediately; they cannot fail a tick.
type Notifier interface {
	// Visible reports whether a flash may still be on screen. Captures are
	// skipped while it is.
	Visible() bool
	// HideOverlay is called before every capture.
	HideOverlay()
	// Flash is called after a frame was committed to disk.
	Flash(r region.Rectangle)
}

// NopNotifier ignores all signals.
type NopNotifier struct{}

func (NopNotifier) Visible() bool          { return false }
func (NopNotifier) HideOverlay()           {}
func (NopNotifier) Flash(region.Rectangle) {}
