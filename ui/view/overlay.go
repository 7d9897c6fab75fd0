package view

import (
	"runtime"
	"sync/atomic"
	"time"

	"github.com/soocke/captol-go/config"
	"github.com/soocke/captol-go/domain/region"
	"github.com/soocke/captol-go/ui/theme"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// overlaySignal is a queued notifier call: hide withdraws, otherwise rect flashes.
type overlaySignal struct {
	hide bool
	rect region.Rectangle
}

// Overlay marks the capture region on screen. It implements session.Notifier:
// the capture goroutine only enqueues signals, Pump applies them on the Tk
// thread. Signals are dropped when the queue is full.
type Overlay struct {
	enabled atomic.Bool
	visible atomic.Bool // set when a flash is queued, cleared when it ends
	flashMs atomic.Int64
	signals chan overlaySignal

	// Tk thread only.
	win    *ToplevelWidget
	hideID string
}

// NewOverlay returns an overlay configured from cfg. No window exists until
// the first flash is pumped.
func NewOverlay(cfg config.OverlayConfig) *Overlay {
	o := &Overlay{signals: make(chan overlaySignal, 8)}
	o.Configure(cfg)
	return o
}

// Configure applies new overlay settings. Safe from any goroutine.
func (o *Overlay) Configure(cfg config.OverlayConfig) {
	o.enabled.Store(cfg.Enabled)
	if !cfg.Enabled {
		o.visible.Store(false)
	}
	o.flashMs.Store(int64(cfg.FlashMs))
}

// Visible reports whether a queued or shown flash has not been withdrawn yet.
func (o *Overlay) Visible() bool {
	return o != nil && o.enabled.Load() && o.visible.Load()
}

// HideOverlay queues a withdraw so the overlay is not part of the next capture.
func (o *Overlay) HideOverlay() { o.send(overlaySignal{hide: true}) }

// Flash queues a short highlight of r.
func (o *Overlay) Flash(r region.Rectangle) {
	if o.send(overlaySignal{rect: r}) {
		o.visible.Store(true)
	}
}

func (o *Overlay) send(s overlaySignal) bool {
	if o == nil || !o.enabled.Load() {
		return false
	}
	select {
	case o.signals <- s:
		return true
	default:
		return false
	}
}

// Pump applies all queued signals. Call from the Tk event loop only.
func (o *Overlay) Pump() {
	if o == nil {
		return
	}
	for {
		select {
		case s := <-o.signals:
			if s.hide {
				// visible stays set until the flash timer ends
				o.withdraw()
			} else {
				o.show(s.rect)
			}
		default:
			return
		}
	}
}

func (o *Overlay) show(r region.Rectangle) {
	if r.Empty() {
		if o.hideID == "" {
			o.visible.Store(false)
		}
		return
	}
	if o.win == nil {
		o.win = App.Toplevel(Borderwidth(0), Background(theme.ColorFlash))
		o.win.WmTitle("captol")
		WmAttributes(o.win.Window, "-topmost", 1)
		WmAttributes(o.win.Window, "-alpha", 0.35)
		switch runtime.GOOS {
		case "windows":
			WmAttributes(o.win.Window, "-toolwindow", true)
		case "linux":
			WmAttributes(o.win.Window, "-type", "splash")
		}
	}
	if o.hideID != "" {
		TclAfterCancel(o.hideID)
	}
	WmGeometry(o.win.Window, r.String())
	WmDeiconify(o.win.Window)
	flash := time.Duration(o.flashMs.Load()) * time.Millisecond
	o.hideID = TclAfter(flash, func() {
		o.hideID = ""
		o.withdraw()
		o.visible.Store(false)
	})
}

func (o *Overlay) withdraw() {
	if o.win != nil {
		WmWithdraw(o.win.Window)
	}
}

// Close destroys the overlay window. Call from the Tk event loop only.
func (o *Overlay) Close() {
	if o == nil {
		return
	}
	if o.hideID != "" {
		TclAfterCancel(o.hideID)
		o.hideID = ""
	}
	if o.win != nil {
		Destroy(o.win)
		o.win = nil
	}
	o.visible.Store(false)
}
