package capture

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/soocke/captol-go/domain/region"
)

// ErrNoRegionRegistered is returned by Clip before any region was registered.
var ErrNoRegionRegistered = errors.New("capture: no region registered")

// Clipper captures the pixels of one registered screen rectangle on demand.
// Register and Clip may be called from different goroutines.
type Clipper struct {
	mu     sync.Mutex
	rect   region.Rectangle
	set    bool
	grab   Grabber
	logger *slog.Logger

	captures     atomic.Uint64
	failures     atomic.Uint64
	captureNanos atomic.Uint64
	sequence     atomic.Uint64
	lastCapture  atomic.Int64
}

// NewClipper constructs a clipper. A nil grab uses the platform screen grabber.
func NewClipper(logger *slog.Logger, grab Grabber) *Clipper {
	if grab == nil {
		grab = GrabSelection
	}
	return &Clipper{grab: grab, logger: logger}
}

// Register replaces the tracked region.
func (c *Clipper) Register(r region.Rectangle) {
	c.mu.Lock()
	c.rect, c.set = r, true
	c.mu.Unlock()
	if c.logger != nil {
		c.logger.Debug("capture.region", "region", r.String())
	}
}

// Unregister clears the tracked region.
func (c *Clipper) Unregister() {
	c.mu.Lock()
	c.rect, c.set = region.Rectangle{}, false
	c.mu.Unlock()
}

// Region returns the tracked region and whether one is set.
func (c *Clipper) Region() (region.Rectangle, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rect, c.set
}

// Clip captures the current on-screen pixels of the registered region.
// It does not retry; a failed grab is returned to the caller as is.
func (c *Clipper) Clip() (Frame, error) {
	r, ok := c.Region()
	if !ok {
		return Frame{}, ErrNoRegionRegistered
	}
	start := time.Now()
	img, err := c.grab(r.Bounds())
	if err != nil {
		c.failures.Add(1)
		return Frame{}, fmt.Errorf("capture: grab %s: %w", r, err)
	}
	if img == nil {
		c.failures.Add(1)
		return Frame{}, fmt.Errorf("capture: grab %s returned no image", r)
	}
	out := normalize(img)
	now := time.Now()
	c.captureNanos.Add(uint64(now.Sub(start).Nanoseconds()))
	c.captures.Add(1)
	c.lastCapture.Store(now.UnixNano())
	return Frame{Image: out, CapturedAt: now, Sequence: c.sequence.Add(1)}, nil
}

// Stats reports capture counters and the average grab latency.
func (c *Clipper) Stats() CaptureStats {
	captures := c.captures.Load()
	total := c.captureNanos.Load()
	var avg time.Duration
	avgMicros := 0.0
	if captures > 0 && total > 0 {
		avg = time.Duration(total / captures)
		avgMicros = float64(avg) / float64(time.Microsecond)
	}
	var last time.Time
	if ns := c.lastCapture.Load(); ns != 0 {
		last = time.Unix(0, ns)
	}
	return CaptureStats{
		Captures:         captures,
		Failures:         c.failures.Load(),
		AvgCapture:       avg,
		AvgCaptureMicros: avgMicros,
		LastCapture:      last,
		Sequence:         c.sequence.Load(),
	}
}
