package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/soocke/captol-go/domain/buffer"
	"github.com/soocke/captol-go/domain/capture"
	"github.com/soocke/captol-go/domain/policy"
	"github.com/soocke/captol-go/domain/region"
	"github.com/soocke/captol-go/domain/storage"
)

const statsLogInterval = 5 * time.Second

// ErrOverlayVisible is returned when a capture is skipped because the flash
// of an earlier save may still be on screen.
var ErrOverlayVisible = errors.New("session: overlay visible")

// Source produces frames of a registered region.
type Source interface {
	Register(r region.Rectangle)
	Region() (region.Rectangle, bool)
	Clip() (capture.Frame, error)
	Stats() capture.CaptureStats
}

// Options configures the periodic capture.
type Options struct {
	Interval time.Duration
	Policy   policy.Policy
	Notifier Notifier
}

// Stats is a point-in-time view of a session.
type Stats struct {
	Capture   capture.CaptureStats
	Ticks     uint64
	Saved     uint64
	Released  uint64
	Corrected uint64
	Failed    uint64
	Skipped   uint64
	Total     int
	Today     int
	Running   bool
	Policy    string
	Interval  time.Duration
	Dir       string
	LastSaved string
}

// Session ties a frame source, the image buffer, the save counter and a
// capture policy together. Ticks and manual snaps are serialized; the
// scheduler drives periodic ticks.
type Session struct {
	mu       sync.Mutex // held for the whole of a tick or snap
	source   Source
	buf      *buffer.ImageBuffer
	counter  *storage.Counter
	logger   *slog.Logger
	sched    Scheduler
	optsMu   sync.Mutex
	opts     Options
	lastStat atomic.Int64
	lastPath atomic.Value // string

	ticks     atomic.Uint64
	saved     atomic.Uint64
	released  atomic.Uint64
	corrected atomic.Uint64
	failed    atomic.Uint64
	skipped   atomic.Uint64
	unsettled atomic.Bool // a correction journal is still pending
}

// New returns a stopped session. A zero Interval defaults to one second and
// a nil Policy to NoDuplicate.
func New(logger *slog.Logger, source Source, counter *storage.Counter, opts Options) *Session {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Session{
		source:  source,
		buf:     buffer.New(),
		counter: counter,
		logger:  logger,
		opts:    withDefaults(opts),
	}
}

func withDefaults(o Options) Options {
	if o.Interval <= 0 {
		o.Interval = time.Second
	}
	if o.Policy == nil {
		o.Policy = policy.NoDuplicate{}
	}
	if o.Notifier == nil {
		o.Notifier = NopNotifier{}
	}
	return o
}

func (s *Session) options() Options {
	s.optsMu.Lock()
	defer s.optsMu.Unlock()
	return s.opts
}

// SetOptions replaces interval, policy and notifier. A running loop keeps
// its interval until restarted.
func (s *Session) SetOptions(o Options) {
	s.optsMu.Lock()
	s.opts = withDefaults(o)
	s.optsMu.Unlock()
}

// Register stops any running loop, forgets buffered history and tracks r.
func (s *Session) Register(r region.Rectangle) error {
	if err := r.Validate(); err != nil {
		return err
	}
	s.Stop()
	s.source.Register(r)
	s.logger.Info("capture.region", "region", r.String())
	return nil
}

// Start begins periodic capture. An interrupted correction left in the save
// directory is completed first and the counter recounted.
func (s *Session) Start(ctx context.Context) error {
	if s.sched.Running() {
		return ErrAlreadyRunning
	}
	if err := s.recover(); err != nil {
		return err
	}
	o := s.options()
	err := s.sched.Start(ctx, o.Interval, func(context.Context) {
		// errors are logged and counted inside tick
		_, _ = s.Tick()
	})
	if err != nil {
		return err
	}
	s.logger.Info("capture.start", "interval", o.Interval, "policy", o.Policy.Name())
	return nil
}

// Stop ends periodic capture and waits for an in-flight tick. The buffer is
// flushed afterwards. Safe to call on a stopped session.
func (s *Session) Stop() {
	wasRunning := s.sched.Running()
	s.sched.Stop()
	s.mu.Lock()
	s.buf.Flush()
	s.mu.Unlock()
	if wasRunning {
		s.logger.Info("capture.stop", "total", s.counter.Total())
	}
}

// Running reports whether the periodic loop is active.
func (s *Session) Running() bool { return s.sched.Running() }

// Close stops the session.
func (s *Session) Close() error {
	s.Stop()
	return nil
}

// Tick runs one periodic capture with the configured policy.
func (s *Session) Tick() (policy.Decision, error) {
	return s.run(s.options().Policy)
}

// Snap captures and saves one frame unconditionally.
func (s *Session) Snap() (policy.Decision, error) {
	if err := s.recover(); err != nil {
		return policy.Discard, err
	}
	return s.run(policy.Manual{})
}

func (s *Session) run(p policy.Policy) (policy.Decision, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ticks.Add(1)
	defer s.maybeLogStats()

	if s.unsettled.Load() {
		if err := s.settle(); err != nil {
			s.failed.Add(1)
			s.logger.Error("capture.settle", "error", err)
			return policy.Discard, err
		}
	}
	o := s.options()
	if o.Notifier.Visible() {
		s.skipped.Add(1)
		s.logger.Debug("capture.skip", "reason", "overlay visible")
		return policy.Discard, ErrOverlayVisible
	}
	o.Notifier.HideOverlay()

	frame, err := s.source.Clip()
	if err != nil {
		s.failed.Add(1)
		if errors.Is(err, capture.ErrNoRegionRegistered) {
			s.logger.Warn("capture.skip", "reason", "no region registered")
		} else {
			s.logger.Error("capture.clip", "error", err)
		}
		return policy.Discard, err
	}
	if err := s.buf.Hold(frame); err != nil {
		capture.RecycleFrame(frame)
		s.failed.Add(1)
		return policy.Discard, err
	}

	d, err := p.Decide(s.buf)
	if err != nil {
		s.buf.Release()
		s.failed.Add(1)
		s.logger.Error("capture.decide", "policy", p.Name(), "error", err)
		return policy.Discard, err
	}

	switch d {
	case policy.Discard:
		s.buf.Release()
		s.released.Add(1)
		s.logger.Debug("capture.unchanged", "seq", frame.Sequence)
		return d, nil
	case policy.Save:
		path := s.counter.NextSavePath()
		if err := s.buf.Save(path); err != nil {
			return d, s.fail(err)
		}
		s.counter.Up(1)
		s.saved.Add(1)
		s.lastPath.Store(path)
		s.logger.Info("capture.saved", "path", path, "total", s.counter.Total(), "seq", frame.Sequence)
	case policy.Correct:
		// the replacement takes the older file's number, freeing the newer one
		path, err := s.buf.Path(buffer.Depth)
		if err != nil {
			return d, s.fail(err)
		}
		newer, err := s.buf.Path(1)
		if err != nil {
			return d, s.fail(err)
		}
		retired := []time.Time{modTime(path), modTime(newer)}
		if err := s.buf.Correct(path); err != nil {
			err = s.fail(err)
			if errors.Is(err, storage.ErrCommitIncomplete) {
				// finish it now so later saves are not numbered around a gap
				if serr := s.settle(); serr != nil {
					s.logger.Error("capture.settle", "error", serr)
				}
			}
			return d, err
		}
		s.counter.Retire(retired...)
		s.counter.Up(1)
		s.corrected.Add(1)
		s.lastPath.Store(path)
		s.logger.Info("capture.corrected", "path", path, "total", s.counter.Total(), "seq", frame.Sequence)
	default:
		s.buf.Release()
		return d, fmt.Errorf("session: unknown decision %v", d)
	}
	if r, ok := s.source.Region(); ok {
		o.Notifier.Flash(r)
	}
	return d, nil
}

// fail reports a write failure and then clears the pending slot.
func (s *Session) fail(err error) error {
	s.failed.Add(1)
	s.logger.Error("capture.write", "error", err)
	s.buf.Release()
	return err
}

func (s *Session) recover() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.counter.Dir() == "" {
		return errors.New("session: no save directory")
	}
	return s.settle()
}

// settle completes or drops a pending correction journal and recounts the
// folder when one was found. Until it succeeds every tick fails without
// capturing. The caller holds s.mu.
func (s *Session) settle() error {
	dir := s.counter.Dir()
	found, err := storage.RecoverJournal(dir)
	if err != nil {
		s.unsettled.Store(true)
		return fmt.Errorf("session: recover %s: %w", dir, err)
	}
	if !found {
		s.unsettled.Store(false)
		return nil
	}
	s.logger.Warn("capture.recovered", "dir", dir)
	s.buf.Flush()
	if err := s.counter.Initialize(); err != nil {
		s.unsettled.Store(true)
		return err
	}
	s.unsettled.Store(false)
	return nil
}

// modTime falls back to now so an unreadable file counts as written today.
func modTime(path string) time.Time {
	if fi, err := os.Stat(path); err == nil {
		return fi.ModTime()
	}
	return time.Now()
}

// Stats returns session counters. Safe to call while running.
func (s *Session) Stats() Stats {
	o := s.options()
	last, _ := s.lastPath.Load().(string)
	return Stats{
		Capture:   s.source.Stats(),
		Ticks:     s.ticks.Load(),
		Saved:     s.saved.Load(),
		Released:  s.released.Load(),
		Corrected: s.corrected.Load(),
		Failed:    s.failed.Load(),
		Skipped:   s.skipped.Load(),
		Total:     s.counter.Total(),
		Today:     s.counter.Today(),
		Running:   s.sched.Running(),
		Policy:    o.Policy.Name(),
		Interval:  o.Interval,
		Dir:       s.counter.Dir(),
		LastSaved: last,
	}
}

// Counter exposes the save counter for folder changes between runs.
func (s *Session) Counter() *storage.Counter { return s.counter }

func (s *Session) maybeLogStats() {
	now := time.Now().UnixNano()
	last := s.lastStat.Load()
	if last != 0 && time.Duration(now-last) < statsLogInterval {
		return
	}
	s.lastStat.Store(now)
	st := s.Stats()
	s.logger.Debug("capture.stats",
		"captures", st.Capture.Captures,
		"failures", st.Capture.Failures,
		"avg_capture", st.Capture.AvgCapture,
		"saved", st.Saved,
		"released", st.Released,
		"corrected", st.Corrected,
		"total", st.Total,
	)
}
