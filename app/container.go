package app

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/soocke/captol-go/config"
	"github.com/soocke/captol-go/domain/capture"
	"github.com/soocke/captol-go/domain/policy"
	"github.com/soocke/captol-go/domain/region"
	"github.com/soocke/captol-go/domain/session"
	"github.com/soocke/captol-go/domain/storage"
)

// ErrNoRegion is returned when neither a rectangle nor a region name is available.
var ErrNoRegion = errors.New("no capture region: pass --rect x,y,w,h or --region NAME")

// Container assembles the capture session and its collaborators.
type Container struct {
	Config  *config.Config
	Logger  *slog.Logger
	Clipper *capture.Clipper
	Counter *storage.Counter
	Session *session.Session
}

// BuildContainer constructs the clipper, counter and session for cfg. A nil
// grab uses the platform screen grabber and a nil notifier ignores signals.
// The save folder is created and scanned; no region is registered yet.
func BuildContainer(cfg *config.Config, logger *slog.Logger, notifier session.Notifier, grab capture.Grabber) (*Container, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	c := &Container{Config: cfg, Logger: logger}
	c.Clipper = capture.NewClipper(logger, grab)
	c.Counter = storage.NewCounter(cfg.Capture.Extension)
	if err := c.Counter.ChangeDir(cfg.Capture.DefaultFolder); err != nil {
		return nil, err
	}
	c.Session = session.New(logger, c.Clipper, c.Counter, SessionOptions(cfg, notifier))
	return c, nil
}

// SessionOptions derives the periodic capture options from cfg.
func SessionOptions(cfg *config.Config, notifier session.Notifier) session.Options {
	return session.Options{
		Interval: cfg.Capture.AutoclipDuration(),
		Policy:   policy.ForConfig(cfg.Capture.EnableActiveImageSaver),
		Notifier: notifier,
	}
}

// ResolveRegion picks the capture rectangle: an explicit "x,y,w,h" wins,
// otherwise the named region from cfg.Capture.Region.
func ResolveRegion(cfg *config.Config, rect string) (region.Rectangle, error) {
	if rect != "" {
		return region.Parse(rect)
	}
	name := cfg.Capture.Region
	if name == "" {
		return region.Rectangle{}, ErrNoRegion
	}
	r, ok := cfg.Region(name)
	if !ok {
		return region.Rectangle{}, fmt.Errorf("unknown region %q (known: %v)", name, cfg.RegionNames())
	}
	return r, nil
}

// Apply moves the container to cfg: save folder, extension, interval and
// policy. A running session is stopped and must be restarted by the caller.
func (c *Container) Apply(cfg *config.Config, notifier session.Notifier) error {
	c.Session.Stop()
	if cfg.Capture.Extension != c.Counter.Ext() {
		if err := c.Counter.SetExt(cfg.Capture.Extension); err != nil {
			return err
		}
	}
	if cfg.Capture.DefaultFolder != c.Counter.Dir() {
		if err := c.Counter.ChangeDir(cfg.Capture.DefaultFolder); err != nil {
			return err
		}
	}
	c.Session.SetOptions(SessionOptions(cfg, notifier))
	c.Config = cfg
	return nil
}

// Close stops the session.
func (c *Container) Close() error {
	if c == nil || c.Session == nil {
		return nil
	}
	return c.Session.Close()
}
