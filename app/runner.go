package app

import (
	"context"
	"log/slog"

	"github.com/soocke/captol-go/config"
	"github.com/soocke/captol-go/domain/session"
)

// Runner keeps a container capturing until its context ends, restarting the
// session whenever a new configuration arrives.
type Runner struct {
	c        *Container
	rect     string
	notifier session.Notifier
	logger   *slog.Logger
	reloads  chan *config.Config
}

// NewRunner returns a runner. rect overrides the configured region when set.
func NewRunner(c *Container, rect string, notifier session.Notifier) *Runner {
	return &Runner{c: c, rect: rect, notifier: notifier, logger: c.Logger, reloads: make(chan *config.Config, 1)}
}

// Reload queues cfg for the run loop. Only the newest pending config is kept.
func (r *Runner) Reload(cfg *config.Config) {
	for {
		select {
		case r.reloads <- cfg:
			return
		default:
		}
		select {
		case <-r.reloads:
		default:
		}
	}
}

// Run registers the region, starts the session and blocks until ctx is done.
// A reload that fails to apply is logged and the previous session keeps running.
func (r *Runner) Run(ctx context.Context) error {
	if err := r.start(ctx, r.c.Config); err != nil {
		return err
	}
	defer r.c.Session.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case cfg := <-r.reloads:
			prev := r.c.Config
			if err := r.restart(ctx, cfg); err != nil {
				if r.logger != nil {
					r.logger.Error("config.reload", "error", err)
				}
				if err := r.restart(ctx, prev); err != nil {
					return err
				}
				continue
			}
			if r.logger != nil {
				r.logger.Info("config.reloaded", "interval", cfg.Capture.AutoclipDuration(), "active_saver", cfg.Capture.EnableActiveImageSaver)
			}
		}
	}
}

func (r *Runner) restart(ctx context.Context, cfg *config.Config) error {
	if err := r.c.Apply(cfg, r.notifier); err != nil {
		return err
	}
	return r.start(ctx, cfg)
}

func (r *Runner) start(ctx context.Context, cfg *config.Config) error {
	rect, err := ResolveRegion(cfg, r.rect)
	if err != nil {
		return err
	}
	if err := r.c.Session.Register(rect); err != nil {
		return err
	}
	return r.c.Session.Start(ctx)
}
