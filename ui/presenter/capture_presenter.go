package presenter

import (
	"context"
	"log/slog"
)

// CaptureModel provides enabled state access.
type CaptureModel interface {
	Enabled() bool
	SetEnabled(bool)
}

// LifecycleContract narrows what presenter needs from the capture session.
type LifecycleContract interface {
	Start(ctx context.Context) error
	Stop()
}

// CaptureView updates UI elements affected by capture toggling.
// State label updates are owned by StatusPresenter.
type CaptureView interface {
	ConfigEditable(bool)
}

// CapturePresenter owns presentation logic for toggling capture state.
type CapturePresenter struct {
	ctx     context.Context
	model   CaptureModel
	service LifecycleContract
	view    CaptureView
	logger  *slog.Logger
}

// NewCapturePresenter returns a presenter whose capture runs bound to ctx.
func NewCapturePresenter(ctx context.Context, model CaptureModel, service LifecycleContract, view CaptureView, logger *slog.Logger) *CapturePresenter {
	return &CapturePresenter{ctx: ctx, model: model, service: service, view: view, logger: logger}
}

func (c *CapturePresenter) ready() bool {
	return c != nil && c.model != nil && c.service != nil && c.view != nil
}

// Enable starts periodic capture and locks the config form. Idempotent.
// A session that fails to start leaves the presenter disabled.
func (c *CapturePresenter) Enable() error {
	if !c.ready() || c.model.Enabled() {
		return nil
	}
	if err := c.service.Start(c.ctx); err != nil {
		if c.logger != nil {
			c.logger.Error("capture start failed", "error", err)
		}
		return err
	}
	c.model.SetEnabled(true)
	c.view.ConfigEditable(false)
	return nil
}

// Disable stops periodic capture and unlocks the config form. Idempotent.
func (c *CapturePresenter) Disable() {
	if !c.ready() || !c.model.Enabled() {
		return
	}
	c.service.Stop()
	c.model.SetEnabled(false)
	c.view.ConfigEditable(true)
}

// Toggle flips enabled state delegating to Enable/Disable.
func (c *CapturePresenter) Toggle() error {
	if !c.ready() {
		return nil
	}
	if c.model.Enabled() {
		c.Disable()
		return nil
	}
	return c.Enable()
}

// Sync reconciles the model with a session that stopped on its own, such as
// after a region change or a config apply.
func (c *CapturePresenter) Sync(running bool) {
	if !c.ready() || running || !c.model.Enabled() {
		return
	}
	c.model.SetEnabled(false)
	c.view.ConfigEditable(true)
}
