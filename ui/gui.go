package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/soocke/captol-go/app"
	"github.com/soocke/captol-go/config"
	"github.com/soocke/captol-go/domain/region"
	"github.com/soocke/captol-go/domain/session"
	"github.com/soocke/captol-go/domain/storage"
	"github.com/soocke/captol-go/ui/model"
	"github.com/soocke/captol-go/ui/presenter"
	"github.com/soocke/captol-go/ui/theme"
	"github.com/soocke/captol-go/ui/view"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

const (
	tick = config.UIRefresh
	// pickedRegion names the region saved from the region picker.
	pickedRegion = "picked"
)

// GUI is the desktop front end of a capture container.
type GUI struct {
	ctx     context.Context
	c       *app.Container
	cfg     *config.Config
	cfgPath string
	rect    string
	overlay *view.Overlay
	logger  *slog.Logger

	root     *view.RootView
	picker   view.RegionPicker
	capModel *model.CaptureModel
	capture  *presenter.CapturePresenter
	loop     *presenter.Loop
	afterID  string
}

// New returns a GUI for c. overlay must be the notifier c was built with;
// rect overrides the configured region when set. The window closes when ctx ends.
func New(ctx context.Context, c *app.Container, overlay *view.Overlay, cfgPath, rect string, logger *slog.Logger) *GUI {
	return &GUI{ctx: ctx, c: c, cfg: c.Config, cfgPath: cfgPath, rect: rect, overlay: overlay, logger: logger, capModel: &model.CaptureModel{}}
}

// Run builds the window and blocks until it is closed.
func (g *GUI) Run() error {
	theme.InitStyles()
	App.WmTitle("captol")
	WmProtocol(App, "WM_DELETE_WINDOW", g.exit)
	WmGeometry(App, "760x640+100+100")

	if r, err := app.ResolveRegion(g.cfg, g.rect); err != nil {
		g.logger.Info("no initial region", "reason", err)
	} else if err := g.c.Session.Register(r); err != nil {
		return err
	}
	g.capModel.SetRegion(g.cfg.Capture.Region)

	g.root = view.NewRootView(g.cfg, g.cfgPath, g.logger)
	g.picker = view.NewRegionPicker(g.logger, g.onRegionPicked)
	g.root.Build(g.cfg.RegionNames(), g.cfg.Capture.Region, view.Handlers{
		OnToggleCapture: g.toggleCapture,
		OnSnap:          g.snap,
		OnPickRegion:    g.pickRegion,
		OnExit:          g.exit,
		OnRegionChanged: g.onRegionChanged,
		OnConfigApplied: g.onConfigApplied,
	})

	g.capture = presenter.NewCapturePresenter(g.ctx, g.capModel, g.c.Session, g.root, g.logger)
	g.loop = presenter.NewLoop(
		g.c.Session.Stats,
		g.capture,
		presenter.NewSessionPresenter(model.NewSessionModel(), g.capModel, g.root),
		presenter.NewStatusPresenter(g.root),
		presenter.NewPreviewPresenter(storage.ReadImage, g.root, g.logger),
		g.overlay.Pump,
		g.scheduleUpdate,
	)
	g.scheduleUpdate()

	App.Wait()
	g.c.Session.Stop()
	return nil
}

func (g *GUI) scheduleUpdate() {
	if g.ctx.Err() != nil {
		g.exit()
		return
	}
	// TclAfter keeps all widget access on Tk's event loop thread.
	g.afterID = TclAfter(tick, g.loop.Tick)
}

func (g *GUI) exit() {
	if g.afterID != "" {
		TclAfterCancel(g.afterID)
		g.afterID = ""
	}
	g.c.Session.Stop()
	if g.picker != nil {
		g.picker.Close()
	}
	g.overlay.Close()
	Destroy(App)
}

func (g *GUI) toggleCapture() {
	if err := g.capture.Toggle(); err != nil {
		g.root.SetStateLabel("State: "+err.Error(), false)
	}
}

// snap saves one frame off the Tk thread; the preview follows on the next tick.
func (g *GUI) snap() {
	go func() {
		d, err := g.c.Session.Snap()
		if errors.Is(err, session.ErrOverlayVisible) {
			g.logger.Info("snap skipped", "reason", "overlay visible")
			return
		}
		if err != nil {
			g.logger.Error("snap failed", "error", err)
			return
		}
		g.logger.Info("snap", "decision", d.String())
	}()
}

func (g *GUI) pickRegion() {
	current, _ := g.c.Clipper.Region()
	g.picker.OpenOrFocus(current)
}

func (g *GUI) onRegionPicked(r region.Rectangle) {
	if g.cfg.Regions == nil {
		g.cfg.Regions = map[string]region.Rectangle{}
	}
	g.cfg.Regions[pickedRegion] = r
	g.root.SetRegions(g.cfg.RegionNames(), pickedRegion)
	g.useRegion(pickedRegion, r)
}

func (g *GUI) onRegionChanged(name string) {
	r, ok := g.cfg.Region(name)
	if !ok {
		return
	}
	g.useRegion(name, r)
}

// useRegion registers r, which stops a running capture, and persists the choice.
func (g *GUI) useRegion(name string, r region.Rectangle) {
	if err := g.c.Session.Register(r); err != nil {
		g.root.SetStateLabel(fmt.Sprintf("State: region %s: %v", name, err), false)
		return
	}
	g.capModel.SetRegion(name)
	g.cfg.Capture.Region = name
	if err := g.cfg.Save(g.cfgPath); err != nil {
		g.logger.Error("config save failed", "error", err)
	}
	g.logger.Info("region selected", "name", name, "rect", r.String())
}

// onConfigApplied moves the container to the edited configuration. The panel
// is only editable while capture is stopped.
func (g *GUI) onConfigApplied(cfg *config.Config) {
	if err := g.c.Apply(cfg, g.overlay); err != nil {
		g.logger.Error("config apply failed", "error", err)
		g.root.SetStateLabel("State: "+err.Error(), false)
		return
	}
	g.overlay.Configure(cfg.Overlay)
	g.logger.Info("config applied", "folder", cfg.Capture.DefaultFolder, "extension", cfg.Capture.Extension, "policy", g.c.Session.Stats().Policy)
}
