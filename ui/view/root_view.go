package view

import (
	"image"
	"log/slog"
	"slices"
	"strconv"
	"time"

	"github.com/soocke/captol-go/config"
	"github.com/soocke/captol-go/ui/theme"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// noRegion is shown in the region selector when nothing is configured.
const noRegion = "<none>"

// Handlers are invoked on user actions from the root view.
type Handlers struct {
	OnToggleCapture func()
	OnSnap          func()
	OnPickRegion    func()
	OnExit          func()
	OnRegionChanged func(name string)
	OnConfigApplied func(cfg *config.Config)
}

// RootView composes the top-level application layout and wires UI callbacks.
// It owns high-level subviews but exposes minimal exported fields for presenters.
type RootView struct {
	cfg     *config.Config
	cfgPath string
	logger  *slog.Logger

	// Subviews
	Session     SessionStats
	ConfigPanel ConfigPanel
	CapturePrev CapturePreview

	// Widgets
	StateLabel   *TLabelWidget
	RegionSelect *TComboboxWidget
	regions      []string
	captureRow   int
}

// UI abstracts the subset of view operations needed by presenters, enabling decoupling
// from the concrete RootView implementation.
type UI interface {
	SetStateLabel(text string, active bool)
	SetConfigEditable(enabled bool)
	UpdatePreview(img image.Image)
	PreviewReset()
	SetSession(session, total time.Duration)
	SetImages(session, total int)
	SetRegions(names []string, selected string)
}

func NewRootView(cfg *config.Config, cfgPath string, logger *slog.Logger) *RootView {
	return &RootView{cfg: cfg, cfgPath: cfgPath, logger: logger}
}

// Build constructs the layout. regions lists the configured region names and
// selected is preselected when present.
func (rv *RootView) Build(regions []string, selected string, h Handlers) {
	if rv == nil {
		return
	}
	// Rows 0-1: session stats, state label, buttons frame
	rv.Session = NewSessionStats(nil, 0, 0)
	rv.StateLabel = TLabel(Txt("State: idle"), Style(theme.StyleStateIdle))
	Grid(rv.StateLabel, Row(0), Column(2), Sticky("we"), Padx("0.4m"), Pady("0.3m"))

	btnFrame := Frame()
	Grid(btnFrame, Row(0), Column(4), Rowspan(2), Sticky("ne"), Padx("0.3m"), Pady("0.3m"))
	captureBtn := TButton(Txt("Toggle Capture"), Style(theme.StylePrimaryButton), Command(h.OnToggleCapture))
	Grid(captureBtn, In(btnFrame), Row(0), Column(0), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
	snapBtn := Button(Txt("Snap"), Command(h.OnSnap))
	Grid(snapBtn, In(btnFrame), Row(1), Column(0), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
	rv.RegionSelect = TCombobox(Width(26), State("readonly"))
	Grid(rv.RegionSelect, In(btnFrame), Row(2), Column(0), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
	rv.SetRegions(regions, selected)
	Bind(rv.RegionSelect, "<<ComboboxSelected>>", Command(func() {
		if rv.RegionSelect == nil || h.OnRegionChanged == nil {
			return
		}
		idx, err := strconv.Atoi(rv.RegionSelect.Current(nil))
		if err != nil || idx < 0 || idx >= len(rv.regions) {
			if rv.logger != nil {
				rv.logger.Error("region selection parse error", "error", err)
			}
			return
		}
		if name := rv.regions[idx]; name != noRegion {
			h.OnRegionChanged(name)
		}
	}))
	pickBtn := Button(Txt("Pick Region"), Command(h.OnPickRegion))
	Grid(pickBtn, In(btnFrame), Row(3), Column(0), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
	exitBtn := TButton(Txt("Exit"), Style(theme.StyleDangerButton), Command(h.OnExit))
	Grid(exitBtn, In(btnFrame), Row(4), Column(0), Sticky("we"), Padx("0.2m"), Pady("0.2m"))

	// Config panel rows
	rv.ConfigPanel = NewConfigPanel(rv.cfg, rv.cfgPath, rv.logger, h.OnConfigApplied)
	endRow := rv.ConfigPanel.Build(2)
	rv.captureRow = endRow

	// Preview of the last saved image
	rv.CapturePrev = NewCapturePreview(rv.captureRow)
}

// SetStateLabel updates the state label text and color.
func (rv *RootView) SetStateLabel(text string, active bool) {
	if rv == nil || rv.StateLabel == nil {
		return
	}
	style := theme.StyleStateIdle
	if active {
		style = theme.StyleStateActive
	}
	rv.StateLabel.Configure(Txt(text), Style(style))
}

// SetConfigEditable toggles config panel editability.
func (rv *RootView) SetConfigEditable(enabled bool) {
	if rv != nil && rv.ConfigPanel != nil {
		rv.ConfigPanel.SetEditable(enabled)
	}
}

// UpdatePreview proxies to underlying capture preview view.
func (rv *RootView) UpdatePreview(img image.Image) {
	if rv != nil && rv.CapturePrev != nil {
		rv.CapturePrev.UpdatePreview(img)
	}
}

// PreviewReset clears the capture preview.
func (rv *RootView) PreviewReset() {
	if rv != nil && rv.CapturePrev != nil {
		rv.CapturePrev.Reset()
	}
}

// SetSession updates both session and total capture durations.
func (rv *RootView) SetSession(session, total time.Duration) {
	if rv == nil || rv.Session == nil {
		return
	}
	rv.Session.SetSession(session)
	rv.Session.SetTotal(total)
}

// SetImages updates the saved image counts.
func (rv *RootView) SetImages(session, total int) {
	if rv == nil || rv.Session == nil {
		return
	}
	rv.Session.SetImages(session, total)
}

// SetRegions replaces the region selector entries and selects selected.
func (rv *RootView) SetRegions(names []string, selected string) {
	if rv == nil || rv.RegionSelect == nil {
		return
	}
	if len(names) == 0 {
		names = []string{noRegion}
	}
	rv.regions = names
	rv.RegionSelect.Configure(Values(names))
	rv.RegionSelect.Current(max(slices.Index(names, selected), 0))
}

// ConfigEditable redirects to SetConfigEditable to satisfy CaptureView interface.
func (rv *RootView) ConfigEditable(b bool) { rv.SetConfigEditable(b) }
