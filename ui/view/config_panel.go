package view

import (
	"fmt"
	"log/slog"
	"maps"
	"strconv"
	"strings"

	"github.com/soocke/captol-go/config"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// ConfigPanel encapsulates the configuration form widgets and apply logic.
// It owns its widgets and writes back into *config.Config on ApplyChanges.
type ConfigPanel interface {
	Build(startRow int) (endRow int) // constructs widgets starting at startRow, returns next free row
	SetEditable(enabled bool)
	ApplyChanges() // parses widget text into underlying config and persists
}

type configPanel struct {
	cfg       *config.Config
	cfgPath   string
	logger    *slog.Logger
	onApplied func(*config.Config)
	applyBtn  *ButtonWidget
	errLabel  *LabelWidget
	widgets   map[string]*TextWidget // keyed by internal field id
}

// NewConfigPanel creates the view bound to cfg. onApplied receives a copy of
// every configuration that passed validation and was saved.
func NewConfigPanel(cfg *config.Config, cfgPath string, logger *slog.Logger, onApplied func(*config.Config)) ConfigPanel {
	return &configPanel{cfg: cfg, cfgPath: cfgPath, logger: logger, onApplied: onApplied, widgets: make(map[string]*TextWidget)}
}

func (v *configPanel) Build(startRow int) (row int) {
	c := v.cfg
	row = startRow
	makeRow := func(id, label, value string) {
		lbl := Label(Txt(label), Anchor("w"))
		Grid(lbl, Row(row), Column(0), Sticky("w"), Padx("0.4m"), Pady("0.15m"))
		w := Text(Height(1), Width(32))
		Grid(w, Row(row), Column(1), Columnspan(3), Sticky("we"), Padx("0.4m"), Pady("0.15m"))
		w.Delete("1.0", END)
		w.Insert("1.0", value)
		v.widgets[id] = w
		row++
	}
	makeRow("interval", "Autoclip Interval (s)", strconv.FormatFloat(c.Capture.AutoclipInterval, 'f', -1, 64))
	makeRow("activeSaver", "Active Image Saver (true/false)", fmt.Sprintf("%t", c.Capture.EnableActiveImageSaver))
	makeRow("extension", "Extension (png/bmp/tiff)", c.Capture.Extension)
	makeRow("folder", "Save Folder", c.Capture.DefaultFolder)
	makeRow("overlay", "Overlay (true/false)", fmt.Sprintf("%t", c.Overlay.Enabled))
	makeRow("flashMs", "Flash Ms", fmt.Sprintf("%d", c.Overlay.FlashMs))
	v.applyBtn = Button(Txt("Apply Changes"), Command(func() { v.ApplyChanges() }))
	Grid(v.applyBtn, Row(row), Column(0), Sticky("we"), Padx("0.4m"), Pady("0.3m"))
	v.errLabel = Label(Txt(""), Anchor("w"), Foreground("#dc2626"))
	Grid(v.errLabel, Row(row), Column(1), Columnspan(3), Sticky("we"), Padx("0.4m"), Pady("0.3m"))
	row++
	return row
}

func (v *configPanel) SetEditable(enabled bool) {
	state := "disabled"
	if enabled {
		state = "normal"
	}
	for _, w := range v.widgets {
		if w != nil {
			w.Configure(State(state))
		}
	}
	if v.applyBtn != nil {
		v.applyBtn.Configure(State(state))
	}
}

func (v *configPanel) text(id string) (string, bool) {
	w := v.widgets[id]
	if w == nil {
		return "", false
	}
	return strings.TrimSpace(strings.Join(w.Get("1.0", END), "")), true
}

func (v *configPanel) ApplyChanges() {
	if v.cfg == nil {
		return
	}
	cfg := *v.cfg // copy
	cfg.Regions = maps.Clone(v.cfg.Regions)
	if s, ok := v.text("interval"); ok {
		if f, ok := parseFloatField(s); ok {
			cfg.Capture.AutoclipInterval = f
		}
	}
	if s, ok := v.text("activeSaver"); ok {
		if b, ok := parseBoolLoose(s); ok {
			cfg.Capture.EnableActiveImageSaver = b
		}
	}
	if s, ok := v.text("extension"); ok && s != "" {
		cfg.Capture.Extension = s
	}
	if s, ok := v.text("folder"); ok && s != "" {
		cfg.Capture.DefaultFolder = s
	}
	if s, ok := v.text("overlay"); ok {
		if b, ok := parseBoolLoose(s); ok {
			cfg.Overlay.Enabled = b
		}
	}
	if s, ok := v.text("flashMs"); ok {
		if i, ok := parseIntField(s); ok {
			cfg.Overlay.FlashMs = i
		}
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		v.showError(config.ValidationErrors(errs).Error())
		return
	}
	*v.cfg = cfg
	msg := ""
	if err := v.cfg.Save(v.cfgPath); err != nil {
		if v.logger != nil {
			v.logger.Error("config save failed", "error", err)
		}
		msg = "save failed: " + err.Error()
	} else if v.logger != nil {
		v.logger.Info("config saved", "path", v.cfgPath)
	}
	v.showError(msg)
	if v.onApplied != nil {
		applied := cfg
		v.onApplied(&applied)
	}
}

func (v *configPanel) showError(msg string) {
	if v.errLabel != nil {
		v.errLabel.Configure(Txt(msg))
	}
}

// parsing helpers (unexported)
func parseFloatField(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
func parseIntField(s string) (int, bool) {
	i, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	return i, true
}
func parseBoolLoose(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes", "y", "on", "t":
		return true, true
	case "false", "0", "no", "n", "off", "f":
		return false, true
	default:
		return false, false
	}
}
