package view

import (
	"log/slog"
	"runtime"

	"github.com/soocke/captol-go/domain/region"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders
	. "modernc.org/tk9.0"
)

// pickerKeyColor is rendered fully transparent on Windows.
const pickerKeyColor = "#008080"

var defaultPickerRect = region.Rectangle{X: 100, Y: 100, Width: 640, Height: 360}

// RegionPicker manages the see-through window the user moves and resizes
// over the screen area to capture.
type RegionPicker interface {
	OpenOrFocus(initial region.Rectangle)
	Close()
}

type regionPicker struct {
	logger *slog.Logger
	onPick func(region.Rectangle)
	win    *ToplevelWidget
}

// NewRegionPicker returns a picker that reports confirmed rectangles to onPick.
func NewRegionPicker(logger *slog.Logger, onPick func(region.Rectangle)) RegionPicker {
	return &regionPicker{logger: logger, onPick: onPick}
}

func (v *regionPicker) OpenOrFocus(initial region.Rectangle) {
	if v.win != nil {
		WmDeiconify(v.win.Window)
		return
	}
	if initial.Validate() != nil {
		initial = defaultPickerRect
	}
	win := App.Toplevel(Borderwidth(2), Background(pickerKeyColor))
	win.WmTitle("Pick Region")
	v.win = win
	WmGeometry(win.Window, initial.String())
	WmAttributes(win.Window, "-topmost", 1)
	if runtime.GOOS == "windows" {
		WmAttributes(win.Window, "-toolwindow", true)
		WmAttributes(win.Window, "-transparentcolor", pickerKeyColor)
	} else {
		WmAttributes(win.Window, "-alpha", 0.4)
	}
	GridRowConfigure(win.Window, 0, Weight(1))
	GridColumnConfigure(win.Window, 0, Weight(0))
	GridColumnConfigure(win.Window, 1, Weight(1))
	GridColumnConfigure(win.Window, 2, Weight(0))
	left := win.Frame(Width(4), Background("#FFFFFF"))
	Grid(left, Row(0), Column(0), Sticky("ns"))
	center := win.Frame(Background(pickerKeyColor))
	Grid(center, Row(0), Column(1), Sticky("nsew"))
	right := win.Frame(Width(4), Background("#FFFFFF"))
	Grid(right, Row(0), Column(2), Sticky("ns"))
	controls := win.Frame()
	Grid(controls, Row(1), Column(0), Columnspan(3), Sticky("we"))
	confirm := win.Button(Txt("Use Region [Enter]"), Command(v.confirm))
	Grid(confirm, In(controls), Row(0), Column(0), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
	cancel := win.Button(Txt("Cancel [Esc]"), Command(v.Close))
	Grid(cancel, In(controls), Row(0), Column(1), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
	Bind(win, "<Return>", Command(v.confirm))
	Bind(win, "<Escape>", Command(v.Close))
}

func (v *regionPicker) confirm() {
	if v.win == nil {
		return
	}
	geom := WmGeometry(v.win.Window)
	r, ok := region.ParseGeometry(geom)
	if !ok || r.Validate() != nil {
		if v.logger != nil {
			v.logger.Warn("region picker: unusable geometry", "geometry", geom)
		}
		return
	}
	v.Close()
	if v.onPick != nil {
		v.onPick(r)
	}
}

func (v *regionPicker) Close() {
	if v.win != nil {
		Destroy(v.win)
		v.win = nil
	}
}
