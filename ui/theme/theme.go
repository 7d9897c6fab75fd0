package theme

// Palette and ttk styles for the capture window and the region overlay.

import (
	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

const (
	ColorBg        = "#f7f9fb" // app background
	ColorSurface   = "#ffffff"
	ColorPrimary   = "#2563eb" // capture toggle
	ColorDanger    = "#dc2626" // recording state
	ColorAccent    = "#10b981" // idle state
	ColorText      = "#1e293b"
	ColorTextMuted = "#64748b"
	// ColorFlash fills the overlay for the brief acknowledgment after a save.
	ColorFlash = "#fde047"
)

// style names used with Style("primary.TButton") etc.
const (
	StylePrimaryButton = "primary.TButton"
	StyleDangerButton  = "danger.TButton"
	StyleStateIdle     = "idle.TLabel"
	StyleStateActive   = "active.TLabel"
	StyleMutedLabel    = "muted.TLabel"
)

// InitStyles activates the base theme and configures the semantic styles.
func InitStyles() {
	_ = ActivateTheme("azure light")
	App.Configure(Background(ColorBg))

	StyleConfigure(StylePrimaryButton,
		Background(ColorPrimary),
		Foreground("white"),
		Padding("4p 3p"),
		Borderwidth(1),
		Relief("ridge"),
	)
	StyleConfigure(StyleDangerButton,
		Background(ColorDanger),
		Foreground("white"),
		Padding("4p 3p"),
		Borderwidth(1),
		Relief("ridge"),
	)
	StyleConfigure(StyleStateIdle,
		Foreground("white"),
		Background(ColorAccent),
		Padding("4p 2p"),
		Borderwidth(1),
		Relief("groove"),
	)
	StyleConfigure(StyleStateActive,
		Foreground("white"),
		Background(ColorDanger),
		Padding("4p 2p"),
		Borderwidth(1),
		Relief("groove"),
	)
	StyleConfigure(StyleMutedLabel,
		Foreground(ColorTextMuted),
		Background(ColorSurface),
		Padding("2p 1p"),
	)
}
