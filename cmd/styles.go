package cmd

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).MarginBottom(1)
	keyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Width(18)
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	boxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("8")).Padding(0, 1)
)

// field is one key/value line of a status block.
type field struct {
	key, value string
	warn       bool
}

// renderFields draws a titled box of aligned key/value lines.
func renderFields(title string, fields []field) string {
	lines := make([]string, 0, len(fields))
	for _, f := range fields {
		v := valueStyle.Render(f.value)
		if f.warn {
			v = warnStyle.Render(f.value)
		}
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, keyStyle.Render(f.key), v))
	}
	body := lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render(title), strings.Join(lines, "\n"))
	return boxStyle.Render(body)
}
