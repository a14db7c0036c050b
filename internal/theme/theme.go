package theme

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	ColorBlue    = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
	ColorGreen   = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	ColorYellow  = lipgloss.AdaptiveColor{Dark: "#FFD93D", Light: "#B7791F"}
	ColorRed     = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	ColorOrange  = lipgloss.AdaptiveColor{Dark: "#FFA94D", Light: "#C05621"}
	ColorMagenta = lipgloss.AdaptiveColor{Dark: "#CC5DE8", Light: "#805AD5"}
	ColorGray    = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	ColorWhite   = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
	ColorSubtle  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#CBD5E0"}
	ColorBorder  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#E2E8F0"}
)

// HeaderStyle is used for top-level section headers and the application title.
var HeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	Background(ColorBlue).
	Padding(0, 1)

// StatusBarStyle is used for the bottom status bar.
var StatusBarStyle = lipgloss.NewStyle().
	Foreground(ColorWhite).
	Background(ColorSubtle).
	Padding(0, 1)

// DetailPanelStyle wraps the detail view content area.
var DetailPanelStyle = lipgloss.NewStyle().
	Padding(1, 2).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBorder)

// ListItemStyle is the base style for items in a list.
var ListItemStyle = lipgloss.NewStyle().
	PaddingLeft(2)

// SelectedItemStyle highlights the currently focused list item.
var SelectedItemStyle = lipgloss.NewStyle().
	PaddingLeft(1).
	Bold(true).
	Foreground(ColorBlue).
	Border(lipgloss.NormalBorder(), false, false, false, true).
	BorderForeground(ColorBlue)

// DoneItemStyle dims completed tasks.
var DoneItemStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Strikethrough(true)

// HelpStyle is used for keyboard shortcut hints and help text.
var HelpStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Italic(true)

// HelpKeyStyle marks the key or command in a help line.
var HelpKeyStyle = lipgloss.NewStyle().
	Foreground(ColorBlue).
	Bold(true)

// BorderStyle provides a standard rounded border for panels.
var BorderStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBorder)

// Font colors picked by ForegroundFor.
const (
	FontDark  = "#101727"
	FontLight = "#f0f0f0"
)

// ParseHex parses a "#rrggbb" or "#rgb" color.
func ParseHex(hex string) (colorful.Color, error) {
	return colorful.Hex(hex)
}

// ValidHex reports whether hex is a "#rrggbb" or "#rgb" color.
func ValidHex(hex string) bool {
	_, err := ParseHex(hex)
	return err == nil
}

// ForegroundFor returns a readable font color for text drawn on bg:
// dark on bright backgrounds, light otherwise.
func ForegroundFor(bg string) lipgloss.Color {
	c, err := ParseHex(bg)
	if err != nil {
		return lipgloss.Color(FontLight)
	}
	r, g, b := c.RGB255()
	brightness := (int(r)*299 + int(g)*587 + int(b)*114) / 1000
	if brightness > 125 {
		return lipgloss.Color(FontDark)
	}
	return lipgloss.Color(FontLight)
}

// TaskStyle returns a style painted in the task's color.
func TaskStyle(hex string, glow bool) lipgloss.Style {
	base := lipgloss.NewStyle().Padding(0, 1)
	if !ValidHex(hex) {
		return base.Foreground(ColorWhite)
	}
	if glow {
		return base.Bold(true).
			Background(lipgloss.Color(expandShortHex(hex))).
			Foreground(ForegroundFor(hex))
	}
	return base.Foreground(lipgloss.Color(expandShortHex(hex)))
}

// ChipStyle renders a category label on its own color.
func ChipStyle(hex string) lipgloss.Style {
	base := lipgloss.NewStyle().Padding(0, 1)
	if !ValidHex(hex) {
		return base.Foreground(ColorWhite).Background(ColorSubtle)
	}
	return base.
		Background(lipgloss.Color(expandShortHex(hex))).
		Foreground(ForegroundFor(hex))
}

// ToastStyle returns the status bar style for a notice.
func ToastStyle(isError bool) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	if isError {
		return base.Foreground(ColorRed)
	}
	return base.Foreground(ColorGreen)
}

func expandShortHex(hex string) string {
	if len(hex) == 4 && hex[0] == '#' {
		return string([]byte{'#', hex[1], hex[1], hex[2], hex[2], hex[3], hex[3]})
	}
	return hex
}
