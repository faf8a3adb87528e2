// Package styles provides shared lipgloss v2 styles for the editor and the
// rendered reports.
package styles

import (
	"fmt"
	"image/color"

	lipgloss "charm.land/lipgloss/v2"
	"github.com/lucasb-eyer/go-colorful"
)

// Glyphs used by the timeline and the table.
const (
	GlyphBar      = "█"
	GlyphTrack    = "·"
	GlyphCursor   = "▸"
	GlyphReadOnly = "∙"
)

// CurrentPalette holds the active theme palette.
var CurrentPalette Palette

var (
	ColorPrimary    color.Color
	ColorSecondary  color.Color
	ColorForeground color.Color
	ColorMuted      color.Color
	ColorBackground color.Color
	ColorSurface    color.Color
	ColorSuccess    color.Color
	ColorWarning    color.Color
	ColorError      color.Color
)

var (
	TitleStyle   lipgloss.Style
	DividerStyle lipgloss.Style
	HelpStyle    lipgloss.Style

	// Task table.
	TableHeaderStyle   lipgloss.Style
	CellStyle          lipgloss.Style
	CellSelectedStyle  lipgloss.Style
	CellEditingStyle   lipgloss.Style
	CellReadOnlyStyle  lipgloss.Style
	RowCursorStyle     lipgloss.Style
	PageIndicatorStyle lipgloss.Style

	// Timeline and summary.
	AxisStyle         lipgloss.Style
	TrackStyle        lipgloss.Style
	SummaryLabelStyle lipgloss.Style
	SummaryValueStyle lipgloss.Style

	StatusOKStyle    lipgloss.Style
	StatusErrorStyle lipgloss.Style
)

// SetTheme sets the active palette and rebuilds all global styles.
func SetTheme(p Palette) {
	CurrentPalette = p

	ColorPrimary = p.Primary
	ColorSecondary = p.Secondary
	ColorForeground = p.Foreground
	ColorMuted = p.Muted
	ColorBackground = p.Background
	ColorSurface = p.Surface
	ColorSuccess = p.Success
	ColorWarning = p.Warning
	ColorError = p.Error

	TitleStyle = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true)
	DividerStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)
	HelpStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)

	TableHeaderStyle = lipgloss.NewStyle().
		Foreground(ColorSecondary).
		Bold(true).
		Padding(0, 1)
	CellStyle = lipgloss.NewStyle().
		Foreground(ColorForeground).
		Padding(0, 1)
	CellSelectedStyle = lipgloss.NewStyle().
		Foreground(ColorBackground).
		Background(ColorPrimary).
		Bold(true).
		Padding(0, 1)
	CellEditingStyle = lipgloss.NewStyle().
		Foreground(ColorForeground).
		Background(ColorSurface).
		Padding(0, 1)
	CellReadOnlyStyle = lipgloss.NewStyle().
		Foreground(ColorMuted).
		Padding(0, 1)
	RowCursorStyle = lipgloss.NewStyle().
		Foreground(ColorPrimary)
	PageIndicatorStyle = lipgloss.NewStyle().
		Foreground(ColorMuted).
		Italic(true)

	AxisStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)
	TrackStyle = lipgloss.NewStyle().
		Foreground(ColorSurface)
	SummaryLabelStyle = lipgloss.NewStyle().
		Foreground(ColorForeground).
		Bold(true)
	SummaryValueStyle = lipgloss.NewStyle().
		Foreground(ColorSecondary)

	StatusOKStyle = lipgloss.NewStyle().
		Foreground(ColorSuccess)
	StatusErrorStyle = lipgloss.NewStyle().
		Foreground(ColorError).
		Bold(true)
}

// SetThemeByName activates a built-in theme.
func SetThemeByName(name string) error {
	p, ok := GetPalette(name)
	if !ok {
		return fmt.Errorf("unknown theme %q", name)
	}
	SetTheme(p)
	return nil
}

// BarStyle returns the style that paints a resource bar in the given hex
// color. Unparseable colors fall back to the primary color.
func BarStyle(hex string) lipgloss.Style {
	if _, err := colorful.Hex(hex); err != nil {
		return lipgloss.NewStyle().Foreground(ColorPrimary)
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(hex))
}

// nolint:gochecknoinits // bootstrap default theme before any style is accessed.
func init() {
	SetTheme(themes[DefaultTheme])
}
