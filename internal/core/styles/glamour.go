package styles

import (
	"image/color"

	glamouransi "github.com/charmbracelet/glamour/ansi"
	glamourstyles "github.com/charmbracelet/glamour/styles"
	"github.com/lucasb-eyer/go-colorful"
)

// hexOf returns c as a glamour color string, or nil when c is unset.
func hexOf(c color.Color) *string {
	if c == nil {
		return nil
	}
	cc, ok := colorful.MakeColor(c)
	if !ok {
		return nil
	}
	hex := cc.Hex()
	return &hex
}

func strPtr(s string) *string { return &s }

// GlamourStyle returns the markdown report style: glamour's dark style
// recolored with the active theme. Reports are a title, two tables and a
// bold totals row, so only those elements are restyled.
func GlamourStyle() glamouransi.StyleConfig {
	cfg := glamourstyles.DarkStyleConfig
	fg := hexOf(ColorForeground)
	accent := hexOf(ColorPrimary)

	cfg.Document.Color = fg
	cfg.Paragraph.Color = fg

	cfg.H1.Color = hexOf(ColorBackground)
	cfg.H1.BackgroundColor = accent
	cfg.H2.Color = accent

	cfg.Table.Color = fg
	cfg.Table.ColumnSeparator = strPtr("│")
	cfg.Table.RowSeparator = strPtr("─")
	cfg.Table.CenterSeparator = strPtr("┼")

	cfg.Strong.Color = hexOf(ColorSecondary)
	cfg.HorizontalRule.Color = hexOf(ColorMuted)

	return cfg
}
