// Package printer writes styled status lines for CLI commands.
package printer

import (
	"context"
	"fmt"
	"io"
	"os"

	lipgloss "charm.land/lipgloss/v2"

	"github.com/colonyops/gantt/internal/core/styles"
)

type ctxKey struct{}

// Printer writes human readable command output.
type Printer struct {
	w io.Writer
}

// New returns a printer writing to w.
func New(w io.Writer) *Printer {
	return &Printer{w: w}
}

// NewContext returns a copy of ctx carrying p.
func NewContext(ctx context.Context, p *Printer) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

// Ctx returns the printer stored in ctx, or one writing to stdout.
func Ctx(ctx context.Context) *Printer {
	if p, ok := ctx.Value(ctxKey{}).(*Printer); ok {
		return p
	}
	return New(os.Stdout)
}

func (p *Printer) line(style lipgloss.Style, glyph, msg string) {
	_, _ = fmt.Fprintln(p.w, style.Render(glyph)+" "+msg)
}

// Printf writes unstyled text.
func (p *Printer) Printf(format string, args ...any) {
	_, _ = fmt.Fprintf(p.w, format+"\n", args...)
}

// Successf writes a success line.
func (p *Printer) Successf(format string, args ...any) {
	p.line(lipgloss.NewStyle().Foreground(styles.ColorSuccess), "✓", fmt.Sprintf(format, args...))
}

// Infof writes an informational line.
func (p *Printer) Infof(format string, args ...any) {
	p.line(lipgloss.NewStyle().Foreground(styles.ColorPrimary), "•", fmt.Sprintf(format, args...))
}

// Warnf writes a warning line.
func (p *Printer) Warnf(format string, args ...any) {
	p.line(lipgloss.NewStyle().Foreground(styles.ColorWarning), "!", fmt.Sprintf(format, args...))
}

// Errorf writes an error line.
func (p *Printer) Errorf(format string, args ...any) {
	p.line(lipgloss.NewStyle().Foreground(styles.ColorError), "✗", fmt.Sprintf(format, args...))
}

// Section writes a bold heading preceded by a blank line.
func (p *Printer) Section(title string) {
	_, _ = fmt.Fprintln(p.w)
	_, _ = fmt.Fprintln(p.w, lipgloss.NewStyle().Bold(true).Render(title))
}

// CheckItem writes an indented passing item.
func (p *Printer) CheckItem(label, detail string) {
	p.item(lipgloss.NewStyle().Foreground(styles.ColorSuccess), "✓", label, detail)
}

// WarnItem writes an indented warning item.
func (p *Printer) WarnItem(label, detail string) {
	p.item(lipgloss.NewStyle().Foreground(styles.ColorWarning), "!", label, detail)
}

// FailItem writes an indented failing item.
func (p *Printer) FailItem(label, detail string) {
	p.item(lipgloss.NewStyle().Foreground(styles.ColorError), "✗", label, detail)
}

func (p *Printer) item(style lipgloss.Style, glyph, label, detail string) {
	msg := label
	if detail != "" {
		msg += lipgloss.NewStyle().Foreground(styles.ColorMuted).Render(": " + detail)
	}
	_, _ = fmt.Fprintln(p.w, "  "+style.Render(glyph)+" "+msg)
}
