package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/colonyops/gantt/internal/gantt"
	"github.com/colonyops/gantt/internal/report"
)

type RenderCmd struct {
	flags  *Flags
	app    *gantt.App
	format string
	width  int
	raw    bool
	output string
}

// NewRenderCmd creates a new render command
func NewRenderCmd(flags *Flags, app *gantt.App) *RenderCmd {
	return &RenderCmd{flags: flags, app: app}
}

// Register adds the render command to the application
func (cmd *RenderCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "render",
		Usage:     "Render the seeded schedule without the editor",
		UsageText: "gantt render [options]",
		Description: `Loads the seed, runs one update cycle and prints the task table,
timeline and resource summary.

Formats: ` + strings.Join(report.Formats(), ", ") + `. Markdown is styled for the
terminal unless --raw is given.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "format",
				Usage:       "output format (" + strings.Join(report.Formats(), ", ") + ")",
				Value:       string(report.FormatText),
				Destination: &cmd.format,
			},
			&cli.IntFlag{
				Name:        "width",
				Usage:       "output width in cells (defaults to the terminal width)",
				Destination: &cmd.width,
			},
			&cli.BoolFlag{
				Name:        "raw",
				Usage:       "print markdown source instead of styled output",
				Destination: &cmd.raw,
			},
			&cli.StringFlag{
				Name:        "output",
				Aliases:     []string{"o"},
				Usage:       "write to file instead of stdout",
				Destination: &cmd.output,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *RenderCmd) run(ctx context.Context, c *cli.Command) error {
	if err := loadedApp(cmd.app); err != nil {
		return err
	}

	format, err := report.ParseFormat(cmd.format)
	if err != nil {
		return err
	}

	snap, err := cmd.app.LoadSeed(ctx)
	if err != nil {
		return err
	}

	w := c.Root().Writer
	if cmd.output != "" {
		f, err := os.Create(cmd.output)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer func() { _ = f.Close() }()
		w = f
	}

	return report.Render(w, c.Root().ErrWriter, snap, report.Options{
		Format: format,
		Width:  outputWidth(w, cmd.width),
		Raw:    cmd.raw,
	})
}

// outputWidth returns the requested width, the terminal width when w is a
// terminal, or report.DefaultWidth.
func outputWidth(w io.Writer, requested int) int {
	if requested > 0 {
		return requested
	}
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		if cols, _, err := term.GetSize(int(f.Fd())); err == nil && cols > 0 {
			return cols
		}
	}
	return report.DefaultWidth
}
