package commands

import (
	"context"
	"fmt"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/gantt/internal/gantt"
	"github.com/colonyops/gantt/internal/printer"
	"github.com/colonyops/gantt/internal/tui"
	"github.com/colonyops/gantt/pkg/profiler"
)

type EditCmd struct {
	flags        *Flags
	app          *gantt.App
	profilerPort int
}

// NewEditCmd creates a new edit command
func NewEditCmd(flags *Flags, app *gantt.App) *EditCmd {
	return &EditCmd{
		flags: flags,
		app:   app,
	}
}

// Register adds the edit command to the application
func (cmd *EditCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "edit",
		Usage:     "Open the interactive schedule editor",
		UsageText: "gantt edit [options]",
		Description: `Opens the task table, timeline and resource summary in one screen.

Every edit runs one update cycle. Invalid input is reported in the status
line and the last valid schedule stays on screen.`,
		Flags:  cmd.Flags(),
		Action: cmd.run,
	})

	return app
}

// Flags returns the editor flags. They are also registered on the root
// command since the editor is the default action.
func (cmd *EditCmd) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:        "profiler-port",
			Usage:       "enable pprof HTTP endpoint on specified port (e.g., 6060)",
			Sources:     cli.EnvVars("GANTT_PROFILER_PORT"),
			Destination: &cmd.profilerPort,
		},
	}
}

// Run executes the editor. Exported for use as default command.
func (cmd *EditCmd) Run(ctx context.Context, c *cli.Command) error {
	return cmd.run(ctx, c)
}

func (cmd *EditCmd) run(ctx context.Context, _ *cli.Command) error {
	if err := loadedApp(cmd.app); err != nil {
		return err
	}

	if cmd.profilerPort > 0 {
		profServer := profiler.New(cmd.profilerPort)
		if err := profServer.Start(ctx); err != nil {
			return fmt.Errorf("failed to start profiler: %w", err)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := profServer.Shutdown(shutdownCtx); err != nil {
				log.Error().Err(err).Msg("failed to shutdown profiler server")
			}
		}()
		log.Info().
			Str("url", fmt.Sprintf("http://%s/debug/pprof/", profServer.Addr())).
			Msg("profiler endpoint available")
	}

	if _, err := cmd.app.LoadSeed(ctx); err != nil {
		return err
	}
	base := cmd.activity(ctx)

	cfg := cmd.app.Config
	model := tui.New(ctx, tui.Options{
		Controller: cmd.app.Controller,
		Resources:  cfg.Resources,
		PageSize:   cfg.TUI.PageSize,
	})

	if console := cmd.flags.Console; console != nil {
		console.Hold()
		defer func() { _ = console.Release() }()
	}

	p := tea.NewProgram(model)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("editor: %w", err)
	}

	session := cmd.activity(ctx).Sub(base)
	log.Info().
		Int("applied", session.Applied).
		Int("rejected", session.Rejected).
		Int("resets", session.Resets).
		Msg("editor closed")
	if session.Applied+session.Rejected > 0 {
		printer.Ctx(ctx).Infof("%d edits applied, %d rejected", session.Applied, session.Rejected)
	}

	return nil
}

// activity waits for in-flight cycle events before reading the tally.
func (cmd *EditCmd) activity(ctx context.Context) gantt.ActivityCounts {
	flushCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	if err := cmd.app.Bus.Flush(flushCtx); err != nil {
		log.Debug().Err(err).Msg("event bus not drained")
	}
	return cmd.app.Activity.Counts()
}
