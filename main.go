package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/gantt/internal/commands"
	"github.com/colonyops/gantt/internal/core/config"
	"github.com/colonyops/gantt/internal/core/logging"
	"github.com/colonyops/gantt/internal/core/styles"
	"github.com/colonyops/gantt/internal/gantt"
	"github.com/colonyops/gantt/internal/printer"
	"github.com/colonyops/gantt/pkg/logutils"
	"github.com/colonyops/gantt/pkg/utils"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	// When installed via `go install module@version`, init() populates
	// these from runtime/debug.BuildInfo instead.
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

func build() string {
	v, c, d := version, commit, date

	// When installed via `go install module@version`, ldflags aren't set
	// so version remains "dev". Fall back to runtime/debug.BuildInfo which
	// Go populates automatically with the module version and VCS metadata.
	if v == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok {
			if mv := info.Main.Version; mv != "" && mv != "(devel)" {
				v = mv
			}
			for _, s := range info.Settings {
				switch s.Key {
				case "vcs.revision":
					c = s.Value
				case "vcs.time":
					d = s.Value
				}
			}
		}
	}

	short := c
	if len(c) > 7 {
		short = c[:7]
	}

	return fmt.Sprintf("%s (%s) %s", v, short, d)
}

func main() {
	ctx := printer.NewContext(context.Background(), printer.New(os.Stdout))

	var (
		logCloser func()
		busCancel context.CancelFunc
		ganttApp  = &gantt.App{}
	)

	flags := &commands.Flags{Console: utils.NewHoldWriter(os.Stderr)}

	app := &cli.Command{
		Name:      "gantt",
		Usage:     "Edit a task schedule and see its timeline",
		UsageText: "gantt [global options] command [command options]",
		Description: `Gantt keeps a table of tasks, each with a start date, a duration in days
and a resource. Every edit recomputes end dates, redraws the timeline and
updates the per-resource summary.

Run 'gantt' with no arguments to open the interactive editor.
Run 'gantt render' to print the schedule without the editor.`,
		Version: build(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error, fatal, panic)",
				Sources:     cli.EnvVars("GANTT_LOG_LEVEL"),
				Value:       "info",
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file, or - for stderr",
				Sources:     cli.EnvVars("GANTT_LOG_FILE"),
				Value:       commands.DefaultLogFile(),
				Destination: &flags.LogFile,
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file",
				Sources:     cli.EnvVars("GANTT_CONFIG"),
				Value:       commands.DefaultConfigPath(),
				Destination: &flags.ConfigPath,
			},
			&cli.StringFlag{
				Name:        "data-dir",
				Usage:       "directory scanned for seed files when no seed is configured",
				Sources:     cli.EnvVars("GANTT_DATA_DIR"),
				Value:       commands.DefaultDataDir(),
				Destination: &flags.DataDir,
			},
			&cli.StringFlag{
				Name:        "seed",
				Usage:       "seed file or glob (csv, json, yaml, toml)",
				Sources:     cli.EnvVars("GANTT_SEED"),
				Destination: &flags.SeedPath,
			},
			&cli.StringFlag{
				Name:        "seed-url",
				Usage:       "fetch the seed table from an http(s) URL",
				Sources:     cli.EnvVars("GANTT_SEED_URL"),
				Destination: &flags.SeedURL,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			logFile := flags.LogFile
			if logFile == "-" {
				logFile = ""
			}

			logger, closer, err := logutils.New(flags.LogLevel, logFile, flags.Console, logging.ContextHook{})
			if err != nil {
				return ctx, fmt.Errorf("setup logger: %w", err)
			}
			log.Logger = logger
			logCloser = closer

			cfg, err := config.Load(flags.ConfigPath, flags.DataDir)
			if err != nil {
				// config validate reports the problems itself.
				if c.Args().First() == "config" {
					return ctx, nil
				}
				return ctx, fmt.Errorf("load config: %w", err)
			}
			flags.ApplySeedOverrides(cfg)
			flags.Config = cfg

			// Apply configured theme (validation ensures name is valid)
			if err := styles.SetThemeByName(cfg.TUI.Theme); err != nil {
				return ctx, err
			}

			a, err := gantt.NewApp(cfg, nil)
			if err != nil {
				return ctx, fmt.Errorf("build app: %w", err)
			}
			// Commands already hold a pointer to ganttApp.
			*ganttApp = *a

			busCtx, cancel := context.WithCancel(context.Background())
			busCancel = cancel
			ganttApp.Start(busCtx)

			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			if busCancel != nil {
				busCancel()
			}
			if logCloser != nil {
				logCloser()
			}
			return nil
		},
	}

	editCmd := commands.NewEditCmd(flags, ganttApp)

	app = editCmd.Register(app)
	app = commands.NewRenderCmd(flags, ganttApp).Register(app)
	app = commands.NewApplyCmd(flags, ganttApp).Register(app)
	app = commands.NewConfigValidateCmd(flags).Register(app)

	// Register editor flags on root command
	app.Flags = append(app.Flags, editCmd.Flags()...)

	// Open the editor when no subcommand is provided
	app.Action = func(ctx context.Context, c *cli.Command) error {
		if c.Args().Len() > 0 {
			return fmt.Errorf("unknown command %q. Run 'gantt --help' for usage", c.Args().First())
		}
		return editCmd.Run(ctx, c)
	}

	exitCode := 0
	if runErr := app.Run(ctx, os.Args); runErr != nil {
		var exitErr cli.ExitCoder
		if !errors.As(runErr, &exitErr) {
			fmt.Println()
			fmt.Println(runErr.Error())
		}
		exitCode = 1
	}

	os.Exit(exitCode)
}
