package commands

import (
	"context"
	"errors"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/gantt/internal/core/logging"
	"github.com/colonyops/gantt/internal/core/resolve"
	"github.com/colonyops/gantt/internal/core/schedule"
	"github.com/colonyops/gantt/internal/gantt"
	"github.com/colonyops/gantt/internal/seed"
	"github.com/colonyops/gantt/pkg/iojson"
)

type ApplyCmd struct {
	flags *Flags
	app   *gantt.App
	event string
	input iojson.FileReader[[]map[string]any]
}

// NewApplyCmd creates a new apply command
func NewApplyCmd(flags *Flags, app *gantt.App) *ApplyCmd {
	return &ApplyCmd{flags: flags, app: app}
}

// Register adds the apply command to the application
func (cmd *ApplyCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "apply",
		Usage:     "Run one update cycle on a JSON task table",
		UsageText: "gantt apply [options] < tasks.json",
		Description: `Reads a JSON array of task rows and runs a single update cycle on it.

The published snapshot (tasks, timeline and summary) is written to stdout as
JSON. If the table cannot be computed, a JSON error naming the row and field
is written to stderr and the command exits non-zero.

Events:
  table_state_changed   use the rows as given (empty resets to one blank task)
  row_added             append one blank task`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "event",
				Aliases:     []string{"e"},
				Usage:       "event kind (table_state_changed, row_added)",
				Value:       string(resolve.EventTableChanged),
				Destination: &cmd.event,
			},
			cmd.input.Flag(),
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *ApplyCmd) run(ctx context.Context, c *cli.Command) error {
	if err := loadedApp(cmd.app); err != nil {
		return err
	}

	kind, err := resolve.ParseEventKind(cmd.event)
	if err != nil {
		return err
	}

	rows, err := cmd.input.Read()
	if err != nil {
		return cmd.fail(c, "invalid input", err)
	}

	table, err := seed.Normalize(rows)
	if err != nil {
		return cmd.fail(c, "invalid input", err)
	}

	ctx = logging.WithSource(ctx, "apply")
	snap, err := cmd.app.Controller.RunCycle(ctx, resolve.Event{Kind: kind, Table: table})
	if err != nil {
		return cmd.fail(c, "cycle failed", err)
	}

	return iojson.WriteWith(c.Root().Writer, c.Root().ErrWriter, snap)
}

// fail writes err as a JSON error document and returns an exit error so the
// CLI does not print it a second time.
func (cmd *ApplyCmd) fail(c *cli.Command, msg string, err error) error {
	data := map[string]any{"error": err.Error()}

	var fieldErr *schedule.InvalidFieldError
	if errors.As(err, &fieldErr) {
		data["row"] = fieldErr.Row
		data["field"] = fieldErr.Field
	}

	var schemaErr *seed.SchemaError
	if errors.As(err, &schemaErr) && schemaErr.Row >= 0 {
		data["row"] = schemaErr.Row
		if schemaErr.Field != "" {
			data["field"] = schemaErr.Field
		}
	}

	if werr := iojson.WriteErrorTo(c.Root().ErrWriter, msg, data); werr != nil {
		return werr
	}
	return cli.Exit("", 1)
}
