// Package gantt assembles the schedule engine from configuration.
package gantt

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/colonyops/gantt/internal/core/config"
	"github.com/colonyops/gantt/internal/core/cycle"
	"github.com/colonyops/gantt/internal/core/eventbus"
	"github.com/colonyops/gantt/internal/core/logging"
	"github.com/colonyops/gantt/internal/core/resolve"
	"github.com/colonyops/gantt/internal/core/timeline"
	"github.com/colonyops/gantt/internal/seed"
)

// App is the central entry point for schedule operations.
// Commands and the editor consume App instead of building the pieces themselves.
type App struct {
	Config     *config.Config
	Bus        *eventbus.EventBus
	Controller *cycle.Controller
	Seeds      *seed.Loader
	Activity   *Activity
}

// NewApp wires the controller, its event bus and the seed loader from cfg.
// The bus is not started; call Start.
func NewApp(cfg *config.Config, client *http.Client) (*App, error) {
	blank, err := cfg.BlankRow()
	if err != nil {
		return nil, err
	}

	projector, err := timeline.NewProjector(cfg.TimelinePalette())
	if err != nil {
		return nil, fmt.Errorf("palette: %w", err)
	}

	bus := eventbus.New(cfg.EventBuffer)
	eventbus.RegisterDebugLogger(bus, logging.Component("eventbus"))

	return &App{
		Config:     cfg,
		Bus:        bus,
		Controller: cycle.New(resolve.New(blank), projector, bus, logging.Component("cycle")),
		Seeds:      seed.NewLoader(client, logging.Component("seed")),
		Activity:   WatchActivity(bus),
	}, nil
}

// Start runs the event bus until ctx is cancelled.
func (a *App) Start(ctx context.Context) {
	go a.Bus.Start(ctx)
}

// SeedSource returns the configured seed location. With no path or URL
// configured, seed files in the data directory are used before the
// built-in sample.
func (a *App) SeedSource() seed.Source {
	src := seed.Source{
		Path:    a.Config.Seed.Path,
		URL:     a.Config.Seed.URL,
		Timeout: a.Config.Seed.Timeout,
	}
	if src.Path == "" && src.URL == "" && a.Config.DataDir != "" {
		if pattern := seed.DirPattern(a.Config.DataDir); seed.HasMatches(pattern) {
			src.Path = pattern
		}
	}
	return src
}

// LoadSeed reads the configured seed and runs the first cycle on it.
func (a *App) LoadSeed(ctx context.Context) (cycle.Snapshot, error) {
	src := a.SeedSource()
	table, err := a.Seeds.Load(ctx, src)
	if err != nil {
		return cycle.Snapshot{}, fmt.Errorf("load %s seed: %w", src.Kind(), err)
	}

	snap, err := a.Controller.Seed(ctx, table)
	if err != nil {
		return cycle.Snapshot{}, err
	}

	log.Debug().Ctx(logging.WithSource(ctx, "seed")).Uint64("seq", snap.Seq).Int("tasks", len(snap.Tasks)).Msg("seeded")
	return snap, nil
}
