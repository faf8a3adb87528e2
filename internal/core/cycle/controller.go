// Package cycle runs the reactive cycle: one edit event in, one consistent
// set of task list, timeline and resource summary out.
package cycle

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/colonyops/gantt/internal/core/aggregate"
	"github.com/colonyops/gantt/internal/core/eventbus"
	"github.com/colonyops/gantt/internal/core/logging"
	"github.com/colonyops/gantt/internal/core/resolve"
	"github.com/colonyops/gantt/internal/core/schedule"
	"github.com/colonyops/gantt/internal/core/timeline"
)

// ErrCycleFailed wraps every error that rejects a cycle.
var ErrCycleFailed = errors.New("cycle failed")

// Snapshot is the published result of a cycle. Seq increases by one with
// every successful cycle; zero means nothing has been published yet.
type Snapshot struct {
	Seq      uint64            `json:"seq"`
	Tasks    schedule.TaskList `json:"tasks"`
	Timeline timeline.View     `json:"timeline"`
	Summary  aggregate.View    `json:"summary"`
}

func (s Snapshot) clone() Snapshot {
	out := s
	out.Tasks = s.Tasks.Clone()
	if s.Timeline.Bars != nil {
		out.Timeline.Bars = append([]timeline.Bar(nil), s.Timeline.Bars...)
	}
	if s.Summary.Groups != nil {
		out.Summary.Groups = append([]aggregate.Group(nil), s.Summary.Groups...)
	}
	return out
}

// Controller owns the authoritative task list. RunCycle is its only
// mutator; cycles never overlap.
type Controller struct {
	resolver  *resolve.Resolver
	projector *timeline.Projector
	bus       *eventbus.EventBus
	logger    zerolog.Logger
	newID     func() string

	mu      sync.Mutex
	state   atomic.Int32
	current Snapshot
}

// New returns an idle controller with nothing published. bus may be nil.
func New(resolver *resolve.Resolver, projector *timeline.Projector, bus *eventbus.EventBus, logger zerolog.Logger) *Controller {
	return &Controller{
		resolver:  resolver,
		projector: projector,
		bus:       bus,
		logger:    logger,
		newID:     uuid.NewString,
	}
}

// State returns the current cycle stage.
func (c *Controller) State() State {
	return State(c.state.Load())
}

// Current returns the last published snapshot.
func (c *Controller) Current() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current.clone()
}

// Seed runs the initial cycle over rows supplied by a seed source. An empty
// seed resets to a single blank row.
func (c *Controller) Seed(ctx context.Context, table schedule.RawTable) (Snapshot, error) {
	ctx = logging.WithSource(ctx, "seed")
	return c.RunCycle(ctx, resolve.Event{Kind: resolve.EventTableChanged, Table: table})
}

// RunCycle resolves the event into the next table, coerces it, rebuilds
// both views and publishes the result. On failure nothing is published,
// Current keeps returning the previous snapshot and the returned error
// wraps ErrCycleFailed together with the stage error.
func (c *Controller) RunCycle(ctx context.Context, ev resolve.Event) (Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	cycleID := c.newID()
	ctx = logging.WithCycleID(ctx, cycleID)
	started := time.Now()

	next, outcome, err := c.run(ctx, ev)
	if err != nil {
		c.abort()
		c.logger.Warn().Ctx(ctx).
			Err(err).
			Str("event", string(ev.Kind)).
			Msg("cycle rejected")
		if c.bus != nil {
			c.bus.PublishCycleFailed(eventbus.CycleFailedPayload{CycleID: cycleID, Kind: ev.Kind, Err: err})
		}
		return Snapshot{}, fmt.Errorf("%w: %w", ErrCycleFailed, err)
	}

	c.current = next
	elapsed := time.Since(started)

	c.logger.Debug().Ctx(ctx).
		Uint64("seq", next.Seq).
		Str("event", string(ev.Kind)).
		Str("outcome", string(outcome)).
		Int("tasks", len(next.Tasks)).
		Dur("elapsed", elapsed).
		Msg("cycle published")

	if c.bus != nil {
		if outcome == resolve.OutcomeReset {
			c.bus.PublishTableReset(eventbus.TableResetPayload{CycleID: cycleID, Seq: next.Seq})
		}
		c.bus.PublishCycleCompleted(eventbus.CycleCompletedPayload{
			CycleID: cycleID,
			Seq:     next.Seq,
			Kind:    ev.Kind,
			Outcome: outcome,
			Tasks:   len(next.Tasks),
			Elapsed: elapsed,
		})
	}

	return next.clone(), nil
}

func (c *Controller) run(ctx context.Context, ev resolve.Event) (Snapshot, resolve.Outcome, error) {
	if err := ev.Validate(); err != nil {
		return Snapshot{}, "", err
	}

	if err := c.transition(StateResolving); err != nil {
		return Snapshot{}, "", err
	}
	rows, outcome := c.resolver.Resolve(ev)
	c.logger.Debug().Ctx(ctx).Str("outcome", string(outcome)).Int("rows", len(rows)).Msg("table resolved")

	if err := c.transition(StateComputing); err != nil {
		return Snapshot{}, "", err
	}
	tasks, err := schedule.Compute(rows)
	if err != nil {
		return Snapshot{}, "", err
	}

	if err := c.transition(StateProjecting); err != nil {
		return Snapshot{}, "", err
	}
	view, err := c.projector.Project(tasks)
	if err != nil {
		return Snapshot{}, "", err
	}
	summary := aggregate.Aggregate(tasks)

	if err := c.transition(StateIdle); err != nil {
		return Snapshot{}, "", err
	}

	return Snapshot{
		Seq:      c.current.Seq + 1,
		Tasks:    tasks,
		Timeline: view,
		Summary:  summary,
	}, outcome, nil
}

func (c *Controller) transition(to State) error {
	from := c.State()
	if !allowedTransition(from, to) {
		return fmt.Errorf("invalid cycle transition %s -> %s", from, to)
	}
	c.state.Store(int32(to))
	return nil
}

// abort returns the controller to idle after a failed stage.
func (c *Controller) abort() {
	c.state.Store(int32(StateIdle))
}
