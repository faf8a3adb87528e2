package gantt

import (
	"sync"

	"github.com/colonyops/gantt/internal/core/eventbus"
)

// ActivityCounts is a point-in-time tally of cycle outcomes.
type ActivityCounts struct {
	Applied  int
	Rejected int
	Resets   int
}

// Sub returns the outcomes recorded since base.
func (c ActivityCounts) Sub(base ActivityCounts) ActivityCounts {
	return ActivityCounts{
		Applied:  c.Applied - base.Applied,
		Rejected: c.Rejected - base.Rejected,
		Resets:   c.Resets - base.Resets,
	}
}

// Activity tallies cycle outcomes delivered by the event bus.
type Activity struct {
	mu     sync.Mutex
	counts ActivityCounts
}

// WatchActivity subscribes a new tally to bus.
func WatchActivity(bus *eventbus.EventBus) *Activity {
	a := &Activity{}
	bus.SubscribeCycleCompleted(func(eventbus.CycleCompletedPayload) {
		a.add(func(c *ActivityCounts) { c.Applied++ })
	})
	bus.SubscribeCycleFailed(func(eventbus.CycleFailedPayload) {
		a.add(func(c *ActivityCounts) { c.Rejected++ })
	})
	bus.SubscribeTableReset(func(eventbus.TableResetPayload) {
		a.add(func(c *ActivityCounts) { c.Resets++ })
	})
	return a
}

func (a *Activity) add(fn func(*ActivityCounts)) {
	a.mu.Lock()
	fn(&a.counts)
	a.mu.Unlock()
}

// Counts returns the current tally. Call Flush on the bus first to include
// events still in flight.
func (a *Activity) Counts() ActivityCounts {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.counts
}
