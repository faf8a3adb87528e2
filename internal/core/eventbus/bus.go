package eventbus

import (
	"context"
	"sync"
)

type envelope struct {
	event   Event
	payload any
	flushed chan struct{} // set for Flush markers
}

// EventBus delivers published events to subscribers on a single dispatch
// goroutine started with Start. Publishing never blocks: when the buffer is
// full the event is dropped and OnDrop hooks fire.
type EventBus struct {
	ch    chan envelope
	hooks hooks

	mu   sync.RWMutex
	subs map[Event][]func(any)
}

// New creates a bus with the given channel buffer size.
func New(buffer int) *EventBus {
	if buffer < 1 {
		buffer = 1
	}
	return &EventBus{
		ch:   make(chan envelope, buffer),
		subs: make(map[Event][]func(any)),
	}
}

// Start dispatches events until ctx is cancelled.
func (bus *EventBus) Start(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case env := <-bus.ch:
			if env.flushed != nil {
				close(env.flushed)
				continue
			}
			bus.dispatch(env)
		}
	}
}

// Flush waits until every event enqueued before the call has been
// delivered. It needs a running bus and gives up when ctx is done.
func (bus *EventBus) Flush(ctx context.Context) error {
	done := make(chan struct{})
	select {
	case bus.ch <- envelope{flushed: done}:
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (bus *EventBus) subscribe(event Event, fn func(any)) {
	bus.mu.Lock()
	bus.subs[event] = append(bus.subs[event], fn)
	bus.mu.Unlock()
	bus.runOnSubscribe(event)
}

func (bus *EventBus) dispatch(env envelope) {
	bus.mu.RLock()
	subs := make([]func(any), len(bus.subs[env.event]))
	copy(subs, bus.subs[env.event])
	bus.mu.RUnlock()

	for _, fn := range subs {
		func() {
			defer func() {
				if r := recover(); r != nil {
					bus.runOnPanic(env.event, env.payload, r)
				}
			}()
			fn(env.payload)
		}()
	}
}

// PublishCycleCompleted enqueues a cycle.completed event.
func (bus *EventBus) PublishCycleCompleted(p CycleCompletedPayload) {
	bus.send(EventCycleCompleted, p)
}

// SubscribeCycleCompleted registers fn for cycle.completed events.
func (bus *EventBus) SubscribeCycleCompleted(fn func(CycleCompletedPayload)) {
	bus.subscribe(EventCycleCompleted, func(p any) { fn(p.(CycleCompletedPayload)) })
}

// PublishCycleFailed enqueues a cycle.failed event.
func (bus *EventBus) PublishCycleFailed(p CycleFailedPayload) {
	bus.send(EventCycleFailed, p)
}

// SubscribeCycleFailed registers fn for cycle.failed events.
func (bus *EventBus) SubscribeCycleFailed(fn func(CycleFailedPayload)) {
	bus.subscribe(EventCycleFailed, func(p any) { fn(p.(CycleFailedPayload)) })
}

// PublishTableReset enqueues a table.reset event.
func (bus *EventBus) PublishTableReset(p TableResetPayload) {
	bus.send(EventTableReset, p)
}

// SubscribeTableReset registers fn for table.reset events.
func (bus *EventBus) SubscribeTableReset(fn func(TableResetPayload)) {
	bus.subscribe(EventTableReset, func(p any) { fn(p.(TableResetPayload)) })
}
