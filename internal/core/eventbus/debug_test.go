package eventbus_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/gantt/internal/core/eventbus"
	"github.com/colonyops/gantt/internal/core/eventbus/testbus"
	"github.com/colonyops/gantt/internal/core/resolve"
)

func TestRegisterDebugLogger(t *testing.T) {
	tb := testbus.New(t)

	// OnPublish hooks run on the publishing goroutine, so buf is only written here.
	var buf bytes.Buffer
	eventbus.RegisterDebugLogger(tb.EventBus, zerolog.New(&buf).Level(zerolog.DebugLevel))

	tb.SubscribeTableReset(func(eventbus.TableResetPayload) {})
	tb.PublishCycleCompleted(eventbus.CycleCompletedPayload{CycleID: "c1", Seq: 1, Kind: resolve.EventTableChanged, Tasks: 3})
	tb.PublishTableReset(eventbus.TableResetPayload{CycleID: "c2"})
	tb.PublishCycleFailed(eventbus.CycleFailedPayload{CycleID: "c3", Err: errors.New("bad start")})

	tb.AssertPublished(t, eventbus.EventCycleFailed)

	out := buf.String()
	assert.Contains(t, out, `"event":"cycle.completed"`)
	assert.Contains(t, out, `"cycle_id":"c1"`)
	assert.Contains(t, out, `"cause":"bad start"`)
	assert.Contains(t, out, `"message":"subscriber added"`)
}

func TestSubscriberPanicIsRecovered(t *testing.T) {
	tb := testbus.New(t)

	var recovered []any
	done := make(chan struct{}, 1)
	tb.OnPanic(func(_ eventbus.Event, _ any, r any) {
		recovered = append(recovered, r)
		done <- struct{}{}
	})
	tb.SubscribeTableReset(func(eventbus.TableResetPayload) { panic("boom") })

	tb.PublishTableReset(eventbus.TableResetPayload{CycleID: "c1"})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("panic hook did not fire")
	}
	assert.Equal(t, []any{"boom"}, recovered)

	// The bus keeps dispatching after a subscriber panic.
	tb.PublishCycleCompleted(eventbus.CycleCompletedPayload{CycleID: "c2"})
	tb.AssertPublished(t, eventbus.EventCycleCompleted)
}

func TestPublishDropsWhenBufferFull(t *testing.T) {
	bus := eventbus.New(1)

	var dropped []eventbus.Event
	bus.OnDrop(func(e eventbus.Event, _ any) { dropped = append(dropped, e) })

	// Not started: the first event fills the buffer, the second is dropped.
	bus.PublishTableReset(eventbus.TableResetPayload{})
	bus.PublishCycleFailed(eventbus.CycleFailedPayload{})

	assert.Equal(t, []eventbus.Event{eventbus.EventCycleFailed}, dropped)
}

func TestFlush(t *testing.T) {
	tests := []struct {
		name    string
		started bool
		wantErr bool
	}{
		{"delivers pending events", true, false},
		{"stopped bus times out", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bus := eventbus.New(8)
			var delivered []string
			bus.SubscribeCycleCompleted(func(p eventbus.CycleCompletedPayload) {
				delivered = append(delivered, p.CycleID)
			})

			ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
			defer cancel()
			if tt.started {
				go bus.Start(ctx)
			}

			bus.PublishCycleCompleted(eventbus.CycleCompletedPayload{CycleID: "c1"})
			bus.PublishCycleCompleted(eventbus.CycleCompletedPayload{CycleID: "c2"})

			err := bus.Flush(ctx)
			if tt.wantErr {
				require.ErrorIs(t, err, context.DeadlineExceeded)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, []string{"c1", "c2"}, delivered)
		})
	}
}
