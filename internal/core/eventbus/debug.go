package eventbus

import (
	"fmt"

	"github.com/rs/zerolog"
)

// RegisterDebugLogger logs bus activity. Enqueued events and new
// subscribers are logged at debug level, dropped events as warnings and
// subscriber panics as errors. Failed cycles also carry their cause.
func RegisterDebugLogger(bus *EventBus, logger zerolog.Logger) {
	bus.OnPublish(func(event Event, payload any) {
		e := logger.Debug().Str("event", string(event))
		switch p := payload.(type) {
		case CycleCompletedPayload:
			e = e.Str("cycle_id", p.CycleID).Uint64("seq", p.Seq).Int("tasks", p.Tasks)
		case CycleFailedPayload:
			e = e.Str("cycle_id", p.CycleID).AnErr("cause", p.Err)
		case TableResetPayload:
			e = e.Str("cycle_id", p.CycleID)
		}
		e.Msg("event fired")
	})

	bus.OnSubscribe(func(event Event) {
		logger.Debug().Str("event", string(event)).Msg("subscriber added")
	})

	bus.OnDrop(func(event Event, _ any) {
		logger.Warn().Str("event", string(event)).Msg("event dropped: buffer full")
	})

	bus.OnPanic(func(event Event, _ any, recovered any) {
		logger.Error().
			Str("event", string(event)).
			Str("panic", fmt.Sprint(recovered)).
			Msg("subscriber panicked")
	})
}
