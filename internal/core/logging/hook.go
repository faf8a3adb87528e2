package logging

import (
	"context"

	"github.com/rs/zerolog"
)

// ContextHook copies cycle_id and source from the event context onto log
// events written with .Ctx(ctx).
type ContextHook struct{}

// Run adds contextual fields to the zerolog event.
func (h ContextHook) Run(e *zerolog.Event, level zerolog.Level, msg string) {
	ctx := e.GetCtx()
	if ctx == nil || ctx == context.Background() {
		return
	}

	if id := GetCycleID(ctx); id != "" {
		e.Str("cycle_id", id)
	}

	if src := GetSource(ctx); src != "" {
		e.Str("source", src)
	}
}
