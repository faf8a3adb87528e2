package logging

import "context"

type contextKey string

const (
	cycleIDKey contextKey = "cycle_id"
	sourceKey  contextKey = "source"
)

// WithCycleID tags the context with the id of the reactive cycle being run.
func WithCycleID(ctx context.Context, cycleID string) context.Context {
	return context.WithValue(ctx, cycleIDKey, cycleID)
}

// WithSource tags the context with the origin of the edit, e.g. "tui",
// "apply" or "seed".
func WithSource(ctx context.Context, source string) context.Context {
	return context.WithValue(ctx, sourceKey, source)
}

// GetCycleID returns the cycle id, or "" when none is set.
func GetCycleID(ctx context.Context) string {
	if id, ok := ctx.Value(cycleIDKey).(string); ok {
		return id
	}
	return ""
}

// GetSource returns the edit source, or "" when none is set.
func GetSource(ctx context.Context) string {
	if s, ok := ctx.Value(sourceKey).(string); ok {
		return s
	}
	return ""
}
