package cycle

import "fmt"

// State is the controller's position within a reactive cycle.
type State int32

const (
	StateIdle State = iota
	StateResolving
	StateComputing
	StateProjecting
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateResolving:
		return "resolving"
	case StateComputing:
		return "computing"
	case StateProjecting:
		return "projecting"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// allowedTransition reports whether a cycle may move from one state to the
// next. Every state may fall back to idle when a stage fails.
func allowedTransition(from, to State) bool {
	if to == StateIdle {
		return from != StateIdle
	}
	switch from {
	case StateIdle:
		return to == StateResolving
	case StateResolving:
		return to == StateComputing
	case StateComputing:
		return to == StateProjecting
	default:
		return false
	}
}
