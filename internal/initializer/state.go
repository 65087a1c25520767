package initializer

// State is a phase of a category load.
type State int32

// Load phases. A run moves Idle → Fetching → Parsing → Persisting → Done,
// or to Failed from any of the middle phases.
const (
	StateIdle State = iota
	StateFetching
	StateParsing
	StatePersisting
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateFetching:
		return "fetching"
	case StateParsing:
		return "parsing"
	case StatePersisting:
		return "persisting"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// running reports whether a run is in flight in state s.
func (s State) running() bool {
	return s == StateFetching || s == StateParsing || s == StatePersisting
}
