package session

// State is the dispatcher state.
type State int

// Dispatcher states. Quitting is terminal.
const (
	Idle State = iota
	Parsing
	Executing
	Quitting
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Parsing:
		return "parsing"
	case Executing:
		return "executing"
	case Quitting:
		return "quitting"
	}
	return "unknown"
}
