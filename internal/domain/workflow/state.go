package workflow

// State is the progress of a single approval station.
type State string

const (
	StatePending    State = "pending"
	StateProcessing State = "processing"
	StateCompleted  State = "completed"
	StateNA         State = "na"
)

var validStates = map[State]bool{
	StatePending:    true,
	StateProcessing: true,
	StateCompleted:  true,
	StateNA:         true,
}

// String returns the wire form of the state
func (s State) String() string {
	return string(s)
}

// IsValid returns true if the state is one of the four station states
func (s State) IsValid() bool {
	return validStates[s]
}

// ParseState converts a wire value into a State.
func ParseState(v string) (State, error) {
	s := State(v)
	if !s.IsValid() {
		return "", ErrInvalidState
	}
	return s, nil
}
