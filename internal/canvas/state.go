package canvas

import "slices"

// State is the gesture the controller is currently interpreting.
type State int

const (
	Idle State = iota
	Dragging
	Resizing
	RubberBandSelecting
	EditingText
)

var stateNames = [...]string{"idle", "dragging", "resizing", "rubber-band", "editing-text"}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}

// transitions lists the states reachable from each state. Every gesture starts from Idle
// and returns to it, so two gestures can never be active at once.
var transitions = map[State][]State{
	Idle:                {Dragging, Resizing, RubberBandSelecting, EditingText},
	Dragging:            {Idle},
	Resizing:            {Idle},
	RubberBandSelecting: {Idle},
	EditingText:         {Idle},
}

// CanTransition reports whether the state machine allows moving from one state to another.
func CanTransition(from, to State) bool {
	return slices.Contains(transitions[from], to)
}
