package view

// State is the visibility state of a View.
type State int

const (
	Hidden  State = iota // initial and resting-hidden state
	Showing              // show transition in flight
	Visible              // resting-visible state
	Hiding               // hide transition in flight
)

func (s State) String() string {
	switch s {
	case Hidden:
		return "Hidden"
	case Showing:
		return "Showing"
	case Visible:
		return "Visible"
	case Hiding:
		return "Hiding"
	default:
		return "Unknown"
	}
}

// VisibleIntent reports whether the view is shown or on its way there.
func (s State) VisibleIntent() bool {
	return s == Showing || s == Visible
}

// HiddenIntent reports whether the view is hidden or on its way there.
func (s State) HiddenIntent() bool {
	return s == Hidden || s == Hiding
}
