package player

// State is the playback state of a Controller.
type State int

const (
	// Idle is the state after Configure and after Stop.
	Idle State = iota
	// PlayingForward means ticks move the value from the configured start
	// towards the configured end.
	PlayingForward
	// PlayingBackward means ticks move the value back towards the
	// configured start.
	PlayingBackward
	// Completed means the last session reached the end of its segment.
	Completed
)

// String returns the lower-case state name.
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case PlayingForward:
		return "playing-forward"
	case PlayingBackward:
		return "playing-backward"
	case Completed:
		return "completed"
	default:
		return "unknown"
	}
}

// Segment is the value range of the current session. Start and End are
// swapped when the controller reverses direction; Current always lies
// between them.
type Segment struct {
	Start   int
	End     int
	Current int
}

// reverse swaps the endpoints and moves Current to the new start.
func (s *Segment) reverse() {
	s.Start, s.End = s.End, s.Start
	s.Current = s.Start
}

// Record is the playback position.
type Record struct {
	// ElapsedMs is the time played in the current direction, within
	// [0, total duration].
	ElapsedMs float64
	// Backward is set while the segment is reversed relative to the
	// configuration.
	Backward bool
	// FirstRun stays set from Configure until the first Continue or
	// ReverseContinue.
	FirstRun bool
	// Playing is set while ticks are registered.
	Playing bool
}
