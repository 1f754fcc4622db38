package engine

import "fmt"

// State is the engine lifecycle: Idle, then Running, then exactly one of
// Completed, Exhausted or Aborted.
type State int32

const (
	Idle State = iota
	Running
	// Completed: every target was found.
	Completed
	// Exhausted: the generator ran out with targets left.
	Exhausted
	// Aborted: cancelled, or a line source or worker failed.
	Aborted
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Completed:
		return "completed"
	case Exhausted:
		return "exhausted"
	case Aborted:
		return "aborted"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}
