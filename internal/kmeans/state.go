package kmeans

import "fmt"

// State is the lifecycle state of an Engine.
type State int32

const (
	StateNew State = iota
	StateInitializing
	StateRefining
	StateConverged
	StateMaxIterations
	StateScoring
	StateDone
	StateCancelled
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateNew:
		return "new"
	case StateInitializing:
		return "initializing"
	case StateRefining:
		return "refining"
	case StateConverged:
		return "converged"
	case StateMaxIterations:
		return "max-iterations-reached"
	case StateScoring:
		return "scoring"
	case StateDone:
		return "done"
	case StateCancelled:
		return "cancelled"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}
