package partition

import "fmt"

// Phase is the computation mode of a Worker.
type Phase uint8

const (
	PhaseIdle Phase = iota
	PhaseSeedDistance
	PhaseAssign
	PhaseFinalDistance
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseSeedDistance:
		return "seed-distance"
	case PhaseAssign:
		return "assign"
	case PhaseFinalDistance:
		return "final-distance"
	default:
		return fmt.Sprintf("Phase(%d)", uint8(p))
	}
}

// TransitionError reports an illegal phase change.
type TransitionError struct {
	From, To Phase
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("partition: illegal phase transition %s -> %s", e.From, e.To)
}

// Transition returns the phase entered when a worker in phase from is asked
// to run in phase to, or a *TransitionError.
func Transition(from, to Phase) (Phase, error) {
	switch {
	case from == PhaseIdle && to != PhaseIdle:
		return to, nil
	case from == PhaseSeedDistance && (to == PhaseSeedDistance || to == PhaseAssign):
		return to, nil
	case from == PhaseAssign && (to == PhaseAssign || to == PhaseFinalDistance):
		return to, nil
	default:
		return from, &TransitionError{From: from, To: to}
	}
}
