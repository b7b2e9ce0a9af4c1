package kmeans

import (
	"context"
	"time"
)

// RoundStats describes one completed refinement round.
type RoundStats struct {
	Restart   int
	Iteration int
	Swaps     int
	Duration  time.Duration
}

// RestartStats describes one completed restart.
type RestartStats struct {
	Restart    int
	Iterations int
	Converged  bool
	Distortion float64
	SeedIDs    []int
	Duration   time.Duration
}

// Events receives progress notifications. Calls are made from the engine
// goroutine only.
type Events interface {
	StateChanged(ctx context.Context, from, to State)
	RoundCompleted(ctx context.Context, s RoundStats)
	RestartCompleted(ctx context.Context, s RestartStats)
	Degenerate(ctx context.Context, n, k int)
	SilhouetteCompleted(ctx context.Context, average float64, d time.Duration)
}

// NoopEvents ignores all notifications.
type NoopEvents struct{}

func (NoopEvents) StateChanged(context.Context, State, State)                  {}
func (NoopEvents) RoundCompleted(context.Context, RoundStats)                  {}
func (NoopEvents) RestartCompleted(context.Context, RestartStats)              {}
func (NoopEvents) Degenerate(context.Context, int, int)                        {}
func (NoopEvents) SilhouetteCompleted(context.Context, float64, time.Duration) {}
