package vecclust

import (
	"math"
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting clustering metrics.
// Implement this interface to integrate with monitoring systems; package
// metrics/prometheus provides a Prometheus backed implementation.
type MetricsCollector interface {
	// RecordRun is called after each Cluster call.
	// n is the number of entities, duration the total time taken, err is nil
	// if successful.
	RecordRun(n, k int, duration time.Duration, err error)

	// RecordRestart is called after each completed restart.
	RecordRestart(iterations int, converged bool, distortion float64, duration time.Duration)

	// RecordRound is called after each refinement round.
	// swaps is the number of entities that changed cluster.
	RecordRound(swaps int, duration time.Duration)

	// RecordSilhouette is called after silhouette scoring.
	RecordSilhouette(average float64, duration time.Duration)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordRun(int, int, time.Duration, error)        {}
func (NoopMetricsCollector) RecordRestart(int, bool, float64, time.Duration) {}
func (NoopMetricsCollector) RecordRound(int, time.Duration)                  {}
func (NoopMetricsCollector) RecordSilhouette(float64, time.Duration)         {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	RunCount         atomic.Int64
	RunErrors        atomic.Int64
	RunTotalNanos    atomic.Int64
	RestartCount     atomic.Int64
	RestartConverged atomic.Int64
	RoundCount       atomic.Int64
	RoundSwaps       atomic.Int64
	RoundTotalNanos  atomic.Int64
	SilhouetteCount  atomic.Int64
	SilhouetteNanos  atomic.Int64

	lastSilhouette atomic.Uint64 // float64 bits
}

// RecordRun implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRun(_, _ int, duration time.Duration, err error) {
	b.RunCount.Add(1)
	b.RunTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.RunErrors.Add(1)
	}
}

// RecordRestart implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRestart(_ int, converged bool, _ float64, _ time.Duration) {
	b.RestartCount.Add(1)
	if converged {
		b.RestartConverged.Add(1)
	}
}

// RecordRound implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRound(swaps int, duration time.Duration) {
	b.RoundCount.Add(1)
	b.RoundSwaps.Add(int64(swaps))
	b.RoundTotalNanos.Add(duration.Nanoseconds())
}

// RecordSilhouette implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSilhouette(average float64, duration time.Duration) {
	b.SilhouetteCount.Add(1)
	b.SilhouetteNanos.Add(duration.Nanoseconds())
	b.lastSilhouette.Store(math.Float64bits(average))
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		RunCount:         b.RunCount.Load(),
		RunErrors:        b.RunErrors.Load(),
		RunAvgNanos:      avg(b.RunTotalNanos.Load(), b.RunCount.Load()),
		RestartCount:     b.RestartCount.Load(),
		RestartConverged: b.RestartConverged.Load(),
		RoundCount:       b.RoundCount.Load(),
		RoundSwaps:       b.RoundSwaps.Load(),
		RoundAvgNanos:    avg(b.RoundTotalNanos.Load(), b.RoundCount.Load()),
		SilhouetteCount:  b.SilhouetteCount.Load(),
		LastSilhouette:   math.Float64frombits(b.lastSilhouette.Load()),
	}
}

func avg(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	RunCount         int64
	RunErrors        int64
	RunAvgNanos      int64
	RestartCount     int64
	RestartConverged int64
	RoundCount       int64
	RoundSwaps       int64
	RoundAvgNanos    int64
	SilhouetteCount  int64
	LastSilhouette   float64
}
