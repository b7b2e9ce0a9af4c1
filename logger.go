package vecclust

import (
	"context"
	"log/slog"
	"os"
	"time"

	"golang.org/x/time/rate"
)

// Logger wraps slog.Logger with vecclust-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger

	// rounds throttles per-round progress lines, which can be frequent on
	// small inputs. Nil logs every round.
	rounds *rate.Sometimes
}

func newRoundLimiter() *rate.Sometimes {
	return &rate.Sometimes{First: 5, Interval: time.Second}
}

func newLogger(l *slog.Logger) *Logger {
	return &Logger{
		Logger: l,
		rounds: newRoundLimiter(),
	}
}

// forRun returns a logger with its own round limiter, so every run reports
// its first rounds.
func (l *Logger) forRun() *Logger {
	return &Logger{Logger: l.Logger, rounds: newRoundLimiter()}
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return newLogger(slog.New(handler))
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	return newLogger(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return newLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	return newLogger(slog.New(slog.DiscardHandler))
}

func (l *Logger) with(args ...any) *Logger {
	return &Logger{Logger: l.Logger.With(args...), rounds: l.rounds}
}

// WithK adds a k (cluster count) field to the logger.
func (l *Logger) WithK(k int) *Logger {
	return l.with("k", k)
}

// WithDimension adds a dimension field to the logger.
func (l *Logger) WithDimension(dim int) *Logger {
	return l.with("dimension", dim)
}

// WithCount adds a count field to the logger.
func (l *Logger) WithCount(count int) *Logger {
	return l.with("count", count)
}

// LogRun logs a completed or failed clustering run.
func (l *Logger) LogRun(ctx context.Context, iterations int, distortion float64, d time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "clustering failed",
			"duration", d,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "clustering completed",
			"iterations", iterations,
			"distortion", distortion,
			"duration", d,
		)
	}
}

// LogRestart logs a completed restart.
func (l *Logger) LogRestart(ctx context.Context, restart, iterations int, converged bool, distortion float64) {
	l.DebugContext(ctx, "restart completed",
		"restart", restart,
		"iterations", iterations,
		"converged", converged,
		"distortion", distortion,
	)
}

// LogRound logs refinement progress. Lines are rate limited.
func (l *Logger) LogRound(ctx context.Context, restart, iteration, swaps int) {
	log := func() {
		l.DebugContext(ctx, "round completed",
			"restart", restart,
			"iteration", iteration,
			"swaps", swaps,
		)
	}
	if l.rounds == nil {
		log()
		return
	}
	l.rounds.Do(log)
}

// LogConverged logs the stop condition of the winning restart.
func (l *Logger) LogConverged(ctx context.Context, restart, iterations int, converged bool) {
	if converged {
		l.DebugContext(ctx, "converged",
			"restart", restart,
			"iterations", iterations,
		)
	} else {
		l.InfoContext(ctx, "max iterations reached before convergence",
			"restart", restart,
			"iterations", iterations,
		)
	}
}

// LogDegenerate logs the identity clustering fallback.
func (l *Logger) LogDegenerate(ctx context.Context, n, k int) {
	l.WarnContext(ctx, "k is not smaller than the number of entities, assigning every entity to its own cluster",
		"count", n,
		"k", k,
	)
}

// LogSilhouette logs a completed silhouette computation.
func (l *Logger) LogSilhouette(ctx context.Context, average float64, d time.Duration) {
	l.DebugContext(ctx, "silhouette computed",
		"average", average,
		"duration", d,
	)
}
