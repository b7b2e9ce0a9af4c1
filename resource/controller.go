package resource

import (
	"context"
	"time"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// Config holds resource limits.
type Config struct {
	// MaxWorkers is the total number of partition workers that may run at
	// once. If 0, unlimited.
	MaxWorkers int64

	// IOLimitBytesPerSec is the maximum model store throughput.
	// If 0, unlimited.
	IOLimitBytesPerSec int64
}

// Controller manages shared worker slots and IO bandwidth.
type Controller struct {
	cfg Config

	workerSem *semaphore.Weighted // nil if unlimited
	ioLimiter *rate.Limiter       // nil if unlimited
}

// NewController creates a new resource controller.
func NewController(cfg Config) *Controller {
	c := &Controller{cfg: cfg}
	if cfg.MaxWorkers > 0 {
		c.workerSem = semaphore.NewWeighted(cfg.MaxWorkers)
	}
	if cfg.IOLimitBytesPerSec > 0 {
		c.ioLimiter = rate.NewLimiter(rate.Limit(cfg.IOLimitBytesPerSec), int(cfg.IOLimitBytesPerSec))
	}
	return c
}

// AcquireWorkers blocks until n worker slots are free. Requests above the
// configured maximum are clamped; the granted count is returned and must be
// passed to ReleaseWorkers.
func (c *Controller) AcquireWorkers(ctx context.Context, n int) (int, error) {
	if c == nil || c.workerSem == nil {
		return n, nil
	}
	if int64(n) > c.cfg.MaxWorkers {
		n = int(c.cfg.MaxWorkers)
	}
	if err := c.workerSem.Acquire(ctx, int64(n)); err != nil {
		return 0, err
	}
	return n, nil
}

// TryAcquireWorkers reserves n worker slots without blocking.
func (c *Controller) TryAcquireWorkers(n int) bool {
	if c == nil || c.workerSem == nil {
		return true
	}
	return c.workerSem.TryAcquire(int64(n))
}

// ReleaseWorkers returns n worker slots.
func (c *Controller) ReleaseWorkers(n int) {
	if c == nil || c.workerSem == nil || n <= 0 {
		return
	}
	c.workerSem.Release(int64(n))
}

// MaxWorkers returns the configured worker limit (0 if unlimited).
func (c *Controller) MaxWorkers() int64 {
	if c == nil {
		return 0
	}
	return c.cfg.MaxWorkers
}

// AcquireIO waits until the IO limit allows the specified number of bytes.
// Requests larger than one second of budget are split.
func (c *Controller) AcquireIO(ctx context.Context, bytes int) error {
	if c == nil || c.ioLimiter == nil {
		return nil
	}
	burst := c.ioLimiter.Burst()
	for bytes > 0 {
		chunk := min(bytes, burst)
		if err := c.ioLimiter.WaitN(ctx, chunk); err != nil {
			return err
		}
		bytes -= chunk
	}
	return nil
}

// TryAcquireIO attempts to acquire IO tokens without blocking.
func (c *Controller) TryAcquireIO(bytes int) bool {
	if c == nil || c.ioLimiter == nil {
		return true
	}
	return c.ioLimiter.AllowN(time.Now(), bytes)
}
