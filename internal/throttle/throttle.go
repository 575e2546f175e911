// Package throttle bounds the pace and parallelism of bulk catalog work.
package throttle

import (
	"context"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// Config holds throttle limits.
type Config struct {
	// RecordsPerSec is the maximum number of records processed per second.
	// If 0, unlimited.
	RecordsPerSec int

	// Burst is the number of records that may be processed at once before
	// the rate applies. Defaults to RecordsPerSec.
	Burst int

	// MaxWorkers is the maximum number of concurrent workers.
	// If 0, defaults to 1.
	MaxWorkers int64
}

// Controller hands out record budget and worker slots. A nil Controller
// imposes no limits.
type Controller struct {
	cfg     Config
	workers *semaphore.Weighted
	limiter *rate.Limiter
}

// New creates a controller.
func New(cfg Config) *Controller {
	if cfg.MaxWorkers <= 0 {
		cfg.MaxWorkers = 1
	}
	if cfg.Burst <= 0 {
		cfg.Burst = max(cfg.RecordsPerSec, 1)
	}

	c := &Controller{
		cfg:     cfg,
		workers: semaphore.NewWeighted(cfg.MaxWorkers),
	}
	if cfg.RecordsPerSec > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RecordsPerSec), cfg.Burst)
	}
	return c
}

// Workers returns the maximum number of concurrent workers.
func (c *Controller) Workers() int {
	if c == nil {
		return 1
	}
	return int(c.cfg.MaxWorkers)
}

// Wait blocks until n records may be processed or ctx is canceled.
func (c *Controller) Wait(ctx context.Context, n int) error {
	if c == nil || c.limiter == nil {
		return ctx.Err()
	}
	for n > 0 {
		step := min(n, c.cfg.Burst)
		if err := c.limiter.WaitN(ctx, step); err != nil {
			return err
		}
		n -= step
	}
	return nil
}

// Acquire reserves a worker slot, blocking until one is free.
func (c *Controller) Acquire(ctx context.Context) error {
	if c == nil {
		return ctx.Err()
	}
	return c.workers.Acquire(ctx, 1)
}

// TryAcquire reserves a worker slot without blocking.
func (c *Controller) TryAcquire() bool {
	if c == nil {
		return true
	}
	return c.workers.TryAcquire(1)
}

// Release frees a worker slot.
func (c *Controller) Release() {
	if c == nil {
		return
	}
	c.workers.Release(1)
}
