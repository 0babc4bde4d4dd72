package request

import (
	"runtime"
	"time"
)

// schedulerConfig collects builder-adjustable settings before pool creation;
// the pool itself cannot be resized after construction.
type schedulerConfig struct {
	workers     int
	queueSize   int
	idleTimeout time.Duration
}

func defaultSchedulerConfig() schedulerConfig {
	return schedulerConfig{
		workers:     max(runtime.NumCPU()-1, 1),
		queueSize:   256,
		idleTimeout: 1 * time.Second,
	}
}

// SchedulerBuilderOption is a functional option for configuring a Scheduler via NewScheduler.
type SchedulerBuilderOption func(*schedulerConfig)

// WithWorkers is an option builder that sets the maximum number of concurrent
// request workers.
//
// Parameters:
//   - n: the worker count (values below 1 are ignored)
//
// Returns:
//   - SchedulerBuilderOption: a function that applies the worker count option
func WithWorkers(n int) SchedulerBuilderOption {
	return func(c *schedulerConfig) {
		if n >= 1 {
			c.workers = n
		}
	}
}

// WithQueueSize is an option builder that sets the pending request queue depth.
//
// Parameters:
//   - n: the queue size (values below 1 are ignored)
//
// Returns:
//   - SchedulerBuilderOption: a function that applies the queue size option
func WithQueueSize(n int) SchedulerBuilderOption {
	return func(c *schedulerConfig) {
		if n >= 1 {
			c.queueSize = n
		}
	}
}

// WithIdleTimeout is an option builder that sets how long idle workers persist
// before exiting back to the pool minimum.
//
// Parameters:
//   - d: the idle timeout
//
// Returns:
//   - SchedulerBuilderOption: a function that applies the idle timeout option
func WithIdleTimeout(d time.Duration) SchedulerBuilderOption {
	return func(c *schedulerConfig) {
		if d > 0 {
			c.idleTimeout = d
		}
	}
}
