// package request provides the asynchronous request layer beneath the tile
// state machines. Every terrain fetch, upsample, mesh build, and imagery fetch
// is submitted here and observed by non-blocking polls from the render thread;
// nothing in this package ever blocks the caller.
package request

import (
	"context"

	"github.com/Carmen-Shannon/automation/tools/worker"
)

// scheduler is the implementation of the Scheduler interface, backed by a
// dynamic worker pool so request goroutines are reused across frames.
type scheduler struct {
	pool    worker.DynamicWorkerPool
	nextID  int
	workers int
}

// Scheduler runs request functions in the background and hands back Handles
// that the single render/update thread polls each tick.
type Scheduler interface {
	// Submit schedules do to run on a background worker. The returned Handle
	// never blocks: Done reports completion and Result carries the outcome.
	// The context passed to do is cancelled by Handle.Cancel; do is expected
	// to honor it for early exit.
	//
	// Parameters:
	//   - ctx: parent context for the request
	//   - do: the request function to run off-thread
	//
	// Returns:
	//   - *Handle: the poll handle for this request
	Submit(ctx context.Context, do func(ctx context.Context) (any, error)) *Handle
}

var _ Scheduler = &scheduler{}

// NewScheduler creates a pool-backed Scheduler with the specified options applied.
//
// Parameters:
//   - options: a variadic list of SchedulerBuilderOption functions to configure the Scheduler
//
// Returns:
//   - Scheduler: a new Scheduler configured with the provided options
func NewScheduler(options ...SchedulerBuilderOption) Scheduler {
	s := &scheduler{}
	cfg := defaultSchedulerConfig()
	for _, opt := range options {
		opt(&cfg)
	}
	s.workers = cfg.workers
	s.pool = worker.NewDynamicWorkerPool(cfg.workers, cfg.queueSize, cfg.idleTimeout)
	return s
}

func (s *scheduler) Submit(ctx context.Context, do func(ctx context.Context) (any, error)) *Handle {
	reqCtx, cancel := context.WithCancel(ctx)
	h := &Handle{cancel: cancel}

	s.nextID++
	s.pool.SubmitTask(worker.Task{
		ID: s.nextID,
		Do: func() (any, error) {
			result, err := do(reqCtx)
			// Prefer the cancellation error over a partial result so a
			// superseded request is never mistaken for a completed one.
			if ctxErr := reqCtx.Err(); ctxErr != nil {
				err = ctxErr
				result = nil
			}
			h.complete(result, err)
			return result, err
		},
	})
	return h
}

// immediateScheduler runs requests synchronously on the calling goroutine.
type immediateScheduler struct{}

// NewImmediateScheduler creates a Scheduler that executes each request inline
// before Submit returns. Useful for deterministic tests and offline tools; the
// returned Handle is always already Done.
//
// Returns:
//   - Scheduler: the synchronous scheduler
func NewImmediateScheduler() Scheduler {
	return immediateScheduler{}
}

func (immediateScheduler) Submit(ctx context.Context, do func(ctx context.Context) (any, error)) *Handle {
	reqCtx, cancel := context.WithCancel(ctx)
	h := &Handle{cancel: cancel}
	result, err := do(reqCtx)
	h.complete(result, err)
	return h
}
