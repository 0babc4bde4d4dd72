package request

import "context"

// manualScheduler queues requests and runs them only when the owner drains
// the queue.
type manualScheduler struct {
	queued []func()
}

// ManualScheduler is a Scheduler whose requests run only when explicitly
// drained. It gives the caller full control over when background work
// completes: handy for frame-budgeted execution and for tests that need to
// observe in-flight states deterministically.
type ManualScheduler interface {
	Scheduler

	// RunAll executes every queued request on the calling goroutine and
	// empties the queue. Requests submitted while draining run on the next
	// call.
	RunAll()

	// RunOne executes the oldest queued request, if any.
	//
	// Returns:
	//   - bool: true if a request was run
	RunOne() bool

	// Pending returns the number of queued requests.
	Pending() int
}

var _ ManualScheduler = &manualScheduler{}

// NewManualScheduler creates a ManualScheduler with an empty queue.
//
// Returns:
//   - ManualScheduler: the drain-controlled scheduler
func NewManualScheduler() ManualScheduler {
	return &manualScheduler{}
}

func (m *manualScheduler) Submit(ctx context.Context, do func(ctx context.Context) (any, error)) *Handle {
	reqCtx, cancel := context.WithCancel(ctx)
	h := &Handle{cancel: cancel}
	m.queued = append(m.queued, func() {
		result, err := do(reqCtx)
		if ctxErr := reqCtx.Err(); ctxErr != nil {
			result, err = nil, ctxErr
		}
		h.complete(result, err)
	})
	return h
}

func (m *manualScheduler) RunAll() {
	queued := m.queued
	m.queued = nil
	for _, run := range queued {
		run()
	}
}

func (m *manualScheduler) RunOne() bool {
	if len(m.queued) == 0 {
		return false
	}
	run := m.queued[0]
	m.queued = m.queued[1:]
	run()
	return true
}

func (m *manualScheduler) Pending() int {
	return len(m.queued)
}
