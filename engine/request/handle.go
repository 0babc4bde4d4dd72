package request

import (
	"context"
	"sync"
)

// Handle is the poll surface for one in-flight request. It is written once by
// the worker that completes the request and read by the render thread; a
// mutex (not a channel) keeps Poll allocation-free and non-blocking.
type Handle struct {
	mu     sync.Mutex
	done   bool
	result any
	err    error
	cancel context.CancelFunc
}

// Done reports whether the request has finished (successfully, with an error,
// or by cancellation).
func (h *Handle) Done() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.done
}

// Result returns the request outcome. Before completion it returns (nil, nil);
// callers are expected to check Done first. After cancellation the error is
// context.Canceled.
//
// Returns:
//   - any: the request result, or nil
//   - error: the request error, or nil
func (h *Handle) Result() (any, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.done {
		return nil, nil
	}
	return h.result, h.err
}

// Cancel aborts the request's context. The worker may still be running; its
// eventual completion is recorded on this Handle but the owning slot has
// already been released, so nothing observes it. Cancel must be called before
// dropping the last reference to a Handle whose work is still pending
// (ownership rule: cancel first, then drop).
func (h *Handle) Cancel() {
	if h.cancel != nil {
		h.cancel()
	}
}

// complete records the outcome exactly once; later calls are ignored.
func (h *Handle) complete(result any, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.done {
		return
	}
	h.done = true
	h.result = result
	h.err = err
}
