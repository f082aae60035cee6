package fetch

import (
	"context"
	"sync/atomic"
)

// Cancelable is the handle returned by asynchronous operations. Cancel
// is idempotent and has no effect once the operation has completed.
type Cancelable interface {
	Cancel()
}

// Handle tracks one in-flight dispatch. It is returned immediately by
// Dispatch and the typed wrappers; the outcome arrives only through the
// supplied callback.
type Handle struct {
	cancel  context.CancelFunc
	done    chan struct{}
	settled atomic.Bool
}

var _ Cancelable = (*Handle)(nil)

func newHandle(cancel context.CancelFunc) *Handle {
	return &Handle{
		cancel: cancel,
		done:   make(chan struct{}),
	}
}

// Cancel aborts the in-flight exchange and suppresses any future
// callback delivery for this request. Calling it after the callback has
// fired is a no-op.
func (h *Handle) Cancel() {
	h.settled.CompareAndSwap(false, true)
	h.cancel()
}

// Done returns a channel closed when the request has finished, whether
// by delivery or cancellation.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// deliver runs fn only if neither a prior delivery nor Cancel has
// claimed this handle. The compare-and-swap is the single point that
// enforces exactly-once, error-xor-data delivery.
func (h *Handle) deliver(fn func()) {
	if h.settled.CompareAndSwap(false, true) {
		fn()
	}
}
