package htmx

import (
	"context"
	"sync/atomic"
)

// finalizedBit marks a tracker whose consulted set has been read. It sits
// above every RequestHeader bit.
const finalizedBit uint32 = 1 << 31

// Tracker records which htmx request headers were consulted while a single
// request was being handled. It is safe for concurrent use by any goroutine
// serving that request.
//
// A Tracker is owned by the AutoVary invocation that created it. The copy
// stored in the request context is a borrowed handle.
type Tracker struct {
	state atomic.Uint32
}

// NewTracker returns an empty tracker in the tracking state.
func NewTracker() *Tracker {
	return &Tracker{}
}

// Record marks id as consulted. Repeated calls are no-ops. Records made after
// Finalize are discarded.
func (t *Tracker) Record(id RequestHeader) {
	if t == nil || !id.Valid() {
		return
	}
	bit := uint32(1) << id
	for {
		old := t.state.Load()
		if old&finalizedBit != 0 || old&bit != 0 {
			return
		}
		if t.state.CompareAndSwap(old, old|bit) {
			return
		}
	}
}

// Finalize ends tracking and returns the consulted headers in registry order.
// Only the first call observes the set; later calls return nil.
func (t *Tracker) Finalize() []RequestHeader {
	if t == nil {
		return nil
	}
	old := t.state.Or(finalizedBit)
	if old&finalizedBit != 0 {
		return nil
	}
	return headersFromBits(old)
}

// Finalized reports whether Finalize has been called.
func (t *Tracker) Finalized() bool {
	return t != nil && t.state.Load()&finalizedBit != 0
}

// Consulted returns the headers recorded so far without finalizing.
func (t *Tracker) Consulted() []RequestHeader {
	if t == nil {
		return nil
	}
	return headersFromBits(t.state.Load() &^ finalizedBit)
}

func headersFromBits(bits uint32) []RequestHeader {
	var out []RequestHeader
	for id := range numRequestHeaders {
		if bits&(uint32(1)<<id) != 0 {
			out = append(out, id)
		}
	}
	return out
}

type ctxTrackerKey struct{}

// WithTracker attaches t to ctx so extraction functions can record into it.
func WithTracker(ctx context.Context, t *Tracker) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxTrackerKey{}, t)
}

// TrackerFromContext returns the tracker installed by AutoVary, or nil.
func TrackerFromContext(ctx context.Context) *Tracker {
	if ctx == nil {
		return nil
	}
	t, _ := ctx.Value(ctxTrackerKey{}).(*Tracker)
	return t
}
