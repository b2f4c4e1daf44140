package apiindex

import (
	"context"
	"sync"
)

// IndexBuilder produces an index.
type IndexBuilder interface {
	Build(ctx context.Context) (*ApiIndex, error)
}

// Once memoizes the first successful build so every caller within a build
// lifecycle shares one scan of the corpus. Failed builds are not cached, but
// callers waiting on a failed attempt receive its error instead of retrying.
type Once struct {
	builder IndexBuilder

	mu       sync.Mutex
	index    *ApiIndex
	inflight *attempt
}

type attempt struct {
	done  chan struct{}
	index *ApiIndex
	err   error
}

// NewOnce wraps a builder.
func NewOnce(builder IndexBuilder) *Once {
	return &Once{builder: builder}
}

// Build returns the memoized index, building it on first use. Concurrent
// callers share the in-flight build and its outcome.
func (o *Once) Build(ctx context.Context) (*ApiIndex, error) {
	o.mu.Lock()
	if o.index != nil {
		index := o.index
		o.mu.Unlock()
		return index, nil
	}
	if a := o.inflight; a != nil {
		o.mu.Unlock()
		select {
		case <-a.done:
			return a.index, a.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	a := &attempt{done: make(chan struct{})}
	o.inflight = a
	o.mu.Unlock()

	a.index, a.err = o.builder.Build(ctx)

	o.mu.Lock()
	if a.err == nil {
		o.index = a.index
	}
	o.inflight = nil
	o.mu.Unlock()
	close(a.done)

	return a.index, a.err
}

// Done reports whether the index has been built.
func (o *Once) Done() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.index != nil
}

type onceKey struct{}

// WithOnce returns a context carrying the memoized builder.
func WithOnce(ctx context.Context, once *Once) context.Context {
	return context.WithValue(ctx, onceKey{}, once)
}

// OnceFromContext returns the memoized builder stored in ctx, if any.
func OnceFromContext(ctx context.Context) (*Once, bool) {
	once, ok := ctx.Value(onceKey{}).(*Once)
	return once, ok && once != nil
}
