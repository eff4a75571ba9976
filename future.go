package extract

import (
	"context"
	"sync"
)

// future is completed exactly once with a unit's Outcome.
type future struct {
	done chan struct{}
	once sync.Once
	out  Outcome
}

func newFuture() *future {
	return &future{done: make(chan struct{})}
}

func resolved(out Outcome) *future {
	f := newFuture()
	f.resolve(out)
	return f
}

// resolve completes the future. Later calls are ignored.
func (f *future) resolve(out Outcome) {
	f.once.Do(func() {
		f.out = out
		close(f.done)
	})
}

// wait blocks until the future completes or ctx is done. A completed future
// wins over a cancelled context.
func (f *future) wait(ctx context.Context) (Outcome, error) {
	select {
	case <-f.done:
		return f.out, nil
	default:
	}

	select {
	case <-f.done:
		return f.out, nil
	case <-ctx.Done():
		return Outcome{}, ctx.Err()
	}
}

// result returns the outcome without blocking.
func (f *future) result() (Outcome, bool) {
	select {
	case <-f.done:
		return f.out, true
	default:
		return Outcome{}, false
	}
}
