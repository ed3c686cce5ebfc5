package bundler

import (
	"context"
	"fmt"
	"sync"
)

// Future holds the outcome of a build started with Start. It settles exactly
// once, with either stats or an error.
type Future struct {
	once  sync.Once
	done  chan struct{}
	stats Stats
	err   error
}

func newFuture() *Future {
	return &Future{done: make(chan struct{})}
}

// settle records the outcome and reports whether this call settled the future.
func (f *Future) settle(stats Stats, err error) bool {
	settled := false
	f.once.Do(func() {
		f.stats = stats
		f.err = err
		settled = true
		close(f.done)
	})
	return settled
}

// Done is closed once the future has settled.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Wait blocks until the build settles or ctx is done.
func (f *Future) Wait(ctx context.Context) (Stats, error) {
	select {
	case <-f.done:
		return f.stats, f.err
	case <-ctx.Done():
		return Stats{}, ctx.Err()
	}
}

// Start runs driver.Build in the background. Cancelling ctx is passed on to
// the driver, a driver panic settles the future with an error.
func Start(ctx context.Context, driver Driver, opts Options) *Future {
	f := newFuture()

	go func() {
		defer func() {
			if r := recover(); r != nil {
				f.settle(Stats{}, fmt.Errorf("%w: %s panicked: %v", ErrBuildFailed, driver.Name(), r))
			}
		}()

		stats, err := driver.Build(ctx, opts)
		f.settle(stats, err)
	}()

	return f
}
