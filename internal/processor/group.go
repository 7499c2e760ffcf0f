package processor

import (
	"context"
	"errors"
	"sync"
)

// boundedGroup runs jobs with at most limit in flight and collects their errors.
type boundedGroup struct {
	slots chan struct{}
	wg    sync.WaitGroup

	mu   sync.Mutex
	errs []error
}

func newBoundedGroup(limit int) *boundedGroup {
	if limit <= 0 {
		limit = 1
	}
	return &boundedGroup{slots: make(chan struct{}, limit)}
}

// Go blocks until a slot is free, then runs job in its own goroutine.
// It returns ctx.Err() without starting job when ctx ends first.
func (g *boundedGroup) Go(ctx context.Context, job func() error) error {
	select {
	case g.slots <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}

	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		defer func() { <-g.slots }()

		if err := job(); err != nil {
			g.mu.Lock()
			g.errs = append(g.errs, err)
			g.mu.Unlock()
		}
	}()
	return nil
}

// Wait waits for every started job and returns their failures joined.
func (g *boundedGroup) Wait() (failed int, err error) {
	g.wg.Wait()
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.errs), errors.Join(g.errs...)
}
