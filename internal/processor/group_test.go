package processor

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestBoundedGroupLimit(t *testing.T) {
	g := newBoundedGroup(2)
	var running, peak atomic.Int32

	for i := 0; i < 6; i++ {
		err := g.Go(context.Background(), func() error {
			n := running.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(10 * time.Millisecond)
			running.Add(-1)
			if i%3 == 0 {
				return errors.New("boom")
			}
			return nil
		})
		if err != nil {
			t.Fatalf("Go() error = %v", err)
		}
	}

	failed, err := g.Wait()
	if failed != 2 || err == nil {
		t.Errorf("Wait() = %d, %v; want 2 failures", failed, err)
	}
	if p := peak.Load(); p > 2 {
		t.Errorf("peak concurrency = %d, want <= 2", p)
	}
}

func TestBoundedGroupCanceled(t *testing.T) {
	g := newBoundedGroup(1)
	release := make(chan struct{})
	if err := g.Go(context.Background(), func() error { <-release; return nil }); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := g.Go(ctx, func() error { return nil }); !errors.Is(err, context.Canceled) {
		t.Errorf("Go() error = %v, want context.Canceled", err)
	}

	close(release)
	if failed, err := g.Wait(); failed != 0 || err != nil {
		t.Errorf("Wait() = %d, %v", failed, err)
	}
}
