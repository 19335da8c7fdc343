package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestPoolConcurrencyLimit(t *testing.T) {
	pool := New(2, nil)
	defer func() {
		_ = pool.Shutdown(context.Background())
	}()

	var current int32
	var max int32

	work := func() {
		val := atomic.AddInt32(&current, 1)
		for {
			prev := atomic.LoadInt32(&max)
			if val <= prev {
				break
			}
			if atomic.CompareAndSwapInt32(&max, prev, val) {
				break
			}
		}
		time.Sleep(50 * time.Millisecond)
		atomic.AddInt32(&current, -1)
	}

	for i := 0; i < 4; i++ {
		if err := pool.Submit(work); err != nil {
			t.Fatalf("submit failed: %v", err)
		}
	}

	_ = pool.Shutdown(context.Background())
	if max > 2 {
		t.Fatalf("expected max concurrency <= 2, got %d", max)
	}
}

func TestPoolSubmitAfterShutdown(t *testing.T) {
	pool := New(1, nil)
	_ = pool.Shutdown(context.Background())
	if err := pool.Submit(func() {}); err == nil {
		t.Fatal("expected error after shutdown")
	}
}

func TestPoolRecoversPanics(t *testing.T) {
	pool := New(1, nil)
	defer func() {
		_ = pool.Shutdown(context.Background())
	}()

	if err := pool.Submit(func() { panic("boom") }); err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	ran := make(chan struct{})
	if err := pool.Submit(func() { close(ran) }); err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("worker should survive a panicking task")
	}
}

func TestPoolShutdownWaitsForTasks(t *testing.T) {
	pool := New(2, nil)
	var finished int32
	for i := 0; i < 4; i++ {
		if err := pool.Submit(func() {
			time.Sleep(20 * time.Millisecond)
			atomic.AddInt32(&finished, 1)
		}); err != nil {
			t.Fatalf("submit failed: %v", err)
		}
	}
	if err := pool.Shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
	if got := atomic.LoadInt32(&finished); got != 4 {
		t.Fatalf("expected 4 finished tasks, got %d", got)
	}
	if pool.Size() != 2 {
		t.Fatalf("expected size 2, got %d", pool.Size())
	}
}

func TestPoolShutdownHonoursContext(t *testing.T) {
	pool := New(1, nil)
	release := make(chan struct{})
	defer close(release)
	if err := pool.Submit(func() { <-release }); err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := pool.Shutdown(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected context deadline exceeded, got %v", err)
	}
}
