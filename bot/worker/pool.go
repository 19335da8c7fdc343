package worker

import (
	"context"
	"errors"
	"runtime/debug"
	"sync"

	botpkg "github.com/liuran001/LinkCleanBot/bot"
)

var ErrPoolClosed = errors.New("worker pool closed")

// Pool provides bounded concurrency execution.
// A panicking task is logged and does not take its worker down.
type Pool struct {
	tasks    chan func()
	wg       sync.WaitGroup
	shutdown chan struct{}
	mu       sync.RWMutex
	closed   bool
	size     int
	logger   botpkg.Logger
}

// New creates a worker pool with the given size. logger may be nil.
func New(size int, logger botpkg.Logger) *Pool {
	if size <= 0 {
		size = 1
	}

	queueSize := size * 8
	if queueSize < 8 {
		queueSize = 8
	}

	p := &Pool{
		tasks:    make(chan func(), queueSize),
		shutdown: make(chan struct{}),
		size:     size,
		logger:   logger,
	}

	for i := 0; i < size; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for task := range p.tasks {
				p.run(task)
			}
		}()
	}

	return p
}

func (p *Pool) run(task func()) {
	if task == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil && p.logger != nil {
			p.logger.Error("worker task panicked", "panic", r, "stack", string(debug.Stack()))
		}
	}()
	task()
}

// Submit enqueues a task for execution, blocking while the queue is full.
func (p *Pool) Submit(task func()) error {
	// the read lock keeps close from racing the send
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPoolClosed
	}
	p.tasks <- task
	return nil
}

// Shutdown waits for in-flight tasks until context is done.
func (p *Pool) Shutdown(ctx context.Context) error {
	p.close()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		return nil
	}
}

// StopNow closes the pool without waiting for tasks to finish.
func (p *Pool) StopNow() {
	p.close()
}

func (p *Pool) close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.closed {
		p.closed = true
		close(p.shutdown)
		close(p.tasks)
	}
}

// Size returns the worker count.
func (p *Pool) Size() int {
	return p.size
}
