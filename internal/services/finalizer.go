package services

import (
	"context"
	"log"
	"sync"
	"time"
)

// Finalizer runs persistence work that must not block the response stream but
// should still finish before the process exits. Every task is tracked so a
// graceful shutdown can drain in-flight writes instead of dropping them.
type Finalizer struct {
	wg      sync.WaitGroup
	timeout time.Duration
}

func NewFinalizer(taskTimeout time.Duration) *Finalizer {
	return &Finalizer{timeout: taskTimeout}
}

// Go schedules fn on its own goroutine with a fresh context detached from the
// request (the caller's request context is already done or about to be).
// Failures inside fn are the task's own business; a panic is logged and
// swallowed so one bad write never takes the server down.
func (f *Finalizer) Go(name string, fn func(ctx context.Context)) {
	f.wg.Add(1)
	go func() {
		defer f.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				log.Printf("finalizer task %s panicked: %v", name, r)
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), f.timeout)
		defer cancel()
		fn(ctx)
	}()
}

// Wait blocks until all scheduled tasks finish or the deadline passes.
// Returns false when the deadline won.
func (f *Finalizer) Wait(deadline time.Duration) bool {
	done := make(chan struct{})
	go func() {
		f.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return true
	case <-time.After(deadline):
		return false
	}
}
