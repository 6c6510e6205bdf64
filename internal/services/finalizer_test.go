package services

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func TestFinalizerWaitDrainsTasks(t *testing.T) {
	f := NewFinalizer(time.Second)

	var done int32
	for i := 0; i < 5; i++ {
		f.Go("write", func(ctx context.Context) {
			time.Sleep(10 * time.Millisecond)
			atomic.AddInt32(&done, 1)
		})
	}

	if !f.Wait(2 * time.Second) {
		t.Fatal("Wait returned false before tasks finished")
	}
	if got := atomic.LoadInt32(&done); got != 5 {
		t.Errorf("expected 5 completed tasks, got %d", got)
	}
}

func TestFinalizerWaitDeadline(t *testing.T) {
	f := NewFinalizer(5 * time.Second)

	release := make(chan struct{})
	f.Go("slow", func(ctx context.Context) {
		<-release
	})

	if f.Wait(20 * time.Millisecond) {
		t.Error("Wait should report false while a task is still running")
	}
	close(release)

	if !f.Wait(time.Second) {
		t.Error("Wait should succeed after the task is released")
	}
}

func TestFinalizerTaskContextHasDeadline(t *testing.T) {
	f := NewFinalizer(50 * time.Millisecond)

	got := make(chan bool, 1)
	f.Go("check", func(ctx context.Context) {
		_, ok := ctx.Deadline()
		got <- ok
	})

	if !<-got {
		t.Error("task context should carry the configured deadline")
	}
}

func TestFinalizerRecoversPanic(t *testing.T) {
	f := NewFinalizer(time.Second)

	f.Go("boom", func(ctx context.Context) {
		panic("bad write")
	})

	if !f.Wait(time.Second) {
		t.Error("panicking task should still be counted as finished")
	}
}
