package queue

import (
	"errors"
	"sync/atomic"
	"testing"
)

func TestQueueRunsJobsAndReportsErrors(t *testing.T) {
	q := NewRequestQueueManager(4, 2)
	defer q.Shutdown()

	boom := errors.New("boom")
	errc := make(chan error, 1)
	if err := q.EnqueueJob(Job{Fn: func() error { return boom }, Errc: errc}); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	if err := <-errc; !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
}

func TestQueueRecoversFromPanics(t *testing.T) {
	q := NewRequestQueueManager(1, 1)
	defer q.Shutdown()

	errc := make(chan error, 1)
	_ = q.EnqueueJob(Job{Fn: func() error { panic("bad handler") }, Errc: errc})
	if err := <-errc; err == nil {
		t.Fatal("panicking job should report an error")
	}

	// the single worker must still be alive
	_ = q.EnqueueJob(Job{Fn: func() error { return nil }, Errc: errc})
	if err := <-errc; err != nil {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestShutdownDrainsAndRejects(t *testing.T) {
	q := NewRequestQueueManager(8, 2)

	var ran int32
	for i := 0; i < 8; i++ {
		if err := q.EnqueueJob(Job{Fn: func() error { atomic.AddInt32(&ran, 1); return nil }}); err != nil {
			t.Fatalf("enqueue: %v", err)
		}
	}

	q.Shutdown()
	q.Shutdown()

	if got := atomic.LoadInt32(&ran); got != 8 {
		t.Fatalf("expected 8 jobs to run, got %d", got)
	}
	if err := q.EnqueueJob(Job{Fn: func() error { return nil }}); !errors.Is(err, ErrQueueClosed) {
		t.Fatalf("expected ErrQueueClosed, got %v", err)
	}
}
