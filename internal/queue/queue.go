package queue

import (
	"errors"
	"log"
	"sync"
)

var ErrQueueClosed = errors.New("queue: closed")

type Job struct {
	Fn   func() error
	Errc chan error
}

// RequestQueueManager runs HTTP handler jobs on a fixed worker pool.
type RequestQueueManager struct {
	JobQueue   chan Job
	MaxWorkers int
	wg         sync.WaitGroup
	mu         sync.RWMutex
	closed     bool
}

func NewRequestQueueManager(queueSize int, maxWorkers int) *RequestQueueManager {
	if maxWorkers <= 0 {
		maxWorkers = 1
	}
	if queueSize < 0 {
		queueSize = 0
	}
	manager := &RequestQueueManager{
		JobQueue:   make(chan Job, queueSize),
		MaxWorkers: maxWorkers,
	}
	manager.startWorkers()
	return manager
}

func (rqm *RequestQueueManager) startWorkers() {
	for i := 0; i < rqm.MaxWorkers; i++ {
		rqm.wg.Add(1)
		go func(workerID int) {
			defer rqm.wg.Done()
			for job := range rqm.JobQueue {
				err := runJob(job.Fn)
				if job.Errc != nil {
					job.Errc <- err
				}
			}
			log.Printf("[QUEUE]: worker %d stopped", workerID)
		}(i)
	}
}

// runJob keeps a panicking handler from taking its worker down with it.
func runJob(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[QUEUE]: recovered from panic in job: %v", r)
			err = errors.New("queue: job panicked")
		}
	}()
	return fn()
}

// EnqueueJob blocks while the queue is full. It fails once Shutdown has begun.
func (rqm *RequestQueueManager) EnqueueJob(job Job) error {
	rqm.mu.RLock()
	defer rqm.mu.RUnlock()
	if rqm.closed {
		return ErrQueueClosed
	}
	rqm.JobQueue <- job
	return nil
}

// Shutdown stops accepting jobs and waits for queued ones to finish.
func (rqm *RequestQueueManager) Shutdown() {
	rqm.mu.Lock()
	if rqm.closed {
		rqm.mu.Unlock()
		return
	}
	rqm.closed = true
	close(rqm.JobQueue)
	rqm.mu.Unlock()
	rqm.wg.Wait()
}
