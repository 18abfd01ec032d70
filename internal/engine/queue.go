package engine

import (
	"context"
	"sync"
)

// Task is one unit of work run to completion on the engine loop.
type Task func(ctx context.Context)

// taskQueue is an unbounded FIFO. Enqueue never blocks, so realtime callbacks and REST
// completions cannot stall behind a slow loop step.
type taskQueue struct {
	mu     sync.Mutex
	tasks  []Task
	closed bool
	signal chan struct{}
}

func newTaskQueue(capacity int) *taskQueue {
	if capacity <= 0 {
		capacity = 64
	}
	return &taskQueue{
		tasks:  make([]Task, 0, capacity),
		signal: make(chan struct{}, 1),
	}
}

// Enqueue returns false once the queue is closed.
func (q *taskQueue) Enqueue(t Task) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return false
	}
	q.tasks = append(q.tasks, t)

	select {
	case q.signal <- struct{}{}:
	default:
	}
	return true
}

func (q *taskQueue) TryDequeue() (Task, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.tasks) == 0 {
		return nil, false
	}
	t := q.tasks[0]
	q.tasks[0] = nil
	if len(q.tasks) == 1 {
		q.tasks = q.tasks[:0]
	} else {
		q.tasks = q.tasks[1:]
	}
	return t, true
}

// Wait fires when tasks may be available and is closed together with the queue.
func (q *taskQueue) Wait() <-chan struct{} {
	return q.signal
}

func (q *taskQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	return len(q.tasks)
}

func (q *taskQueue) Closed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	return q.closed
}

func (q *taskQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}
	q.closed = true
	close(q.signal)
}
