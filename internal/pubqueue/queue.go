package pubqueue

import (
	"sync"

	"github.com/petermattis/goid"
)

// Queue runs submitted tasks one at a time, in submission order, on a single
// worker goroutine. Submission never blocks the caller.
type Queue struct {
	mu     sync.Mutex
	cond   *sync.Cond
	tasks  []func()
	closed bool

	workerID int64
	done     chan struct{}
}

func New() *Queue {
	q := &Queue{done: make(chan struct{})}
	q.cond = sync.NewCond(&q.mu)

	ready := make(chan struct{})
	go q.run(ready)
	<-ready

	return q
}

func (q *Queue) run(ready chan struct{}) {
	q.mu.Lock()
	q.workerID = goid.Get()
	q.mu.Unlock()
	close(ready)

	defer close(q.done)

	for {
		q.mu.Lock()
		for len(q.tasks) == 0 && !q.closed {
			q.cond.Wait()
		}
		if len(q.tasks) == 0 {
			q.mu.Unlock()
			return
		}
		task := q.tasks[0]
		q.tasks = q.tasks[1:]
		q.mu.Unlock()

		task()
	}
}

// Submit enqueues task to run after every previously submitted task.
// Panics if the queue has been closed.
func (q *Queue) Submit(task func()) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		panic("pubqueue: submit on closed queue")
	}

	q.tasks = append(q.tasks, task)
	q.cond.Signal()
}

// OnWorker reports whether the caller is running on the queue's worker
// goroutine.
func (q *Queue) OnWorker() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.workerID == goid.Get()
}

// Drain blocks until every task submitted before the call has run. Called
// from the worker goroutine it returns immediately, since all earlier tasks
// have already completed and waiting would deadlock.
func (q *Queue) Drain() {
	if q.OnWorker() {
		return
	}

	ch := make(chan struct{})
	q.Submit(func() { close(ch) })
	<-ch
}

// Close runs the remaining tasks and stops the worker. Must not be called
// from a task.
func (q *Queue) Close() {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		q.cond.Signal()
	}
	q.mu.Unlock()

	<-q.done
}
