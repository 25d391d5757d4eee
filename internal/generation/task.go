package generation

import (
	"context"
	"sync"

	"github.com/abhisek/echotutor/internal/speech"
)

// Task is the handle of one generation request. Cancelling it stops the
// model call, prevents further sentences from being queued and removes
// the ones it queued that have not played yet.
type Task struct {
	id     uint64
	ctx    context.Context
	cancel context.CancelFunc
	queue  *speech.Queue
	done   chan struct{}

	once sync.Once

	mu        sync.Mutex
	cancelled bool
	segments  []uint64
}

func newTask(id uint64, queue *speech.Queue) *Task {
	ctx, cancel := context.WithCancel(context.Background())
	return &Task{id: id, ctx: ctx, cancel: cancel, queue: queue, done: make(chan struct{})}
}

// ID returns the token the task was started with.
func (t *Task) ID() uint64 { return t.id }

// Done is closed when the task's goroutine has returned.
func (t *Task) Done() <-chan struct{} { return t.done }

// Cancel stops the task. It is safe to call any number of times, including
// after the task has finished.
func (t *Task) Cancel() {
	t.once.Do(func() {
		t.mu.Lock()
		t.cancelled = true
		ids := t.segments
		t.segments = nil
		t.mu.Unlock()

		t.cancel()
		t.queue.Drop(ids...)
	})
}

// Cancelled reports whether Cancel has been called.
func (t *Task) Cancelled() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cancelled
}

// enqueue queues one sentence unless the task was cancelled.
func (t *Task) enqueue(u speech.Utterance) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cancelled {
		return false
	}
	t.segments = append(t.segments, t.queue.Enqueue(u, nil))
	return true
}
