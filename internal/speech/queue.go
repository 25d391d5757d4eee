package speech

import (
	"context"
	"slices"
	"sync"

	"go.uber.org/zap"

	"github.com/abhisek/echotutor/internal/lang"
)

// Utterance is one unit of spoken output. When Audio is set the recording
// is played instead of synthesizing Text; Text is kept for display.
type Utterance struct {
	Text  string
	Lang  lang.Language
	Audio string
}

// Synthesizer owns the audio output device. Speak blocks until the
// utterance has finished playing or ctx is cancelled.
type Synthesizer interface {
	Speak(ctx context.Context, u Utterance) error
}

// Queue serializes utterances onto a Synthesizer. One worker goroutine
// plays them strictly in enqueue order, one at a time.
type Queue struct {
	synth Synthesizer
	log   *zap.Logger

	ctx    context.Context
	stop   context.CancelFunc
	wake   chan struct{}
	exited chan struct{}

	mu         sync.Mutex
	nextID     uint64
	pending    []*entry
	current    *entry
	idle       chan struct{}
	idleClosed bool
}

type entry struct {
	id     uint64
	u      Utterance
	onDone func(err error)
	cancel context.CancelFunc
}

// NewQueue starts a queue playing through synth. Call Close to stop it.
func NewQueue(synth Synthesizer, log *zap.Logger) *Queue {
	if log == nil {
		log = zap.NewNop()
	}
	ctx, stop := context.WithCancel(context.Background())
	q := &Queue{
		synth:      synth,
		log:        log.Named("speech"),
		ctx:        ctx,
		stop:       stop,
		wake:       make(chan struct{}, 1),
		exited:     make(chan struct{}),
		idle:       make(chan struct{}),
		idleClosed: true,
	}
	close(q.idle)
	go q.run()
	return q
}

// Enqueue appends u and returns its id. onDone, if set, is called once
// after u has played; it is not called for utterances that are dropped or
// stopped by Clear or Drop.
func (q *Queue) Enqueue(u Utterance, onDone func(err error)) uint64 {
	q.mu.Lock()
	q.nextID++
	e := &entry{id: q.nextID, u: u, onDone: onDone}
	q.pending = append(q.pending, e)
	q.markBusy()
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
	return e.id
}

// IsDraining reports whether any utterance is queued or playing.
func (q *Queue) IsDraining() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.current != nil || len(q.pending) > 0
}

// Idle returns a channel that is closed once nothing is queued or playing.
// The channel returned while busy stays open until the queue next drains.
func (q *Queue) Idle() <-chan struct{} {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.idle
}

// WaitIdle blocks until the queue has drained or ctx ends.
func (q *Queue) WaitIdle(ctx context.Context) error {
	select {
	case <-q.Idle():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Clear drops every queued utterance and stops the one playing.
func (q *Queue) Clear() {
	q.mu.Lock()
	dropped := len(q.pending)
	q.pending = nil
	if q.current != nil {
		q.current.cancel()
	}
	q.settle()
	q.mu.Unlock()

	if dropped > 0 {
		q.log.Debug("queue cleared", zap.Int("dropped", dropped))
	}
}

// Drop removes the given utterances, stopping one if it is playing.
func (q *Queue) Drop(ids ...uint64) {
	if len(ids) == 0 {
		return
	}
	q.mu.Lock()
	defer q.mu.Unlock()

	q.pending = slices.DeleteFunc(q.pending, func(e *entry) bool {
		return slices.Contains(ids, e.id)
	})
	if q.current != nil && slices.Contains(ids, q.current.id) {
		q.current.cancel()
	}
	q.settle()
}

// Close stops playback and the worker. Queued utterances are discarded.
func (q *Queue) Close() {
	q.stop()
	<-q.exited
}

func (q *Queue) run() {
	defer close(q.exited)
	for {
		e, ctx := q.next()
		if e == nil {
			return
		}
		err := q.synth.Speak(ctx, e.u)
		q.finish(ctx, e, err)
	}
}

func (q *Queue) next() (*entry, context.Context) {
	for {
		q.mu.Lock()
		if q.ctx.Err() != nil {
			q.pending = nil
			q.settle()
			q.mu.Unlock()
			return nil, nil
		}
		if len(q.pending) > 0 {
			e := q.pending[0]
			q.pending = q.pending[1:]
			ctx, cancel := context.WithCancel(q.ctx)
			e.cancel = cancel
			q.current = e
			q.mu.Unlock()
			return e, ctx
		}
		q.mu.Unlock()

		select {
		case <-q.wake:
		case <-q.ctx.Done():
		}
	}
}

// finish reports the outcome while the entry still counts as playing, so
// the idle signal fires only after every completion callback has run.
func (q *Queue) finish(ctx context.Context, e *entry, err error) {
	stopped := ctx.Err() != nil
	e.cancel()

	switch {
	case stopped:
	case err != nil:
		q.log.Warn("utterance failed", zap.Uint64("id", e.id), zap.Error(err))
		fallthrough
	default:
		if e.onDone != nil {
			e.onDone(err)
		}
	}

	q.mu.Lock()
	q.current = nil
	q.settle()
	q.mu.Unlock()
}

// markBusy must be called with mu held.
func (q *Queue) markBusy() {
	if q.idleClosed {
		q.idle = make(chan struct{})
		q.idleClosed = false
	}
}

// settle must be called with mu held.
func (q *Queue) settle() {
	if q.current == nil && len(q.pending) == 0 && !q.idleClosed {
		close(q.idle)
		q.idleClosed = true
	}
}
