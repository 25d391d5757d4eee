package console

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/abhisek/echotutor/internal/lang"
	"github.com/abhisek/echotutor/internal/speech"
)

// ErrClosed is reported once the recognizer has been closed.
var ErrClosed = errors.New("console input closed")

// Recognizer takes the student's speech as typed text.
type Recognizer struct {
	input     chan string
	closed    chan struct{}
	listening atomic.Bool
	isClosed  atomic.Bool
}

var _ speech.Recognizer = (*Recognizer)(nil)

func NewRecognizer() *Recognizer {
	return &Recognizer{input: make(chan string), closed: make(chan struct{})}
}

// Available fails once the recognizer is closed.
func (r *Recognizer) Available() error {
	if r.isClosed.Load() {
		return ErrClosed
	}
	return nil
}

// Recognize waits for Submit.
func (r *Recognizer) Recognize(ctx context.Context, _ lang.Language) (string, error) {
	r.listening.Store(true)
	defer r.listening.Store(false)

	select {
	case text := <-r.input:
		return text, nil
	case <-r.closed:
		return "", ErrClosed
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Listening reports whether a capture is waiting for input.
func (r *Recognizer) Listening() bool { return r.listening.Load() }

// Submit hands text to the waiting capture. It reports false when no
// capture is waiting.
func (r *Recognizer) Submit(text string) bool {
	select {
	case r.input <- text:
		return true
	default:
		return false
	}
}

// Close fails the waiting capture and every later one.
func (r *Recognizer) Close() {
	if r.isClosed.CompareAndSwap(false, true) {
		close(r.closed)
	}
}
