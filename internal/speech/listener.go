package speech

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/echotutor/internal/lang"
)

var (
	// ErrUnavailable is reported when the recognizer cannot be used
	// (no device, no permission, model not loaded).
	ErrUnavailable = errors.New("speech recognizer unavailable")

	// ErrNoSpeech is reported when a capture ends without any text.
	ErrNoSpeech = errors.New("no speech recognized")
)

// Recognizer owns the audio input device and performs one capture.
type Recognizer interface {
	// Available reports why recognition cannot start, or nil.
	Available() error

	// Recognize captures one utterance and returns its text. It blocks
	// until a result, an error, or ctx cancellation.
	Recognize(ctx context.Context, language lang.Language) (string, error)
}

// Callbacks receive the outcome of one Start. Exactly one of OnResult and
// OnError is called unless the capture is cancelled first. OnStart is
// called when capture actually begins. Callbacks run on the listener's
// goroutine.
type Callbacks struct {
	OnStart  func()
	OnResult func(text string)
	OnError  func(err error)
}

// Listener runs single-shot captures on a Recognizer. It never starts
// capturing while the output queue is still playing.
type Listener struct {
	rec     Recognizer
	output  *Queue
	timeout time.Duration
	log     *zap.Logger

	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
}

// NewListener creates a listener. A positive timeout bounds each capture.
// The deadline starts once speech output has drained, so a long narration
// does not eat into the time the student has to answer.
func NewListener(rec Recognizer, output *Queue, timeout time.Duration, log *zap.Logger) *Listener {
	if log == nil {
		log = zap.NewNop()
	}
	return &Listener{rec: rec, output: output, timeout: timeout, log: log.Named("listener")}
}

// Start begins a capture, superseding any capture in progress.
func (l *Listener) Start(language lang.Language, cb Callbacks) {
	ctx, cancel := context.WithCancel(context.Background())

	l.mu.Lock()
	if l.cancel != nil {
		l.cancel()
	}
	l.gen++
	gen := l.gen
	l.cancel = cancel
	l.mu.Unlock()

	go l.capture(ctx, gen, language, cb)
}

// Cancel abandons the capture in progress, if any. No callback fires for
// a cancelled capture. Safe to call at any time.
func (l *Listener) Cancel() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cancel == nil {
		return
	}
	l.cancel()
	l.cancel = nil
	l.gen++
}

// Active reports whether a capture is in progress.
func (l *Listener) Active() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.cancel != nil
}

func (l *Listener) capture(ctx context.Context, gen uint64, language lang.Language, cb Callbacks) {
	if err := l.rec.Available(); err != nil {
		l.deliver(gen, cb, "", fmt.Errorf("%w: %v", ErrUnavailable, err))
		return
	}

	if l.output != nil {
		if err := l.output.WaitIdle(ctx); err != nil {
			l.deliver(gen, cb, "", fmt.Errorf("waiting for speech output: %w", err))
			return
		}
	}

	if !l.current(gen) {
		return
	}
	if cb.OnStart != nil {
		cb.OnStart()
	}

	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}
	text, err := l.rec.Recognize(ctx, language)
	if err == nil && strings.TrimSpace(text) == "" {
		err = ErrNoSpeech
	}
	if err != nil {
		err = fmt.Errorf("recognize %s: %w", language, err)
	}
	l.deliver(gen, cb, strings.TrimSpace(text), err)
}

func (l *Listener) current(gen uint64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.gen == gen
}

// deliver fires the callback for gen unless that capture was cancelled or
// superseded. The capture is retired before the callback runs.
func (l *Listener) deliver(gen uint64, cb Callbacks, text string, err error) {
	l.mu.Lock()
	if l.gen != gen {
		l.mu.Unlock()
		return
	}
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
	l.mu.Unlock()

	if err != nil {
		l.log.Debug("capture failed", zap.Error(err))
		if cb.OnError != nil {
			cb.OnError(err)
		}
		return
	}
	l.log.Debug("capture result", zap.Int("chars", len(text)))
	if cb.OnResult != nil {
		cb.OnResult(text)
	}
}
