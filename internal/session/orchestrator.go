// Package session runs the tutoring session: a single reducer goroutine
// owns the session state and applies gestures, navigation and the
// completions of speech, recognition and generation work to it.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"dario.cat/mergo"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abhisek/echotutor/internal/content"
	"github.com/abhisek/echotutor/internal/generation"
	"github.com/abhisek/echotutor/internal/lang"
	"github.com/abhisek/echotutor/internal/speech"
)

type envelope struct {
	msg   Msg
	reply chan error
}

// Orchestrator is the session state machine. State is only replaced on
// the goroutine running Run; everything else reads published snapshots.
type Orchestrator struct {
	deps Deps
	cfg  Config
	log  *zap.Logger
	id   string

	inbox   chan envelope
	quit    chan struct{}
	done    chan struct{}
	snap    atomic.Pointer[Snapshot]
	changes chan struct{}
	journal *journal
	tasks   sync.WaitGroup

	// Owned by the reducer goroutine.
	state     State
	version   uint64
	lib       content.Library
	op        uint64
	nextToken uint64
	task      *generation.Task
	abort     context.CancelFunc
}

// New creates an orchestrator in the Loading state. Call Run to start it.
func New(deps Deps, cfg Config, log *zap.Logger) (*Orchestrator, error) {
	switch {
	case deps.Content == nil:
		return nil, errors.New("session: content store is required")
	case deps.Output == nil:
		return nil, errors.New("session: speech output is required")
	case deps.Listener == nil:
		return nil, errors.New("session: listener is required")
	case deps.Generator == nil:
		return nil, errors.New("session: generator is required")
	case deps.Translator == nil:
		return nil, errors.New("session: translator is required")
	}
	if log == nil {
		log = zap.NewNop()
	}
	// Unset fields take their defaults.
	if err := mergo.Merge(&cfg, DefaultConfig()); err != nil {
		return nil, fmt.Errorf("session: config: %w", err)
	}

	id := uuid.NewString()
	log = log.Named("session").With(zap.String("session_id", id))
	o := &Orchestrator{
		deps:    deps,
		cfg:     cfg,
		log:     log,
		id:      id,
		inbox:   make(chan envelope, cfg.Mailbox),
		quit:    make(chan struct{}),
		done:    make(chan struct{}),
		changes: make(chan struct{}, 1),
		state:   Loading{},
	}
	o.journal = newJournal(deps.Journal, id, log)
	o.snap.Store(&Snapshot{State: o.state})
	return o, nil
}

// ID returns the session identifier used in the journal.
func (o *Orchestrator) ID() string { return o.id }

// Snapshot returns the latest published state.
func (o *Orchestrator) Snapshot() Snapshot { return *o.snap.Load() }

// Changes receives a value after one or more new snapshots have been
// published. Notifications are coalesced; read Snapshot for the state.
func (o *Orchestrator) Changes() <-chan struct{} { return o.changes }

// Done is closed when Run has returned.
func (o *Orchestrator) Done() <-chan struct{} { return o.done }

// Run scans the content store and applies messages until ctx ends. Work
// still in flight is cancelled and speech output cleared before it
// returns.
func (o *Orchestrator) Run(ctx context.Context) error {
	defer close(o.done)
	defer o.shutdown()

	go o.scan(ctx)

	for {
		select {
		case <-ctx.Done():
			return nil
		case env := <-o.inbox:
			err := o.update(env.msg)
			if env.reply != nil {
				env.reply <- err
			} else if err != nil {
				o.log.Debug("message rejected", zap.String("msg", fmt.Sprintf("%T", env.msg)), zap.Error(err))
			}
		}
	}
}

// Dispatch applies msg and returns the reducer's verdict: nil when it was
// accepted, ErrBusy, ErrNotReady or ErrUnsupported when it was rejected
// without a state change.
func (o *Orchestrator) Dispatch(ctx context.Context, msg Msg) error {
	reply := make(chan error, 1)
	select {
	case o.inbox <- envelope{msg: msg, reply: reply}:
	case <-ctx.Done():
		return ctx.Err()
	case <-o.done:
		return ErrClosed
	}
	select {
	case err := <-reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-o.done:
		select {
		case err := <-reply:
			return err
		default:
			return ErrClosed
		}
	}
}

// Post queues msg without waiting for it to be applied. Completion
// callbacks use it; it is safe from any goroutine.
func (o *Orchestrator) Post(msg Msg) {
	select {
	case o.inbox <- envelope{msg: msg}:
	case <-o.quit:
	}
}

func (o *Orchestrator) scan(ctx context.Context) {
	lib, err := content.Scan(ctx, o.deps.Content, o.log)
	o.Post(scanDoneMsg{lib: lib, err: err})
}

// shutdownGrace bounds how long Run waits for cancelled generation tasks
// to return.
const shutdownGrace = 2 * time.Second

func (o *Orchestrator) shutdown() {
	close(o.quit)
	o.cancelOp()
	o.deps.Output.Clear()

	finished := make(chan struct{})
	go func() {
		o.tasks.Wait()
		close(finished)
	}()
	select {
	case <-finished:
	case <-time.After(shutdownGrace):
		o.log.Warn("generation tasks still running at shutdown")
	}
	o.journal.close()
}

func (o *Orchestrator) update(msg Msg) error {
	switch msg := msg.(type) {
	case GestureMsg:
		return o.handleGesture(msg.Gesture)
	case NavigateMsg:
		return o.handleNavigate(msg.Target)
	case AskMsg:
		return o.handleAsk(msg.Question)

	case scanDoneMsg:
		o.handleScanDone(msg)
	case listeningMsg:
		if o.current(msg.token) {
			o.set(withNotice(o.state, "Listening"), "listening")
		}
	case recognizedMsg:
		o.handleRecognized(msg)
	case recognitionFailedMsg:
		o.handleRecognitionFailed(msg)
	case partialMsg:
		o.handlePartial(msg)
	case generationDoneMsg:
		o.handleGenerationDone(msg)
	case translatedMsg:
		o.handleTranslated(msg)
	case captureDoneMsg:
		o.handleCaptureDone(msg)
	default:
		return fmt.Errorf("session: unknown message %T", msg)
	}
	return nil
}

// set publishes next as the new state. States that break the index or
// mode invariants are refused.
func (o *Orchestrator) set(next State, trigger string) {
	if err := validate(next); err != nil {
		o.log.Error("refusing invalid state", zap.String("trigger", trigger), zap.Error(err))
		return
	}
	prev := o.state
	o.state = next
	o.version++
	o.snap.Store(&Snapshot{Version: o.version, State: next})
	select {
	case o.changes <- struct{}{}:
	default:
	}
	o.journal.record(prev, next, trigger)
}

func validate(s State) error {
	var (
		index, size int
		mode        Mode
	)
	switch s := s.(type) {
	case Homework:
		index, size, mode = s.Index, s.Pack.Len(), s.Mode
	case Feedback:
		index, size, mode = s.Index, s.Pack.Len(), s.Mode
	case Spatial:
		if !Allowed(ScreenSpatial, s.Mode) {
			return fmt.Errorf("mode %s not allowed on %s", s.Mode, ScreenSpatial)
		}
		return nil
	default:
		return nil
	}
	if index < 0 || index >= size {
		return fmt.Errorf("%s index %d out of range [0,%d)", s.Screen(), index, size)
	}
	if !Allowed(s.Screen(), mode) {
		return fmt.Errorf("mode %s not allowed on %s", mode, s.Screen())
	}
	return nil
}

// begin issues the token of a new asynchronous operation.
func (o *Orchestrator) begin() uint64 {
	o.nextToken++
	o.op = o.nextToken
	return o.op
}

// current reports whether token belongs to the active operation.
func (o *Orchestrator) current(token uint64) bool {
	return token != 0 && token == o.op
}

// finishOp retires the active operation after its completion arrived.
func (o *Orchestrator) finishOp() {
	if o.abort != nil {
		o.abort()
		o.abort = nil
	}
	o.task = nil
	o.op = 0
}

// cancelOp stops the active operation. Its completion, if it still
// arrives, carries a stale token and is ignored.
func (o *Orchestrator) cancelOp() {
	if o.task != nil {
		o.task.Cancel()
		o.task = nil
	}
	if o.abort != nil {
		o.abort()
		o.abort = nil
	}
	o.deps.Listener.Cancel()
	o.op = 0
}

// cancelToIdle abandons whatever the screen is doing, silences speech
// output and returns to the screen's idle mode.
func (o *Orchestrator) cancelToIdle(trigger string) {
	o.cancelOp()
	o.deps.Output.Clear()

	next := o.state
	if sp, ok := next.(Spatial); ok {
		next = sp.withoutPending()
	}
	o.set(withMode(next, IdleMode(next.Screen())), trigger)
}

func (o *Orchestrator) ready() bool {
	return o.deps.Readiness == nil || o.deps.Readiness.Ready()
}

func (o *Orchestrator) speak(text string, l lang.Language) {
	if text == "" {
		return
	}
	o.deps.Output.Enqueue(speech.Utterance{Text: text, Lang: l}, nil)
}

// say speaks a fixed phrase in the current language.
func (o *Orchestrator) say(p phrase) {
	l := LangOf(o.state)
	o.speak(p.in(l), l)
}

// listen starts a capture whose callbacks report under token.
func (o *Orchestrator) listen(l lang.Language, token uint64) {
	o.deps.Listener.Start(l, speech.Callbacks{
		OnStart:  func() { o.Post(listeningMsg{token: token}) },
		OnResult: func(text string) { o.Post(recognizedMsg{token: token, text: text}) },
		OnError:  func(err error) { o.Post(recognitionFailedMsg{token: token, err: err}) },
	})
}

// generate publishes next in GemmaResponding and starts req under a new
// token.
func (o *Orchestrator) generate(next State, req generation.Request, trigger string) {
	token := o.begin()
	req.ID = token
	o.set(withMode(next, GemmaResponding), trigger)
	task := o.deps.Generator.Start(req,
		func(text string) { o.Post(partialMsg{token: token, text: text}) },
		func(res generation.Result) { o.Post(generationDoneMsg{token: token, result: res}) },
	)
	o.task = task

	o.tasks.Add(1)
	go func() {
		defer o.tasks.Done()
		<-task.Done()
	}()
}
