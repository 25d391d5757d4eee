package session

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/abhisek/echotutor/internal/content"
	"github.com/abhisek/echotutor/internal/generation"
	"github.com/abhisek/echotutor/internal/lang"
	"github.com/abhisek/echotutor/internal/llm"
	"github.com/abhisek/echotutor/internal/speech"
	"github.com/abhisek/echotutor/internal/store"
)

const waitFor = 2 * time.Second

// testSynth records every utterance as it starts. With hold set each
// utterance plays until playback is stopped.
type testSynth struct {
	hold bool

	mu      sync.Mutex
	started []string
}

func (s *testSynth) Speak(ctx context.Context, u speech.Utterance) error {
	label := u.Text
	if u.Audio != "" {
		label = "audio:" + u.Audio
	}
	s.mu.Lock()
	s.started = append(s.started, label)
	s.mu.Unlock()

	if s.hold {
		<-ctx.Done()
		return ctx.Err()
	}
	return nil
}

func (s *testSynth) Started() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.started)
}

func (s *testSynth) Count(text string) int {
	n := 0
	for _, got := range s.Started() {
		if got == text {
			n++
		}
	}
	return n
}

type listenCall struct {
	lang lang.Language
	cb   speech.Callbacks
}

// fakeListener hands each capture to the test, which fires its callbacks.
type fakeListener struct {
	calls   chan listenCall
	cancels atomic.Int32
}

func newFakeListener() *fakeListener {
	return &fakeListener{calls: make(chan listenCall, 16)}
}

func (f *fakeListener) Start(l lang.Language, cb speech.Callbacks) {
	f.calls <- listenCall{lang: l, cb: cb}
}

func (f *fakeListener) Cancel() { f.cancels.Add(1) }

func (f *fakeListener) next(t *testing.T) listenCall {
	t.Helper()
	select {
	case c := <-f.calls:
		return c
	case <-time.After(waitFor):
		t.Fatal("listener was never started")
		return listenCall{}
	}
}

type countingTranslator struct {
	err   error
	calls atomic.Int32
}

func (c *countingTranslator) Translate(_ context.Context, text string, _ lang.Language) (string, error) {
	c.calls.Add(1)
	if c.err != nil {
		return "", c.err
	}
	return "ترجمہ: " + text, nil
}

// fakeStore serves fixed packs. With gate set, loading the lesson pack
// waits for it to close; contextGate does the same for diagram context.
type fakeStore struct {
	lessons     *content.LessonPack
	feedback    *content.FeedbackPack
	gate        chan struct{}
	contextGate chan struct{}
}

func (s *fakeStore) LoadLessonPack(ctx context.Context) (*content.LessonPack, error) {
	if s.gate != nil {
		select {
		case <-s.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if s.lessons == nil {
		return nil, content.ErrNotFound
	}
	return s.lessons, nil
}

func (s *fakeStore) LoadFeedbackPack(context.Context) (*content.FeedbackPack, error) {
	if s.feedback == nil {
		return nil, content.ErrNotFound
	}
	return s.feedback, nil
}

func (s *fakeStore) ReadDiagramContext(ctx context.Context, item *content.LessonItem) (string, error) {
	if s.contextGate != nil {
		select {
		case <-s.contextGate:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return fmt.Sprintf(`{"item": %d}`, item.Number), nil
}

type fakeCamera struct {
	err   error
	block bool
	shots atomic.Int32
}

func (c *fakeCamera) Capture(ctx context.Context) (llm.Image, error) {
	n := c.shots.Add(1)
	if c.block {
		<-ctx.Done()
		return llm.Image{}, ctx.Err()
	}
	if c.err != nil {
		return llm.Image{}, c.err
	}
	return llm.Image{MIMEType: "image/jpeg", Data: []byte{byte(n)}}, nil
}

type fakeRecorder struct {
	mu     sync.Mutex
	voice  []int
	photos []int
}

func (r *fakeRecorder) StartVoice(item *content.LessonItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.voice = append(r.voice, item.Number)
	return nil
}

func (r *fakeRecorder) StopVoice() (Clip, error) {
	return Clip{Path: "answer.wav", Duration: time.Second}, nil
}

func (r *fakeRecorder) SavePhoto(item *content.LessonItem, _ llm.Image) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.photos = append(r.photos, item.Number)
	return fmt.Sprintf("answers/%d.jpg", item.Number), nil
}

type readiness struct{ notReady atomic.Bool }

func (r *readiness) Ready() bool { return !r.notReady.Load() }

func lessonPack(n int) *content.LessonPack {
	items := make([]*content.LessonItem, n)
	for i := range items {
		items[i] = &content.LessonItem{
			Number:     i + 1,
			Question:   fmt.Sprintf("Question %d.", i+1),
			Narration:  fmt.Sprintf("narration-%d.mp3", i+1),
			ScriptUrdu: fmt.Sprintf("سوال %d۔", i+1),
		}
	}
	return content.NewPack(items...)
}

func feedbackPack(n int) *content.FeedbackPack {
	items := make([]*content.FeedbackItem, n)
	for i := range items {
		items[i] = &content.FeedbackItem{Number: i + 1, Text: fmt.Sprintf("Feedback %d.", i+1)}
	}
	return content.NewPack(items...)
}

type harnessOpts struct {
	store      *fakeStore
	synth      *testSynth
	responses  []llm.MockResponse
	translator *countingTranslator
	camera     *fakeCamera
	journal    store.EventRepo
	gen        generation.Config
	skipHome   bool
}

type harness struct {
	orch       *Orchestrator
	queue      *speech.Queue
	synth      *testSynth
	listener   *fakeListener
	provider   *llm.MockProvider
	runner     *generation.Runner
	translator *countingTranslator
	camera     *fakeCamera
	recorder   *fakeRecorder
	ready      *readiness
	cancel     context.CancelFunc
}

func newHarness(t *testing.T, opts harnessOpts) *harness {
	t.Helper()
	log := zaptest.NewLogger(t)

	if opts.store == nil {
		opts.store = &fakeStore{lessons: lessonPack(3), feedback: feedbackPack(2)}
	}
	if opts.synth == nil {
		opts.synth = &testSynth{}
	}
	if opts.translator == nil {
		opts.translator = &countingTranslator{}
	}
	if opts.camera == nil {
		opts.camera = &fakeCamera{}
	}
	if opts.gen.MaxSentences == 0 {
		opts.gen = generation.DefaultConfig()
	}

	h := &harness{
		synth:      opts.synth,
		listener:   newFakeListener(),
		provider:   llm.NewMockProvider(opts.responses...),
		translator: opts.translator,
		camera:     opts.camera,
		recorder:   &fakeRecorder{},
		ready:      &readiness{},
	}
	h.queue = speech.NewQueue(h.synth, log)
	h.runner = generation.NewRunner(h.provider, h.queue, opts.gen, log)

	cfg := DefaultConfig()
	cfg.Generation = opts.gen
	orch, err := New(Deps{
		Content:    opts.store,
		Translator: h.translator,
		Generator:  h.runner,
		Output:     h.queue,
		Listener:   h.listener,
		Camera:     h.camera,
		Recorder:   h.recorder,
		Readiness:  h.ready,
		Journal:    opts.journal,
	}, cfg, log)
	require.NoError(t, err)
	h.orch = orch

	ctx, cancel := context.WithCancel(context.Background())
	h.cancel = cancel
	go func() { _ = orch.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-orch.Done()
		h.queue.Close()
	})

	if !opts.skipHome {
		h.waitState(t, func(s State) bool { return s.Screen() == ScreenHome })
	}
	return h
}

func (h *harness) dispatch(t *testing.T, msg Msg) error {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), waitFor)
	defer cancel()
	err := h.orch.Dispatch(ctx, msg)
	require.False(t, errors.Is(err, context.DeadlineExceeded), "dispatch timed out")
	return err
}

func (h *harness) state() State { return h.orch.Snapshot().State }

func (h *harness) waitState(t *testing.T, cond func(State) bool) State {
	t.Helper()
	require.Eventually(t, func() bool { return cond(h.state()) }, waitFor, 5*time.Millisecond,
		"state never matched, last: %#v", h.state())
	return h.state()
}

func (h *harness) waitMode(t *testing.T, screen Screen, mode Mode) State {
	t.Helper()
	return h.waitState(t, func(s State) bool { return s.Screen() == screen && ModeOf(s) == mode })
}

func (h *harness) waitSpoken(t *testing.T, text string) {
	t.Helper()
	require.Eventually(t, func() bool { return h.synth.Count(text) > 0 }, waitFor, 5*time.Millisecond,
		"%q never spoken, got %q", text, h.synth.Started())
}
