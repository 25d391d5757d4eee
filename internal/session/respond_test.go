package session

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/echotutor/internal/generation"
	"github.com/abhisek/echotutor/internal/lang"
	"github.com/abhisek/echotutor/internal/llm"
)

func TestAsk_SpeaksCappedAnswer(t *testing.T) {
	h := newHarness(t, harnessOpts{responses: []llm.MockResponse{llm.MockText("A. B. C. D.")}})
	require.NoError(t, h.dispatch(t, GestureMsg{Gesture: Tap}))

	require.NoError(t, h.dispatch(t, AskMsg{Question: "What is the angle?"}))
	assert.Equal(t, GemmaResponding, ModeOf(h.state()))

	hw := h.waitMode(t, ScreenHomework, Viewing).(Homework)
	assert.Equal(t, "A. B. C. D.", hw.Response)
	assert.Equal(t, 1, h.synth.Count("C."))
	assert.Zero(t, h.synth.Count("D."))
	assert.False(t, h.queue.IsDraining())

	req := h.provider.Call(0)
	assert.Contains(t, req.System, "Question 1.")
	assert.Contains(t, req.System, `{"item": 1}`)
	assert.Equal(t, "What is the angle?", req.Messages[len(req.Messages)-1].Content)
}

func TestAsk_DiagramContextReadDoesNotBlockReducer(t *testing.T) {
	gate := make(chan struct{})
	st := &fakeStore{lessons: lessonPack(3), feedback: feedbackPack(2), contextGate: gate}
	h := newHarness(t, harnessOpts{store: st, responses: []llm.MockResponse{llm.MockText("Count them.")}})
	require.NoError(t, h.dispatch(t, GestureMsg{Gesture: Tap}))

	start := time.Now()
	require.NoError(t, h.dispatch(t, AskMsg{Question: "How many sides?"}))
	assert.Less(t, time.Since(start), DefaultConfig().ContextTimeout/2)
	assert.Equal(t, GemmaResponding, ModeOf(h.state()))
	assert.Zero(t, h.provider.CallCount())

	close(gate)
	h.waitMode(t, ScreenHomework, Viewing)
	assert.Contains(t, h.provider.Call(0).System, `{"item": 1}`)
}

func TestAsk_DoubleFireStartsOneTask(t *testing.T) {
	gate := make(chan struct{})
	h := newHarness(t, harnessOpts{responses: []llm.MockResponse{{Content: []byte("Answer."), Gate: gate}}})
	require.NoError(t, h.dispatch(t, GestureMsg{Gesture: Tap}))

	require.NoError(t, h.dispatch(t, AskMsg{Question: "why"}))
	assert.ErrorIs(t, h.dispatch(t, AskMsg{Question: "why"}), ErrBusy)
	assert.ErrorIs(t, h.dispatch(t, GestureMsg{Gesture: DoubleTap}), ErrBusy)
	assert.ErrorIs(t, h.dispatch(t, GestureMsg{Gesture: LongPress}), ErrBusy)
	assert.EqualValues(t, 1, h.runner.Started())

	close(gate)
	hw := h.waitMode(t, ScreenHomework, Viewing).(Homework)
	assert.Equal(t, "Answer.", hw.Response)
	assert.EqualValues(t, 1, h.runner.Started())
}

func TestAsk_CancelReturnsToIdleWithEmptyQueue(t *testing.T) {
	h := newHarness(t, harnessOpts{
		synth:     &testSynth{hold: true},
		responses: []llm.MockResponse{llm.MockText("First. Second. Third.")},
	})
	require.NoError(t, h.dispatch(t, GestureMsg{Gesture: Tap}))
	require.NoError(t, h.dispatch(t, AskMsg{Question: "explain"}))
	h.waitSpoken(t, "First.")
	require.True(t, h.queue.IsDraining())

	require.NoError(t, h.dispatch(t, GestureMsg{Gesture: Tap}))
	hw := h.state().(Homework)
	assert.Equal(t, Viewing, hw.Mode)
	assert.Empty(t, hw.Notice)

	require.Eventually(t, func() bool { return !h.queue.IsDraining() }, waitFor, 5*time.Millisecond)
	version := h.orch.Snapshot().Version
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, version, h.orch.Snapshot().Version, "cancelled task changed state")
	assert.Zero(t, h.synth.Count("Second."))
}

func TestAsk_NotReadyRejectedWithoutStateChange(t *testing.T) {
	h := newHarness(t, harnessOpts{responses: []llm.MockResponse{llm.MockText("unused")}})
	h.ready.notReady.Store(true)
	require.NoError(t, h.dispatch(t, GestureMsg{Gesture: Tap}))
	before := h.orch.Snapshot()

	assert.ErrorIs(t, h.dispatch(t, AskMsg{Question: "why"}), ErrNotReady)
	assert.Equal(t, before, h.orch.Snapshot())
	assert.Zero(t, h.runner.Started())
	h.waitSpoken(t, phraseNotReady.in(lang.English))
}

func TestAsk_GenerationFailure(t *testing.T) {
	h := newHarness(t, harnessOpts{responses: []llm.MockResponse{{Err: &llm.ErrInvalidResponse{Err: errors.New("garbage")}}}})
	require.NoError(t, h.dispatch(t, GestureMsg{Gesture: Tap}))

	require.NoError(t, h.dispatch(t, AskMsg{Question: "why"}))
	hw := h.waitMode(t, ScreenHomework, Viewing).(Homework)
	assert.Equal(t, phraseGenerationFailed.in(lang.English), hw.Notice)
	assert.Empty(t, hw.Response)
	h.waitSpoken(t, phraseGenerationFailed.in(lang.English))
}

func TestAsk_Unsupported(t *testing.T) {
	h := newHarness(t, harnessOpts{})
	assert.ErrorIs(t, h.dispatch(t, AskMsg{Question: "why"}), ErrUnsupported)

	require.NoError(t, h.dispatch(t, GestureMsg{Gesture: Tap}))
	assert.ErrorIs(t, h.dispatch(t, AskMsg{Question: "   "}), ErrUnsupported)
}

func TestCommand_AskInline(t *testing.T) {
	h := newHarness(t, harnessOpts{responses: []llm.MockResponse{llm.MockText("It is a right angle.")}})
	require.NoError(t, h.dispatch(t, GestureMsg{Gesture: Tap}))

	h.command(t, "Ask: what is this angle?")
	hw := h.waitState(t, func(s State) bool { return Idle(s) && s.(Homework).Response != "" }).(Homework)
	assert.Equal(t, "It is a right angle.", hw.Response)

	req := h.provider.Call(0)
	assert.Equal(t, "what is this angle", req.Messages[len(req.Messages)-1].Content)
}

func TestCommand_AskThenQuestion(t *testing.T) {
	h := newHarness(t, harnessOpts{responses: []llm.MockResponse{llm.MockText("Count the sides.")}})
	require.NoError(t, h.dispatch(t, GestureMsg{Gesture: Tap}))

	h.command(t, "question")
	h.waitMode(t, ScreenHomework, AskingQuestion)
	h.waitSpoken(t, phraseAskPrompt.in(lang.English))

	h.listener.next(t).cb.OnResult("how many sides does it have")
	hw := h.waitState(t, func(s State) bool { return Idle(s) && s.(Homework).Response != "" }).(Homework)
	assert.Equal(t, "Count the sides.", hw.Response)
}

func TestCommand_AskPhrasesWaitForQuestion(t *testing.T) {
	for _, phrase := range []string{"ask a question", "سوال پوچھو", "I want to ask something"} {
		t.Run(phrase, func(t *testing.T) {
			h := newHarness(t, harnessOpts{})
			require.NoError(t, h.dispatch(t, GestureMsg{Gesture: Tap}))

			h.command(t, phrase)
			h.waitMode(t, ScreenHomework, AskingQuestion)
			h.listener.next(t)
			assert.Zero(t, h.runner.Started(), "filler words must not be sent as a question")
			assert.Zero(t, h.provider.CallCount())
		})
	}
}

func TestCommand_AskThenNothingHeard(t *testing.T) {
	h := newHarness(t, harnessOpts{})
	require.NoError(t, h.dispatch(t, GestureMsg{Gesture: DoubleTap}))

	h.command(t, "ask")
	h.waitMode(t, ScreenFeedback, AskingQuestion)
	h.listener.next(t).cb.OnError(errors.New("mic glitch"))

	fb := h.waitMode(t, ScreenFeedback, Viewing).(Feedback)
	assert.Equal(t, phraseNotHeard.in(lang.English), fb.Notice)
	assert.Zero(t, h.runner.Started())
}

func TestFeedback_PrimesOnceAndSpeaksOnce(t *testing.T) {
	h := newHarness(t, harnessOpts{responses: []llm.MockResponse{
		llm.MockText("Ready."),
		llm.MockText("You added instead of multiplying."),
		llm.MockText("Multiply three by four."),
	}})
	require.NoError(t, h.dispatch(t, GestureMsg{Gesture: DoubleTap}))
	h.waitSpoken(t, "Feedback 1.")

	require.NoError(t, h.dispatch(t, AskMsg{Question: "what did I do wrong"}))
	h.waitState(t, func(s State) bool { return Idle(s) && s.(Feedback).Response != "" })
	require.NoError(t, h.dispatch(t, AskMsg{Question: "how do I fix it"}))
	fb := h.waitState(t, func(s State) bool {
		return Idle(s) && s.(Feedback).Response == "Multiply three by four."
	}).(Feedback)

	assert.Equal(t, 3, h.provider.CallCount())
	assert.True(t, fb.Item().Primed())
	priming := h.provider.Call(0)
	assert.Contains(t, priming.Messages[len(priming.Messages)-1].Content, "Feedback 1.")
	assert.Contains(t, priming.Messages[len(priming.Messages)-1].Content, "Question 1.")
	assert.Contains(t, h.provider.Call(2).System, "Teacher feedback")

	require.NoError(t, h.dispatch(t, NavigateMsg{Target: ToHome}))
	require.NoError(t, h.dispatch(t, GestureMsg{Gesture: DoubleTap}))
	require.NoError(t, h.dispatch(t, GestureMsg{Gesture: Tap}))
	require.Eventually(t, func() bool { return h.synth.Count("Feedback 1.") == 2 }, waitFor, 5*time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 2, h.synth.Count("Feedback 1."), "entering again must not speak the feedback")
}

func TestAsk_StreamingUpdatesResponse(t *testing.T) {
	cfg := generation.DefaultConfig()
	cfg.Stream = true
	h := newHarness(t, harnessOpts{
		gen:       cfg,
		responses: []llm.MockResponse{{Fragments: []string{"The shape ", "has four ", "sides."}}},
	})
	require.NoError(t, h.dispatch(t, GestureMsg{Gesture: Tap}))

	require.NoError(t, h.dispatch(t, AskMsg{Question: "what shape"}))
	hw := h.waitState(t, func(s State) bool { return Idle(s) && s.(Homework).Response != "" }).(Homework)
	assert.Equal(t, "The shape has four sides.", hw.Response)
	assert.Equal(t, 1, h.provider.StreamCount())
	h.waitSpoken(t, "The shape has four sides.")
}

func TestHomework_VoiceAnswer(t *testing.T) {
	h := newHarness(t, harnessOpts{})
	require.NoError(t, h.dispatch(t, GestureMsg{Gesture: Tap}))

	require.NoError(t, h.dispatch(t, GestureMsg{Gesture: Tap}))
	assert.Equal(t, RecordingVoice, ModeOf(h.state()))
	assert.ErrorIs(t, h.dispatch(t, GestureMsg{Gesture: LongPress}), ErrBusy)

	require.NoError(t, h.dispatch(t, GestureMsg{Gesture: Tap}))
	assert.Equal(t, Viewing, ModeOf(h.state()))
	h.waitSpoken(t, "audio:answer.wav")
	assert.Equal(t, []int{1}, h.recorder.voice)
}

func TestHomework_PhotoAnswer(t *testing.T) {
	h := newHarness(t, harnessOpts{})
	require.NoError(t, h.dispatch(t, GestureMsg{Gesture: Tap}))
	require.NoError(t, h.dispatch(t, NavigateMsg{Target: ToNext}))

	require.NoError(t, h.dispatch(t, GestureMsg{Gesture: DoubleTap}))
	hw := h.waitState(t, func(s State) bool { return Idle(s) && s.(Homework).Notice != "" }).(Homework)
	assert.Equal(t, phrasePhotoSaved.in(lang.English), hw.Notice)

	h.recorder.mu.Lock()
	defer h.recorder.mu.Unlock()
	assert.Equal(t, []int{2}, h.recorder.photos)
}

func TestHomework_PhotoCaptureCancelled(t *testing.T) {
	h := newHarness(t, harnessOpts{camera: &fakeCamera{block: true}})
	require.NoError(t, h.dispatch(t, GestureMsg{Gesture: Tap}))

	require.NoError(t, h.dispatch(t, GestureMsg{Gesture: DoubleTap}))
	assert.Equal(t, RecordingPhoto, ModeOf(h.state()))
	require.NoError(t, h.dispatch(t, GestureMsg{Gesture: Tap}))
	assert.Equal(t, Viewing, ModeOf(h.state()))

	time.Sleep(20 * time.Millisecond)
	assert.False(t, strings.Contains(h.state().(Homework).Notice, "photo"))
}
