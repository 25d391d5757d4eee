package session

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/echotutor/internal/lang"
	"github.com/abhisek/echotutor/internal/speech"
)

// command says text in answer to a long-press command prompt.
func (h *harness) command(t *testing.T, text string) {
	t.Helper()
	require.NoError(t, h.dispatch(t, GestureMsg{Gesture: LongPress}))
	require.Equal(t, AwaitingCommand, ModeOf(h.state()))
	h.listener.next(t).cb.OnResult(text)
}

func TestSwitch_TranslatesOnlyOnce(t *testing.T) {
	h := newHarness(t, harnessOpts{})
	require.NoError(t, h.dispatch(t, GestureMsg{Gesture: Tap}))

	h.command(t, "switch")
	hw := h.waitState(t, func(s State) bool { return Idle(s) && LangOf(s) == lang.Urdu }).(Homework)
	translated, ok := hw.Item().Translation()
	require.True(t, ok)
	assert.Equal(t, "ترجمہ: Question 1.", translated)
	h.waitSpoken(t, translated)

	h.command(t, "switch")
	h.waitState(t, func(s State) bool { return Idle(s) && LangOf(s) == lang.English })

	h.command(t, "بدلو")
	h.waitState(t, func(s State) bool { return Idle(s) && LangOf(s) == lang.Urdu })

	assert.EqualValues(t, 1, h.translator.calls.Load())
}

func TestSwitch_TranslatesFeedback(t *testing.T) {
	h := newHarness(t, harnessOpts{})
	require.NoError(t, h.dispatch(t, GestureMsg{Gesture: DoubleTap}))

	h.command(t, "change language please")
	h.waitState(t, func(s State) bool { return Idle(s) && LangOf(s) == lang.Urdu })
	fb := h.state().(Feedback)
	_, ok := fb.Item().Translation()
	assert.True(t, ok)
	assert.EqualValues(t, 1, h.translator.calls.Load())
}

func TestSwitch_TranslationFailureKeepsEnglish(t *testing.T) {
	h := newHarness(t, harnessOpts{translator: &countingTranslator{err: errors.New("model crashed")}})
	require.NoError(t, h.dispatch(t, GestureMsg{Gesture: Tap}))

	h.command(t, "switch")
	hw := h.waitState(t, func(s State) bool {
		return Idle(s) && s.(Homework).Notice == phraseTranslationFailed.in(lang.English)
	}).(Homework)
	assert.Equal(t, lang.English, hw.Lang)
	_, ok := hw.Item().Translation()
	assert.False(t, ok)
	h.waitSpoken(t, phraseTranslationFailed.in(lang.English))
}

func TestSwitch_NotReadyDoesNotTranslate(t *testing.T) {
	h := newHarness(t, harnessOpts{})
	h.ready.notReady.Store(true)
	require.NoError(t, h.dispatch(t, GestureMsg{Gesture: Tap}))

	h.command(t, "switch")
	hw := h.waitState(t, func(s State) bool {
		return Idle(s) && s.(Homework).Notice == phraseNotReady.in(lang.English)
	}).(Homework)
	assert.Equal(t, lang.English, hw.Lang)
	assert.Zero(t, h.translator.calls.Load())
}

func TestCommand_ListenReplaysNarration(t *testing.T) {
	h := newHarness(t, harnessOpts{})
	require.NoError(t, h.dispatch(t, GestureMsg{Gesture: Tap}))
	h.waitSpoken(t, "audio:narration-1.mp3")

	h.command(t, "LISTEN")
	h.waitMode(t, ScreenHomework, Viewing)
	require.Eventually(t, func() bool { return h.synth.Count("audio:narration-1.mp3") == 2 }, waitFor, 5*time.Millisecond)
}

func TestCommand_ListenInUrduReadsScript(t *testing.T) {
	h := newHarness(t, harnessOpts{})
	require.NoError(t, h.dispatch(t, GestureMsg{Gesture: Tap}))
	h.command(t, "switch")
	h.waitState(t, func(s State) bool { return Idle(s) && LangOf(s) == lang.Urdu })

	h.command(t, "سنو")
	h.waitSpoken(t, "سوال 1۔")
}

func TestCommand_RepeatSpeaksFeedback(t *testing.T) {
	h := newHarness(t, harnessOpts{})
	require.NoError(t, h.dispatch(t, GestureMsg{Gesture: DoubleTap}))
	h.waitSpoken(t, "Feedback 1.")

	h.command(t, "say it again")
	h.waitMode(t, ScreenFeedback, Viewing)
	require.Eventually(t, func() bool { return h.synth.Count("Feedback 1.") == 2 }, waitFor, 5*time.Millisecond)
}

func TestCommand_Unrecognized(t *testing.T) {
	h := newHarness(t, harnessOpts{})
	require.NoError(t, h.dispatch(t, GestureMsg{Gesture: Tap}))

	h.command(t, "banana")
	hw := h.waitMode(t, ScreenHomework, Viewing).(Homework)
	assert.Equal(t, phraseNotRecognized.in(lang.English), hw.Notice)
	h.waitSpoken(t, phraseNotRecognized.in(lang.English))
}

func TestCommand_NotHeard(t *testing.T) {
	h := newHarness(t, harnessOpts{})
	require.NoError(t, h.dispatch(t, GestureMsg{Gesture: Tap}))
	require.NoError(t, h.dispatch(t, GestureMsg{Gesture: LongPress}))

	h.listener.next(t).cb.OnError(speech.ErrNoSpeech)
	hw := h.waitMode(t, ScreenHomework, Viewing).(Homework)
	assert.Equal(t, phraseNotHeard.in(lang.English), hw.Notice)
}

func TestCommand_RecognizerUnavailable(t *testing.T) {
	h := newHarness(t, harnessOpts{})
	require.NoError(t, h.dispatch(t, GestureMsg{Gesture: DoubleTap}))
	require.NoError(t, h.dispatch(t, GestureMsg{Gesture: LongPress}))

	h.listener.next(t).cb.OnError(speech.ErrUnavailable)
	fb := h.waitMode(t, ScreenFeedback, Viewing).(Feedback)
	assert.Equal(t, phraseRecognizerUnavailable.in(lang.English), fb.Notice)
}

func TestCommand_ListeningNotice(t *testing.T) {
	h := newHarness(t, harnessOpts{})
	require.NoError(t, h.dispatch(t, GestureMsg{Gesture: Tap}))
	require.NoError(t, h.dispatch(t, GestureMsg{Gesture: LongPress}))
	call := h.listener.next(t)
	assert.Equal(t, lang.English, call.lang)

	call.cb.OnStart()
	h.waitState(t, func(s State) bool { return s.(Homework).Notice == "Listening" })
	assert.Equal(t, AwaitingCommand, ModeOf(h.state()))
}

func TestCommand_CancelListening(t *testing.T) {
	h := newHarness(t, harnessOpts{})
	require.NoError(t, h.dispatch(t, GestureMsg{Gesture: Tap}))
	require.NoError(t, h.dispatch(t, GestureMsg{Gesture: LongPress}))
	h.listener.next(t)

	assert.ErrorIs(t, h.dispatch(t, GestureMsg{Gesture: DoubleTap}), ErrBusy)
	require.NoError(t, h.dispatch(t, GestureMsg{Gesture: Tap}))
	assert.Equal(t, Viewing, ModeOf(h.state()))
	assert.Positive(t, h.listener.cancels.Load())
}
