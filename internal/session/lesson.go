package session

import (
	"context"

	"go.uber.org/zap"

	"github.com/abhisek/echotutor/internal/content"
	"github.com/abhisek/echotutor/internal/lang"
	"github.com/abhisek/echotutor/internal/llm"
	"github.com/abhisek/echotutor/internal/speech"
)

func (o *Orchestrator) homeworkGesture(s Homework, g Gesture) error {
	switch s.Mode {
	case Viewing:
		switch g {
		case Tap:
			return o.startVoice(s)
		case DoubleTap:
			return o.startPhoto(s)
		case LongPress:
			o.awaitCommand("long-press")
			return nil
		}
	case RecordingVoice:
		if g == Tap {
			o.stopVoice(s)
			return nil
		}
	default:
		if g == Tap {
			o.cancelToIdle("tap-cancel")
			return nil
		}
	}
	return ErrBusy
}

func (o *Orchestrator) feedbackGesture(s Feedback, g Gesture) error {
	if s.Mode != Viewing {
		if g == Tap {
			o.cancelToIdle("tap-cancel")
			return nil
		}
		return ErrBusy
	}
	switch g {
	case Tap:
		o.deps.Output.Clear()
		o.speak(feedbackText(s.Item(), s.Lang), s.Lang)
		return nil
	case DoubleTap:
		return o.step(ToNext)
	default:
		o.awaitCommand("long-press")
		return nil
	}
}

func (o *Orchestrator) startVoice(s Homework) error {
	if o.deps.Recorder == nil {
		return ErrUnsupported
	}
	o.deps.Output.Clear()
	if err := o.deps.Recorder.StartVoice(s.Item()); err != nil {
		o.log.Warn("voice recording failed to start", zap.Error(err))
		o.set(withNotice(s, phraseRecordingFailed.in(s.Lang)), "tap")
		o.say(phraseRecordingFailed)
		return nil
	}
	o.set(withNotice(withMode(s, RecordingVoice), phraseRecordingStarted.in(s.Lang)), "tap")
	return nil
}

// stopVoice ends the recording and plays it back after a confirmation.
func (o *Orchestrator) stopVoice(s Homework) {
	clip, err := o.deps.Recorder.StopVoice()
	next := withMode(s, Viewing)
	if err != nil {
		o.log.Warn("voice recording failed", zap.Error(err))
		o.set(withNotice(next, phraseRecordingFailed.in(s.Lang)), "recording-failed")
		o.say(phraseRecordingFailed)
		return
	}
	o.set(next, "tap-stop")
	o.say(phraseRecordingSaved)
	o.deps.Output.Enqueue(speech.Utterance{Lang: s.Lang, Audio: clip.Path}, nil)
}

// startPhoto captures a photo answer for the current item.
func (o *Orchestrator) startPhoto(s Homework) error {
	if o.deps.Camera == nil {
		return ErrUnsupported
	}
	token := o.begin()
	o.capture(token, s.Item())
	o.set(withMode(s, RecordingPhoto), "double-tap")
	return nil
}

// capture takes a photo in the background and, when item is set, saves
// it as the item's answer.
func (o *Orchestrator) capture(token uint64, item *content.LessonItem) {
	ctx, cancel := context.WithTimeout(context.Background(), o.cfg.CaptureTimeout)
	o.abort = cancel
	camera, recorder := o.deps.Camera, o.deps.Recorder

	go func() {
		img, err := camera.Capture(ctx)
		var path string
		if err == nil && item != nil && recorder != nil {
			path, err = recorder.SavePhoto(item, img)
		}
		o.Post(captureDoneMsg{token: token, image: img, path: path, err: err})
	}()
}

func (o *Orchestrator) handleCaptureDone(msg captureDoneMsg) {
	if !o.current(msg.token) {
		o.log.Debug("ignoring stale capture", zap.Uint64("token", msg.token))
		return
	}
	o.finishOp()

	switch s := o.state.(type) {
	case Homework:
		if msg.err != nil {
			o.log.Warn("photo capture failed", zap.Error(msg.err))
			o.set(withNotice(withMode(s, Viewing), phrasePhotoFailed.in(s.Lang)), "capture-failed")
			o.say(phrasePhotoFailed)
			return
		}
		o.log.Info("photo answer saved", zap.Int("item", s.Item().Number), zap.String("path", msg.path))
		o.set(withNotice(withMode(s, Viewing), phrasePhotoSaved.in(s.Lang)), "capture-done")
		o.say(phrasePhotoSaved)
	case Spatial:
		o.describePhoto(s, msg)
	}
}

// awaitCommand prompts for a command and listens for it.
func (o *Orchestrator) awaitCommand(trigger string) {
	token := o.begin()
	o.set(withMode(o.state, AwaitingCommand), trigger)
	o.say(phraseCommandPrompt)
	o.listen(LangOf(o.state), token)
}

func (o *Orchestrator) handleRecognized(msg recognizedMsg) {
	if !o.current(msg.token) {
		o.log.Debug("ignoring stale recognition", zap.Uint64("token", msg.token))
		return
	}
	o.finishOp()

	switch s := o.state.(type) {
	case Homework, Feedback:
		switch ModeOf(s) {
		case AwaitingCommand:
			o.runCommand(msg.text)
		case AskingQuestion:
			_ = o.answer(msg.text, "question")
		}
	case Spatial:
		if s.Mode == AwaitingCommand {
			_ = o.followUp(s, msg.text, "question")
		}
	}
}

func (o *Orchestrator) handleRecognitionFailed(msg recognitionFailedMsg) {
	if !o.current(msg.token) {
		return
	}
	o.finishOp()

	p := phraseNotHeard
	if Classify(msg.err) == KindNotReady {
		p = phraseRecognizerUnavailable
	}
	o.log.Info("recognition failed", zap.Error(msg.err))
	l := LangOf(o.state)
	next := withMode(o.state, IdleMode(o.state.Screen()))
	o.set(withNotice(next, p.in(l)), "recognition-failed")
	o.say(p)
}

func narration(item *content.LessonItem) speech.Utterance {
	return speech.Utterance{Text: item.Question, Lang: lang.English, Audio: item.Narration}
}

// lessonText is the question as spoken in l. Without a cached translation
// the authored Urdu script stands in.
func lessonText(item *content.LessonItem, l lang.Language) string {
	if l == lang.English {
		return item.Question
	}
	if text, ok := item.Translation(); ok {
		return text
	}
	if item.ScriptUrdu != "" {
		return item.ScriptUrdu
	}
	return item.Question
}

func feedbackText(item *content.FeedbackItem, l lang.Language) string {
	if l == lang.English {
		return item.Text
	}
	if text, ok := item.Translation(); ok {
		return text
	}
	return item.Text
}

// diagramContext reads an item's model context. It blocks, so it runs on
// the generation task, never on the reducer. A missing context leaves
// the prompt without it.
func (o *Orchestrator) diagramContext(ctx context.Context, item *content.LessonItem) string {
	ctx, cancel := context.WithTimeout(ctx, o.cfg.ContextTimeout)
	defer cancel()
	text, err := o.deps.Content.ReadDiagramContext(ctx, item)
	if err != nil {
		o.log.Warn("diagram context unavailable", zap.Int("item", item.Number), zap.Error(err))
		return ""
	}
	return text
}

// lastPhoto returns the newest spatial photo, if any.
func lastPhoto(s Spatial) []llm.Image {
	if len(s.Photos) == 0 {
		return nil
	}
	return s.Photos[len(s.Photos)-1:]
}
