package session

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/abhisek/echotutor/internal/generation"
	"github.com/abhisek/echotutor/internal/llm"
)

func (o *Orchestrator) handleAsk(question string) error {
	question = strings.TrimSpace(question)
	if question == "" {
		return ErrUnsupported
	}

	switch s := o.state.(type) {
	case Homework, Feedback:
		switch ModeOf(s) {
		case Viewing:
		case AwaitingCommand, AskingQuestion:
			o.cancelOp()
		default:
			return ErrBusy
		}
		return o.answer(question, "ask")
	case Spatial:
		switch s.Mode {
		case AwaitingPhoto:
			if len(s.Photos) == 0 {
				o.say(phraseNoPhoto)
				return ErrUnsupported
			}
		case AwaitingCommand:
			o.cancelOp()
		default:
			return ErrBusy
		}
		return o.followUp(s, question, "ask")
	case Loading:
		return ErrNotReady
	default:
		return ErrUnsupported
	}
}

// rejectNotReady tells the student the model is not ready and returns to
// the idle mode, which is a no-op when already idle.
func (o *Orchestrator) rejectNotReady(trigger string) error {
	l := LangOf(o.state)
	o.say(phraseNotReady)
	if !Idle(o.state) {
		next := withMode(o.state, IdleMode(o.state.Screen()))
		o.set(withNotice(next, phraseNotReady.in(l)), trigger)
	}
	return ErrNotReady
}

// answer starts a spoken answer to a question about the current lesson or
// feedback item.
func (o *Orchestrator) answer(question, trigger string) error {
	if !o.ready() {
		return o.rejectNotReady(trigger)
	}

	req := generation.Request{Question: question}
	var next State
	switch s := o.state.(type) {
	case Homework:
		item := s.Item()
		language, text := s.Lang, lessonText(item, s.Lang)
		req.Purpose = llm.PurposeLessonAnswer
		req.Lang = s.Lang
		req.Prepare = func(ctx context.Context, r *generation.Request) {
			r.System = generation.TutorSystem(language, text, o.diagramContext(ctx, item))
		}
		s.Response = ""
		next = s
	case Feedback:
		item := s.Item()
		req.Purpose = llm.PurposeFeedbackAnswer
		req.Lang = s.Lang
		req.System = generation.TutorSystem(s.Lang, "", "")
		req.Primed = item

		lesson, ok := o.lib.Lesson(item.Number)
		req.Prepare = func(ctx context.Context, r *generation.Request) {
			var lessonQuestion, lessonContext string
			if ok {
				lessonQuestion, lessonContext = lesson.Question, o.diagramContext(ctx, lesson)
			}
			r.Priming = generation.FeedbackPriming(item.Text, lessonQuestion, lessonContext)
		}
		s.Response = ""
		next = s
	default:
		return ErrUnsupported
	}

	o.deps.Output.Clear()
	o.generate(next, req, trigger)
	return nil
}

func (o *Orchestrator) handlePartial(msg partialMsg) {
	if !o.current(msg.token) {
		return
	}
	switch s := o.state.(type) {
	case Homework:
		s.Response += msg.text
		o.set(s, "partial")
	case Feedback:
		s.Response += msg.text
		o.set(s, "partial")
	case Spatial:
		s.Streaming += msg.text
		o.set(s, "partial")
	}
}

func (o *Orchestrator) handleGenerationDone(msg generationDoneMsg) {
	if !o.current(msg.token) {
		o.log.Debug("ignoring stale generation", zap.Uint64("token", msg.token))
		return
	}
	o.finishOp()
	res := msg.result

	if sp, ok := o.state.(Spatial); ok {
		o.spatialAnswered(sp, res)
		return
	}

	l := LangOf(o.state)
	if res.Err != nil {
		p := failurePhrase(res.Err)
		o.set(withNotice(withResponse(withMode(o.state, Viewing), ""), p.in(l)), "generation-failed")
		o.say(p)
		return
	}
	o.set(withResponse(withMode(o.state, Viewing), res.Text), "generation-done")
}

// failurePhrase picks what to say for a failed generation.
func failurePhrase(err error) phrase {
	if Classify(err) == KindNotReady {
		return phraseNotReady
	}
	return phraseGenerationFailed
}

func withResponse(s State, text string) State {
	switch s := s.(type) {
	case Homework:
		s.Response = text
		return s
	case Feedback:
		s.Response = text
		return s
	default:
		return s
	}
}
