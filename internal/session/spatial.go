package session

import (
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/abhisek/echotutor/internal/chat"
	"github.com/abhisek/echotutor/internal/generation"
	"github.com/abhisek/echotutor/internal/llm"
)

// The spatial screen loops: a photo is described, then the student may
// ask follow-up questions until the next photo.
func (o *Orchestrator) spatialGesture(s Spatial, g Gesture) error {
	switch s.Mode {
	case AwaitingPhoto:
		switch g {
		case Tap:
			o.deps.Output.Clear()
			o.say(phraseSpatialIntro)
			return nil
		case DoubleTap:
			return o.capturePhoto(s)
		default:
			if len(s.Photos) == 0 {
				o.say(phraseNoPhoto)
				return nil
			}
			o.awaitFollowUp(s, "long-press")
			return nil
		}
	case AwaitingCommand:
		switch g {
		case Tap:
			o.cancelToIdle("tap-cancel")
			return nil
		case DoubleTap:
			o.cancelOp()
			return o.capturePhoto(s)
		}
	default:
		if g == Tap {
			o.cancelToIdle("tap-cancel")
			return nil
		}
	}
	return ErrBusy
}

func (o *Orchestrator) capturePhoto(s Spatial) error {
	if o.deps.Camera == nil {
		return ErrUnsupported
	}
	if !o.ready() {
		return o.rejectNotReady("double-tap")
	}
	o.deps.Output.Clear()
	token := o.begin()
	o.capture(token, nil)
	o.set(withMode(s, ProcessingPhoto), "double-tap")
	return nil
}

// describePhoto asks the model about a new photo, priming the
// conversation the first time.
func (o *Orchestrator) describePhoto(s Spatial, msg captureDoneMsg) {
	if msg.err != nil {
		o.log.Warn("spatial capture failed", zap.Error(msg.err))
		notice := phrasePhotoFailed.in(s.Lang)
		next := s.withTranscript(chat.Message{Kind: chat.Status, Text: notice})
		o.set(withNotice(withMode(next, AwaitingPhoto), notice), "capture-failed")
		o.say(phrasePhotoFailed)
		return
	}

	history := chat.BuildContext(s.Transcript)
	next := s.withTranscript(
		chat.Message{Kind: chat.Image, Text: fmt.Sprintf("Photo %d", len(s.Photos)+1)},
		chat.Message{Kind: chat.Assistant, Pending: true},
	)
	next.Photos = append(slices.Clone(s.Photos), msg.image)

	o.generate(next, generation.Request{
		Purpose:  llm.PurposeSpatialDescribe,
		Lang:     s.Lang,
		System:   generation.SpatialSystem(s.Lang),
		History:  history,
		Priming:  generation.SpatialPriming,
		Primed:   s.Primed,
		Question: generation.DescribePhoto(s.Lang),
		Images:   []llm.Image{msg.image},
	}, "capture-done")
}

// followUp asks a question about the latest photo, with the recent
// transcript as context.
func (o *Orchestrator) followUp(s Spatial, question, trigger string) error {
	if !o.ready() {
		return o.rejectNotReady(trigger)
	}
	history := chat.BuildContext(s.Transcript)
	next := s.withTranscript(
		chat.Message{Kind: chat.User, Text: question},
		chat.Message{Kind: chat.Assistant, Pending: true},
	)

	o.deps.Output.Clear()
	o.generate(next, generation.Request{
		Purpose:  llm.PurposeSpatialQuestion,
		Lang:     s.Lang,
		System:   generation.SpatialSystem(s.Lang),
		History:  history,
		Priming:  generation.SpatialPriming,
		Primed:   s.Primed,
		Question: question,
		Images:   lastPhoto(s),
	}, trigger)
	return nil
}

func (o *Orchestrator) spatialAnswered(s Spatial, res generation.Result) {
	next := s.withoutPending()
	if res.Err != nil {
		p := failurePhrase(res.Err)
		next = next.withTranscript(chat.Message{Kind: chat.Status, Text: p.in(s.Lang)})
		o.set(withNotice(withMode(next, AwaitingPhoto), p.in(s.Lang)), "generation-failed")
		o.say(p)
		return
	}
	next = next.withTranscript(chat.Message{Kind: chat.Assistant, Text: res.Text})
	o.awaitFollowUp(next, "generation-done")
}

// awaitFollowUp listens for a question about the latest photo.
func (o *Orchestrator) awaitFollowUp(s Spatial, trigger string) {
	token := o.begin()
	o.set(withMode(s, AwaitingCommand), trigger)
	o.say(phraseFollowUp)
	o.listen(s.Lang, token)
}
