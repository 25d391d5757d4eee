package session

import (
	"go.uber.org/zap"

	"github.com/abhisek/echotutor/internal/content"
	"github.com/abhisek/echotutor/internal/lang"
)

func (o *Orchestrator) handleScanDone(msg scanDoneMsg) {
	if msg.err != nil {
		o.log.Warn("content scan failed", zap.Error(msg.err))
	}
	o.lib = msg.lib
	o.goHome("scan")
}

func (o *Orchestrator) homeState() Home {
	return Home{
		Lessons:         o.lib.Lessons.Len(),
		Feedback:        o.lib.Feedback.Len(),
		LessonsMissing:  o.lib.Lessons.Len() == 0,
		FeedbackMissing: o.lib.Feedback.Len() == 0,
	}
}

// goHome stops everything and shows the menu. lead, if set, is spoken
// before the menu prompt in the language of the screen being left.
func (o *Orchestrator) goHome(trigger string, lead ...phrase) {
	from := LangOf(o.state)
	o.cancelOp()
	o.deps.Output.Clear()

	for _, p := range lead {
		o.speak(p.in(from), from)
	}
	o.set(o.homeState(), trigger)
	o.say(phraseHome)
}

func (o *Orchestrator) handleNavigate(t Target) error {
	if _, loading := o.state.(Loading); loading {
		return ErrNotReady
	}

	switch t {
	case ToHome:
		o.goHome("navigate-home")
		return nil
	case ToNext, ToPrevious:
		return o.step(t)
	}

	if !Idle(o.state) {
		return ErrBusy
	}
	o.cancelOp()
	switch t {
	case ToHomework:
		o.enterHomework(0, lang.English, "navigate-homework")
	case ToFeedback:
		o.enterFeedback(0, lang.English, "navigate-feedback")
	case ToSpatial:
		o.enterSpatial("navigate-spatial")
	default:
		return ErrUnsupported
	}
	return nil
}

func (o *Orchestrator) handleGesture(g Gesture) error {
	switch s := o.state.(type) {
	case Loading:
		return ErrNotReady
	case Home:
		return o.homeGesture(g)
	case Homework:
		return o.homeworkGesture(s, g)
	case Feedback:
		return o.feedbackGesture(s, g)
	case Spatial:
		return o.spatialGesture(s, g)
	}
	return ErrUnsupported
}

func (o *Orchestrator) homeGesture(g Gesture) error {
	switch g {
	case Tap:
		o.enterHomework(0, lang.English, "tap")
	case DoubleTap:
		o.enterFeedback(0, lang.English, "double-tap")
	case LongPress:
		o.enterSpatial("long-press")
	}
	return nil
}

// enterHomework shows lesson item index. A missing pack keeps the menu and
// says so.
func (o *Orchestrator) enterHomework(index int, l lang.Language, trigger string) {
	pack := o.lib.Lessons
	if pack.Len() == 0 {
		o.set(withNotice(o.homeState(), phraseLessonsMissing.in(l)), trigger)
		o.speak(phraseLessonsMissing.in(l), l)
		return
	}
	next := Homework{Pack: pack, Cursor: Cursor{Index: index, Lang: l, Mode: Viewing}}
	o.set(next, trigger)

	o.deps.Output.Clear()
	o.announceLesson(next.Item(), l)
}

func (o *Orchestrator) enterFeedback(index int, l lang.Language, trigger string) {
	pack := o.lib.Feedback
	if pack.Len() == 0 {
		o.set(withNotice(o.homeState(), phraseFeedbackMissing.in(l)), trigger)
		o.speak(phraseFeedbackMissing.in(l), l)
		return
	}
	next := Feedback{Pack: pack, Cursor: Cursor{Index: index, Lang: l, Mode: Viewing}}
	o.set(next, trigger)

	o.deps.Output.Clear()
	item := next.Item()
	if item.MarkSpoken() {
		o.speak(feedbackText(item, l), l)
	}
}

func (o *Orchestrator) enterSpatial(trigger string) {
	o.set(Spatial{Lang: lang.English, Mode: AwaitingPhoto, Primed: &content.OnceFlag{}}, trigger)
	o.deps.Output.Clear()
	o.say(phraseSpatialIntro)
}

// step moves to the next or previous item. Moving past the last item
// returns to the menu; moving before the first stays put.
func (o *Orchestrator) step(t Target) error {
	var index, size int
	switch s := o.state.(type) {
	case Homework:
		index, size = s.Index, s.Pack.Len()
	case Feedback:
		index, size = s.Index, s.Pack.Len()
	default:
		return ErrUnsupported
	}
	if !Idle(o.state) {
		return ErrBusy
	}

	trigger := "navigate-" + t.String()
	switch {
	case t == ToNext && index+1 >= size:
		o.goHome(trigger, phrasePackDone)
		return nil
	case t == ToPrevious && index == 0:
		o.set(withNotice(o.state, phraseFirstItem.in(LangOf(o.state))), trigger)
		o.say(phraseFirstItem)
		return nil
	case t == ToNext:
		index++
	default:
		index--
	}

	l := LangOf(o.state)
	if o.state.Screen() == ScreenHomework {
		o.enterHomework(index, l, trigger)
	} else {
		o.enterFeedback(index, l, trigger)
	}
	return nil
}

// announceLesson queues an item's narration. English plays the recorded
// narration; Urdu reads the question text.
func (o *Orchestrator) announceLesson(item *content.LessonItem, l lang.Language) {
	if l == lang.English {
		o.deps.Output.Enqueue(narration(item), nil)
		return
	}
	o.speak(lessonText(item, l), l)
}
