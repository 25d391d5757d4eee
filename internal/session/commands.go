package session

import (
	"context"

	"go.uber.org/zap"

	"github.com/abhisek/echotutor/internal/command"
	"github.com/abhisek/echotutor/internal/content"
	"github.com/abhisek/echotutor/internal/lang"
)

// runCommand acts on a recognized command on the homework or feedback
// screen.
func (o *Orchestrator) runCommand(text string) {
	res := command.Interpret(text)
	o.log.Info("command", zap.Stringer("command", res.Command), zap.String("keyword", res.Keyword))

	trigger := "command-" + res.Command.String()
	switch res.Command {
	case command.Listen:
		o.set(withMode(o.state, Viewing), trigger)
		o.replay()
	case command.Switch:
		o.switchLanguage(trigger)
	case command.Repeat:
		o.set(withMode(o.state, Viewing), trigger)
		o.repeat()
	case command.Ask:
		if res.Rest != "" {
			_ = o.answer(res.Rest, trigger)
			return
		}
		token := o.begin()
		o.set(withMode(o.state, AskingQuestion), trigger)
		o.say(phraseAskPrompt)
		o.listen(LangOf(o.state), token)
	default:
		l := LangOf(o.state)
		o.set(withNotice(withMode(o.state, Viewing), phraseNotRecognized.in(l)), trigger)
		o.say(phraseNotRecognized)
	}
}

// replay plays the narration in English or reads the Urdu script.
func (o *Orchestrator) replay() {
	o.deps.Output.Clear()
	switch s := o.state.(type) {
	case Homework:
		item := s.Item()
		if s.Lang == lang.English {
			o.deps.Output.Enqueue(narration(item), nil)
			return
		}
		o.speak(item.Script(lang.Urdu), lang.Urdu)
	case Feedback:
		o.speak(feedbackText(s.Item(), s.Lang), s.Lang)
	}
}

// repeat speaks the current question or feedback again.
func (o *Orchestrator) repeat() {
	o.deps.Output.Clear()
	switch s := o.state.(type) {
	case Homework:
		o.speak(lessonText(s.Item(), s.Lang), s.Lang)
	case Feedback:
		o.speak(feedbackText(s.Item(), s.Lang), s.Lang)
	}
}

func (o *Orchestrator) translatable() content.Translatable {
	switch s := o.state.(type) {
	case Homework:
		return s.Item()
	case Feedback:
		return s.Item()
	}
	return nil
}

// switchLanguage toggles the language. Moving to Urdu translates the
// current item first unless its translation is already cached.
func (o *Orchestrator) switchLanguage(trigger string) {
	target := LangOf(o.state).Other()
	item := o.translatable()

	if _, cached := item.Translation(); target == lang.English || cached {
		o.applyLanguage(target, trigger)
		return
	}
	if !o.ready() {
		l := LangOf(o.state)
		o.set(withNotice(withMode(o.state, Viewing), phraseNotReady.in(l)), trigger)
		o.say(phraseNotReady)
		return
	}

	token := o.begin()
	ctx, cancel := context.WithCancel(context.Background())
	o.abort = cancel
	tr := o.deps.Translator
	go func() {
		text, err := content.Translate(ctx, tr, item, target)
		o.Post(translatedMsg{token: token, lang: target, text: text, err: err})
	}()
	o.set(withMode(o.state, Translating), trigger)
}

func (o *Orchestrator) handleTranslated(msg translatedMsg) {
	if !o.current(msg.token) {
		o.log.Debug("ignoring stale translation", zap.Uint64("token", msg.token))
		return
	}
	o.finishOp()

	if msg.err != nil {
		o.log.Warn("translation failed", zap.Error(msg.err))
		l := LangOf(o.state)
		o.set(withNotice(withMode(o.state, Viewing), phraseTranslationFailed.in(l)), "translation-failed")
		o.say(phraseTranslationFailed)
		return
	}
	o.applyLanguage(msg.lang, "translated")
}

// applyLanguage sets the language, confirms the switch and reads the
// current item in it.
func (o *Orchestrator) applyLanguage(l lang.Language, trigger string) {
	switch s := o.state.(type) {
	case Homework:
		s.Lang = l
		o.set(withMode(s, Viewing), trigger)
	case Feedback:
		s.Lang = l
		o.set(withMode(s, Viewing), trigger)
	default:
		return
	}
	o.deps.Output.Clear()
	o.say(phraseSwitched)
	o.repeat()
}
