package session

import (
	"context"
	"time"

	"github.com/abhisek/echotutor/internal/content"
	"github.com/abhisek/echotutor/internal/generation"
	"github.com/abhisek/echotutor/internal/lang"
	"github.com/abhisek/echotutor/internal/llm"
	"github.com/abhisek/echotutor/internal/speech"
	"github.com/abhisek/echotutor/internal/store"
)

// Output is the speech output queue.
type Output interface {
	Enqueue(u speech.Utterance, onDone func(err error)) uint64
	Clear()
}

// Listener runs single-shot speech captures.
type Listener interface {
	Start(language lang.Language, cb speech.Callbacks)
	Cancel()
}

// Generator starts spoken-answer tasks.
type Generator interface {
	Start(req generation.Request, onPartial func(string), onDone func(generation.Result)) *generation.Task
}

// Camera takes one photo.
type Camera interface {
	Capture(ctx context.Context) (llm.Image, error)
}

// Clip is a recorded voice answer.
type Clip struct {
	Path     string
	Duration time.Duration
}

// Recorder stores the student's answers to lesson items.
type Recorder interface {
	StartVoice(item *content.LessonItem) error
	StopVoice() (Clip, error)
	SavePhoto(item *content.LessonItem, img llm.Image) (string, error)
}

// Readiness reports whether the language model can take requests.
type Readiness interface {
	Ready() bool
}

// Deps are the collaborators of an Orchestrator. Camera, Recorder,
// Readiness and Journal are optional.
type Deps struct {
	Content    content.Store
	Translator content.Translator
	Generator  Generator
	Output     Output
	Listener   Listener
	Camera     Camera
	Recorder   Recorder
	Readiness  Readiness
	Journal    store.EventRepo
}
