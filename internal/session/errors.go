package session

import (
	"context"
	"errors"

	"github.com/abhisek/echotutor/internal/content"
	"github.com/abhisek/echotutor/internal/llm"
	"github.com/abhisek/echotutor/internal/speech"
)

var (
	// ErrNotReady rejects a request whose model or recognizer is not
	// initialized. The state is unchanged.
	ErrNotReady = errors.New("not ready")

	// ErrBusy rejects a request while the screen is in a busy mode.
	ErrBusy = errors.New("busy")

	// ErrUnsupported rejects a request the current screen has no meaning for.
	ErrUnsupported = errors.New("not supported on this screen")

	// ErrClosed is returned once the orchestrator has stopped.
	ErrClosed = errors.New("session closed")

	ErrRecognitionFailed = errors.New("recognition failed")
	ErrGenerationFailed  = errors.New("generation failed")
	ErrResourceMissing   = errors.New("resource missing")
	ErrCancelled         = errors.New("cancelled")
)

// ErrorKind is the session error taxonomy.
type ErrorKind int

const (
	KindNone ErrorKind = iota
	KindNotReady
	KindRecognitionFailed
	KindGenerationFailed
	KindResourceMissing
	KindCancelled
)

func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindNotReady:
		return "not_ready"
	case KindRecognitionFailed:
		return "recognition_failed"
	case KindGenerationFailed:
		return "generation_failed"
	case KindResourceMissing:
		return "resource_missing"
	case KindCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Classify maps an error from any subsystem into the taxonomy. Errors that
// match nothing more specific are generation failures.
func Classify(err error) ErrorKind {
	var notReady *llm.ErrNotReady
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrCancelled), errors.Is(err, context.Canceled):
		return KindCancelled
	case errors.Is(err, ErrNotReady), errors.As(err, &notReady), errors.Is(err, speech.ErrUnavailable):
		return KindNotReady
	case errors.Is(err, ErrRecognitionFailed), errors.Is(err, speech.ErrNoSpeech):
		return KindRecognitionFailed
	case errors.Is(err, ErrResourceMissing), errors.Is(err, content.ErrResourceMissing), errors.Is(err, content.ErrNotFound):
		return KindResourceMissing
	default:
		return KindGenerationFailed
	}
}
