package session

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/abhisek/echotutor/internal/content"
	"github.com/abhisek/echotutor/internal/llm"
	"github.com/abhisek/echotutor/internal/speech"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"nil", nil, KindNone},
		{"model not ready", &llm.ErrNotReady{}, KindNotReady},
		{"wrapped model not ready", fmt.Errorf("generate: %w", &llm.ErrNotReady{Err: errors.New("download")}), KindNotReady},
		{"recognizer unavailable", fmt.Errorf("%w: no permission", speech.ErrUnavailable), KindNotReady},
		{"no speech", fmt.Errorf("recognize en: %w", speech.ErrNoSpeech), KindRecognitionFailed},
		{"missing resource", content.Exclusion{Pack: "lessons", Number: 2, Err: content.ErrResourceMissing}, KindResourceMissing},
		{"pack not found", content.ErrNotFound, KindResourceMissing},
		{"cancelled", context.Canceled, KindCancelled},
		{"session cancelled", ErrCancelled, KindCancelled},
		{"provider down", &llm.ErrProviderUnavailable{Err: errors.New("503")}, KindGenerationFailed},
		{"anything else", errors.New("boom"), KindGenerationFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.err); got != tt.want {
				t.Errorf("Classify(%v) = %s, want %s", tt.err, got, tt.want)
			}
		})
	}
}
