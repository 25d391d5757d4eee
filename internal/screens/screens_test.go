package screens

import (
	"testing"

	"github.com/abhisek/echotutor/internal/session"
)

func TestBusyHintsAlwaysCancel(t *testing.T) {
	modes := []session.Mode{
		session.RecordingPhoto, session.AwaitingCommand, session.AskingQuestion,
		session.GemmaResponding, session.Translating, session.ProcessingPhoto,
	}
	for _, m := range modes {
		hints := BusyHints(m)
		if hints[0].Key != KeyTap || hints[0].Description != "Cancel" {
			t.Errorf("%s: first hint = %+v, want tap to cancel", m, hints[0])
		}
	}

	if got := BusyHints(session.RecordingVoice)[0].Description; got != "Stop recording" {
		t.Errorf("recording hint = %q", got)
	}
}

func TestModeTextForBusyModes(t *testing.T) {
	if ModeText(session.Viewing) != "" {
		t.Error("viewing should have no status text")
	}
	for _, m := range []session.Mode{session.AwaitingCommand, session.GemmaResponding, session.Translating} {
		if ModeText(m) == "" {
			t.Errorf("%s has no status text", m)
		}
	}
}
