// Package screens holds the views of the session screens.
package screens

import (
	"github.com/abhisek/echotutor/internal/session"
	"github.com/abhisek/echotutor/internal/ui/layout"
)

// Shared key labels. The three gesture keys stand in for touch gestures.
const (
	KeyTap       = "Space"
	KeyDoubleTap = "D"
	KeyLongPress = "L"
)

// BusyHints are shown while a tap would cancel the running operation.
func BusyHints(mode session.Mode) []layout.KeyHint {
	hints := []layout.KeyHint{{Key: KeyTap, Description: "Cancel"}}
	switch mode {
	case session.AwaitingCommand, session.AskingQuestion:
		hints = append(hints, layout.KeyHint{Key: "Enter", Description: "Say it"})
	case session.RecordingVoice:
		hints[0].Description = "Stop recording"
	}
	return append(hints, layout.KeyHint{Key: "Q", Description: "Quit"})
}

// ModeText describes a mode in words for the status line.
func ModeText(mode session.Mode) string {
	switch mode {
	case session.RecordingVoice:
		return "Recording your answer. Press Space to stop."
	case session.RecordingPhoto, session.ProcessingPhoto:
		return "Taking the photo..."
	case session.AwaitingCommand:
		return "Listening for a command: listen, switch, repeat or ask."
	case session.AskingQuestion:
		return "Listening for your question."
	case session.GemmaResponding:
		return "The tutor is answering..."
	case session.Translating:
		return "Translating..."
	case session.AwaitingPhoto:
		return "Press D to take a photo."
	default:
		return ""
	}
}
