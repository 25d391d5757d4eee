package session

import (
	"github.com/abhisek/echotutor/internal/content"
	"github.com/abhisek/echotutor/internal/generation"
	"github.com/abhisek/echotutor/internal/lang"
	"github.com/abhisek/echotutor/internal/llm"
)

// Msg is anything the orchestrator's reducer accepts.
type Msg any

// GestureMsg is a touch gesture on the current screen.
type GestureMsg struct {
	Gesture Gesture
}

// NavigateMsg moves between screens or items.
type NavigateMsg struct {
	Target Target
}

// AskMsg asks a question about the current item or photo without going
// through the recognizer.
type AskMsg struct {
	Question string
}

// Completions below carry the token of the operation that produced them.
// The reducer ignores any whose token is no longer the active one.

// scanDoneMsg is sent when the content scan resolves.
type scanDoneMsg struct {
	lib content.Library
	err error
}

// listeningMsg is sent when the recognizer starts capturing.
type listeningMsg struct {
	token uint64
}

// recognizedMsg carries recognized text.
type recognizedMsg struct {
	token uint64
	text  string
}

// recognitionFailedMsg is sent when a capture ends without text.
type recognitionFailedMsg struct {
	token uint64
	err   error
}

// partialMsg carries streamed model output.
type partialMsg struct {
	token uint64
	text  string
}

// generationDoneMsg is sent when a spoken answer has finished playing or
// failed.
type generationDoneMsg struct {
	token  uint64
	result generation.Result
}

// translatedMsg is sent when a language switch translation resolves.
type translatedMsg struct {
	token uint64
	lang  lang.Language
	text  string
	err   error
}

// captureDoneMsg is sent when the camera returns.
type captureDoneMsg struct {
	token uint64
	image llm.Image
	path  string
	err   error
}
