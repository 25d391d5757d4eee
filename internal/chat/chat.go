// Package chat keeps the spatial conversation transcript and builds the
// bounded model context sent with follow-up questions.
package chat

import (
	"strings"

	"github.com/abhisek/echotutor/internal/llm"
)

const (
	// ContextMessages is how many recent messages make up the context.
	ContextMessages = 6

	// AssistantRunes bounds each assistant turn in the context.
	AssistantRunes = 50
)

// Kind classifies a transcript message.
type Kind int

const (
	User Kind = iota
	Assistant
	Image
	Status
)

// Message is one transcript entry.
type Message struct {
	Kind Kind
	Text string

	// Pending marks a placeholder shown while a response is loading.
	Pending bool
}

// Transient reports whether m stays out of the model context. Loading
// placeholders and status lines are transient.
func (m Message) Transient() bool {
	return m.Pending || m.Kind == Status
}

// BuildContext renders the last ContextMessages non-transient messages as
// model turns, oldest first. User turns are kept whole; assistant turns are
// cut to AssistantRunes runes. Adjacent turns of the same role are merged.
func BuildContext(history []Message) []llm.Message {
	kept := make([]Message, 0, ContextMessages)
	for i := len(history) - 1; i >= 0 && len(kept) < ContextMessages; i-- {
		if !history[i].Transient() {
			kept = append(kept, history[i])
		}
	}

	var out []llm.Message
	for i := len(kept) - 1; i >= 0; i-- {
		m := kept[i]
		role, text := llm.RoleUser, m.Text
		switch m.Kind {
		case Assistant:
			role, text = llm.RoleAssistant, truncate(m.Text, AssistantRunes)
		case Image:
			text = "[photo]"
		}

		if n := len(out); n > 0 && out[n-1].Role == role {
			out[n-1].Content += "\n" + text
			continue
		}
		out = append(out, llm.Message{Role: role, Content: text})
	}
	return out
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
