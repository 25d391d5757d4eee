package components

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/echotutor/internal/chat"
	"github.com/abhisek/echotutor/internal/ui/theme"
)

// Transcript renders the newest conversation entries that fit in
// Height lines.
type Transcript struct {
	Messages  []chat.Message
	Streaming string
	Width     int
	Height    int
}

// View renders the transcript bottom-aligned, oldest entries cut first.
func (t Transcript) View() string {
	body := lipgloss.NewStyle().Foreground(theme.Text).Width(max(t.Width-4, 10))

	var blocks []string
	for _, m := range t.Messages {
		blocks = append(blocks, renderEntry(m, body))
	}
	if t.Streaming != "" {
		blocks = append(blocks, theme.Tutor.Render("Tutor: ")+body.Render(t.Streaming))
	}

	lines := strings.Split(strings.Join(blocks, "\n"), "\n")
	if t.Height > 0 && len(lines) > t.Height {
		lines = lines[len(lines)-t.Height:]
	}
	return strings.Join(lines, "\n")
}

func renderEntry(m chat.Message, body lipgloss.Style) string {
	switch {
	case m.Pending:
		return theme.Status.Render("Tutor is looking...")
	case m.Kind == chat.User:
		return theme.Student.Render("You: ") + body.Render(m.Text)
	case m.Kind == chat.Assistant:
		return theme.Tutor.Render("Tutor: ") + body.Render(m.Text)
	case m.Kind == chat.Image:
		return theme.Student.Render("[" + m.Text + "]")
	default:
		return theme.Status.Render(m.Text)
	}
}
