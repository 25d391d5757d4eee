package components

import (
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/echotutor/internal/ui/theme"
)

// UtteranceInput is where the student types what they would say while
// the session is listening.
type UtteranceInput struct {
	Model    textinput.Model
	MaxWidth int
	rejected bool
}

// NewUtteranceInput creates a focused input.
func NewUtteranceInput(placeholder string, maxWidth int) UtteranceInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = "> "
	ti.Focus()

	if maxWidth > 0 {
		ti.CharLimit = maxWidth
	}

	return UtteranceInput{Model: ti, MaxWidth: maxWidth}
}

// Focus returns the blink command for the input.
func (u UtteranceInput) Focus() tea.Cmd {
	return u.Model.Focus()
}

// Update handles messages. Any edit clears a rejection mark.
func (u UtteranceInput) Update(msg tea.Msg) (UtteranceInput, tea.Cmd) {
	if _, ok := msg.(tea.KeyMsg); ok {
		u.rejected = false
	}
	var cmd tea.Cmd
	u.Model, cmd = u.Model.Update(msg)
	return u, cmd
}

// View renders the input.
func (u UtteranceInput) View() string {
	view := u.Model.View()
	if u.rejected {
		view += " " + lipgloss.NewStyle().Foreground(theme.Error).Bold(true).Render("not listening yet")
	}
	return view
}

// Value returns the trimmed input.
func (u UtteranceInput) Value() string {
	return strings.TrimSpace(u.Model.Value())
}

// Reset clears the input after a successful submit.
func (u *UtteranceInput) Reset() {
	u.Model.Reset()
	u.rejected = false
}

// Reject marks the input as not accepted; the text is kept for a retry.
func (u *UtteranceInput) Reject() {
	u.rejected = true
}

// Rejected reports whether the last submit was refused.
func (u UtteranceInput) Rejected() bool {
	return u.rejected
}
