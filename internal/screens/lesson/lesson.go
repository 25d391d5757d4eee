// Package lesson renders the homework and feedback screens.
package lesson

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/echotutor/internal/lang"
	"github.com/abhisek/echotutor/internal/screen"
	"github.com/abhisek/echotutor/internal/screens"
	"github.com/abhisek/echotutor/internal/session"
	"github.com/abhisek/echotutor/internal/ui/components"
	"github.com/abhisek/echotutor/internal/ui/layout"
	"github.com/abhisek/echotutor/internal/ui/theme"
)

// LessonScreen shows one homework or feedback item.
type LessonScreen struct {
	title   string
	label   string
	cursor  session.Cursor
	total   int
	text    string
	braille string
	lesson  bool
}

var _ screen.Screen = (*LessonScreen)(nil)

// NewHomework builds the view of a homework state.
func NewHomework(s session.Homework) *LessonScreen {
	item := s.Item()
	text := item.Question
	if s.Lang == lang.Urdu {
		if tr, ok := item.Translation(); ok {
			text = tr
		} else if item.ScriptUrdu != "" {
			text = item.ScriptUrdu
		}
	}
	return &LessonScreen{
		title:   "Homework",
		label:   "Question",
		cursor:  s.Cursor,
		total:   s.Pack.Len(),
		text:    text,
		braille: item.Braille(s.Lang),
		lesson:  true,
	}
}

// NewFeedback builds the view of a feedback state.
func NewFeedback(s session.Feedback) *LessonScreen {
	item := s.Item()
	text := item.Text
	if s.Lang == lang.Urdu {
		if tr, ok := item.Translation(); ok {
			text = tr
		}
	}
	return &LessonScreen{
		title:   "Feedback",
		label:   "Note",
		cursor:  s.Cursor,
		total:   s.Pack.Len(),
		text:    text,
		braille: item.BrailleCorrection,
	}
}

func (l *LessonScreen) Title() string { return l.title }

func (l *LessonScreen) View(width, height int) string {
	cw := max(min(width-4, 90), 20)

	sections := []string{
		components.NewPosition(l.label, l.cursor.Index, l.total, cw).View(),
		theme.Card.Width(cw).Render(theme.Large.Render(l.text)),
	}
	if l.braille != "" {
		sections = append(sections, theme.Hint.Width(cw).Render("Braille: "+l.braille))
	}
	if l.cursor.Response != "" {
		sections = append(sections, theme.Tutor.Render("Tutor:")+"\n"+theme.Body.Width(cw).Render(l.cursor.Response))
	}
	if status := screens.ModeText(l.cursor.Mode); status != "" {
		sections = append(sections, theme.Notice.Render(status))
	}
	if l.cursor.Notice != "" {
		sections = append(sections, theme.Notice.Width(cw).Render(l.cursor.Notice))
	}

	return lipgloss.NewStyle().Padding(1, 2).MaxHeight(height).Render(strings.Join(sections, "\n\n"))
}

func (l *LessonScreen) KeyHints() []layout.KeyHint {
	if !session.Idle(l.state()) {
		return screens.BusyHints(l.cursor.Mode)
	}
	hints := []layout.KeyHint{{Key: screens.KeyTap, Description: "Record answer"}}
	if l.lesson {
		hints = append(hints, layout.KeyHint{Key: screens.KeyDoubleTap, Description: "Photo answer"})
	} else {
		hints[0].Description = "Read again"
		hints = append(hints, layout.KeyHint{Key: screens.KeyDoubleTap, Description: "Next"})
	}
	return append(hints,
		layout.KeyHint{Key: screens.KeyLongPress, Description: "Command"},
		layout.KeyHint{Key: "←→", Description: "Move"},
		layout.KeyHint{Key: "H", Description: "Home"},
		layout.KeyHint{Key: "Q", Description: "Quit"},
	)
}

// state rebuilds enough of the session state to ask about idleness.
func (l *LessonScreen) state() session.State {
	if l.lesson {
		return session.Homework{Cursor: l.cursor}
	}
	return session.Feedback{Cursor: l.cursor}
}
