package home

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/echotutor/internal/screen"
	"github.com/abhisek/echotutor/internal/session"
	"github.com/abhisek/echotutor/internal/ui/layout"
	"github.com/abhisek/echotutor/internal/ui/theme"
)

// HomeScreen shows the three destinations and the loaded pack sizes.
type HomeScreen struct {
	state session.Home
}

var _ screen.Screen = (*HomeScreen)(nil)

func New(state session.Home) *HomeScreen {
	return &HomeScreen{state: state}
}

func (h *HomeScreen) Title() string { return "Home" }

func (h *HomeScreen) View(width, height int) string {
	cw := min(width-4, 64)

	entries := []string{
		entry("Space", "Homework", packLine(h.state.Lessons, h.state.LessonsMissing, "questions")),
		entry("D", "Feedback", packLine(h.state.Feedback, h.state.FeedbackMissing, "notes")),
		entry("L", "Explore", "Take photos and ask about them"),
	}

	sections := []string{
		theme.Title.Width(cw).Render("EchoTutor"),
		theme.Card.Width(cw).Render(strings.Join(entries, "\n\n")),
	}
	if h.state.Notice != "" {
		sections = append(sections, theme.Notice.Width(cw).Render(h.state.Notice))
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center, sections...))
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Space", Description: "Homework"},
		{Key: "D", Description: "Feedback"},
		{Key: "L", Description: "Explore"},
		{Key: "Q", Description: "Quit"},
	}
}

func entry(key, name, detail string) string {
	return theme.Mode.Render(key) + "  " + theme.Large.Render(name) + "\n" + theme.Hint.Render("      "+detail)
}

func packLine(n int, missing bool, noun string) string {
	if missing {
		return "Not available"
	}
	return fmt.Sprintf("%d %s", n, noun)
}

// LoadingScreen is shown until the content scan finishes.
type LoadingScreen struct{}

var _ screen.Screen = LoadingScreen{}

func (LoadingScreen) Title() string { return "Loading" }

func (LoadingScreen) View(width, height int) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		theme.Large.Render("Loading lessons..."))
}

func (LoadingScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{{Key: "Q", Description: "Quit"}}
}
