// Package spatial renders the photo conversation screen.
package spatial

import (
	"fmt"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/echotutor/internal/screen"
	"github.com/abhisek/echotutor/internal/screens"
	"github.com/abhisek/echotutor/internal/session"
	"github.com/abhisek/echotutor/internal/ui/components"
	"github.com/abhisek/echotutor/internal/ui/layout"
	"github.com/abhisek/echotutor/internal/ui/theme"
)

type SpatialScreen struct {
	state session.Spatial
}

var _ screen.Screen = (*SpatialScreen)(nil)

func New(state session.Spatial) *SpatialScreen {
	return &SpatialScreen{state: state}
}

func (s *SpatialScreen) Title() string { return "Explore" }

func (s *SpatialScreen) View(width, height int) string {
	cw := max(width-4, 20)

	top := theme.Hint.Render(fmt.Sprintf("%d photos taken", len(s.state.Photos)))
	var bottom string
	if status := screens.ModeText(s.state.Mode); status != "" {
		bottom = theme.Notice.Render(status)
	}
	if s.state.Notice != "" {
		bottom = theme.Notice.Width(cw).Render(s.state.Notice)
	}

	used := lipgloss.Height(top) + 2
	if bottom != "" {
		used += lipgloss.Height(bottom) + 1
	}
	transcript := components.Transcript{
		Messages:  s.state.Transcript,
		Streaming: s.state.Streaming,
		Width:     cw,
		Height:    max(height-used, 1),
	}

	out := top + "\n\n" + transcript.View()
	if bottom != "" {
		out += "\n\n" + bottom
	}
	return lipgloss.NewStyle().Padding(0, 2).Render(out)
}

func (s *SpatialScreen) KeyHints() []layout.KeyHint {
	switch s.state.Mode {
	case session.AwaitingPhoto:
		hints := []layout.KeyHint{
			{Key: screens.KeyTap, Description: "Repeat help"},
			{Key: screens.KeyDoubleTap, Description: "Take photo"},
		}
		if len(s.state.Photos) > 0 {
			hints = append(hints, layout.KeyHint{Key: screens.KeyLongPress, Description: "Ask"})
		}
		return append(hints,
			layout.KeyHint{Key: "H", Description: "Home"},
			layout.KeyHint{Key: "Q", Description: "Quit"},
		)
	case session.AwaitingCommand:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Ask"},
			{Key: screens.KeyDoubleTap, Description: "New photo"},
			{Key: screens.KeyTap, Description: "Cancel"},
			{Key: "Q", Description: "Quit"},
		}
	default:
		return screens.BusyHints(s.state.Mode)
	}
}
