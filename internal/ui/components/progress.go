package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/echotutor/internal/ui/theme"
)

// Position shows where the cursor is in a pack as "Item 3 of 12" and a
// bar.
type Position struct {
	Label string
	Index int
	Total int
	Width int
}

// NewPosition creates a position bar for the zero-based index.
func NewPosition(label string, index, total, width int) Position {
	return Position{Label: label, Index: index, Total: total, Width: width}
}

// Fraction is the share of items reached, counting the current one.
func (p Position) Fraction() float64 {
	if p.Total <= 0 {
		return 0
	}
	return float64(p.Index+1) / float64(p.Total)
}

// View renders the position bar.
func (p Position) View() string {
	text := fmt.Sprintf("%s %d of %d", p.Label, p.Index+1, p.Total)
	result := lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(text) + "  "

	barWidth := max(p.Width-lipgloss.Width(result), 4)
	filled := min(max(int(float64(barWidth)*p.Fraction()), 0), barWidth)

	result += theme.ProgressFilled.Render(strings.Repeat(" ", filled)) +
		theme.ProgressEmpty.Render(strings.Repeat(" ", barWidth-filled))
	return result
}
