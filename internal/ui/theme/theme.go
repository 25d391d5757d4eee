// Package theme holds the high-contrast palette. Students using the
// screen are low-vision, so every foreground sits on pure black and
// nothing relies on color alone.
package theme

import (
	"charm.land/lipgloss/v2"
)

// Color palette
var (
	Primary   = lipgloss.Color("#FFD700") // Gold
	Secondary = lipgloss.Color("#00FFFF") // Cyan
	Accent    = lipgloss.Color("#FF9F1C") // Amber
	Success   = lipgloss.Color("#39FF14") // Green
	Error     = lipgloss.Color("#FF5C5C") // Red
	Text      = lipgloss.Color("#FFFFFF")
	TextDim   = lipgloss.Color("#C8C8C8") // still 12:1 on black
	BgDark    = lipgloss.Color("#000000")
	BgCard    = lipgloss.Color("#111111")
	Border    = lipgloss.Color("#FFFFFF")
)

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		Align(lipgloss.Center)

	Subtitle = lipgloss.NewStyle().
			Foreground(TextDim).
			Align(lipgloss.Center)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Large = lipgloss.NewStyle().
		Foreground(Text).
		Bold(true)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)
)

// Layout
var (
	Card = lipgloss.NewStyle().
		Background(BgCard).
		Border(lipgloss.ThickBorder()).
		BorderForeground(Border).
		Padding(1, 2)
)

// States
var (
	// Mode is the badge naming the session mode.
	Mode = lipgloss.NewStyle().
		Background(Primary).
		Foreground(BgDark).
		Bold(true).
		Padding(0, 1)

	// Busy marks modes that a tap would cancel.
	Busy = lipgloss.NewStyle().
		Background(Accent).
		Foreground(BgDark).
		Bold(true).
		Padding(0, 1)

	Notice = lipgloss.NewStyle().
		Foreground(Primary).
		Bold(true)

	Failure = lipgloss.NewStyle().
		Foreground(Error).
		Bold(true)
)

// Transcript roles
var (
	Student = lipgloss.NewStyle().
		Foreground(Secondary).
		Bold(true)

	Tutor = lipgloss.NewStyle().
		Foreground(Success).
		Bold(true)

	Status = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)
)

// Components
var (
	ProgressFilled = lipgloss.NewStyle().
			Background(Secondary)

	ProgressEmpty = lipgloss.NewStyle().
			Background(BgCard)

	// Speaking highlights the caption currently being read out.
	Speaking = lipgloss.NewStyle().
			Foreground(BgDark).
			Background(Text).
			Bold(true).
			Padding(0, 1)
)
