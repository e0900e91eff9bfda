// Package theme holds the lipgloss styles used for terminal output.
package theme

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/bloomclimb/internal/level"
)

// Color palette
var (
	Primary   = lipgloss.Color("#8B5CF6") // Vivid Purple
	Secondary = lipgloss.Color("#14B8A6") // Teal
	Accent    = lipgloss.Color("#F97316") // Orange
	Success   = lipgloss.Color("#22C55E") // Green
	Error     = lipgloss.Color("#F43F5E") // Rose
	Text      = lipgloss.Color("#F8FAFC") // White
	TextDim   = lipgloss.Color("#94A3B8") // Slate
	Border    = lipgloss.Color("#334155") // Slate
)

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary)

	Subtitle = lipgloss.NewStyle().
			Foreground(TextDim)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)
)

// States
var (
	Correct = lipgloss.NewStyle().
		Foreground(Success).
		Bold(true)

	Incorrect = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)

	LevelUp = lipgloss.NewStyle().
		Foreground(Success)

	LevelDown = lipgloss.NewStyle().
			Foreground(Accent)

	Badge = lipgloss.NewStyle().
		Foreground(Text).
		Background(Primary).
		Padding(0, 1)
)

// Components
var (
	ProgressFilled = lipgloss.NewStyle().
			Background(Secondary)

	ProgressEmpty = lipgloss.NewStyle().
			Background(Border)
)

// Mark renders a check or cross for an answer.
func Mark(correct bool) string {
	if correct {
		return Correct.Render("✓")
	}
	return Incorrect.Render("✗")
}

// Transition renders "from → to", coloured by direction.
func Transition(from, to level.Level) string {
	s := from.DisplayName() + " → " + to.DisplayName()
	switch {
	case to > from:
		return LevelUp.Render(s)
	case to < from:
		return LevelDown.Render(s)
	}
	return Subtitle.Render(s)
}
