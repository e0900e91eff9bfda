package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/bloomclimb/internal/level"
	"github.com/abhisek/bloomclimb/internal/ui/theme"
)

// ProgressBar displays a horizontal progress bar.
type ProgressBar struct {
	Label       string
	Percent     float64 // 0..1
	ShowPercent bool
	Width       int
}

// NewProgressBar creates a new progress bar.
func NewProgressBar(label string, percent float64, showPercent bool, width int) ProgressBar {
	return ProgressBar{
		Label:       label,
		Percent:     percent,
		ShowPercent: showPercent,
		Width:       width,
	}
}

// Cells returns the number of filled and empty cells for the bar area.
func (p ProgressBar) Cells(barWidth int) (filled, empty int) {
	filled = int(float64(barWidth) * p.Percent)
	filled = max(0, min(filled, barWidth))
	return filled, barWidth - filled
}

// View renders the progress bar.
func (p ProgressBar) View() string {
	var result string

	if p.Label != "" {
		result += lipgloss.NewStyle().Foreground(theme.Text).Render(p.Label) + "  "
	}

	labelWidth := lipgloss.Width(result)
	percentWidth := 0
	if p.ShowPercent {
		percentWidth = 6 // " 100%"
	}

	barWidth := max(p.Width-labelWidth-percentWidth, 4)
	filled, empty := p.Cells(barWidth)

	result += theme.ProgressFilled.Render(strings.Repeat(" ", filled)) +
		theme.ProgressEmpty.Render(strings.Repeat(" ", empty))

	if p.ShowPercent {
		result += theme.Subtitle.Render(fmt.Sprintf("  %d%%", int(p.Percent*100)))
	}
	return result
}

// LevelLadder renders the difficulty scale as a bar filled up to current.
func LevelLadder(current level.Level, width int) ProgressBar {
	current = level.Clamp(current)
	pct := float64(current.Index()+1) / float64(level.Count)
	return NewProgressBar(current.DisplayName(), pct, false, width)
}
