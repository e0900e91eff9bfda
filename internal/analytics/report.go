package analytics

import (
	"fmt"
	"strings"

	"github.com/abhisek/bloomclimb/internal/level"
)

// FormatReport renders a summary as a plain multi-line report. The output
// depends only on the summary, so equal summaries give equal reports.
func FormatReport(s Summary) string {
	var b strings.Builder

	b.WriteString("Session report\n")
	if s.Empty() {
		b.WriteString("No questions answered.\n")
		fmt.Fprintf(&b, "Final level: %s\n", s.FinalLevel.DisplayName())
		return b.String()
	}

	fmt.Fprintf(&b, "Questions: %d (correct %d, wrong %d)\n", s.TotalQuestions, s.TotalCorrect, s.TotalWrong)
	fmt.Fprintf(&b, "Accuracy: %.1f%%\n", s.AccuracyPercent)
	fmt.Fprintf(&b, "Time: %.1fs total, %.1fs average\n", s.TotalElapsed, s.AverageElapsed)
	fmt.Fprintf(&b, "Speed: %d fast, %d moderate, %d slow\n", s.Speeds.Fast, s.Speeds.Moderate, s.Speeds.Slow)
	fmt.Fprintf(&b, "Level changes: %d up, %d down\n", s.Changes.Up, s.Changes.Down)
	fmt.Fprintf(&b, "Final level: %s (peak %s)\n", s.FinalLevel.DisplayName(), s.PeakLevel.DisplayName())

	b.WriteString("\nPer level:\n")
	for _, ls := range s.Levels {
		if ls.Attempted == 0 {
			fmt.Fprintf(&b, "  %-10s  -\n", ls.Level.DisplayName())
			continue
		}
		fmt.Fprintf(&b, "  %-10s  %d/%d correct  %5.1f%%  avg %.1fs\n",
			ls.Level.DisplayName(), ls.Correct, ls.Attempted, ls.AccuracyPercent, ls.AverageElapsed)
	}

	fmt.Fprintf(&b, "\nWeaknesses: %s\n", joinLevels(s.Weaknesses))
	fmt.Fprintf(&b, "Strengths: %s\n", joinLevels(s.Strengths))
	return b.String()
}

func joinLevels(ls []level.Level) string {
	if len(ls) == 0 {
		return "none"
	}
	names := make([]string, len(ls))
	for i, l := range ls {
		names[i] = l.DisplayName()
	}
	return strings.Join(names, ", ")
}
