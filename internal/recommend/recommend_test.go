package recommend

import (
	"testing"

	"github.com/abhisek/bloomclimb/internal/analytics"
	"github.com/abhisek/bloomclimb/internal/level"
)

func summaryWith(final level.Level, stats map[level.Level][2]int) analytics.Summary {
	var s analytics.Summary
	s.FinalLevel = final
	for _, l := range level.All() {
		ls := analytics.LevelStats{Level: l}
		if st, ok := stats[l]; ok {
			ls.Attempted, ls.Correct = st[0], st[1]
			ls.Wrong = ls.Attempted - ls.Correct
			ls.AccuracyPercent = float64(ls.Correct) / float64(ls.Attempted) * 100
			s.TotalQuestions += ls.Attempted
			s.TotalCorrect += ls.Correct
		}
		s.Levels = append(s.Levels, ls)
	}
	c := analytics.DefaultCriteria()
	for _, ls := range s.Levels {
		if ls.Attempted < c.MinAttempts {
			continue
		}
		switch {
		case ls.AccuracyPercent < c.WeakBelow:
			s.Weaknesses = append(s.Weaknesses, ls.Level)
		case ls.AccuracyPercent >= c.StrongAtOrAbove:
			s.Strengths = append(s.Strengths, ls.Level)
		}
	}
	return s
}

func focuses(recs []Recommendation) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = string(r.Focus) + ":" + r.Level.String()
	}
	return out
}

func TestSelect(t *testing.T) {
	tests := []struct {
		name    string
		summary analytics.Summary
		want    []string
	}{
		{
			name:    "empty history",
			summary: analytics.Summary{FinalLevel: level.Analyze},
			want:    []string{"diagnose:analyze"},
		},
		{
			name: "weaknesses lowest accuracy first",
			summary: summaryWith(level.Apply, map[level.Level][2]int{
				level.Understand: {4, 1},
				level.Apply:      {3, 0},
				level.Analyze:    {2, 0},
			}),
			want: []string{"remediate:apply", "remediate:analyze", "remediate:understand"},
		},
		{
			name: "strength below final level is skipped",
			summary: summaryWith(level.Evaluate, map[level.Level][2]int{
				level.Apply:    {3, 3},
				level.Evaluate: {5, 4},
			}),
			want: []string{"reinforce:evaluate", "stretch:create"},
		},
		{
			name: "no stretch at the top",
			summary: summaryWith(level.Create, map[level.Level][2]int{
				level.Create: {2, 2},
			}),
			want: []string{"reinforce:create"},
		},
		{
			name: "weakness suppresses stretch",
			summary: summaryWith(level.Analyze, map[level.Level][2]int{
				level.Remember: {2, 0},
				level.Analyze:  {2, 2},
			}),
			want: []string{"remediate:remember", "reinforce:analyze"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := focuses(Select(tt.summary))
			if len(got) != len(tt.want) {
				t.Fatalf("Select = %v, want %v", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("Select[%d] = %s, want %s", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestSelect_ReasonsSet(t *testing.T) {
	s := summaryWith(level.Apply, map[level.Level][2]int{level.Apply: {2, 0}})
	for _, r := range Select(s) {
		if r.Reason == "" {
			t.Errorf("empty reason for %s", r.Level)
		}
	}
}
