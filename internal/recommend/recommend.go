// Package recommend chooses which levels follow-up content should target
// after a session. It selects levels only; producing the content is left to
// the caller.
package recommend

import (
	"fmt"
	"sort"

	"github.com/abhisek/bloomclimb/internal/analytics"
	"github.com/abhisek/bloomclimb/internal/level"
)

// Focus is the reason a level was selected.
type Focus string

const (
	FocusDiagnose  Focus = "diagnose"
	FocusRemediate Focus = "remediate"
	FocusReinforce Focus = "reinforce"
	FocusStretch   Focus = "stretch"
)

// Recommendation is one selected level.
type Recommendation struct {
	Level  level.Level
	Focus  Focus
	Reason string
}

// Select builds the ordered recommendation list for a session summary:
// remediation of weak levels first (lowest accuracy first), then
// reinforcement of strong levels at or above the final level, then a
// stretch goal when nothing is weak. A summary without answers yields a
// single diagnostic recommendation.
func Select(s analytics.Summary) []Recommendation {
	final := level.Clamp(s.FinalLevel)
	if s.Empty() {
		return []Recommendation{{
			Level:  final,
			Focus:  FocusDiagnose,
			Reason: fmt.Sprintf("no answers recorded, start a diagnostic at %s", final.DisplayName()),
		}}
	}

	var recs []Recommendation

	weak := make([]analytics.LevelStats, 0, len(s.Weaknesses))
	for _, l := range s.Weaknesses {
		weak = append(weak, s.Level(l))
	}
	sort.SliceStable(weak, func(i, j int) bool {
		if weak[i].AccuracyPercent != weak[j].AccuracyPercent {
			return weak[i].AccuracyPercent < weak[j].AccuracyPercent
		}
		return weak[i].Level < weak[j].Level
	})
	for _, ls := range weak {
		recs = append(recs, Recommendation{
			Level:  ls.Level,
			Focus:  FocusRemediate,
			Reason: fmt.Sprintf("%.0f%% accuracy over %d answers", ls.AccuracyPercent, ls.Attempted),
		})
	}

	for _, l := range s.Strengths {
		if l < final {
			continue
		}
		ls := s.Level(l)
		recs = append(recs, Recommendation{
			Level:  l,
			Focus:  FocusReinforce,
			Reason: fmt.Sprintf("%.0f%% accuracy over %d answers", ls.AccuracyPercent, ls.Attempted),
		})
	}

	if len(s.Weaknesses) == 0 && final < level.Max {
		next := level.Increase(final, 1)
		recs = append(recs, Recommendation{
			Level:  next,
			Focus:  FocusStretch,
			Reason: fmt.Sprintf("no weak levels, try %s", next.DisplayName()),
		})
	}
	return recs
}
