package analytics

import (
	"github.com/abhisek/bloomclimb/internal/engine"
	"github.com/abhisek/bloomclimb/internal/level"
	"github.com/abhisek/bloomclimb/internal/speed"
)

const (
	// DefaultMinAttempts is the number of answers a level needs before it can
	// be called a weakness or a strength.
	DefaultMinAttempts = 2

	// DefaultWeakBelow is the accuracy percentage under which a level is weak.
	DefaultWeakBelow = 50.0

	// DefaultStrongAtOrAbove is the accuracy percentage from which a level is strong.
	DefaultStrongAtOrAbove = 80.0
)

// Criteria controls how levels are classified as weaknesses or strengths.
type Criteria struct {
	MinAttempts     int     `json:"min_attempts" yaml:"min_attempts"`
	WeakBelow       float64 `json:"weak_below" yaml:"weak_below"`
	StrongAtOrAbove float64 `json:"strong_at_or_above" yaml:"strong_at_or_above"`
}

// DefaultCriteria returns the standard classification thresholds.
func DefaultCriteria() Criteria {
	return Criteria{
		MinAttempts:     DefaultMinAttempts,
		WeakBelow:       DefaultWeakBelow,
		StrongAtOrAbove: DefaultStrongAtOrAbove,
	}
}

// LevelStats aggregates the answers presented at one level.
type LevelStats struct {
	Level           level.Level `json:"level"`
	Attempted       int         `json:"attempted"`
	Correct         int         `json:"correct"`
	Wrong           int         `json:"wrong"`
	AccuracyPercent float64     `json:"accuracy_percent"`
	TotalElapsed    float64     `json:"total_elapsed"`
	AverageElapsed  float64     `json:"average_elapsed"`
}

// SpeedCounts counts answers per speed category.
type SpeedCounts struct {
	Fast     int `json:"fast"`
	Moderate int `json:"moderate"`
	Slow     int `json:"slow"`
}

// LevelChanges counts promotions and demotions.
type LevelChanges struct {
	Up   int `json:"up"`
	Down int `json:"down"`
}

// Summary is the post-session performance digest.
type Summary struct {
	TotalQuestions  int     `json:"total_questions"`
	TotalCorrect    int     `json:"total_correct"`
	TotalWrong      int     `json:"total_wrong"`
	AccuracyPercent float64 `json:"accuracy_percent"`
	TotalElapsed    float64 `json:"total_elapsed"`
	AverageElapsed  float64 `json:"average_elapsed"`

	// Levels has one entry per level in scale order, including unattempted ones.
	Levels []LevelStats `json:"levels"`

	Speeds  SpeedCounts  `json:"speeds"`
	Changes LevelChanges `json:"level_changes"`

	FinalLevel level.Level `json:"final_level"`
	PeakLevel  level.Level `json:"peak_level"`

	// Weaknesses and Strengths are in scale order and never overlap.
	Weaknesses []level.Level `json:"weaknesses"`
	Strengths  []level.Level `json:"strengths"`
}

// Empty reports whether the summary was built from no answers.
func (s Summary) Empty() bool { return s.TotalQuestions == 0 }

// Level returns the statistics for l, or a zero entry for an unknown level.
func (s Summary) Level(l level.Level) LevelStats {
	for _, ls := range s.Levels {
		if ls.Level == l {
			return ls
		}
	}
	return LevelStats{Level: l}
}

// GenerateSummary summarizes history with DefaultCriteria.
func GenerateSummary(history []engine.HistoryEntry, final level.Level) Summary {
	return GenerateSummaryWith(DefaultCriteria(), history, final)
}

// GenerateSummaryWith summarizes history, bucketing answers by the level
// they were presented at.
func GenerateSummaryWith(c Criteria, history []engine.HistoryEntry, final level.Level) Summary {
	if c.MinAttempts <= 0 {
		c.MinAttempts = DefaultMinAttempts
	}
	final = level.Clamp(final)

	s := Summary{
		FinalLevel: final,
		PeakLevel:  final,
		Levels:     make([]LevelStats, 0, level.Count),
		Weaknesses: []level.Level{},
		Strengths:  []level.Level{},
	}
	buckets := make(map[level.Level]*LevelStats, level.Count)
	for _, l := range level.All() {
		s.Levels = append(s.Levels, LevelStats{Level: l})
	}
	for i := range s.Levels {
		buckets[s.Levels[i].Level] = &s.Levels[i]
	}

	for _, e := range history {
		s.TotalQuestions++
		s.TotalElapsed += e.Elapsed

		b := buckets[level.Clamp(e.PresentedLevel)]
		b.Attempted++
		b.TotalElapsed += e.Elapsed
		if e.Correct {
			s.TotalCorrect++
			b.Correct++
		} else {
			s.TotalWrong++
			b.Wrong++
		}

		switch e.Speed {
		case speed.Fast:
			s.Speeds.Fast++
		case speed.Moderate:
			s.Speeds.Moderate++
		default:
			s.Speeds.Slow++
		}

		switch {
		case e.ResultingLevel > e.PreviousLevel:
			s.Changes.Up++
		case e.ResultingLevel < e.PreviousLevel:
			s.Changes.Down++
		}
		for _, l := range []level.Level{e.PreviousLevel, e.ResultingLevel} {
			if l.Valid() && l > s.PeakLevel {
				s.PeakLevel = l
			}
		}
	}

	if s.TotalQuestions > 0 {
		s.AccuracyPercent = percent(s.TotalCorrect, s.TotalQuestions)
		s.AverageElapsed = s.TotalElapsed / float64(s.TotalQuestions)
	}

	for i := range s.Levels {
		ls := &s.Levels[i]
		if ls.Attempted == 0 {
			continue
		}
		ls.AccuracyPercent = percent(ls.Correct, ls.Attempted)
		ls.AverageElapsed = ls.TotalElapsed / float64(ls.Attempted)

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

func percent(n, d int) float64 {
	return float64(n) / float64(d) * 100
}
