package engine

import (
	"fmt"
	"math"
	"time"

	"github.com/abhisek/bloomclimb/internal/level"
	"github.com/abhisek/bloomclimb/internal/speed"
)

// State is the running state of one student's session. It is a plain value:
// ProcessAnswer returns a new State rather than mutating its argument.
type State struct {
	// CurrentLevel is the level the next question should be drawn from.
	CurrentLevel level.Level

	// StreakCorrectAny counts consecutive correct answers of any speed.
	StreakCorrectAny int

	// StreakCorrectSlow counts consecutive correct but slow answers.
	StreakCorrectSlow int

	// StreakWrongAtLevel counts consecutive wrong answers since the last level change.
	StreakWrongAtLevel int

	// History is the chronological, append-only answer log.
	History []HistoryEntry
}

// NewState returns a fresh state at the given starting level.
func NewState(start level.Level) State {
	return State{CurrentLevel: level.Clamp(start)}
}

// Consistent reports whether the streak counters respect the mutual exclusion
// between the correct-streak family and the wrong-streak counter.
func (s State) Consistent() bool {
	if s.StreakCorrectAny < 0 || s.StreakCorrectSlow < 0 || s.StreakWrongAtLevel < 0 {
		return false
	}
	if s.StreakCorrectSlow > s.StreakCorrectAny {
		return false
	}
	correct := s.StreakCorrectAny > 0 || s.StreakCorrectSlow > 0
	return !(correct && s.StreakWrongAtLevel > 0)
}

// Clone returns a copy whose History does not share a backing array with s.
func (s State) Clone() State {
	out := s
	if s.History != nil {
		out.History = make([]HistoryEntry, len(s.History))
		copy(out.History, s.History)
	}
	return out
}

// AnswerEvent is one answered question as reported by the quiz flow.
type AnswerEvent struct {
	QuestionID string
	// Level is the level the question was presented at.
	Level   level.Level
	Correct bool
	// Elapsed is the answer time in seconds.
	Elapsed float64
	// Thresholds are the instructor-configured boundaries for this question.
	Thresholds speed.Thresholds
}

// HistoryEntry is the audit record appended once per answer. Streak fields
// hold the counters after the answer was processed.
type HistoryEntry struct {
	Timestamp          time.Time
	QuestionID         string
	Correct            bool
	Elapsed            float64
	Speed              speed.Category
	PresentedLevel     level.Level
	PreviousLevel      level.Level
	ResultingLevel     level.Level
	Rule               Rule
	StreakCorrectAny   int
	StreakCorrectSlow  int
	StreakWrongAtLevel int
}

// LevelChanged reports whether this answer moved the session to another level.
func (e HistoryEntry) LevelChanged() bool {
	return e.PreviousLevel != e.ResultingLevel
}

// Outcome is the result of processing one answer.
type Outcome struct {
	Speed         speed.Category
	PreviousLevel level.Level
	NextLevel     level.Level
	LevelChanged  bool
	// Saturated is set when a rule asked for a level change that the scale
	// bounds absorbed.
	Saturated bool
	Rule      Rule
	State     State
	// Justification describes the rule that fired. It is for auditing only.
	Justification string
}

// Entry builds the history record for this outcome.
func (o Outcome) Entry(ev AnswerEvent, at time.Time) HistoryEntry {
	return HistoryEntry{
		Timestamp:          at,
		QuestionID:         ev.QuestionID,
		Correct:            ev.Correct,
		Elapsed:            clampElapsed(ev.Elapsed),
		Speed:              o.Speed,
		PresentedLevel:     ev.Level,
		PreviousLevel:      o.PreviousLevel,
		ResultingLevel:     o.NextLevel,
		Rule:               o.Rule,
		StreakCorrectAny:   o.State.StreakCorrectAny,
		StreakCorrectSlow:  o.State.StreakCorrectSlow,
		StreakWrongAtLevel: o.State.StreakWrongAtLevel,
	}
}

// MaxElapsed caps recorded answer times, in seconds.
const MaxElapsed = 24 * 60 * 60

// CheckElapsed rejects answer times that are not finite numbers. Negative
// times are accepted and recorded as 0.
func CheckElapsed(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("elapsed must be a finite number of seconds, got %v", v)
	}
	return nil
}

// clampElapsed maps an answer time into [0, MaxElapsed] so every history
// entry stays encodable. NaN counts as 0, like a negative time, and +Inf
// becomes MaxElapsed.
func clampElapsed(v float64) float64 {
	switch {
	case math.IsNaN(v) || v < 0:
		return 0
	case v > MaxElapsed:
		return MaxElapsed
	}
	return v
}
