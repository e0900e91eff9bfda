package session

// Totals counts answers in the session so far.
type Totals struct {
	Answered int
	Correct  int
	Wrong    int
}

// StreakKind names which streak counter is currently active.
type StreakKind string

const (
	StreakNone    StreakKind = "none"
	StreakCorrect StreakKind = "correct"
	StreakSlow    StreakKind = "slow"
	StreakWrong   StreakKind = "wrong"
)

// StreakStatus is a read-only view of the streak counters.
type StreakStatus struct {
	Kind         StreakKind
	CorrectAny   int
	CorrectSlow  int
	WrongAtLevel int
}

// Totals returns answer counts derived from the history.
func (t *Tracker) Totals() Totals {
	var tot Totals
	for _, e := range t.state.History {
		tot.Answered++
		if e.Correct {
			tot.Correct++
		} else {
			tot.Wrong++
		}
	}
	return tot
}

// Accuracy returns the percentage of correct answers, or 0 with no answers.
func (t *Tracker) Accuracy() float64 {
	tot := t.Totals()
	if tot.Answered == 0 {
		return 0
	}
	return float64(tot.Correct) / float64(tot.Answered) * 100
}

// Streak reports the active streak. A slow streak takes precedence over the
// plain correct streak it is part of.
func (t *Tracker) Streak() StreakStatus {
	s := t.state
	st := StreakStatus{
		Kind:         StreakNone,
		CorrectAny:   s.StreakCorrectAny,
		CorrectSlow:  s.StreakCorrectSlow,
		WrongAtLevel: s.StreakWrongAtLevel,
	}
	switch {
	case s.StreakWrongAtLevel > 0:
		st.Kind = StreakWrong
	case s.StreakCorrectSlow > 0:
		st.Kind = StreakSlow
	case s.StreakCorrectAny > 0:
		st.Kind = StreakCorrect
	}
	return st
}
