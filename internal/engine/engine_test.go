package engine

import (
	"encoding/json"
	"math"
	"math/rand"
	"testing"

	"github.com/abhisek/bloomclimb/internal/level"
	"github.com/abhisek/bloomclimb/internal/speed"
)

var testThresholds = speed.Thresholds{Fast: 10, Slow: 30}

func answer(correct bool, elapsed float64) AnswerEvent {
	return AnswerEvent{
		QuestionID: "q",
		Correct:    correct,
		Elapsed:    elapsed,
		Thresholds: testThresholds,
	}
}

const (
	fastSecs     = 5
	moderateSecs = 20
	slowSecs     = 45
)

func run(t *testing.T, start level.Level, events ...AnswerEvent) (State, []Outcome) {
	t.Helper()
	state := NewState(start)
	var outs []Outcome
	for _, ev := range events {
		out := ProcessAnswer(DefaultRules(), state, ev)
		outs = append(outs, out)
		state = out.State
	}
	return state, outs
}

func TestCorrectFast_IncreasesOneLevel(t *testing.T) {
	for _, start := range level.All() {
		_, outs := run(t, start, answer(true, fastSecs))
		out := outs[0]
		want := level.Increase(start, 1)
		if out.NextLevel != want {
			t.Errorf("start %s: NextLevel = %s, want %s", start, out.NextLevel, want)
		}
		if out.Rule != RuleCorrectFast {
			t.Errorf("start %s: Rule = %s, want %s", start, out.Rule, RuleCorrectFast)
		}
		if out.Speed != speed.Fast {
			t.Errorf("start %s: Speed = %s, want fast", start, out.Speed)
		}
	}
}

func TestCorrectFast_SaturatesAtMax(t *testing.T) {
	_, outs := run(t, level.Max, answer(true, fastSecs))
	out := outs[0]
	if out.NextLevel != level.Max {
		t.Errorf("NextLevel = %s, want %s", out.NextLevel, level.Max)
	}
	if out.LevelChanged {
		t.Error("expected LevelChanged = false at the top of the scale")
	}
	if !out.Saturated {
		t.Error("expected Saturated = true")
	}
}

func TestCorrectModerate_ThirdInARowPromotes(t *testing.T) {
	state, outs := run(t, level.Apply,
		answer(true, moderateSecs),
		answer(true, moderateSecs),
		answer(true, moderateSecs),
	)

	wantLevels := []level.Level{level.Apply, level.Apply, level.Analyze}
	wantRules := []Rule{RuleCorrectModerate, RuleCorrectModerate, RuleCorrectModerateStreak}
	for i, out := range outs {
		if out.NextLevel != wantLevels[i] {
			t.Errorf("answer %d: NextLevel = %s, want %s", i+1, out.NextLevel, wantLevels[i])
		}
		if out.Rule != wantRules[i] {
			t.Errorf("answer %d: Rule = %s, want %s", i+1, out.Rule, wantRules[i])
		}
		if out.State.StreakCorrectSlow != 0 {
			t.Errorf("answer %d: StreakCorrectSlow = %d, want 0", i+1, out.State.StreakCorrectSlow)
		}
	}
	if state.StreakCorrectAny != 3 {
		t.Errorf("StreakCorrectAny = %d, want 3", state.StreakCorrectAny)
	}
}

func TestCorrectSlow_ThirdInARowPromotes(t *testing.T) {
	_, outs := run(t, level.Apply,
		answer(true, slowSecs),
		answer(true, slowSecs),
		answer(true, slowSecs),
	)

	wantSlow := []int{1, 2, 0}
	wantLevels := []level.Level{level.Apply, level.Apply, level.Analyze}
	for i, out := range outs {
		if out.State.StreakCorrectSlow != wantSlow[i] {
			t.Errorf("answer %d: StreakCorrectSlow = %d, want %d", i+1, out.State.StreakCorrectSlow, wantSlow[i])
		}
		if out.NextLevel != wantLevels[i] {
			t.Errorf("answer %d: NextLevel = %s, want %s", i+1, out.NextLevel, wantLevels[i])
		}
	}
	if outs[2].Rule != RuleCorrectSlowStreak {
		t.Errorf("Rule = %s, want %s", outs[2].Rule, RuleCorrectSlowStreak)
	}
}

func TestCorrectSlow_StreakBrokenByFasterAnswer(t *testing.T) {
	_, outs := run(t, level.Apply,
		answer(true, slowSecs),
		answer(true, slowSecs),
		answer(true, moderateSecs),
		answer(true, slowSecs),
	)
	if got := outs[2].State.StreakCorrectSlow; got != 0 {
		t.Errorf("StreakCorrectSlow after moderate = %d, want 0", got)
	}
	// The moderate answer is the third correct in a row, so it promotes.
	if outs[2].Rule != RuleCorrectModerateStreak {
		t.Errorf("Rule = %s, want %s", outs[2].Rule, RuleCorrectModerateStreak)
	}
	if got := outs[3].State.StreakCorrectSlow; got != 1 {
		t.Errorf("StreakCorrectSlow after restart = %d, want 1", got)
	}
}

func TestWrongSlow_DemotesImmediately(t *testing.T) {
	state, outs := run(t, level.Apply, answer(false, slowSecs))
	out := outs[0]
	if out.NextLevel != level.Understand {
		t.Errorf("NextLevel = %s, want understand", out.NextLevel)
	}
	if state.StreakWrongAtLevel != 0 {
		t.Errorf("StreakWrongAtLevel = %d, want 0", state.StreakWrongAtLevel)
	}
	if out.Rule != RuleWrongSlow {
		t.Errorf("Rule = %s, want %s", out.Rule, RuleWrongSlow)
	}
}

func TestWrongModerate_SecondInARowDemotes(t *testing.T) {
	_, outs := run(t, level.Apply,
		answer(false, moderateSecs),
		answer(false, moderateSecs),
	)
	if outs[0].NextLevel != level.Apply {
		t.Errorf("after first wrong: NextLevel = %s, want apply", outs[0].NextLevel)
	}
	if outs[0].State.StreakWrongAtLevel != 1 {
		t.Errorf("after first wrong: StreakWrongAtLevel = %d, want 1", outs[0].State.StreakWrongAtLevel)
	}
	if outs[0].Rule != RuleWrongFirst {
		t.Errorf("after first wrong: Rule = %s, want %s", outs[0].Rule, RuleWrongFirst)
	}
	if outs[1].NextLevel != level.Understand {
		t.Errorf("after second wrong: NextLevel = %s, want understand", outs[1].NextLevel)
	}
	if outs[1].State.StreakWrongAtLevel != 0 {
		t.Errorf("after second wrong: StreakWrongAtLevel = %d, want 0", outs[1].State.StreakWrongAtLevel)
	}
}

func TestWrongFast_CountsTowardStreak(t *testing.T) {
	_, outs := run(t, level.Evaluate,
		answer(false, fastSecs),
		answer(false, fastSecs),
	)
	if outs[1].NextLevel != level.Analyze {
		t.Errorf("NextLevel = %s, want analyze", outs[1].NextLevel)
	}
}

func TestWrong_ResetsCorrectStreaks(t *testing.T) {
	_, outs := run(t, level.Apply,
		answer(true, slowSecs),
		answer(true, slowSecs),
		answer(false, moderateSecs),
	)
	st := outs[2].State
	if st.StreakCorrectAny != 0 || st.StreakCorrectSlow != 0 {
		t.Errorf("correct streaks = (%d, %d), want (0, 0)", st.StreakCorrectAny, st.StreakCorrectSlow)
	}
	if st.StreakWrongAtLevel != 1 {
		t.Errorf("StreakWrongAtLevel = %d, want 1", st.StreakWrongAtLevel)
	}
}

func TestWrongSlow_SaturatesAtMin(t *testing.T) {
	_, outs := run(t, level.Min, answer(false, slowSecs))
	if outs[0].NextLevel != level.Min {
		t.Errorf("NextLevel = %s, want %s", outs[0].NextLevel, level.Min)
	}
	if !outs[0].Saturated {
		t.Error("expected Saturated = true at the bottom of the scale")
	}
	if outs[0].State.StreakWrongAtLevel != 0 {
		t.Errorf("StreakWrongAtLevel = %d, want 0", outs[0].State.StreakWrongAtLevel)
	}
}

func TestScenario_FastFastFromFourth(t *testing.T) {
	_, outs := run(t, level.Default, answer(true, fastSecs), answer(true, fastSecs))
	if outs[0].NextLevel != level.Evaluate {
		t.Errorf("first: NextLevel = %s, want evaluate", outs[0].NextLevel)
	}
	if outs[1].NextLevel != level.Create {
		t.Errorf("second: NextLevel = %s, want create", outs[1].NextLevel)
	}
}

func TestProcessAnswer_DoesNotMutateInput(t *testing.T) {
	state := NewState(level.Apply)
	state.History = make([]HistoryEntry, 1, 4)
	state.History[0] = HistoryEntry{QuestionID: "first"}
	before := state.Clone()

	out := ProcessAnswer(DefaultRules(), state, answer(true, fastSecs))

	if state.CurrentLevel != before.CurrentLevel || state.StreakCorrectAny != before.StreakCorrectAny {
		t.Errorf("input state mutated: %+v", state)
	}
	if len(out.State.History) != 1 {
		t.Errorf("len(History) = %d, want 1", len(out.State.History))
	}
}

func TestProcessAnswer_NegativeElapsedIsFast(t *testing.T) {
	_, outs := run(t, level.Apply, AnswerEvent{Correct: true, Elapsed: -4, Thresholds: speed.Thresholds{Fast: 0, Slow: 5}})
	if outs[0].Speed != speed.Fast {
		t.Errorf("Speed = %s, want fast", outs[0].Speed)
	}
}

func TestProcessAnswer_NonFiniteElapsed(t *testing.T) {
	tests := []struct {
		name        string
		elapsed     float64
		wantSpeed   speed.Category
		wantElapsed float64
	}{
		{"NaN", math.NaN(), speed.Fast, 0},
		{"+Inf", math.Inf(1), speed.Slow, MaxElapsed},
		{"-Inf", math.Inf(-1), speed.Fast, 0},
		{"beyond cap", 2 * MaxElapsed, speed.Slow, MaxElapsed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := answer(false, tt.elapsed)
			ev.Level = level.Apply
			out := ProcessAnswer(DefaultRules(), NewState(level.Apply), ev)
			if out.Speed != tt.wantSpeed {
				t.Errorf("Speed = %s, want %s", out.Speed, tt.wantSpeed)
			}

			e := out.Entry(ev, testTime)
			if e.Elapsed != tt.wantElapsed {
				t.Errorf("Elapsed = %v, want %v", e.Elapsed, tt.wantElapsed)
			}
			if _, err := json.Marshal(e); err != nil {
				t.Errorf("entry not encodable: %v", err)
			}
		})
	}
}

func TestProcessAnswer_NormalizesRules(t *testing.T) {
	out := ProcessAnswer(Rules{}, NewState(level.Apply), answer(true, fastSecs))
	if out.NextLevel != level.Analyze {
		t.Errorf("NextLevel = %s, want analyze", out.NextLevel)
	}
}

func TestProcessAnswer_CustomStep(t *testing.T) {
	rules := DefaultRules()
	rules.Step = 2
	out := ProcessAnswer(rules, NewState(level.Understand), answer(true, fastSecs))
	if out.NextLevel != level.Analyze {
		t.Errorf("NextLevel = %s, want analyze", out.NextLevel)
	}
}

func TestJustification_NotEmpty(t *testing.T) {
	_, outs := run(t, level.Apply,
		answer(true, fastSecs),
		answer(true, moderateSecs),
		answer(true, slowSecs),
		answer(false, moderateSecs),
		answer(false, slowSecs),
	)
	for i, out := range outs {
		if out.Justification == "" {
			t.Errorf("answer %d: empty justification", i+1)
		}
	}
}

// Randomized sequences must keep every invariant after every answer.
func TestInvariants_RandomSequences(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	speeds := []float64{fastSecs, moderateSecs, slowSecs}

	for trial := 0; trial < 200; trial++ {
		state := NewState(level.All()[rng.Intn(level.Count)])
		for i := 0; i < 60; i++ {
			ev := answer(rng.Intn(2) == 0, speeds[rng.Intn(len(speeds))])
			out := ProcessAnswer(DefaultRules(), state, ev)

			if !out.NextLevel.Valid() {
				t.Fatalf("trial %d step %d: level %d out of range", trial, i, out.NextLevel)
			}
			if !out.State.Consistent() {
				t.Fatalf("trial %d step %d: inconsistent streaks %+v", trial, i, out.State)
			}
			if out.LevelChanged && out.State.StreakWrongAtLevel != 0 {
				t.Fatalf("trial %d step %d: wrong streak %d after a level change", trial, i, out.State.StreakWrongAtLevel)
			}
			if out.LevelChanged != (out.PreviousLevel != out.NextLevel) {
				t.Fatalf("trial %d step %d: LevelChanged disagrees with levels", trial, i)
			}
			if !ev.Correct && (out.State.StreakCorrectAny != 0 || out.State.StreakCorrectSlow != 0) {
				t.Fatalf("trial %d step %d: correct streak survived a wrong answer", trial, i)
			}
			state = out.State
		}
	}
}

func TestOutcome_Entry(t *testing.T) {
	ev := answer(false, slowSecs)
	ev.QuestionID = "q-17"
	ev.Level = level.Apply
	out := ProcessAnswer(DefaultRules(), NewState(level.Apply), ev)

	e := out.Entry(ev, testTime)
	if e.QuestionID != "q-17" || e.Correct || e.Speed != speed.Slow {
		t.Errorf("unexpected entry %+v", e)
	}
	if e.PresentedLevel != level.Apply || e.ResultingLevel != level.Understand {
		t.Errorf("levels = %s -> %s, want apply -> understand", e.PresentedLevel, e.ResultingLevel)
	}
	if !e.LevelChanged() {
		t.Error("expected LevelChanged() = true")
	}
	if !e.Timestamp.Equal(testTime) {
		t.Errorf("Timestamp = %v, want %v", e.Timestamp, testTime)
	}
}
