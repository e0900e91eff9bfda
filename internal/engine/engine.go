package engine

import (
	"fmt"

	"github.com/abhisek/bloomclimb/internal/level"
	"github.com/abhisek/bloomclimb/internal/speed"
)

// ProcessAnswer applies one answer to state and returns the next level, the
// updated counters and a justification. It performs no I/O and never mutates
// state; the returned Outcome.State shares state.History unchanged, so
// callers appending to it must copy first.
func ProcessAnswer(rules Rules, state State, ev AnswerEvent) Outcome {
	rules = rules.Normalize()

	prev := level.Clamp(state.CurrentLevel)
	next := state
	next.CurrentLevel = prev

	elapsed := clampElapsed(ev.Elapsed)
	category := speed.Classify(elapsed, ev.Thresholds.Fast, ev.Thresholds.Slow)

	var (
		rule   Rule
		target = prev
		reason string
	)

	if ev.Correct {
		next.StreakCorrectAny++
		next.StreakWrongAtLevel = 0

		switch category {
		case speed.Fast:
			target = level.Increase(prev, rules.Step)
			next.StreakCorrectSlow = 0
			rule = RuleCorrectFast
			reason = fmt.Sprintf("correct and fast (%.1fs <= %.1fs)", elapsed, ev.Thresholds.Fast)

		case speed.Moderate:
			next.StreakCorrectSlow = 0
			if next.StreakCorrectAny >= rules.ModerateStreak {
				target = level.Increase(prev, rules.Step)
				rule = RuleCorrectModerateStreak
				reason = fmt.Sprintf("correct at moderate pace with %d correct in a row", next.StreakCorrectAny)
			} else {
				rule = RuleCorrectModerate
				reason = fmt.Sprintf("correct at moderate pace, streak %d of %d", next.StreakCorrectAny, rules.ModerateStreak)
			}

		default:
			next.StreakCorrectSlow++
			if next.StreakCorrectSlow >= rules.SlowStreak {
				target = level.Increase(prev, rules.Step)
				rule = RuleCorrectSlowStreak
				reason = fmt.Sprintf("correct but slow %d times in a row", next.StreakCorrectSlow)
				next.StreakCorrectSlow = 0
			} else {
				rule = RuleCorrectSlow
				reason = fmt.Sprintf("correct but slow (%.1fs > %.1fs), slow streak %d of %d",
					elapsed, ev.Thresholds.Slow, next.StreakCorrectSlow, rules.SlowStreak)
			}
		}
	} else {
		next.StreakCorrectAny = 0
		next.StreakCorrectSlow = 0
		next.StreakWrongAtLevel++

		switch {
		case category == speed.Slow:
			target = level.Decrease(prev, rules.Step)
			next.StreakWrongAtLevel = 0
			rule = RuleWrongSlow
			reason = fmt.Sprintf("wrong and slow (%.1fs)", elapsed)

		case next.StreakWrongAtLevel >= rules.WrongStreak:
			reason = fmt.Sprintf("%d wrong answers in a row at %s", next.StreakWrongAtLevel, prev)
			target = level.Decrease(prev, rules.Step)
			next.StreakWrongAtLevel = 0
			rule = RuleWrongStreak

		default:
			rule = RuleWrongFirst
			reason = fmt.Sprintf("wrong (%s), %d of %d before stepping down", category, next.StreakWrongAtLevel, rules.WrongStreak)
		}
	}

	next.CurrentLevel = level.Clamp(target)
	changed := next.CurrentLevel != prev
	if changed {
		next.StreakWrongAtLevel = 0
	}

	saturated := promotes(rule) || demotes(rule)
	saturated = saturated && !changed

	return Outcome{
		Speed:         category,
		PreviousLevel: prev,
		NextLevel:     next.CurrentLevel,
		LevelChanged:  changed,
		Saturated:     saturated,
		Rule:          rule,
		State:         next,
		Justification: justify(reason, prev, next.CurrentLevel, saturated),
	}
}

func justify(reason string, prev, next level.Level, saturated bool) string {
	switch {
	case saturated && next == level.Max:
		return fmt.Sprintf("%s: already at the top level (%s)", reason, next)
	case saturated:
		return fmt.Sprintf("%s: already at the bottom level (%s)", reason, next)
	case next > prev:
		return fmt.Sprintf("%s: moving up %s -> %s", reason, prev, next)
	case next < prev:
		return fmt.Sprintf("%s: moving down %s -> %s", reason, prev, next)
	default:
		return fmt.Sprintf("%s: staying at %s", reason, next)
	}
}

func promotes(r Rule) bool {
	return r == RuleCorrectFast || r == RuleCorrectModerateStreak || r == RuleCorrectSlowStreak
}

func demotes(r Rule) bool {
	return r == RuleWrongSlow || r == RuleWrongStreak
}
