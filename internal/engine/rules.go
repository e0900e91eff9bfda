package engine

// Rule identifies which branch of the decision table produced an outcome.
type Rule string

const (
	RuleCorrectFast           Rule = "correct-fast"
	RuleCorrectModerate       Rule = "correct-moderate"
	RuleCorrectModerateStreak Rule = "correct-moderate-streak"
	RuleCorrectSlow           Rule = "correct-slow"
	RuleCorrectSlowStreak     Rule = "correct-slow-streak"
	RuleWrongSlow             Rule = "wrong-slow"
	RuleWrongStreak           Rule = "wrong-streak"
	RuleWrongFirst            Rule = "wrong-first"
)

// AllRules returns every rule identifier in decision-table order.
func AllRules() []Rule {
	return []Rule{
		RuleCorrectFast,
		RuleCorrectModerate,
		RuleCorrectModerateStreak,
		RuleCorrectSlow,
		RuleCorrectSlowStreak,
		RuleWrongSlow,
		RuleWrongStreak,
		RuleWrongFirst,
	}
}

const (
	// DefaultModerateStreak is the correct-answer streak at which a moderate
	// answer earns a promotion.
	DefaultModerateStreak = 3

	// DefaultSlowStreak is the number of consecutive correct slow answers
	// that earns a promotion.
	DefaultSlowStreak = 3

	// DefaultWrongStreak is the number of consecutive wrong answers at one
	// level that causes a demotion.
	DefaultWrongStreak = 2

	// DefaultStep is how many levels a single promotion or demotion moves.
	DefaultStep = 1
)

// Rules holds the tunable thresholds of the decision table.
type Rules struct {
	ModerateStreak int `json:"moderate_streak" yaml:"moderate_streak"`
	SlowStreak     int `json:"slow_streak" yaml:"slow_streak"`
	WrongStreak    int `json:"wrong_streak" yaml:"wrong_streak"`
	Step           int `json:"step" yaml:"step"`
}

// DefaultRules returns the standard thresholds.
func DefaultRules() Rules {
	return Rules{
		ModerateStreak: DefaultModerateStreak,
		SlowStreak:     DefaultSlowStreak,
		WrongStreak:    DefaultWrongStreak,
		Step:           DefaultStep,
	}
}

// Normalize replaces non-positive fields with their defaults.
func (r Rules) Normalize() Rules {
	if r.ModerateStreak <= 0 {
		r.ModerateStreak = DefaultModerateStreak
	}
	if r.SlowStreak <= 0 {
		r.SlowStreak = DefaultSlowStreak
	}
	if r.WrongStreak <= 0 {
		r.WrongStreak = DefaultWrongStreak
	}
	if r.Step <= 0 {
		r.Step = DefaultStep
	}
	return r
}
