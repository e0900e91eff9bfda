package level

import (
	"fmt"
	"strconv"
	"strings"
)

// Level is a position on the Bloom difficulty scale. The zero value is not a
// valid level; use Clamp or Parse to obtain one.
type Level int

const (
	Remember   Level = iota + 1 // Recall facts and basic concepts
	Understand                  // Explain ideas or concepts
	Apply                       // Use information in new situations
	Analyze                     // Draw connections among ideas
	Evaluate                    // Justify a stand or decision
	Create                      // Produce new or original work
)

const (
	// Min is the lowest level on the scale.
	Min = Remember

	// Max is the highest level on the scale.
	Max = Create

	// Default is the level a new session starts at.
	Default = Analyze

	// Count is the number of levels on the scale.
	Count = int(Max-Min) + 1
)

var names = [...]string{
	Remember:   "remember",
	Understand: "understand",
	Apply:      "apply",
	Analyze:    "analyze",
	Evaluate:   "evaluate",
	Create:     "create",
}

// All returns every level in ascending order.
func All() []Level {
	out := make([]Level, 0, Count)
	for l := Min; l <= Max; l++ {
		out = append(out, l)
	}
	return out
}

// Valid reports whether l lies on the scale.
func (l Level) Valid() bool {
	return l >= Min && l <= Max
}

// Index returns the zero-based position of l on the scale.
func (l Level) Index() int {
	return int(Clamp(l) - Min)
}

func (l Level) String() string {
	if !l.Valid() {
		return fmt.Sprintf("level(%d)", int(l))
	}
	return names[l]
}

// DisplayName returns the capitalized name used in reports.
func (l Level) DisplayName() string {
	s := l.String()
	if !l.Valid() {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Parse accepts a level name (case-insensitive) or its 1-based ordinal.
func Parse(s string) (Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for l := Min; l <= Max; l++ {
		if names[l] == s {
			return l, nil
		}
	}
	if n, err := strconv.Atoi(s); err == nil && Level(n).Valid() {
		return Level(n), nil
	}
	return 0, fmt.Errorf("unknown difficulty level %q", s)
}

// MarshalText encodes the level as its name.
func (l Level) MarshalText() ([]byte, error) {
	if !l.Valid() {
		return nil, fmt.Errorf("marshal level: %d is out of range", int(l))
	}
	return []byte(names[l]), nil
}

// UnmarshalText decodes a level name or ordinal.
func (l *Level) UnmarshalText(b []byte) error {
	parsed, err := Parse(string(b))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}
