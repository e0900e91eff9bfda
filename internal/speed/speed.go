package speed

import "fmt"

// Category classifies how quickly a question was answered relative to the
// thresholds configured for that question.
type Category string

const (
	Fast     Category = "fast"
	Moderate Category = "moderate"
	Slow     Category = "slow"
)

// Categories returns all categories in ascending order of elapsed time.
func Categories() []Category {
	return []Category{Fast, Moderate, Slow}
}

// Parse converts a category name back to a Category.
func Parse(s string) (Category, error) {
	switch Category(s) {
	case Fast, Moderate, Slow:
		return Category(s), nil
	}
	return "", fmt.Errorf("unknown speed category %q", s)
}

// Thresholds are the per-question time boundaries, in seconds.
type Thresholds struct {
	// Fast is the largest elapsed time still counted as fast.
	Fast float64 `json:"fast" yaml:"fast"`
	// Slow is the largest elapsed time still counted as moderate.
	Slow float64 `json:"slow" yaml:"slow"`
}

// Valid reports whether the pair is ordered (Fast <= Slow) and non-negative.
func (t Thresholds) Valid() bool {
	return t.Fast >= 0 && t.Slow >= 0 && t.Fast <= t.Slow
}

// IsZero reports whether neither boundary was set.
func (t Thresholds) IsZero() bool {
	return t.Fast == 0 && t.Slow == 0
}

// Classify returns the category for this threshold pair.
func (t Thresholds) Classify(elapsed float64) Category {
	return Classify(elapsed, t.Fast, t.Slow)
}

// Classify maps an elapsed time onto fast, moderate or slow.
//
//	elapsed <= fast         fast
//	fast < elapsed <= slow  moderate
//	elapsed > slow          slow
//
// A reversed pair (fast > slow) collapses to a single boundary at fast: the
// moderate band is empty and anything above fast is slow.
func Classify(elapsed, fast, slow float64) Category {
	if elapsed <= fast {
		return Fast
	}
	if fast > slow {
		return Slow
	}
	if elapsed <= slow {
		return Moderate
	}
	return Slow
}

const (
	// FallbackFastRatio is the share of a nominal duration used as the fast
	// boundary when a question has no thresholds of its own.
	FallbackFastRatio = 0.5

	// FallbackSlowRatio is the share of a nominal duration used as the slow
	// boundary when a question has no thresholds of its own.
	FallbackSlowRatio = 1.0
)

// Fallback derives thresholds from a nominal answer duration. It is meant for
// callers that have no instructor-configured thresholds; Classify never uses it.
func Fallback(nominal float64) Thresholds {
	if nominal < 0 {
		nominal = 0
	}
	return Thresholds{
		Fast: nominal * FallbackFastRatio,
		Slow: nominal * FallbackSlowRatio,
	}
}
