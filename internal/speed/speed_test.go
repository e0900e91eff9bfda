package speed

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		elapsed float64
		fast    float64
		slow    float64
		want    Category
	}{
		{"well under fast", 2, 10, 30, Fast},
		{"exactly fast boundary", 10, 10, 30, Fast},
		{"just above fast", 10.01, 10, 30, Moderate},
		{"exactly slow boundary", 30, 10, 30, Moderate},
		{"above slow", 30.5, 10, 30, Slow},
		{"zero elapsed", 0, 0, 0, Fast},
		{"equal boundaries above", 11, 10, 10, Slow},
		{"reversed pair below fast", 5, 20, 10, Fast},
		{"reversed pair between", 15, 20, 10, Fast},
		{"reversed pair above fast", 25, 20, 10, Slow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.elapsed, tt.fast, tt.slow); got != tt.want {
				t.Errorf("Classify(%v, %v, %v) = %s, want %s", tt.elapsed, tt.fast, tt.slow, got, tt.want)
			}
		})
	}
}

func TestThresholds_Valid(t *testing.T) {
	if !(Thresholds{Fast: 5, Slow: 10}).Valid() {
		t.Error("expected ordered pair to be valid")
	}
	if (Thresholds{Fast: 10, Slow: 5}).Valid() {
		t.Error("expected reversed pair to be invalid")
	}
	if (Thresholds{Fast: -1, Slow: 5}).Valid() {
		t.Error("expected negative boundary to be invalid")
	}
}

func TestFallback(t *testing.T) {
	th := Fallback(40)
	if th.Fast != 20 {
		t.Errorf("Fast = %v, want 20", th.Fast)
	}
	if th.Slow != 40 {
		t.Errorf("Slow = %v, want 40", th.Slow)
	}
	if got := Fallback(-3); !got.IsZero() {
		t.Errorf("Fallback(-3) = %+v, want zero thresholds", got)
	}
}

func TestParse(t *testing.T) {
	for _, c := range Categories() {
		got, err := Parse(string(c))
		if err != nil || got != c {
			t.Errorf("Parse(%q) = %q, %v", c, got, err)
		}
	}
	if _, err := Parse("glacial"); err == nil {
		t.Error("expected error for unknown category")
	}
}
