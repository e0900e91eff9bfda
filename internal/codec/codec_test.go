package codec

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/bloomclimb/internal/engine"
	"github.com/abhisek/bloomclimb/internal/level"
	"github.com/abhisek/bloomclimb/internal/speed"
)

func sampleState() engine.State {
	base := time.Date(2026, 10, 19, 10, 0, 0, 123_456_789, time.UTC)
	return engine.State{
		CurrentLevel:      level.Evaluate,
		StreakCorrectAny:  2,
		StreakCorrectSlow: 1,
		History: []engine.HistoryEntry{
			{
				Timestamp:        base,
				QuestionID:       "q1",
				Correct:          true,
				Elapsed:          4.25,
				Speed:            speed.Fast,
				PresentedLevel:   level.Analyze,
				PreviousLevel:    level.Analyze,
				ResultingLevel:   level.Evaluate,
				Rule:             engine.RuleCorrectFast,
				StreakCorrectAny: 1,
			},
			{
				Timestamp:         base.Add(37 * time.Second),
				QuestionID:        "q2",
				Correct:           true,
				Elapsed:           41,
				Speed:             speed.Slow,
				PresentedLevel:    level.Evaluate,
				PreviousLevel:     level.Evaluate,
				ResultingLevel:    level.Evaluate,
				Rule:              engine.RuleCorrectSlow,
				StreakCorrectAny:  2,
				StreakCorrectSlow: 1,
			},
		},
	}
}

func TestRoundTrip(t *testing.T) {
	want := sampleState()

	raw, err := Marshal(want)
	require.NoError(t, err)

	got, err := Unmarshal(raw)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestRoundTrip_EmptyHistory(t *testing.T) {
	want := engine.NewState(level.Default)

	raw, err := Marshal(want)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"history":[]`)

	got, err := Unmarshal(raw)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestRoundTrip_PreservesOrderAndTimestamps(t *testing.T) {
	want := sampleState()
	raw, err := Marshal(want)
	require.NoError(t, err)

	got, err := Unmarshal(raw)
	require.NoError(t, err)
	require.Len(t, got.History, 2)
	assert.Equal(t, "q1", got.History[0].QuestionID)
	assert.Equal(t, "q2", got.History[1].QuestionID)
	assert.True(t, got.History[0].Timestamp.Equal(want.History[0].Timestamp))
	assert.Equal(t, 123_456_789, got.History[0].Timestamp.Nanosecond())
}

func TestUnmarshal_Errors(t *testing.T) {
	valid := ToRecord(sampleState())

	tests := []struct {
		name   string
		mutate func(m map[string]any)
		field  string
	}{
		{
			name:   "missing current level",
			mutate: func(m map[string]any) { delete(m, "current_level") },
		},
		{
			name:   "unknown level",
			mutate: func(m map[string]any) { m["current_level"] = "synthesize" },
		},
		{
			name:   "negative counter",
			mutate: func(m map[string]any) { m["streak_wrong_at_level"] = -1 },
		},
		{
			name: "missing history field",
			mutate: func(m map[string]any) {
				h := m["history"].([]any)
				delete(h[0].(map[string]any), "speed")
			},
		},
		{
			name: "malformed timestamp",
			mutate: func(m map[string]any) {
				h := m["history"].([]any)
				h[1].(map[string]any)["timestamp"] = "yesterday at noon"
			},
			field: "history[1].timestamp",
		},
		{
			name:   "unsupported version",
			mutate: func(m map[string]any) { m["version"] = 7 },
			field:  "version",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := MarshalRecord(valid)
			require.NoError(t, err)
			var m map[string]any
			require.NoError(t, json.Unmarshal(raw, &m))
			tt.mutate(m)
			raw, err = json.Marshal(m)
			require.NoError(t, err)

			_, err = Unmarshal(raw)
			require.Error(t, err)
			var de *DecodeError
			require.True(t, errors.As(err, &de), "want *DecodeError, got %T", err)
			if tt.field != "" {
				assert.Equal(t, tt.field, de.Field)
			}
		})
	}
}

func TestUnmarshal_InvalidJSON(t *testing.T) {
	_, err := Unmarshal([]byte(`{"version": 1,`))
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "invalid JSON"))
}

func TestFromRecord_InconsistentStreaks(t *testing.T) {
	rec := ToRecord(engine.NewState(level.Apply))
	rec.StreakCorrectAny = 2
	rec.StreakWrongAtLevel = 1

	_, err := FromRecord(rec)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInconsistentState)
}

func TestEntryRecord_UsesLevelNames(t *testing.T) {
	er := EntryToRecord(sampleState().History[0])
	assert.Equal(t, "analyze", er.PresentedLevel)
	assert.Equal(t, "evaluate", er.ResultingLevel)
	assert.Equal(t, "fast", er.Speed)
	assert.Equal(t, "2026-10-19T10:00:00.123456789Z", er.Timestamp)
}
