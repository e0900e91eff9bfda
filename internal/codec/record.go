package codec

import (
	"errors"
	"fmt"
	"time"

	"github.com/abhisek/bloomclimb/internal/engine"
	"github.com/abhisek/bloomclimb/internal/level"
	"github.com/abhisek/bloomclimb/internal/speed"
)

// Version is the current persisted-state format version.
const Version = 1

// TimeFormat is the timestamp layout used in records.
const TimeFormat = time.RFC3339Nano

// ErrInconsistentState is returned when a record's streak counters violate
// the correct/wrong mutual exclusion.
var ErrInconsistentState = errors.New("inconsistent streak counters")

// Record is the storable form of engine.State. All fields are primitives so it
// can be written by any persistence layer.
type Record struct {
	Version            int           `json:"version"`
	CurrentLevel       string        `json:"current_level"`
	StreakCorrectAny   int           `json:"streak_correct_any"`
	StreakCorrectSlow  int           `json:"streak_correct_slow"`
	StreakWrongAtLevel int           `json:"streak_wrong_at_level"`
	History            []EntryRecord `json:"history"`
}

// EntryRecord is the storable form of engine.HistoryEntry.
type EntryRecord struct {
	Timestamp          string  `json:"timestamp"`
	QuestionID         string  `json:"question_id"`
	Correct            bool    `json:"correct"`
	Elapsed            float64 `json:"elapsed"`
	Speed              string  `json:"speed"`
	PresentedLevel     string  `json:"presented_level"`
	PreviousLevel      string  `json:"previous_level"`
	ResultingLevel     string  `json:"resulting_level"`
	Rule               string  `json:"rule,omitempty"`
	StreakCorrectAny   int     `json:"streak_correct_any"`
	StreakCorrectSlow  int     `json:"streak_correct_slow"`
	StreakWrongAtLevel int     `json:"streak_wrong_at_level"`
}

// DecodeError reports which field of a record could not be decoded.
type DecodeError struct {
	Field string
	Err   error
}

func (e *DecodeError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("decode session state: %v", e.Err)
	}
	return fmt.Sprintf("decode session state: %s: %v", e.Field, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// ToRecord converts a state to its storable form.
func ToRecord(s engine.State) Record {
	rec := Record{
		Version:            Version,
		CurrentLevel:       s.CurrentLevel.String(),
		StreakCorrectAny:   s.StreakCorrectAny,
		StreakCorrectSlow:  s.StreakCorrectSlow,
		StreakWrongAtLevel: s.StreakWrongAtLevel,
		History:            make([]EntryRecord, 0, len(s.History)),
	}
	for _, e := range s.History {
		rec.History = append(rec.History, EntryToRecord(e))
	}
	return rec
}

// EntryToRecord converts one history entry to its storable form.
func EntryToRecord(e engine.HistoryEntry) EntryRecord {
	return EntryRecord{
		Timestamp:          e.Timestamp.UTC().Format(TimeFormat),
		QuestionID:         e.QuestionID,
		Correct:            e.Correct,
		Elapsed:            e.Elapsed,
		Speed:              string(e.Speed),
		PresentedLevel:     e.PresentedLevel.String(),
		PreviousLevel:      e.PreviousLevel.String(),
		ResultingLevel:     e.ResultingLevel.String(),
		Rule:               string(e.Rule),
		StreakCorrectAny:   e.StreakCorrectAny,
		StreakCorrectSlow:  e.StreakCorrectSlow,
		StreakWrongAtLevel: e.StreakWrongAtLevel,
	}
}

// FromRecord converts a record back to a state. It fails on the first field
// that cannot be decoded and never returns a partially valid state.
func FromRecord(rec Record) (engine.State, error) {
	if rec.Version != Version {
		return engine.State{}, &DecodeError{Field: "version", Err: fmt.Errorf("unsupported version %d", rec.Version)}
	}
	cur, err := level.Parse(rec.CurrentLevel)
	if err != nil {
		return engine.State{}, &DecodeError{Field: "current_level", Err: err}
	}

	s := engine.State{
		CurrentLevel:       cur,
		StreakCorrectAny:   rec.StreakCorrectAny,
		StreakCorrectSlow:  rec.StreakCorrectSlow,
		StreakWrongAtLevel: rec.StreakWrongAtLevel,
	}
	if !s.Consistent() {
		return engine.State{}, &DecodeError{Err: ErrInconsistentState}
	}

	if len(rec.History) > 0 {
		s.History = make([]engine.HistoryEntry, 0, len(rec.History))
	}
	for i, er := range rec.History {
		e, err := EntryFromRecord(er)
		if err != nil {
			var de *DecodeError
			if errors.As(err, &de) {
				de.Field = fmt.Sprintf("history[%d].%s", i, de.Field)
			}
			return engine.State{}, err
		}
		s.History = append(s.History, e)
	}
	return s, nil
}

// EntryFromRecord converts one storable entry back to a history entry.
func EntryFromRecord(er EntryRecord) (engine.HistoryEntry, error) {
	ts, err := time.Parse(TimeFormat, er.Timestamp)
	if err != nil {
		return engine.HistoryEntry{}, &DecodeError{Field: "timestamp", Err: err}
	}
	sp, err := speed.Parse(er.Speed)
	if err != nil {
		return engine.HistoryEntry{}, &DecodeError{Field: "speed", Err: err}
	}

	fields := [3]struct{ name, raw string }{
		{"presented_level", er.PresentedLevel},
		{"previous_level", er.PreviousLevel},
		{"resulting_level", er.ResultingLevel},
	}
	var parsed [3]level.Level
	for i, f := range fields {
		l, err := level.Parse(f.raw)
		if err != nil {
			return engine.HistoryEntry{}, &DecodeError{Field: f.name, Err: err}
		}
		parsed[i] = l
	}

	return engine.HistoryEntry{
		Timestamp:          ts.UTC(),
		QuestionID:         er.QuestionID,
		Correct:            er.Correct,
		Elapsed:            er.Elapsed,
		Speed:              sp,
		PresentedLevel:     parsed[0],
		PreviousLevel:      parsed[1],
		ResultingLevel:     parsed[2],
		Rule:               engine.Rule(er.Rule),
		StreakCorrectAny:   er.StreakCorrectAny,
		StreakCorrectSlow:  er.StreakCorrectSlow,
		StreakWrongAtLevel: er.StreakWrongAtLevel,
	}, nil
}
