package session

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/bloomclimb/internal/codec"
	"github.com/abhisek/bloomclimb/internal/engine"
	"github.com/abhisek/bloomclimb/internal/level"
)

// Observer is notified after every processed answer.
type Observer interface {
	ObserveAnswer(sessionID string, entry engine.HistoryEntry, out engine.Outcome)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(sessionID string, entry engine.HistoryEntry, out engine.Outcome)

// ObserveAnswer calls f.
func (f ObserverFunc) ObserveAnswer(sessionID string, entry engine.HistoryEntry, out engine.Outcome) {
	f(sessionID, entry, out)
}

// Tracker holds the state of one student's session and feeds answers
// through the rule engine. A Tracker is not safe for concurrent use.
type Tracker struct {
	id        string
	rules     engine.Rules
	start     level.Level
	clock     func() time.Time
	observers []Observer
	state     engine.State
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithRules sets the decision table thresholds.
func WithRules(r engine.Rules) Option {
	return func(t *Tracker) { t.rules = r.Normalize() }
}

// WithStartLevel sets the level of the first question.
func WithStartLevel(l level.Level) Option {
	return func(t *Tracker) { t.start = level.Clamp(l) }
}

// WithClock overrides the time source used for history timestamps.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) {
		if now != nil {
			t.clock = now
		}
	}
}

// WithID sets the session identifier instead of generating one.
func WithID(id string) Option {
	return func(t *Tracker) {
		if id != "" {
			t.id = id
		}
	}
}

// WithObserver registers an observer. It may be given more than once.
func WithObserver(o Observer) Option {
	return func(t *Tracker) {
		if o != nil {
			t.observers = append(t.observers, o)
		}
	}
}

// New creates a tracker starting at level.Default unless configured otherwise.
func New(opts ...Option) *Tracker {
	t := &Tracker{
		rules: engine.DefaultRules(),
		start: level.Default,
		clock: time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.id == "" {
		t.id = uuid.New().String()
	}
	t.state = engine.NewState(t.start)
	return t
}

// SubmitAnswer processes one answer, records it in the history and returns
// the engine outcome. The outcome's State includes the new history entry.
// A zero or out-of-range ev.Level is taken to be the current level.
func (t *Tracker) SubmitAnswer(ev engine.AnswerEvent) engine.Outcome {
	if !ev.Level.Valid() {
		ev.Level = t.state.CurrentLevel
	}

	out := engine.ProcessAnswer(t.rules, t.state, ev)
	entry := out.Entry(ev, t.clock().UTC())

	next := out.State
	next.History = make([]engine.HistoryEntry, len(t.state.History), len(t.state.History)+1)
	copy(next.History, t.state.History)
	next.History = append(next.History, entry)

	t.state = next
	out.State = next.Clone()

	for _, o := range t.observers {
		o.ObserveAnswer(t.id, entry, out)
	}
	return out
}

// Reset discards all progress and restarts at the given level. The session
// ID, rules and observers are kept.
func (t *Tracker) Reset(start level.Level) {
	t.start = level.Clamp(start)
	t.state = engine.NewState(t.start)
}

// ExportState returns the storable form of the current state.
func (t *Tracker) ExportState() codec.Record {
	return codec.ToRecord(t.state)
}

// LoadState replaces the current state with a decoded record. On error the
// tracker is left unchanged.
func (t *Tracker) LoadState(rec codec.Record) error {
	s, err := codec.FromRecord(rec)
	if err != nil {
		return fmt.Errorf("load session %s: %w", t.id, err)
	}
	t.state = s
	return nil
}

// ID returns the session identifier.
func (t *Tracker) ID() string { return t.id }

// Rules returns the thresholds in effect.
func (t *Tracker) Rules() engine.Rules { return t.rules }

// CurrentLevel returns the level the next question should be drawn from.
func (t *Tracker) CurrentLevel() level.Level { return t.state.CurrentLevel }

// History returns a copy of the answer log.
func (t *Tracker) History() []engine.HistoryEntry {
	return t.state.Clone().History
}

// State returns a copy of the full state.
func (t *Tracker) State() engine.State { return t.state.Clone() }
