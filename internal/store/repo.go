package store

import (
	"context"
	"errors"
	"time"

	"github.com/abhisek/bloomclimb/internal/codec"
	"github.com/abhisek/bloomclimb/internal/engine"
)

// ErrSessionNotFound is returned when no session has the requested ID.
var ErrSessionNotFound = errors.New("session not found")

// timeLayout is a fixed-width RFC 3339 layout; stored times sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// QueryOpts configures session listing with filtering and pagination.
type QueryOpts struct {
	Limit     int       // max results (0 = unlimited)
	StudentID string    // exact match when set
	From      time.Time // updated_at >= From
	To        time.Time // updated_at <= To
}

// Session is a persisted tracker state.
type Session struct {
	ID        string
	StudentID string
	CreatedAt time.Time
	UpdatedAt time.Time
	State     codec.Record
}

// SessionRepo manages persisted session state.
type SessionRepo interface {
	// Create inserts a new session. Zero timestamps are set to now.
	Create(ctx context.Context, s *Session) error

	// Save overwrites the state of an existing session and bumps UpdatedAt.
	Save(ctx context.Context, s *Session) error

	// Get returns the session with the given ID or ErrSessionNotFound.
	Get(ctx context.Context, id string) (*Session, error)

	// List returns sessions, most recently updated first.
	List(ctx context.Context, opts QueryOpts) ([]Session, error)

	// Delete removes a session and its answer events.
	Delete(ctx context.Context, id string) error
}

// AnswerEventData captures one processed answer for the audit log.
type AnswerEventData struct {
	SessionID      string
	Timestamp      time.Time
	QuestionID     string
	Correct        bool
	Elapsed        float64
	Speed          string
	PresentedLevel string
	PreviousLevel  string
	ResultingLevel string
	Rule           string
}

// NewAnswerEventData builds event data from a tracker history entry.
func NewAnswerEventData(sessionID string, e engine.HistoryEntry) AnswerEventData {
	return AnswerEventData{
		SessionID:      sessionID,
		Timestamp:      e.Timestamp,
		QuestionID:     e.QuestionID,
		Correct:        e.Correct,
		Elapsed:        e.Elapsed,
		Speed:          string(e.Speed),
		PresentedLevel: e.PresentedLevel.String(),
		PreviousLevel:  e.PreviousLevel.String(),
		ResultingLevel: e.ResultingLevel.String(),
		Rule:           string(e.Rule),
	}
}

// AnswerEvent is a stored answer with its global sequence number.
type AnswerEvent struct {
	Sequence int64
	AnswerEventData
}

// LevelAccuracy aggregates stored answers presented at one level.
type LevelAccuracy struct {
	Level           string
	Attempted       int
	Correct         int
	AccuracyPercent float64
}

// EventRepo provides append access to answer events and queries over them.
type EventRepo interface {
	// AppendAnswer records an answer and returns its sequence number.
	AppendAnswer(ctx context.Context, data AnswerEventData) (int64, error)

	// Answers returns the events of one session in sequence order.
	Answers(ctx context.Context, sessionID string) ([]AnswerEvent, error)

	// LevelAccuracy aggregates answers across all sessions of a student,
	// or of every student when studentID is empty, in scale order.
	LevelAccuracy(ctx context.Context, studentID string) ([]LevelAccuracy, error)
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(timeLayout, s)
}
