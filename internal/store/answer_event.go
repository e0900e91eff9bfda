package store

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	entsql "entgo.io/ent/dialect/sql"
	"go.uber.org/zap"

	"github.com/abhisek/bloomclimb/internal/level"
)

var answerEventColumns = []string{
	"sequence", "timestamp", "session_id", "question_id", "correct", "elapsed",
	"speed", "presented_level", "previous_level", "resulting_level", "rule",
}

// eventRepo implements EventRepo.
type eventRepo struct {
	db  *sql.DB
	log *zap.Logger
}

func (r *eventRepo) AppendAnswer(ctx context.Context, data AnswerEventData) (int64, error) {
	var seq int64
	err := inTx(ctx, r.db, func(tx *sql.Tx) error {
		var err error
		seq, err = insertAnswer(ctx, tx, data)
		return err
	})
	if err != nil {
		return 0, err
	}
	r.log.Debug("answer event appended",
		zap.String("session_id", data.SessionID),
		zap.Int64("sequence", seq),
		zap.String("rule", data.Rule))
	return seq, nil
}

// insertAnswer numbers and inserts one answer event.
func insertAnswer(ctx context.Context, q querier, data AnswerEventData) (int64, error) {
	if data.SessionID == "" {
		return 0, fmt.Errorf("append answer: empty session id")
	}
	seq, err := nextSequence(ctx, q)
	if err != nil {
		return 0, err
	}

	query, args := builder().Insert(answerEventsTable).
		Columns(answerEventColumns...).
		Values(
			seq,
			formatTime(data.Timestamp),
			data.SessionID,
			data.QuestionID,
			data.Correct,
			data.Elapsed,
			data.Speed,
			data.PresentedLevel,
			data.PreviousLevel,
			data.ResultingLevel,
			data.Rule,
		).
		Query()
	if _, err := q.ExecContext(ctx, query, args...); err != nil {
		return 0, fmt.Errorf("save answer event: %w", err)
	}
	return seq, nil
}

func (r *eventRepo) Answers(ctx context.Context, sessionID string) ([]AnswerEvent, error) {
	query, args := builder().Select(answerEventColumns...).
		From(entsql.Table(answerEventsTable)).
		Where(entsql.EQ("session_id", sessionID)).
		OrderBy(entsql.Asc("sequence")).
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query answers: %w", err)
	}
	defer rows.Close()

	var out []AnswerEvent
	for rows.Next() {
		var (
			ev AnswerEvent
			ts string
		)
		err := rows.Scan(
			&ev.Sequence, &ts, &ev.SessionID, &ev.QuestionID, &ev.Correct, &ev.Elapsed,
			&ev.Speed, &ev.PresentedLevel, &ev.PreviousLevel, &ev.ResultingLevel, &ev.Rule,
		)
		if err != nil {
			return nil, fmt.Errorf("scan answer: %w", err)
		}
		if ev.Timestamp, err = parseTime(ts); err != nil {
			return nil, fmt.Errorf("parse answer %d timestamp: %w", ev.Sequence, err)
		}
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query answers: %w", err)
	}
	return out, nil
}

func (r *eventRepo) LevelAccuracy(ctx context.Context, studentID string) ([]LevelAccuracy, error) {
	a := entsql.Table(answerEventsTable).As("a")
	sel := builder().Select(
		a.C("presented_level"),
		entsql.Count("*"),
		entsql.Sum(a.C("correct")),
	).From(a)

	if studentID != "" {
		s := entsql.Table(sessionsTable).As("s")
		sel = sel.Join(s).On(a.C("session_id"), s.C("id")).
			Where(entsql.EQ(s.C("student_id"), studentID))
	}
	query, args := sel.GroupBy(a.C("presented_level")).Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query level accuracy: %w", err)
	}
	defer rows.Close()

	var out []LevelAccuracy
	for rows.Next() {
		var la LevelAccuracy
		if err := rows.Scan(&la.Level, &la.Attempted, &la.Correct); err != nil {
			return nil, fmt.Errorf("scan level accuracy: %w", err)
		}
		if la.Attempted > 0 {
			la.AccuracyPercent = float64(la.Correct) / float64(la.Attempted) * 100
		}
		out = append(out, la)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query level accuracy: %w", err)
	}

	sort.Slice(out, func(i, j int) bool {
		return levelRank(out[i].Level) < levelRank(out[j].Level)
	})
	return out, nil
}

// levelRank orders known level names by scale position and unknown ones last.
func levelRank(name string) int {
	l, err := level.Parse(name)
	if err != nil {
		return level.Count + 1
	}
	return l.Index()
}
