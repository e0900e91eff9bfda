package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"go.uber.org/zap"

	"github.com/abhisek/bloomclimb/internal/codec"
)

var sessionColumns = []string{"id", "student_id", "created_at", "updated_at", "state"}

// sessionRepo implements SessionRepo with queries built by the ent SQL builder.
type sessionRepo struct {
	db  *sql.DB
	log *zap.Logger
}

func builder() *entsql.DialectBuilder {
	return entsql.Dialect(dialect.SQLite)
}

func (r *sessionRepo) Create(ctx context.Context, s *Session) error {
	if s.ID == "" {
		return errors.New("create session: empty id")
	}
	now := time.Now().UTC()
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	if s.UpdatedAt.IsZero() {
		s.UpdatedAt = s.CreatedAt
	}
	state, err := codec.MarshalRecord(s.State)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}

	query, args := builder().Insert(sessionsTable).
		Columns(sessionColumns...).
		Values(s.ID, s.StudentID, formatTime(s.CreatedAt), formatTime(s.UpdatedAt), string(state)).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	r.log.Debug("session created", zap.String("session_id", s.ID))
	return nil
}

func (r *sessionRepo) Save(ctx context.Context, s *Session) error {
	state, err := codec.MarshalRecord(s.State)
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return updateState(ctx, r.db, s, state)
}

// updateState writes an encoded state and bumps UpdatedAt.
func updateState(ctx context.Context, q querier, s *Session, state []byte) error {
	s.UpdatedAt = time.Now().UTC()

	query, args := builder().Update(sessionsTable).
		Set("state", string(state)).
		Set("updated_at", formatTime(s.UpdatedAt)).
		Where(entsql.EQ("id", s.ID)).
		Query()
	res, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("save session %s: %w", s.ID, ErrSessionNotFound)
	}
	return nil
}

func (r *sessionRepo) Get(ctx context.Context, id string) (*Session, error) {
	query, args := builder().Select(sessionColumns...).
		From(entsql.Table(sessionsTable)).
		Where(entsql.EQ("id", id)).
		Query()

	s, err := scanSession(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get session %s: %w", id, ErrSessionNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get session %s: %w", id, err)
	}
	return s, nil
}

func (r *sessionRepo) List(ctx context.Context, opts QueryOpts) ([]Session, error) {
	sel := builder().Select(sessionColumns...).
		From(entsql.Table(sessionsTable)).
		OrderBy(entsql.Desc("updated_at"), entsql.Asc("id"))

	var preds []*entsql.Predicate
	if opts.StudentID != "" {
		preds = append(preds, entsql.EQ("student_id", opts.StudentID))
	}
	if !opts.From.IsZero() {
		preds = append(preds, entsql.GTE("updated_at", formatTime(opts.From)))
	}
	if !opts.To.IsZero() {
		preds = append(preds, entsql.LTE("updated_at", formatTime(opts.To)))
	}
	if len(preds) > 0 {
		sel = sel.Where(entsql.And(preds...))
	}
	if opts.Limit > 0 {
		sel = sel.Limit(opts.Limit)
	}

	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var out []Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("list sessions: %w", err)
		}
		out = append(out, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return out, nil
}

func (r *sessionRepo) Delete(ctx context.Context, id string) error {
	err := inTx(ctx, r.db, func(tx *sql.Tx) error {
		query, args := builder().Delete(answerEventsTable).
			Where(entsql.EQ("session_id", id)).
			Query()
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("delete answer events: %w", err)
		}

		query, args = builder().Delete(sessionsTable).
			Where(entsql.EQ("id", id)).
			Query()
		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("delete session: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("delete session: %w", err)
		}
		if n == 0 {
			return fmt.Errorf("delete session %s: %w", id, ErrSessionNotFound)
		}
		return nil
	})
	if err != nil {
		return err
	}
	r.log.Debug("session deleted", zap.String("session_id", id))
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*Session, error) {
	var (
		s                Session
		created, updated string
		state            string
	)
	if err := row.Scan(&s.ID, &s.StudentID, &created, &updated, &state); err != nil {
		return nil, err
	}

	var err error
	if s.CreatedAt, err = parseTime(created); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if s.UpdatedAt, err = parseTime(updated); err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}
	if s.State, err = codec.UnmarshalRecord([]byte(state)); err != nil {
		return nil, fmt.Errorf("session %s: %w", s.ID, err)
	}
	return &s, nil
}
