package store

import (
	"context"
	"database/sql"
	"fmt"
)

// querier is the subset of *sql.DB and *sql.Tx the write helpers need.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// nextSequence claims the next answer sequence number. Run it in the same
// transaction as the insert it numbers so a rollback returns the number.
func nextSequence(ctx context.Context, q querier) (int64, error) {
	var seq int64
	err := q.QueryRowContext(ctx,
		`UPDATE `+answerSequenceTable+` SET last = last + 1 WHERE id = 1 RETURNING last`,
	).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	return seq, nil
}

// inTx runs fn in a transaction, committing when it returns nil.
func inTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
