package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/abhisek/bloomclimb/internal/codec"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// Store owns the database handle and hands out repositories.
type Store struct {
	db  *sql.DB
	log *zap.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for store diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// Open creates a new Store connected to the SQLite database at dsn.
// It applies recommended pragmas and creates missing tables.
func Open(dsn string, opts ...Option) (*Store, error) {
	s := &Store{log: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// Pragmas are per connection and SQLite has a single writer.
	db.SetMaxOpenConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	if err := migrate(context.Background(), db); err != nil {
		db.Close()
		return nil, fmt.Errorf("auto-migrate: %w", err)
	}

	s.db = db
	s.log.Debug("store opened", zap.String("dsn", dsn))
	return s, nil
}

// DB returns the underlying *sql.DB for raw queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// SessionRepo returns a SessionRepo backed by this store.
func (s *Store) SessionRepo() SessionRepo {
	return &sessionRepo{db: s.db, log: s.log}
}

// EventRepo returns an EventRepo backed by this store.
func (s *Store) EventRepo() EventRepo {
	return &eventRepo{db: s.db, log: s.log}
}

// RecordAnswer appends an answer event for s and saves its new state in one
// transaction. Nothing is written when either step fails.
func (s *Store) RecordAnswer(ctx context.Context, sess *Session, data AnswerEventData) (int64, error) {
	state, err := codec.MarshalRecord(sess.State)
	if err != nil {
		return 0, fmt.Errorf("record answer: %w", err)
	}
	data.SessionID = sess.ID

	var seq int64
	err = inTx(ctx, s.db, func(tx *sql.Tx) error {
		var err error
		if seq, err = insertAnswer(ctx, tx, data); err != nil {
			return err
		}
		return updateState(ctx, tx, sess, state)
	})
	if err != nil {
		return 0, err
	}
	s.log.Debug("answer recorded", zap.String("session_id", sess.ID), zap.Int64("sequence", seq))
	return seq, nil
}

// applyPragmas configures SQLite for optimal single-user performance.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

// DefaultDBPath resolves the database file path in priority order:
// 1. BLOOMCLIMB_DB environment variable
// 2. $XDG_DATA_HOME/bloomclimb/bloomclimb.db
// 3. ~/.local/share/bloomclimb/bloomclimb.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("BLOOMCLIMB_DB"); p != "" {
		return p, EnsureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "bloomclimb", "bloomclimb.db")
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}
