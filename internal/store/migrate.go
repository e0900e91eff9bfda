package store

import (
	"context"
	"database/sql"
	"fmt"
)

const (
	sessionsTable       = "sessions"
	answerEventsTable   = "answer_events"
	answerSequenceTable = "answer_sequence"
)

// ddl mirrors the Session and AnswerEvent definitions in ent/schema.
// Times are stored as fixed-width UTC text (timeLayout) so they sort.
var ddl = []string{
	`CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY NOT NULL,
		student_id TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		state JSON NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS session_student_id ON sessions (student_id)`,
	`CREATE INDEX IF NOT EXISTS session_updated_at ON sessions (updated_at)`,
	`CREATE TABLE IF NOT EXISTS answer_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT NOT NULL,
		sequence INTEGER NOT NULL UNIQUE,
		timestamp TEXT NOT NULL,
		session_id TEXT NOT NULL,
		question_id TEXT NOT NULL DEFAULT '',
		correct BOOL NOT NULL,
		elapsed REAL NOT NULL,
		speed TEXT NOT NULL,
		presented_level TEXT NOT NULL,
		previous_level TEXT NOT NULL,
		resulting_level TEXT NOT NULL,
		rule TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS answerevent_sequence ON answer_events (sequence)`,
	`CREATE INDEX IF NOT EXISTS answerevent_timestamp ON answer_events (timestamp)`,
	`CREATE INDEX IF NOT EXISTS answerevent_session_id ON answer_events (session_id)`,
	`CREATE INDEX IF NOT EXISTS answerevent_presented_level ON answer_events (presented_level)`,
	// Single-row counter behind answer_events.sequence. It only grows, so
	// deleting a session never frees a number for reuse.
	`CREATE TABLE IF NOT EXISTS answer_sequence (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		last INTEGER NOT NULL
	)`,
	`INSERT OR IGNORE INTO answer_sequence (id, last) VALUES (1, 0)`,
}

func migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range ddl {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("exec ddl: %w", err)
		}
	}
	return nil
}
