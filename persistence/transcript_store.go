// Package persistence stores chat transcripts per session.
package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pilotedu/studypilot/agent"
)

// TranscriptStore persists chat turns per session.
type TranscriptStore interface {
	Append(ctx context.Context, sessionID string, messages ...agent.Message) error
	History(ctx context.Context, sessionID string) ([]agent.Message, error)
	Clear(ctx context.Context, sessionID string) error
	Close() error
}

// SQLiteTranscriptStore keeps transcripts in a local SQLite database.
type SQLiteTranscriptStore struct {
	db *sql.DB
}

const transcriptSchema = `
CREATE TABLE IF NOT EXISTS transcripts (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id TEXT NOT NULL,
	sender     TEXT NOT NULL,
	content    TEXT NOT NULL,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_transcripts_session ON transcripts(session_id);
`

// NewSQLiteTranscriptStore opens (or creates) the database at path.
func NewSQLiteTranscriptStore(path string) (*SQLiteTranscriptStore, error) {
	if path == "" {
		return nil, errors.New("transcript store path required")
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open transcript store: %w", err)
	}
	if _, err := db.Exec(transcriptSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init transcript schema: %w", err)
	}
	return &SQLiteTranscriptStore{db: db}, nil
}

// Append stores messages for a session.
func (s *SQLiteTranscriptStore) Append(ctx context.Context, sessionID string, messages ...agent.Message) error {
	if sessionID == "" {
		return errors.New("session id required")
	}
	if len(messages) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, "INSERT INTO transcripts (session_id, sender, content) VALUES (?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, m := range messages {
		if _, err := stmt.ExecContext(ctx, sessionID, m.Sender, m.Content); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// History returns the conversation for a session, oldest first.
func (s *SQLiteTranscriptStore) History(ctx context.Context, sessionID string) ([]agent.Message, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT sender, content FROM transcripts WHERE session_id = ? ORDER BY id", sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []agent.Message
	for rows.Next() {
		var m agent.Message
		if err := rows.Scan(&m.Sender, &m.Content); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

// Clear removes a session's transcript.
func (s *SQLiteTranscriptStore) Clear(ctx context.Context, sessionID string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM transcripts WHERE session_id = ?", sessionID)
	return err
}

// Close releases the database handle.
func (s *SQLiteTranscriptStore) Close() error {
	return s.db.Close()
}
