package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"callguard/internal/app/repository"
)

const schema = `
CREATE TABLE IF NOT EXISTS feedback (
	id            TEXT PRIMARY KEY,
	transcript    TEXT NOT NULL,
	is_fraudulent INTEGER NOT NULL,
	confidence    REAL NOT NULL,
	user_feedback TEXT NOT NULL DEFAULT '',
	created_at    DATETIME NOT NULL,
	updated_at    DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_feedback_created_at ON feedback (created_at);`

// SQLiteDB is the default feedback store, a single database file.
type SQLiteDB struct {
	*repository.CommonDB
}

var _ repository.FeedbackDAO = (*SQLiteDB)(nil)

// NewSQLiteDB opens (creating if needed) the database at dbFilePath and
// ensures the schema exists.
func NewSQLiteDB(ctx context.Context, dbFilePath string) (*SQLiteDB, error) {
	if dir := filepath.Dir(dbFilePath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", dbFilePath))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	return &SQLiteDB{CommonDB: repository.NewCommonDB(db, "sqlite3")}, nil
}
