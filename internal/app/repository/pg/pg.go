package pg

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"callguard/internal/app/repository"
)

const schema = `
CREATE TABLE IF NOT EXISTS feedback (
	id            UUID PRIMARY KEY,
	transcript    TEXT NOT NULL,
	is_fraudulent BOOLEAN NOT NULL,
	confidence    DOUBLE PRECISION NOT NULL,
	user_feedback VARCHAR(500) NOT NULL DEFAULT '',
	created_at    TIMESTAMPTZ NOT NULL,
	updated_at    TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_feedback_created_at ON feedback (created_at DESC)`

// PostgresDB stores feedback in PostgreSQL.
type PostgresDB struct {
	*repository.CommonDB
	db *sql.DB
}

var _ repository.FeedbackDAO = (*PostgresDB)(nil)

// NewPostgresDB opens a connection pool for connectionString. No connection
// is made until first use; call Migrate to create the schema.
func NewPostgresDB(connectionString string) (*PostgresDB, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return newWithDB(db), nil
}

func newWithDB(db *sql.DB) *PostgresDB {
	return &PostgresDB{CommonDB: repository.NewCommonDB(db, "postgres"), db: db}
}

// Migrate creates the feedback table if it does not exist.
func (p *PostgresDB) Migrate(ctx context.Context) error {
	if _, err := p.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}
	return nil
}

// Ping verifies the database is reachable.
func (p *PostgresDB) Ping(ctx context.Context) error {
	return p.db.PingContext(ctx)
}
