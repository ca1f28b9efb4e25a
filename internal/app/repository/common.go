package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"callguard/internal/app/model"
)

// CommonDB implements FeedbackDAO for any database/sql driver; only the
// placeholder syntax differs between dialects.
type CommonDB struct {
	db           *sql.DB
	driverName   string
	placeholders PlaceholderFunc
	now          func() time.Time
}

// PlaceholderFunc generates parameter placeholders for different SQL dialects
type PlaceholderFunc func(n int) string

// NewCommonDB creates a new CommonDB instance
func NewCommonDB(db *sql.DB, driverName string) *CommonDB {
	var placeholders PlaceholderFunc

	switch driverName {
	case "postgres":
		placeholders = func(n int) string { return fmt.Sprintf("$%d", n) }
	default:
		placeholders = func(n int) string { return "?" }
	}

	return &CommonDB{
		db:           db,
		driverName:   driverName,
		placeholders: placeholders,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// WithClock replaces the clock used for updated_at.
func (c *CommonDB) WithClock(now func() time.Time) *CommonDB {
	c.now = now
	return c
}

const feedbackColumns = `id, transcript, is_fraudulent, confidence, user_feedback, created_at, updated_at`

func (c *CommonDB) Create(ctx context.Context, f *model.Feedback) error {
	query := fmt.Sprintf(
		`INSERT INTO feedback (%s) VALUES (%s, %s, %s, %s, %s, %s, %s)`,
		feedbackColumns,
		c.placeholders(1), c.placeholders(2), c.placeholders(3), c.placeholders(4),
		c.placeholders(5), c.placeholders(6), c.placeholders(7),
	)

	_, err := c.db.ExecContext(ctx, query,
		f.ID, f.Transcript, f.IsFraudulent, f.Confidence, f.UserFeedback, f.CreatedAt, f.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert failed: %w", err)
	}
	return nil
}

func (c *CommonDB) Get(ctx context.Context, id string) (*model.Feedback, error) {
	query := fmt.Sprintf(`SELECT %s FROM feedback WHERE id = %s`, feedbackColumns, c.placeholders(1))

	var f model.Feedback
	err := c.db.QueryRowContext(ctx, query, id).Scan(
		&f.ID, &f.Transcript, &f.IsFraudulent, &f.Confidence, &f.UserFeedback, &f.CreatedAt, &f.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	return &f, nil
}

func (c *CommonDB) UpdateUserFeedback(ctx context.Context, id, userFeedback string) (*model.Feedback, error) {
	query := fmt.Sprintf(
		`UPDATE feedback SET user_feedback = %s, updated_at = %s WHERE id = %s`,
		c.placeholders(1), c.placeholders(2), c.placeholders(3),
	)

	res, err := c.db.ExecContext(ctx, query, userFeedback, c.now(), id)
	if err != nil {
		return nil, fmt.Errorf("update failed: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return nil, ErrNotFound
	}
	return c.Get(ctx, id)
}

func (c *CommonDB) List(ctx context.Context, limit, offset int) ([]model.Feedback, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM feedback ORDER BY created_at DESC, id LIMIT %s OFFSET %s`,
		feedbackColumns, c.placeholders(1), c.placeholders(2),
	)

	rows, err := c.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	records := make([]model.Feedback, 0)
	for rows.Next() {
		var f model.Feedback
		if err := rows.Scan(&f.ID, &f.Transcript, &f.IsFraudulent, &f.Confidence, &f.UserFeedback, &f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		records = append(records, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return records, nil
}

func (c *CommonDB) Count(ctx context.Context) (int, error) {
	var count int
	if err := c.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM feedback`).Scan(&count); err != nil {
		return 0, fmt.Errorf("query failed: %w", err)
	}
	return count, nil
}

// Close closes the database connection
func (c *CommonDB) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// DB returns the underlying database connection
func (c *CommonDB) DB() *sql.DB {
	return c.db
}
