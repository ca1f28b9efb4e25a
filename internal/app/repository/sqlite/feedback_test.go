package sqlite

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"callguard/internal/app/model"
	"callguard/internal/app/repository"
)

func newTestDB(t *testing.T) *SQLiteDB {
	t.Helper()
	db, err := NewSQLiteDB(context.Background(), filepath.Join(t.TempDir(), "data", "feedback.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func newFeedback(transcript string, fraud bool, created time.Time) *model.Feedback {
	return &model.Feedback{
		ID:           uuid.NewString(),
		Transcript:   transcript,
		IsFraudulent: fraud,
		Confidence:   0.87,
		CreatedAt:    created,
		UpdatedAt:    created,
	}
}

func TestSQLiteDB_CreateGet(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	created := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	f := newFeedback("please confirm your otp", true, created)
	require.NoError(t, db.Create(ctx, f))

	got, err := db.Get(ctx, f.ID)
	require.NoError(t, err)
	assert.Equal(t, f.ID, got.ID)
	assert.Equal(t, "please confirm your otp", got.Transcript)
	assert.True(t, got.IsFraudulent)
	assert.InDelta(t, 0.87, got.Confidence, 1e-9)
	assert.Empty(t, got.UserFeedback)
	assert.True(t, created.Equal(got.CreatedAt))

	_, err = db.Get(ctx, uuid.NewString())
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestSQLiteDB_DuplicateID(t *testing.T) {
	db := newTestDB(t)
	f := newFeedback("hello", false, time.Now().UTC())
	require.NoError(t, db.Create(context.Background(), f))
	assert.Error(t, db.Create(context.Background(), f))
}

func TestSQLiteDB_UpdateUserFeedback(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	created := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	updated := created.Add(time.Hour)
	db.WithClock(func() time.Time { return updated })

	f := newFeedback("your parcel is held", true, created)
	require.NoError(t, db.Create(ctx, f))

	got, err := db.UpdateUserFeedback(ctx, f.ID, "it was a real courier")
	require.NoError(t, err)
	assert.Equal(t, "it was a real courier", got.UserFeedback)
	assert.True(t, updated.Equal(got.UpdatedAt))
	assert.True(t, created.Equal(got.CreatedAt))

	_, err = db.UpdateUserFeedback(ctx, "does-not-exist", "x")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestSQLiteDB_ListCount(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		require.NoError(t, db.Create(ctx, newFeedback(fmt.Sprintf("call %d", i), i%2 == 0, base.Add(time.Duration(i)*time.Minute))))
	}

	count, err := db.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, count)

	page, err := db.List(ctx, 2, 0)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "call 4", page[0].Transcript)
	assert.Equal(t, "call 3", page[1].Transcript)

	page, err = db.List(ctx, 10, 4)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "call 0", page[0].Transcript)

	page, err = db.List(ctx, 10, 50)
	require.NoError(t, err)
	assert.Empty(t, page)
	assert.NotNil(t, page)
}
