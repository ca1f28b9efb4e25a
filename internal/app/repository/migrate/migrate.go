package migrate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"callguard/internal/app/repository"
)

// Stats counts the outcome of a migration run.
type Stats struct {
	Copied  int `json:"copied"`
	Skipped int `json:"skipped"`
	Invalid int `json:"invalid"`
}

// DefaultBatchSize is the page size used when none is given.
const DefaultBatchSize = 1000

// Feedback copies every record from src into dst. Records already present in
// dst (by id) are skipped, so an interrupted run can be repeated safely.
func Feedback(ctx context.Context, src, dst repository.FeedbackDAO, batchSize int, logger *zap.Logger) (Stats, error) {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	var stats Stats
	for offset := 0; ; offset += batchSize {
		page, err := src.List(ctx, batchSize, offset)
		if err != nil {
			return stats, fmt.Errorf("read source page at offset %d: %w", offset, err)
		}

		for i := range page {
			f := &page[i]
			if strings.TrimSpace(f.ID) == "" || strings.TrimSpace(f.Transcript) == "" {
				logger.Warn("skipping invalid feedback record", zap.String("id", f.ID))
				stats.Invalid++
				continue
			}

			_, err := dst.Get(ctx, f.ID)
			switch {
			case err == nil:
				stats.Skipped++
				continue
			case !errors.Is(err, repository.ErrNotFound):
				return stats, fmt.Errorf("check destination for %s: %w", f.ID, err)
			}

			if err := dst.Create(ctx, f); err != nil {
				return stats, fmt.Errorf("copy %s: %w", f.ID, err)
			}
			stats.Copied++
		}

		if len(page) < batchSize {
			break
		}
	}

	logger.Info("feedback migration completed",
		zap.Int("copied", stats.Copied),
		zap.Int("skipped", stats.Skipped),
		zap.Int("invalid", stats.Invalid))
	return stats, nil
}
