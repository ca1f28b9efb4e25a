package services

import (
	"context"
	"io"

	"callguard/internal/api/errors"
	"callguard/internal/api/v1/dto"
	"callguard/internal/app/export"
	"callguard/internal/app/repository"
)

// ExportServiceImpl writes feedback records as an Excel workbook.
type ExportServiceImpl struct {
	dao repository.FeedbackDAO
}

// NewExportService creates a new export service
func NewExportService(dao repository.FeedbackDAO) *ExportServiceImpl {
	return &ExportServiceImpl{dao: dao}
}

// ExportFeedback writes up to req.Limit newest records to writer
func (s *ExportServiceImpl) ExportFeedback(ctx context.Context, req dto.ExportRequest, writer io.Writer) error {
	records, err := s.dao.List(ctx, req.Limit, 0)
	if err != nil {
		return errors.WrapError(err, errors.KindInternal, "Failed to list feedback")
	}
	return export.WriteExcel(records, writer)
}
