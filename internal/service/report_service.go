package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/finboard/finboard-backend/internal/domain"
	"github.com/finboard/finboard-backend/internal/loancalc"
	"github.com/finboard/finboard-backend/internal/repository/storage"
	"github.com/rs/zerolog/log"
)

const (
	ScheduleExportKind = "schedule"
	ScheduleExportTTL  = 15 * time.Minute
	csvContentType     = "text/csv"
)

// ScheduleExport describes an uploaded schedule CSV
type ScheduleExport struct {
	ObjectPath string    `json:"objectPath"`
	URL        string    `json:"url"`
	ExpiresAt  time.Time `json:"expiresAt"`
	Rows       int       `json:"rows"`
}

// ReportService renders loan reports and stores them in object storage
type ReportService struct {
	storage storage.ReportRepository
	loans   *LoanService
	now     func() time.Time
}

// NewReportService creates a new ReportService. A nil storage disables exports.
func NewReportService(storage storage.ReportRepository, loans *LoanService) *ReportService {
	return &ReportService{
		storage: storage,
		loans:   loans,
		now:     time.Now,
	}
}

// IsEnabled indicates whether exports are supported (storage configured)
func (s *ReportService) IsEnabled() bool {
	return s != nil && s.storage != nil
}

// ExportSchedule uploads the reconciled amortization schedule of a loan as CSV
// and returns a temporary download link
func (s *ReportService) ExportSchedule(ctx context.Context, workspaceID int32, loanID int32) (*ScheduleExport, error) {
	if !s.IsEnabled() {
		return nil, domain.ErrReportStorageDisabled
	}

	loan, status, err := s.loans.GetLoanWithStatus(workspaceID, loanID)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := loancalc.WriteScheduleCSV(&buf, loan, status.Schedule); err != nil {
		return nil, fmt.Errorf("render schedule: %w", err)
	}

	objectPath := storage.GenerateObjectPath(workspaceID, loanID, ScheduleExportKind, ".csv")
	size := int64(buf.Len())
	if _, err := s.storage.Upload(ctx, objectPath, &buf, csvContentType, size); err != nil {
		log.Error().Err(err).Int32("workspace_id", workspaceID).Int32("loan_id", loanID).Msg("Failed to upload schedule export")
		return nil, fmt.Errorf("upload schedule: %w", err)
	}

	url, err := s.storage.GeneratePresignedURL(ctx, objectPath, ScheduleExportTTL)
	if err != nil {
		return nil, fmt.Errorf("presign schedule: %w", err)
	}

	log.Info().
		Int32("workspace_id", workspaceID).
		Int32("loan_id", loanID).
		Str("object_path", objectPath).
		Int64("size", size).
		Msg("Schedule exported")

	return &ScheduleExport{
		ObjectPath: objectPath,
		URL:        url,
		ExpiresAt:  s.now().Add(ScheduleExportTTL),
		Rows:       len(status.Schedule),
	}, nil
}
