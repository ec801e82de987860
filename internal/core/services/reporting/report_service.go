package reporting

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/sunscan-sec/sunscan/internal/core/domain"
	"github.com/sunscan-sec/sunscan/internal/core/ports"
	"github.com/sunscan-sec/sunscan/internal/telemetry"
)

// Service registers report records for finished scans. Rendering the
// artifact is the generator's job; this service only reserves the path and
// persists the row.
type Service struct {
	reports    ports.ReportRepository
	scans      ports.ScanRepository
	reportsDir string
}

// NewService creates a reporting service writing artifact paths under dir.
func NewService(reports ports.ReportRepository, scans ports.ScanRepository, dir string) *Service {
	return &Service{
		reports:    reports,
		scans:      scans,
		reportsDir: dir,
	}
}

// Register creates a report record for a terminal scan. The artifact path is
// allocated as <dir>/<scanID>_<type>_<uuid>.pdf.
func (s *Service) Register(ctx context.Context, userID, scanID uint, reportType domain.ReportType) (*domain.Report, error) {
	scan, err := s.scans.GetByID(ctx, scanID)
	if err != nil {
		return nil, err
	}
	if !scan.Terminal() {
		return nil, domain.ErrScanNotTerminal
	}

	report := &domain.Report{
		UserID:     userID,
		ScanID:     scanID,
		ReportType: reportType,
		FilePath:   s.artifactPath(scanID, reportType),
	}
	if err := report.Validate(); err != nil {
		return nil, err
	}
	if err := s.reports.Create(ctx, report); err != nil {
		return nil, fmt.Errorf("failed to register report: %w", err)
	}
	telemetry.ReportsRegistered.WithLabelValues(string(reportType)).Inc()
	return report, nil
}

// ListByUser returns the user's report records, newest first.
func (s *Service) ListByUser(ctx context.Context, userID uint) ([]domain.Report, error) {
	return s.reports.ListByUser(ctx, userID)
}

// ListByScan returns a scan's report records, newest first.
func (s *Service) ListByScan(ctx context.Context, scanID uint) ([]domain.Report, error) {
	return s.reports.ListByScan(ctx, scanID)
}

// Delete removes a report record.
func (s *Service) Delete(ctx context.Context, id uint) error {
	return s.reports.Delete(ctx, id)
}

func (s *Service) artifactPath(scanID uint, reportType domain.ReportType) string {
	name := fmt.Sprintf("%d_%s_%s.pdf", scanID, reportType, uuid.New().String())
	return filepath.Join(s.reportsDir, name)
}
