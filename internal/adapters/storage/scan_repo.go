package storage

import (
	"context"

	"github.com/sunscan-sec/sunscan/internal/core/domain"
	"github.com/sunscan-sec/sunscan/internal/core/ports"
	"gorm.io/gorm"
)

// Ensure interface compliance
var _ ports.ScanRepository = (*ScanRepo)(nil)

// ScanRepo persists scans.
type ScanRepo struct {
	db *gorm.DB
}

// NewScanRepo creates a scan repository on the shared store.
func NewScanRepo(s *Store) *ScanRepo {
	return &ScanRepo{db: s.db}
}

// Create persists a new scan. A nonexistent owner surfaces as
// domain.ErrParentMissing.
func (r *ScanRepo) Create(ctx context.Context, scan *domain.Scan) error {
	model := toScanModel(scan)
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return translateErr(err)
	}
	scan.ID = model.ID
	return nil
}

// Update persists status, counters, and timestamps of an existing scan.
func (r *ScanRepo) Update(ctx context.Context, scan *domain.Scan) error {
	if scan.ID == 0 {
		return domain.ErrNotFound
	}
	model := toScanModel(scan)
	return translateErr(r.db.WithContext(ctx).Save(&model).Error)
}

// GetByID retrieves a scan by its ID.
func (r *ScanRepo) GetByID(ctx context.Context, id uint) (*domain.Scan, error) {
	var model ScanModel
	if err := r.db.WithContext(ctx).First(&model, id).Error; err != nil {
		return nil, translateErr(err)
	}
	return toScanDomain(model), nil
}

// ListByUser returns all scans owned by the user, newest first.
func (r *ScanRepo) ListByUser(ctx context.Context, userID uint) ([]domain.Scan, error) {
	var models []ScanModel
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("start_time desc").
		Find(&models).Error
	if err != nil {
		return nil, translateErr(err)
	}
	scans := make([]domain.Scan, len(models))
	for i, m := range models {
		scans[i] = *toScanDomain(m)
	}
	return scans, nil
}

// Delete removes the scan. The FK graph cascades to devices, their
// vulnerabilities, the solar assessment, and the scan's reports.
func (r *ScanRepo) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&ScanModel{}, id)
	if res.Error != nil {
		return translateErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
