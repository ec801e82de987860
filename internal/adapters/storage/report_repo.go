package storage

import (
	"context"

	"github.com/sunscan-sec/sunscan/internal/core/domain"
	"github.com/sunscan-sec/sunscan/internal/core/ports"
	"gorm.io/gorm"
)

// Ensure interface compliance
var _ ports.ReportRepository = (*ReportRepo)(nil)

// ReportRepo persists report records.
type ReportRepo struct {
	db *gorm.DB
}

// NewReportRepo creates a report repository on the shared store.
func NewReportRepo(s *Store) *ReportRepo {
	return &ReportRepo{db: s.db}
}

// Create persists a report record. A nonexistent user or scan surfaces as
// domain.ErrParentMissing.
func (r *ReportRepo) Create(ctx context.Context, report *domain.Report) error {
	model := toReportModel(report)
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return translateErr(err)
	}
	report.ID = model.ID
	return nil
}

// GetByID retrieves a report record by its ID.
func (r *ReportRepo) GetByID(ctx context.Context, id uint) (*domain.Report, error) {
	var model ReportModel
	if err := r.db.WithContext(ctx).First(&model, id).Error; err != nil {
		return nil, translateErr(err)
	}
	return toReportDomain(model), nil
}

// ListByUser returns report records owned by the user, newest first.
func (r *ReportRepo) ListByUser(ctx context.Context, userID uint) ([]domain.Report, error) {
	return r.list(ctx, "user_id = ?", userID)
}

// ListByScan returns report records generated for a scan, newest first.
func (r *ReportRepo) ListByScan(ctx context.Context, scanID uint) ([]domain.Report, error) {
	return r.list(ctx, "scan_id = ?", scanID)
}

func (r *ReportRepo) list(ctx context.Context, cond string, arg uint) ([]domain.Report, error) {
	var models []ReportModel
	err := r.db.WithContext(ctx).
		Where(cond, arg).
		Order("created_at desc").
		Find(&models).Error
	if err != nil {
		return nil, translateErr(err)
	}
	reports := make([]domain.Report, len(models))
	for i, m := range models {
		reports[i] = *toReportDomain(m)
	}
	return reports, nil
}

// Delete removes a report record. The artifact on disk belongs to the
// generator and is not touched here.
func (r *ReportRepo) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&ReportModel{}, id)
	if res.Error != nil {
		return translateErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
