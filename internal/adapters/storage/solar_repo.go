package storage

import (
	"context"
	"errors"

	"github.com/sunscan-sec/sunscan/internal/core/domain"
	"github.com/sunscan-sec/sunscan/internal/core/ports"
	"gorm.io/gorm"
)

// Ensure interface compliance
var _ ports.SolarAssessmentRepository = (*SolarRepo)(nil)

// SolarRepo persists solar security assessments.
type SolarRepo struct {
	db *gorm.DB
}

// NewSolarRepo creates a solar assessment repository on the shared store.
func NewSolarRepo(s *Store) *SolarRepo {
	return &SolarRepo{db: s.db}
}

// Create persists the scan's single assessment. The unique index on scan_id
// turns a second insert into domain.ErrAssessmentExists regardless of scan
// status; a nonexistent scan surfaces as domain.ErrParentMissing.
func (r *SolarRepo) Create(ctx context.Context, assessment *domain.SolarAssessment) error {
	model := toAssessmentModel(assessment)
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		err = translateErr(err)
		if errors.Is(err, domain.ErrDuplicate) {
			return domain.ErrAssessmentExists
		}
		return err
	}
	assessment.ID = model.ID
	return nil
}

// GetByScan retrieves the assessment owned by the scan.
func (r *SolarRepo) GetByScan(ctx context.Context, scanID uint) (*domain.SolarAssessment, error) {
	var model SolarAssessmentModel
	if err := r.db.WithContext(ctx).Where("scan_id = ?", scanID).First(&model).Error; err != nil {
		return nil, translateErr(err)
	}
	return toAssessmentDomain(model), nil
}
