package storage

import (
	"context"

	"github.com/sunscan-sec/sunscan/internal/core/domain"
	"github.com/sunscan-sec/sunscan/internal/core/ports"
	"gorm.io/gorm"
)

// Ensure interface compliance
var _ ports.VulnerabilityRepository = (*VulnerabilityRepo)(nil)

// VulnerabilityRepo persists findings.
type VulnerabilityRepo struct {
	db *gorm.DB
}

// NewVulnerabilityRepo creates a vulnerability repository on the shared store.
func NewVulnerabilityRepo(s *Store) *VulnerabilityRepo {
	return &VulnerabilityRepo{db: s.db}
}

// Create persists a finding. A nonexistent device surfaces as
// domain.ErrParentMissing.
func (r *VulnerabilityRepo) Create(ctx context.Context, vuln *domain.Vulnerability) error {
	model := toVulnModel(vuln)
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return translateErr(err)
	}
	vuln.ID = model.ID
	return nil
}

// GetByID retrieves a finding by its ID.
func (r *VulnerabilityRepo) GetByID(ctx context.Context, id uint) (*domain.Vulnerability, error) {
	var model VulnerabilityModel
	if err := r.db.WithContext(ctx).First(&model, id).Error; err != nil {
		return nil, translateErr(err)
	}
	return toVulnDomain(model), nil
}

// Find retrieves findings matching the filter criteria. Filtering by ScanID
// joins through the owning devices.
func (r *VulnerabilityRepo) Find(ctx context.Context, filter domain.VulnerabilityFilter) ([]domain.Vulnerability, error) {
	query := r.db.WithContext(ctx).Model(&VulnerabilityModel{})

	if filter.DeviceID != 0 {
		query = query.Where("device_id = ?", filter.DeviceID)
	}
	if filter.ScanID != 0 {
		query = query.Where(
			"device_id IN (?)",
			r.db.Model(&DeviceModel{}).Select("id").Where("scan_id = ?", filter.ScanID),
		)
	}
	if filter.Severity != "" {
		query = query.Where("severity = ?", string(filter.Severity))
	}
	if filter.Status != "" {
		query = query.Where("status = ?", string(filter.Status))
	}

	var models []VulnerabilityModel
	if err := query.Order("cvss_score desc").Find(&models).Error; err != nil {
		return nil, translateErr(err)
	}
	vulns := make([]domain.Vulnerability, len(models))
	for i, m := range models {
		vulns[i] = *toVulnDomain(m)
	}
	return vulns, nil
}

// UpdateStatus moves a finding through its remediation states.
func (r *VulnerabilityRepo) UpdateStatus(ctx context.Context, id uint, status domain.VulnStatus) error {
	if !status.IsValid() {
		return domain.ErrInvalidVulnStatus
	}
	res := r.db.WithContext(ctx).
		Model(&VulnerabilityModel{}).
		Where("id = ?", id).
		Update("status", string(status))
	if res.Error != nil {
		return translateErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
