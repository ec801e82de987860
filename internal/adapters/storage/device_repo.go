package storage

import (
	"context"

	"github.com/sunscan-sec/sunscan/internal/core/domain"
	"github.com/sunscan-sec/sunscan/internal/core/ports"
	"gorm.io/gorm"
)

// Ensure interface compliance
var _ ports.DeviceRepository = (*DeviceRepo)(nil)

// DeviceRepo persists discovered hosts.
type DeviceRepo struct {
	db *gorm.DB
}

// NewDeviceRepo creates a device repository on the shared store.
func NewDeviceRepo(s *Store) *DeviceRepo {
	return &DeviceRepo{db: s.db}
}

// Create persists a discovered host. A nonexistent scan surfaces as
// domain.ErrParentMissing.
func (r *DeviceRepo) Create(ctx context.Context, device *domain.Device) error {
	model := toDeviceModel(device)
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return translateErr(err)
	}
	device.ID = model.ID
	return nil
}

// GetByID retrieves a device by its ID.
func (r *DeviceRepo) GetByID(ctx context.Context, id uint) (*domain.Device, error) {
	var model DeviceModel
	if err := r.db.WithContext(ctx).First(&model, id).Error; err != nil {
		return nil, translateErr(err)
	}
	return toDeviceDomain(model), nil
}

// Find retrieves devices matching the filter criteria.
func (r *DeviceRepo) Find(ctx context.Context, filter domain.DeviceFilter) ([]domain.Device, error) {
	query := r.db.WithContext(ctx).Model(&DeviceModel{})

	if filter.ScanID != 0 {
		query = query.Where("scan_id = ?", filter.ScanID)
	}
	if filter.DeviceType != "" {
		query = query.Where("device_type = ?", filter.DeviceType)
	}
	if filter.Vulnerable != nil {
		query = query.Where("is_vulnerable = ?", *filter.Vulnerable)
	}
	if filter.Solar != nil {
		query = query.Where("is_solar_device = ?", *filter.Solar)
	}
	if !filter.SeenAfter.IsZero() {
		query = query.Where("last_seen >= ?", filter.SeenAfter)
	}

	var models []DeviceModel
	if err := query.Order("id").Find(&models).Error; err != nil {
		return nil, translateErr(err)
	}
	devices := make([]domain.Device, len(models))
	for i, m := range models {
		devices[i] = *toDeviceDomain(m)
	}
	return devices, nil
}

// MarkVulnerable flags the device. Returns true if the flag flipped, so the
// caller can maintain per-scan counters without double counting.
func (r *DeviceRepo) MarkVulnerable(ctx context.Context, id uint) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&DeviceModel{}).
		Where("id = ? AND is_vulnerable = ?", id, false).
		Update("is_vulnerable", true)
	if res.Error != nil {
		return false, translateErr(res.Error)
	}
	if res.RowsAffected > 0 {
		return true, nil
	}
	// Either already flagged or missing; distinguish for the caller.
	var count int64
	if err := r.db.WithContext(ctx).Model(&DeviceModel{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, translateErr(err)
	}
	if count == 0 {
		return false, domain.ErrNotFound
	}
	return false, nil
}
