package storage

import (
	"context"

	"github.com/sunscan-sec/sunscan/internal/core/domain"
	"github.com/sunscan-sec/sunscan/internal/core/ports"
	"gorm.io/gorm"
)

// Ensure interface compliance
var _ ports.FirewallRepository = (*FirewallRepo)(nil)

// FirewallRepo persists packet-filtering policies.
type FirewallRepo struct {
	db *gorm.DB
}

// NewFirewallRepo creates a firewall rule repository on the shared store.
func NewFirewallRepo(s *Store) *FirewallRepo {
	return &FirewallRepo{db: s.db}
}

// Create persists a new rule. A nonexistent owner surfaces as
// domain.ErrParentMissing.
func (r *FirewallRepo) Create(ctx context.Context, rule *domain.FirewallRule) error {
	model := toRuleModel(rule)
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return translateErr(err)
	}
	rule.ID = model.ID
	rule.CreatedAt = model.CreatedAt
	rule.UpdatedAt = model.UpdatedAt
	return nil
}

// Update persists changes to an existing rule.
func (r *FirewallRepo) Update(ctx context.Context, rule *domain.FirewallRule) error {
	if rule.ID == 0 {
		return domain.ErrNotFound
	}
	model := toRuleModel(rule)
	if err := r.db.WithContext(ctx).Save(&model).Error; err != nil {
		return translateErr(err)
	}
	rule.UpdatedAt = model.UpdatedAt
	return nil
}

// GetByID retrieves a rule by its ID.
func (r *FirewallRepo) GetByID(ctx context.Context, id uint) (*domain.FirewallRule, error) {
	var model FirewallRuleModel
	if err := r.db.WithContext(ctx).First(&model, id).Error; err != nil {
		return nil, translateErr(err)
	}
	return toRuleDomain(model), nil
}

// ListByUser returns the user's rules in evaluation order: lowest priority
// value first.
func (r *FirewallRepo) ListByUser(ctx context.Context, userID uint) ([]domain.FirewallRule, error) {
	var models []FirewallRuleModel
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("priority asc, id asc").
		Find(&models).Error
	if err != nil {
		return nil, translateErr(err)
	}
	rules := make([]domain.FirewallRule, len(models))
	for i, m := range models {
		rules[i] = *toRuleDomain(m)
	}
	return rules, nil
}

// SetActive toggles a rule without rewriting it.
func (r *FirewallRepo) SetActive(ctx context.Context, id uint, active bool) error {
	res := r.db.WithContext(ctx).
		Model(&FirewallRuleModel{}).
		Where("id = ?", id).
		Update("is_active", active)
	if res.Error != nil {
		return translateErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete removes a rule.
func (r *FirewallRepo) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&FirewallRuleModel{}, id)
	if res.Error != nil {
		return translateErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
