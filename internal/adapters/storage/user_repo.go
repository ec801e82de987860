package storage

import (
	"context"
	"errors"

	"github.com/sunscan-sec/sunscan/internal/core/domain"
	"github.com/sunscan-sec/sunscan/internal/core/ports"
	"gorm.io/gorm"
)

// Ensure interface compliance
var _ ports.UserRepository = (*UserRepo)(nil)

// UserRepo persists accounts.
type UserRepo struct {
	db *gorm.DB
}

// NewUserRepo creates a user repository on the shared store.
func NewUserRepo(s *Store) *UserRepo {
	return &UserRepo{db: s.db}
}

// Create persists a new user. Username or email collisions surface as
// domain.ErrDuplicate.
func (r *UserRepo) Create(ctx context.Context, user *domain.User) error {
	model := toUserModel(user)
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return translateErr(err)
	}
	user.ID = model.ID
	return nil
}

// Update persists changes to an existing user.
func (r *UserRepo) Update(ctx context.Context, user *domain.User) error {
	if user.ID == 0 {
		return domain.ErrNotFound
	}
	model := toUserModel(user)
	return translateErr(r.db.WithContext(ctx).Save(&model).Error)
}

// GetByID retrieves a user by their ID.
func (r *UserRepo) GetByID(ctx context.Context, id uint) (*domain.User, error) {
	var model UserModel
	if err := r.db.WithContext(ctx).First(&model, id).Error; err != nil {
		return nil, translateErr(err)
	}
	return toUserDomain(model), nil
}

// GetByUsername retrieves a user by their username.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	var model UserModel
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&model).Error; err != nil {
		return nil, translateErr(err)
	}
	return toUserDomain(model), nil
}

// List returns all users.
func (r *UserRepo) List(ctx context.Context) ([]domain.User, error) {
	var models []UserModel
	if err := r.db.WithContext(ctx).Order("id").Find(&models).Error; err != nil {
		return nil, translateErr(err)
	}
	users := make([]domain.User, len(models))
	for i, m := range models {
		users[i] = *toUserDomain(m)
	}
	return users, nil
}

// Delete removes a user. Scans, reports, and firewall rules keep their user
// FK under RESTRICT, so the delete is blocked while any of them reference
// the account.
func (r *UserRepo) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&UserModel{}, id)
	if res.Error != nil {
		if errors.Is(translateErr(res.Error), domain.ErrParentMissing) {
			return domain.ErrInUse
		}
		return translateErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
