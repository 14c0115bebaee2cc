package store

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Dinara-volsu/library-management-system/internal/domain"
)

// CreateUser inserts a new user. Duplicate username or email surfaces as
// ErrConflict.
func (s *Store) CreateUser(ctx context.Context, user *domain.User) error {
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		return s.mapErr("create user", err)
	}

	s.log.Info("user created",
		zap.Uint("user_id", user.ID),
		zap.String("username", user.Username),
		zap.String("role", string(user.Role)),
	)
	return nil
}

// GetUserByUsername finds a user by unique username.
func (s *Store) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	var user domain.User
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, s.mapErr("get user by username", err)
	}
	return &user, nil
}

// GetUser finds a user by id.
func (s *Store) GetUser(ctx context.Context, id uint) (*domain.User, error) {
	var user domain.User
	err := s.db.WithContext(ctx).First(&user, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, s.mapErr("get user", err)
	}
	return &user, nil
}

// SetUserRole rewrites a user's role. Only seeding and operator tooling
// reach this; roles are immutable through the public surfaces.
func (s *Store) SetUserRole(ctx context.Context, id uint, role domain.Role) error {
	result := s.db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", id).Update("role", role)
	if result.Error != nil {
		return s.mapErr("set user role", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// DeactivateUser soft-deletes a user account.
func (s *Store) DeactivateUser(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", id).Update("active", false)
	if result.Error != nil {
		return s.mapErr("deactivate user", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}
