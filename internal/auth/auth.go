// Package auth handles registration and credential checks. Passwords are
// stored as bcrypt digests, which carry their own salt, so every stored
// digest is unique even for identical passwords.
package auth

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/Dinara-volsu/library-management-system/internal/domain"
	"github.com/Dinara-volsu/library-management-system/internal/store"
)

// ErrInvalidCredentials is returned on a failed login. The caller cannot
// tell a wrong password from an unknown or deactivated user.
var ErrInvalidCredentials = errors.New("invalid username or password")

// ErrInvalidRegistration is returned when required registration fields are
// missing.
var ErrInvalidRegistration = errors.New("username, email, password and full name are required")

// Service performs registration and login against the store.
type Service struct {
	store *store.Store
	log   *zap.Logger
}

// NewService creates the auth service.
func NewService(st *store.Store, logger *zap.Logger) *Service {
	return &Service{
		store: st,
		log:   logger,
	}
}

// Register creates a new reader account. Duplicate username or email
// surfaces as domain.ErrConflict from the store's unique indexes.
func (s *Service) Register(ctx context.Context, username, email, password, fullName, phone string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	fullName = strings.TrimSpace(fullName)
	if username == "" || email == "" || password == "" || fullName == "" {
		return nil, ErrInvalidRegistration
	}

	digest, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(digest),
		Role:         domain.RoleReader,
		FullName:     fullName,
		Phone:        strings.TrimSpace(phone),
		Active:       true,
	}

	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// RegisterAdmin creates an administrator account. Not reachable from the
// public surfaces; used by seeding and operator tooling.
func (s *Service) RegisterAdmin(ctx context.Context, username, email, password, fullName string) (*domain.User, error) {
	user, err := s.Register(ctx, username, email, password, fullName, "")
	if err != nil {
		return nil, err
	}
	// Role is immutable after creation everywhere else; flipping it here
	// happens before the account is ever handed out.
	user.Role = domain.RoleAdmin
	if err := s.store.SetUserRole(ctx, user.ID, domain.RoleAdmin); err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifies credentials and returns the user. Deactivated accounts
// fail the same way wrong passwords do.
func (s *Service) Login(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := s.store.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.Active {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.log.Debug("login failed", zap.String("username", username))
		return nil, ErrInvalidCredentials
	}
	return user, nil
}
