package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Dinara-volsu/library-management-system/internal/domain"
)

var (
	reader   = &domain.User{ID: 1, Role: domain.RoleReader, Active: true}
	admin    = &domain.User{ID: 2, Role: domain.RoleAdmin, Active: true}
	inactive = &domain.User{ID: 3, Role: domain.RoleReader, Active: false}
)

func TestAdminOnlyChecks(t *testing.T) {
	checks := map[string]func(*domain.User) error{
		"CanAddBook":            CanAddBook,
		"CanWriteOffBook":       CanWriteOffBook,
		"CanConfirmReservation": CanConfirmReservation,
	}

	for name, check := range checks {
		t.Run(name, func(t *testing.T) {
			assert.NoError(t, check(admin))
			assert.ErrorIs(t, check(reader), domain.ErrForbidden)
			assert.ErrorIs(t, check(nil), domain.ErrUnauthorized)
		})
	}
}

func TestCanReserveBook(t *testing.T) {
	assert.NoError(t, CanReserveBook(reader))
	assert.ErrorIs(t, CanReserveBook(admin), domain.ErrForbidden)
	assert.ErrorIs(t, CanReserveBook(inactive), domain.ErrForbidden)
	assert.ErrorIs(t, CanReserveBook(nil), domain.ErrUnauthorized)
}
