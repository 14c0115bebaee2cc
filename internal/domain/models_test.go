package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsExpired(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	tests := []struct {
		name     string
		deadline *time.Time
		want     bool
	}{
		{"no deadline", nil, false},
		{"deadline in the past", &past, true},
		{"deadline in the future", &future, false},
		{"deadline exactly now", &now, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &Reservation{Status: StatusConfirmed, PickupDeadline: tt.deadline}
			assert.Equal(t, tt.want, r.IsExpired(now))
		})
	}
}

func TestIsExpiredPendingReservation(t *testing.T) {
	r := &Reservation{Status: StatusPending}
	assert.False(t, r.IsExpired(time.Now()), "pending reservations have no deadline")
}

func TestStatusIsTerminal(t *testing.T) {
	assert.False(t, StatusPending.IsTerminal())
	assert.False(t, StatusConfirmed.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
	assert.True(t, StatusCompleted.IsTerminal())
}

func TestUserRoleHelpers(t *testing.T) {
	reader := &User{Role: RoleReader, Active: true}
	admin := &User{Role: RoleAdmin, Active: true}
	inactive := &User{Role: RoleReader, Active: false}

	assert.True(t, reader.CanBorrow())
	assert.False(t, reader.IsAdmin())

	assert.True(t, admin.IsAdmin())
	assert.False(t, admin.CanBorrow(), "admins may not borrow")

	assert.False(t, inactive.CanBorrow())
}
