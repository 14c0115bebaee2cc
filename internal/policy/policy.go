// Package policy holds the role checks gating catalog mutations and the
// reservation lifecycle. The checks are pure predicates over the principal
// passed in explicitly; there is no ambient current-user state.
package policy

import (
	"github.com/Dinara-volsu/library-management-system/internal/domain"
)

// requireRole distinguishes a missing principal (ErrUnauthorized) from an
// authenticated principal with the wrong role or a deactivated account
// (ErrForbidden).
func requireRole(principal *domain.User, role domain.Role) error {
	if principal == nil {
		return domain.ErrUnauthorized
	}
	if !principal.Active || principal.Role != role {
		return domain.ErrForbidden
	}
	return nil
}

// CanAddBook permits only administrators to add titles.
func CanAddBook(principal *domain.User) error {
	return requireRole(principal, domain.RoleAdmin)
}

// CanWriteOffBook permits only administrators to write off titles.
func CanWriteOffBook(principal *domain.User) error {
	return requireRole(principal, domain.RoleAdmin)
}

// CanConfirmReservation permits only administrators to confirm.
func CanConfirmReservation(principal *domain.User) error {
	return requireRole(principal, domain.RoleAdmin)
}

// CanReserveBook permits only active readers to hold reservations.
// Administrators may not borrow.
func CanReserveBook(principal *domain.User) error {
	return requireRole(principal, domain.RoleReader)
}
