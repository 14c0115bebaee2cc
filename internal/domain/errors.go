package domain

import "errors"

// Every failed invariant check surfaces as one of these sentinels so the
// presentation layers can render a specific message. Compare with errors.Is;
// storage faults are wrapped around ErrStoreUnavailable.
var (
	// ErrUnauthorized is returned when no principal is supplied at all.
	ErrUnauthorized = errors.New("authentication required")

	// ErrForbidden is returned when the principal's role does not permit
	// the operation, or the account is deactivated.
	ErrForbidden = errors.New("operation not permitted")

	// ErrBookNotFound is returned when a book is not found
	ErrBookNotFound = errors.New("book not found")

	// ErrUserNotFound is returned when a user is not found
	ErrUserNotFound = errors.New("user not found")

	// ErrReservationNotFound is returned when a reservation is not found
	ErrReservationNotFound = errors.New("reservation not found")

	// ErrUnavailable is returned when a book has no loanable copies left.
	ErrUnavailable = errors.New("no copies available")

	// ErrInvalidState is returned on an illegal reservation transition,
	// e.g. confirming a reservation that is not pending.
	ErrInvalidState = errors.New("invalid reservation state")

	// ErrConflict is returned on unique-constraint violations
	// (username, email, ISBN).
	ErrConflict = errors.New("record already exists")

	// ErrCapacityExceeded is returned when returning a copy would push
	// available above quantity. Should be unreachable under correct
	// callers but is checked at the storage boundary.
	ErrCapacityExceeded = errors.New("available copies would exceed quantity")

	// ErrStoreUnavailable wraps storage-layer faults (connectivity,
	// unexpected driver errors). Retries belong to the caller.
	ErrStoreUnavailable = errors.New("storage unavailable")
)

// IsNotFound reports whether err is any of the not-found sentinels.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrBookNotFound) ||
		errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrReservationNotFound)
}
