package events

import (
	"context"

	"github.com/Dinara-volsu/library-management-system/internal/domain"
)

// Routing keys published on the library.events exchange.
const (
	EventTypeBookAdded          = "book.added"
	EventTypeBookWrittenOff     = "book.written_off"
	EventTypeReservationCreated = "reservation.created"
	EventTypeReservationMoved   = "reservation.transitioned"
)

// Publisher emits catalog and reservation lifecycle events. The core treats
// publishing as best-effort: a failed publish is logged, never propagated
// into the operation result.
type Publisher interface {
	BookAdded(ctx context.Context, book *domain.Book) error
	BookWrittenOff(ctx context.Context, bookID uint) error
	ReservationCreated(ctx context.Context, r *domain.Reservation) error
	ReservationTransitioned(ctx context.Context, r *domain.Reservation) error
	IsHealthy() bool
	Close() error
}

// NopPublisher drops every event. Used in console mode and wherever no
// broker is configured.
type NopPublisher struct{}

func (NopPublisher) BookAdded(context.Context, *domain.Book) error                { return nil }
func (NopPublisher) BookWrittenOff(context.Context, uint) error                   { return nil }
func (NopPublisher) ReservationCreated(context.Context, *domain.Reservation) error { return nil }
func (NopPublisher) ReservationTransitioned(context.Context, *domain.Reservation) error {
	return nil
}
func (NopPublisher) IsHealthy() bool { return true }
func (NopPublisher) Close() error    { return nil }
