// Package reservation implements the reservation lifecycle:
//
//	pending -> confirmed -> completed
//	pending | confirmed -> cancelled
//
// Every transition that holds or releases a copy is coupled to the
// availability ledger inside a single store transaction, so a reservation
// and its copy can never drift apart.
package reservation

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"github.com/Dinara-volsu/library-management-system/internal/domain"
	"github.com/Dinara-volsu/library-management-system/internal/events"
	"github.com/Dinara-volsu/library-management-system/internal/policy"
	"github.com/Dinara-volsu/library-management-system/internal/store"
)

// DefaultPickupLeadDays is how long a confirmed reservation is held for
// pickup when the admin does not specify a lead time.
const DefaultPickupLeadDays = 3

var operationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "library_reservation_operations_total",
		Help: "Reservation operations by name and outcome.",
	},
	[]string{"operation", "outcome"},
)

// Service drives reservation state transitions against the store.
type Service struct {
	store    *store.Store
	events   events.Publisher
	log      *zap.Logger
	leadDays int
}

// NewService creates the reservation service. leadDays <= 0 falls back to
// DefaultPickupLeadDays.
func NewService(st *store.Store, publisher events.Publisher, logger *zap.Logger, leadDays int) *Service {
	if leadDays <= 0 {
		leadDays = DefaultPickupLeadDays
	}
	return &Service{
		store:    st,
		events:   publisher,
		log:      logger,
		leadDays: leadDays,
	}
}

func observe(operation string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	operationsTotal.WithLabelValues(operation, outcome).Inc()
}

// Reserve creates a pending reservation for the principal, taking one
// loanable copy. Fails with ErrUnavailable when no copies are left, in
// which case no reservation record is created.
func (s *Service) Reserve(ctx context.Context, principal *domain.User, bookID uint) (r *domain.Reservation, err error) {
	defer func() { observe("reserve", err) }()

	if err = policy.CanReserveBook(principal); err != nil {
		return nil, err
	}

	r, err = s.store.ReserveCopy(ctx, bookID, principal.ID, time.Now())
	if err != nil {
		return nil, err
	}

	s.emit(ctx, func(ctx context.Context) error {
		return s.events.ReservationCreated(ctx, r)
	})
	return r, nil
}

// Confirm moves a pending reservation to confirmed and stamps the pickup
// deadline. leadDays <= 0 uses the service default.
func (s *Service) Confirm(ctx context.Context, principal *domain.User, reservationID uint, leadDays int) (r *domain.Reservation, err error) {
	defer func() { observe("confirm", err) }()

	if err = policy.CanConfirmReservation(principal); err != nil {
		return nil, err
	}

	if leadDays <= 0 {
		leadDays = s.leadDays
	}
	deadline := time.Now().AddDate(0, 0, leadDays)

	r, err = s.store.TransitionReservation(
		ctx,
		reservationID,
		[]domain.ReservationStatus{domain.StatusPending},
		domain.StatusConfirmed,
		&deadline,
		false,
	)
	if err != nil {
		return nil, err
	}

	s.emit(ctx, func(ctx context.Context) error {
		return s.events.ReservationTransitioned(ctx, r)
	})
	return r, nil
}

// Cancel aborts a pending or confirmed reservation and releases the held
// copy back to the ledger.
func (s *Service) Cancel(ctx context.Context, reservationID uint) (r *domain.Reservation, err error) {
	defer func() { observe("cancel", err) }()

	r, err = s.store.TransitionReservation(
		ctx,
		reservationID,
		[]domain.ReservationStatus{domain.StatusPending, domain.StatusConfirmed},
		domain.StatusCancelled,
		nil,
		true,
	)
	if err != nil {
		return nil, err
	}

	s.emit(ctx, func(ctx context.Context) error {
		return s.events.ReservationTransitioned(ctx, r)
	})
	return r, nil
}

// Complete marks a confirmed reservation as picked up. The copy stays
// lent out, so availability does not change.
func (s *Service) Complete(ctx context.Context, reservationID uint) (r *domain.Reservation, err error) {
	defer func() { observe("complete", err) }()

	r, err = s.store.TransitionReservation(
		ctx,
		reservationID,
		[]domain.ReservationStatus{domain.StatusConfirmed},
		domain.StatusCompleted,
		nil,
		false,
	)
	if err != nil {
		return nil, err
	}

	s.emit(ctx, func(ctx context.Context) error {
		return s.events.ReservationTransitioned(ctx, r)
	})
	return r, nil
}

// ListForUser returns the principal's reservations, newest first.
func (s *Service) ListForUser(ctx context.Context, principal *domain.User) ([]*domain.Reservation, error) {
	if principal == nil {
		return nil, domain.ErrUnauthorized
	}
	return s.store.ReservationsForUser(ctx, principal.ID)
}

// Get retrieves a reservation by id.
func (s *Service) Get(ctx context.Context, reservationID uint) (*domain.Reservation, error) {
	return s.store.GetReservation(ctx, reservationID)
}

// emit publishes an event best-effort: failures are logged, never returned,
// so a broker outage does not fail a committed transition.
func (s *Service) emit(ctx context.Context, publish func(context.Context) error) {
	if err := publish(ctx); err != nil {
		s.log.Warn("failed to publish reservation event", zap.Error(err))
	}
}
