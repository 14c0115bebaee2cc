package store

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Dinara-volsu/library-management-system/internal/domain"
)

// ReserveCopy is the single logical reserve operation: take one loanable
// copy and record a pending reservation, both or neither. The ledger
// decrement and the insert run in one transaction.
func (s *Store) ReserveCopy(ctx context.Context, bookID, userID uint, at time.Time) (*domain.Reservation, error) {
	reservation := &domain.Reservation{
		BookID:          bookID,
		UserID:          userID,
		Status:          domain.StatusPending,
		ReservationDate: at,
		CreatedAt:       at,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := borrowCopy(tx, bookID); err != nil {
			return err
		}
		return tx.Create(reservation).Error
	})
	if err != nil {
		if errors.Is(err, domain.ErrBookNotFound) || errors.Is(err, domain.ErrUnavailable) {
			return nil, err
		}
		return nil, s.mapErr("reserve copy", err)
	}

	s.log.Info("reservation created",
		zap.Uint("reservation_id", reservation.ID),
		zap.Uint("book_id", bookID),
		zap.Uint("user_id", userID),
	)
	return reservation, nil
}

// GetReservation retrieves a reservation by id.
func (s *Store) GetReservation(ctx context.Context, id uint) (*domain.Reservation, error) {
	var reservation domain.Reservation
	err := s.db.WithContext(ctx).First(&reservation, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrReservationNotFound
		}
		return nil, s.mapErr("get reservation", err)
	}
	return &reservation, nil
}

// TransitionReservation moves a reservation from one of the allowed states
// to the target state. The state guard and the write are a single
// conditional update, so concurrent transitions cannot both apply. When
// releaseCopy is set the held copy goes back to the ledger in the same
// transaction. A non-nil deadline is written alongside the new status.
func (s *Store) TransitionReservation(
	ctx context.Context,
	id uint,
	allowedFrom []domain.ReservationStatus,
	to domain.ReservationStatus,
	deadline *time.Time,
	releaseCopy bool,
) (*domain.Reservation, error) {
	var reservation domain.Reservation

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		values := map[string]interface{}{"status": to}
		if deadline != nil {
			values["pickup_deadline"] = *deadline
		}

		result := tx.Model(&domain.Reservation{}).
			Where("id = ? AND status IN ?", id, allowedFrom).
			Updates(values)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&domain.Reservation{}).Where("id = ?", id).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return domain.ErrReservationNotFound
			}
			return domain.ErrInvalidState
		}

		if err := tx.First(&reservation, id).Error; err != nil {
			return err
		}

		if releaseCopy {
			return returnCopy(tx, reservation.BookID)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrReservationNotFound) ||
			errors.Is(err, domain.ErrInvalidState) ||
			errors.Is(err, domain.ErrCapacityExceeded) {
			return nil, err
		}
		return nil, s.mapErr("transition reservation", err)
	}

	s.log.Info("reservation transitioned",
		zap.Uint("reservation_id", reservation.ID),
		zap.String("status", string(reservation.Status)),
	)
	return &reservation, nil
}

// ReservationsForUser returns the user's reservations, newest first, with
// the book preloaded for display.
func (s *Store) ReservationsForUser(ctx context.Context, userID uint) ([]*domain.Reservation, error) {
	var reservations []*domain.Reservation
	err := s.db.WithContext(ctx).
		Preload("Book").
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&reservations).Error
	if err != nil {
		return nil, s.mapErr("reservations for user", err)
	}
	return reservations, nil
}
