package store

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Dinara-volsu/library-management-system/internal/domain"
)

// Store is the catalog's only durable state. In-memory Book/Reservation
// values handed out by its methods are transient views; a mutation counts
// only once it has been written back through the store.
type Store struct {
	db  *DB
	log *zap.Logger
}

// New creates a store over an open database connection.
func New(db *DB, logger *zap.Logger) *Store {
	return &Store{
		db:  db,
		log: logger,
	}
}

// mapErr translates driver-level failures into the domain taxonomy.
// Unique-constraint violations become ErrConflict; everything else is a
// storage fault the caller may not retry from here.
func (s *Store) mapErr(op string, err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	if errors.Is(err, gorm.ErrDuplicatedKey) ||
		strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key") {
		return domain.ErrConflict
	}
	s.log.Error("store operation failed", zap.String("op", op), zap.Error(err))
	return fmt.Errorf("%w: %s: %v", domain.ErrStoreUnavailable, op, err)
}
