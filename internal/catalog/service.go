// Package catalog exposes the book-facing operations: adding titles,
// searching, and writing books off. Role checks happen here, against the
// principal passed in by the presentation layer.
package catalog

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/Dinara-volsu/library-management-system/internal/domain"
	"github.com/Dinara-volsu/library-management-system/internal/events"
	"github.com/Dinara-volsu/library-management-system/internal/policy"
	"github.com/Dinara-volsu/library-management-system/internal/store"
)

// ErrInvalidBook is returned when a new book misses required fields.
var ErrInvalidBook = errors.New("title, author, year and ISBN are required")

// Service wraps the store with authorization and event publishing.
type Service struct {
	store  *store.Store
	events events.Publisher
	log    *zap.Logger
}

// NewService creates the catalog service.
func NewService(st *store.Store, publisher events.Publisher, logger *zap.Logger) *Service {
	return &Service{
		store:  st,
		events: publisher,
		log:    logger,
	}
}

// AddBook inserts a new title. Admin only. Quantity defaults to 1 and the
// new book starts fully available.
func (s *Service) AddBook(ctx context.Context, principal *domain.User, book *domain.Book) (*domain.Book, error) {
	if err := policy.CanAddBook(principal); err != nil {
		return nil, err
	}

	if strings.TrimSpace(book.Title) == "" ||
		strings.TrimSpace(book.Author) == "" ||
		strings.TrimSpace(book.ISBN) == "" ||
		book.Year == 0 {
		return nil, ErrInvalidBook
	}
	if book.Quantity <= 0 {
		book.Quantity = 1
	}
	book.Available = book.Quantity

	if err := s.store.CreateBook(ctx, book); err != nil {
		return nil, err
	}

	if err := s.events.BookAdded(ctx, book); err != nil {
		s.log.Warn("failed to publish book event", zap.Error(err))
	}
	return book, nil
}

// Search runs the enumerated filter. Anyone may search, including guests.
func (s *Service) Search(ctx context.Context, filter domain.BookFilter) ([]*domain.Book, error) {
	return s.store.SearchBooks(ctx, filter)
}

// Get retrieves a book by id.
func (s *Service) Get(ctx context.Context, bookID uint) (*domain.Book, error) {
	return s.store.GetBook(ctx, bookID)
}

// UpdateBook applies a partial update to a book. Admin only.
func (s *Service) UpdateBook(ctx context.Context, principal *domain.User, bookID uint, update domain.BookUpdate) error {
	if err := policy.CanAddBook(principal); err != nil {
		return err
	}
	return s.store.UpdateBook(ctx, bookID, update)
}

// WriteOff removes a book from circulation permanently. Admin only.
func (s *Service) WriteOff(ctx context.Context, principal *domain.User, bookID uint) error {
	if err := policy.CanWriteOffBook(principal); err != nil {
		return err
	}

	if err := s.store.WriteOffBook(ctx, bookID); err != nil {
		return err
	}

	if err := s.events.BookWrittenOff(ctx, bookID); err != nil {
		s.log.Warn("failed to publish book event", zap.Error(err))
	}
	return nil
}
