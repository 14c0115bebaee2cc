package store

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Dinara-volsu/library-management-system/internal/domain"
)

// CreateBook inserts a new title. Available defaults to Quantity when left
// zero so a freshly added book is fully loanable.
func (s *Store) CreateBook(ctx context.Context, book *domain.Book) error {
	if book.Quantity < 0 {
		book.Quantity = 0
	}
	if book.Available == 0 {
		book.Available = book.Quantity
	}
	book.Active = true

	if err := s.db.WithContext(ctx).Create(book).Error; err != nil {
		return s.mapErr("create book", err)
	}

	s.log.Info("book created",
		zap.Uint("book_id", book.ID),
		zap.String("title", book.Title),
		zap.String("isbn", book.ISBN),
	)
	return nil
}

// GetBook retrieves a book by id, active or not.
func (s *Store) GetBook(ctx context.Context, id uint) (*domain.Book, error) {
	var book domain.Book
	err := s.db.WithContext(ctx).First(&book, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrBookNotFound
		}
		return nil, s.mapErr("get book", err)
	}
	return &book, nil
}

// SearchBooks applies the enumerated filter. Only active books are returned
// unless the filter explicitly includes inactive ones.
func (s *Store) SearchBooks(ctx context.Context, filter domain.BookFilter) ([]*domain.Book, error) {
	query := s.db.WithContext(ctx).Model(&domain.Book{})

	if !filter.IncludeInactive {
		query = query.Where("active = ?", true)
	}
	if filter.Query != "" {
		like := "%" + filter.Query + "%"
		query = query.Where("title LIKE ? OR author LIKE ? OR isbn LIKE ?", like, like, like)
	}
	if filter.Title != "" {
		query = query.Where("title = ?", filter.Title)
	}
	if filter.Author != "" {
		query = query.Where("author = ?", filter.Author)
	}
	if filter.Genre != "" {
		query = query.Where("genre = ?", filter.Genre)
	}
	if filter.ISBN != "" {
		query = query.Where("isbn = ?", filter.ISBN)
	}
	if filter.Year != 0 {
		query = query.Where("year = ?", filter.Year)
	}
	if filter.ID != 0 {
		query = query.Where("id = ?", filter.ID)
	}

	var books []*domain.Book
	if err := query.Order("id").Find(&books).Error; err != nil {
		return nil, s.mapErr("search books", err)
	}
	return books, nil
}

// UpdateBook applies the non-nil fields of the update. Availability and the
// active flag are not reachable from here.
func (s *Store) UpdateBook(ctx context.Context, id uint, update domain.BookUpdate) error {
	values := make(map[string]interface{})
	if update.Title != nil {
		values["title"] = *update.Title
	}
	if update.Author != nil {
		values["author"] = *update.Author
	}
	if update.Year != nil {
		values["year"] = *update.Year
	}
	if update.Publisher != nil {
		values["publisher"] = *update.Publisher
	}
	if update.Genre != nil {
		values["genre"] = *update.Genre
	}
	if update.Pages != nil {
		values["pages"] = *update.Pages
	}
	if update.Quantity != nil {
		values["quantity"] = *update.Quantity
	}
	if len(values) == 0 {
		return nil
	}

	result := s.db.WithContext(ctx).Model(&domain.Book{}).Where("id = ?", id).Updates(values)
	if result.Error != nil {
		return s.mapErr("update book", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrBookNotFound
	}
	return nil
}

// borrowCopy decrements available inside tx. The guard and the write are a
// single statement, so two callers racing for the last copy can never both
// succeed: the second one affects zero rows.
func borrowCopy(tx *gorm.DB, bookID uint) error {
	result := tx.Model(&domain.Book{}).
		Where("id = ? AND active = ? AND available > 0", bookID, true).
		UpdateColumn("available", gorm.Expr("available - 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := tx.Model(&domain.Book{}).Where("id = ? AND active = ?", bookID, true).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return domain.ErrBookNotFound
		}
		return domain.ErrUnavailable
	}
	return nil
}

// returnCopy increments available inside tx, guarded so the count can never
// pass quantity even under a misbehaving caller.
func returnCopy(tx *gorm.DB, bookID uint) error {
	result := tx.Model(&domain.Book{}).
		Where("id = ? AND available < quantity", bookID).
		UpdateColumn("available", gorm.Expr("available + 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := tx.Model(&domain.Book{}).Where("id = ?", bookID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return domain.ErrBookNotFound
		}
		return domain.ErrCapacityExceeded
	}
	return nil
}

// BorrowCopy atomically takes one loanable copy of the book.
func (s *Store) BorrowCopy(ctx context.Context, bookID uint) error {
	err := borrowCopy(s.db.WithContext(ctx), bookID)
	if err != nil && !errors.Is(err, domain.ErrBookNotFound) && !errors.Is(err, domain.ErrUnavailable) {
		return s.mapErr("borrow copy", err)
	}
	return err
}

// ReturnCopy atomically releases one copy back into circulation.
func (s *Store) ReturnCopy(ctx context.Context, bookID uint) error {
	err := returnCopy(s.db.WithContext(ctx), bookID)
	if err != nil && !errors.Is(err, domain.ErrBookNotFound) && !errors.Is(err, domain.ErrCapacityExceeded) {
		return s.mapErr("return copy", err)
	}
	return err
}

// WriteOffBook removes the book from circulation: no loanable copies and no
// longer active. Irreversible through this store.
func (s *Store) WriteOffBook(ctx context.Context, bookID uint) error {
	result := s.db.WithContext(ctx).Model(&domain.Book{}).
		Where("id = ?", bookID).
		Updates(map[string]interface{}{"available": 0, "active": false})
	if result.Error != nil {
		return s.mapErr("write off book", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrBookNotFound
	}

	s.log.Info("book written off", zap.Uint("book_id", bookID))
	return nil
}

// Stats returns catalog counters for the metrics endpoint.
func (s *Store) Stats(ctx context.Context) (totalBooks, activeBooks, pendingReservations int64, err error) {
	db := s.db.WithContext(ctx)
	if err = db.Model(&domain.Book{}).Count(&totalBooks).Error; err != nil {
		return 0, 0, 0, s.mapErr("count books", err)
	}
	if err = db.Model(&domain.Book{}).Where("active = ?", true).Count(&activeBooks).Error; err != nil {
		return 0, 0, 0, s.mapErr("count active books", err)
	}
	if err = db.Model(&domain.Reservation{}).Where("status = ?", domain.StatusPending).Count(&pendingReservations).Error; err != nil {
		return 0, 0, 0, s.mapErr("count pending reservations", err)
	}
	return totalBooks, activeBooks, pendingReservations, nil
}
