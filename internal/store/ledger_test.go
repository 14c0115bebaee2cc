package store

import (
	"context"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dinara-volsu/library-management-system/internal/domain"
	"github.com/Dinara-volsu/library-management-system/pkg/logger"
)

func setupTestStore(t *testing.T) *Store {
	db, err := Connect(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, RunMigrations(db))

	return New(db, logger.NewLogger("test", "error"))
}

func createTestBook(t *testing.T, s *Store, quantity int) *domain.Book {
	book := &domain.Book{
		Title:    "The Master and Margarita",
		Author:   "Mikhail Bulgakov",
		Year:     1967,
		ISBN:     "978-0-14-118014-4",
		Genre:    "novel",
		Quantity: quantity,
	}
	require.NoError(t, s.CreateBook(context.Background(), book))
	return book
}

func TestBorrowCopyDecrements(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	book := createTestBook(t, s, 2)

	require.NoError(t, s.BorrowCopy(ctx, book.ID))

	got, err := s.GetBook(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Available)
	assert.Equal(t, 2, got.Quantity)
}

func TestBorrowCopyUnavailable(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	book := createTestBook(t, s, 1)

	require.NoError(t, s.BorrowCopy(ctx, book.ID))

	err := s.BorrowCopy(ctx, book.ID)
	assert.ErrorIs(t, err, domain.ErrUnavailable)

	got, err := s.GetBook(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Available, "failed borrow must not mutate")
}

func TestBorrowCopyMissingBook(t *testing.T) {
	s := setupTestStore(t)

	err := s.BorrowCopy(context.Background(), 12345)
	assert.ErrorIs(t, err, domain.ErrBookNotFound)
}

func TestBorrowCopyInactiveBook(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	book := createTestBook(t, s, 3)

	require.NoError(t, s.WriteOffBook(ctx, book.ID))

	err := s.BorrowCopy(ctx, book.ID)
	assert.ErrorIs(t, err, domain.ErrBookNotFound, "written-off book is gone for borrowers")
}

func TestReturnCopyCapacityGuard(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	book := createTestBook(t, s, 2)

	err := s.ReturnCopy(ctx, book.ID)
	assert.ErrorIs(t, err, domain.ErrCapacityExceeded)

	got, err := s.GetBook(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Available, "failed return must not mutate")
}

func TestReturnCopyIncrements(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	book := createTestBook(t, s, 2)

	require.NoError(t, s.BorrowCopy(ctx, book.ID))
	require.NoError(t, s.ReturnCopy(ctx, book.ID))

	got, err := s.GetBook(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Available)
}

func TestWriteOffBook(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	book := createTestBook(t, s, 3)

	require.NoError(t, s.WriteOffBook(ctx, book.ID))

	got, err := s.GetBook(ctx, book.ID)
	require.NoError(t, err)
	assert.False(t, got.Active)
	assert.Equal(t, 0, got.Available)

	assert.ErrorIs(t, s.WriteOffBook(ctx, 999), domain.ErrBookNotFound)
}

// The availability invariant 0 <= available <= quantity must survive any
// sequence of ledger operations, including ones that fail.
func TestAvailabilityInvariantRandomOps(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	book := createTestBook(t, s, 3)

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 200; i++ {
		switch rng.Intn(3) {
		case 0:
			_ = s.BorrowCopy(ctx, book.ID)
		case 1:
			_ = s.ReturnCopy(ctx, book.ID)
		case 2:
			// Returns outnumber borrows slightly to push on the
			// capacity guard as well.
			_ = s.ReturnCopy(ctx, book.ID)
		}

		got, err := s.GetBook(ctx, book.ID)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, got.Available, 0)
		assert.LessOrEqual(t, got.Available, got.Quantity)
	}
}

// N concurrent reservations of the last copy must yield exactly one
// success; the rest observe ErrUnavailable.
func TestReserveLastCopyConcurrently(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	book := createTestBook(t, s, 1)

	user := &domain.User{
		Username:     "reader1",
		Email:        "reader1@example.com",
		PasswordHash: "x",
		Role:         domain.RoleReader,
		FullName:     "Reader One",
		Active:       true,
	}
	require.NoError(t, s.CreateUser(ctx, user))

	const callers = 8
	var wg sync.WaitGroup
	errs := make([]error, callers)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.ReserveCopy(ctx, book.ID, user.ID, time.Now())
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
		} else {
			assert.ErrorIs(t, err, domain.ErrUnavailable)
		}
	}
	assert.Equal(t, 1, successes)

	got, err := s.GetBook(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Available)

	reservations, err := s.ReservationsForUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, reservations, 1, "failed reserves must not leave records")
}
