package domain

import (
	"time"

	"gorm.io/gorm"
)

// Role distinguishes readers (may borrow) from administrators (may not).
type Role string

const (
	RoleReader Role = "reader"
	RoleAdmin  Role = "admin"
)

// ReservationStatus is the lifecycle state of a reservation.
// Transitions are monotonic: pending -> confirmed -> completed,
// or -> cancelled from pending/confirmed.
type ReservationStatus string

const (
	StatusPending   ReservationStatus = "pending"
	StatusConfirmed ReservationStatus = "confirmed"
	StatusCancelled ReservationStatus = "cancelled"
	StatusCompleted ReservationStatus = "completed"
)

// Book represents a title in the catalog. Quantity is the total owned
// copies; Available is how many are currently loanable. The store keeps
// 0 <= available <= quantity; a write-off forces available to 0 and
// deactivates the book irreversibly.
type Book struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"type:varchar(255);not null;index:idx_books_title" json:"title"`
	Author    string    `gorm:"type:varchar(255);not null;index:idx_books_author" json:"author"`
	Year      int       `gorm:"not null" json:"year"`
	ISBN      string    `gorm:"column:isbn;type:varchar(20);not null;uniqueIndex:idx_books_isbn" json:"isbn"`
	Publisher string    `gorm:"type:varchar(255)" json:"publisher,omitempty"`
	Genre     string    `gorm:"type:varchar(100);index:idx_books_genre" json:"genre,omitempty"`
	Pages     int       `json:"pages,omitempty"`
	Quantity  int       `gorm:"not null;default:1" json:"quantity"`
	Available int       `gorm:"not null;default:1" json:"available"`
	Active    bool      `gorm:"not null;default:true;index:idx_books_active" json:"active"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

// TableName specifies the table name for Book model
func (Book) TableName() string {
	return "books"
}

// BeforeCreate hook to set timestamps
func (b *Book) BeforeCreate(tx *gorm.DB) error {
	now := time.Now()
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	if b.UpdatedAt.IsZero() {
		b.UpdatedAt = now
	}
	return nil
}

// User is a registered principal. Only active readers may hold
// reservations; the role is fixed at registration.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"type:varchar(100);not null;uniqueIndex:idx_users_username" json:"username"`
	Email        string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_users_email" json:"email"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"`
	Role         Role      `gorm:"type:varchar(16);not null;default:'reader'" json:"role"`
	FullName     string    `gorm:"type:varchar(255);not null" json:"full_name"`
	Phone        string    `gorm:"type:varchar(32)" json:"phone,omitempty"`
	Active       bool      `gorm:"not null;default:true" json:"active"`
	CreatedAt    time.Time `gorm:"not null" json:"created_at"`
}

// TableName specifies the table name for User model
func (User) TableName() string {
	return "users"
}

// IsAdmin reports whether the user is an administrator.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// CanBorrow reports whether the user may hold reservations.
func (u *User) CanBorrow() bool {
	return u.Active && u.Role == RoleReader
}

// Reservation links a reader to a held copy of a book. PickupDeadline is
// set exactly when the reservation is confirmed and is null otherwise.
type Reservation struct {
	ID              uint              `gorm:"primaryKey" json:"id"`
	BookID          uint              `gorm:"not null;index:idx_reservations_book" json:"book_id"`
	UserID          uint              `gorm:"not null;index:idx_reservations_user" json:"user_id"`
	Status          ReservationStatus `gorm:"type:varchar(16);not null" json:"status"`
	ReservationDate time.Time         `gorm:"not null" json:"reservation_date"`
	PickupDeadline  *time.Time        `json:"pickup_deadline,omitempty"`
	CreatedAt       time.Time         `gorm:"not null" json:"created_at"`

	Book *Book `gorm:"foreignKey:BookID" json:"book,omitempty"`
	User *User `gorm:"foreignKey:UserID" json:"-"`
}

// TableName specifies the table name for Reservation model
func (Reservation) TableName() string {
	return "reservations"
}

// IsTerminal reports whether the status admits no further transitions.
func (s ReservationStatus) IsTerminal() bool {
	return s == StatusCancelled || s == StatusCompleted
}

// IsExpired reports whether the pickup deadline has passed at the given
// instant. Reservations without a deadline (pending, terminal) never expire.
// Expiry is observable only; no transition is triggered automatically.
func (r *Reservation) IsExpired(now time.Time) bool {
	if r.PickupDeadline == nil {
		return false
	}
	return now.After(*r.PickupDeadline)
}
