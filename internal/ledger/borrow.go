package ledger

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a borrow record is not found.
var ErrNotFound = errors.New("borrow not found")

// Borrow is one loan of one book to one user. A borrow is Active while
// Returned is false and terminal once it flips; ReturnedAt is set exactly
// when that happens and never rewritten.
type Borrow struct {
	ID         string     `json:"id"`
	UserID     string     `json:"user_id"`
	BookID     string     `json:"book_id"`
	BorrowedAt time.Time  `json:"borrowed_at"`
	DueDate    time.Time  `json:"due_date"`
	Returned   bool       `json:"returned"`
	ReturnedAt *time.Time `json:"returned_at"`

	// Read-only join fields for listings.
	BookTitle  string `json:"book_title,omitempty"`
	BookAuthor string `json:"book_author,omitempty"`
	Username   string `json:"username,omitempty"`
}

// Overdue reports whether the borrow is active and strictly past due as of
// the given date.
func (b Borrow) Overdue(asOf time.Time) bool {
	return !b.Returned && b.DueDate.Before(asOf.Truncate(24*time.Hour))
}

// Filter selects borrows for listing. With OverdueAsOf set, results come
// back ordered by due date ascending; otherwise by borrow time descending.
type Filter struct {
	UserID         string
	UnreturnedOnly bool
	OverdueAsOf    *time.Time
	Limit          int
	Offset         int
}
