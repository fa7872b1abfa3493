package catalog

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNotFound is returned when a book is not found.
	ErrNotFound = errors.New("book not found")
	// ErrBookTaken is returned when another book already has the same
	// title and author (case-insensitive).
	ErrBookTaken = errors.New("book with this title and author already exists")
)

// ValidationError reports a malformed input field. It is never retried
// automatically; the caller must correct the input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Book represents a catalog entry. Available is owned by the loan lifecycle
// engine: true exactly when no unreturned borrow references the book.
type Book struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Author    string    `json:"author"`
	Genre     string    `json:"genre"`
	Available bool      `json:"available"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Query defines filters and pagination for listing books. Results are always
// ordered by creation time descending (most recent first).
type Query struct {
	AvailableOnly bool
	Q             string // case-insensitive substring over title/author/genre
	Limit         int
	Offset        int
}
