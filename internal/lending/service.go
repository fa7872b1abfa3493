package lending

import (
	"context"
	"errors"
	"time"

	"lendkeeper/internal/ledger"
	"lendkeeper/internal/user"
)

var (
	// ErrBookUnavailable is returned when the book is already on loan.
	ErrBookUnavailable = errors.New("book is not available")
	// ErrLoanExists is returned when the user already holds an active loan
	// of the book.
	ErrLoanExists = errors.New("active loan already exists for this book")
	// ErrPastDueDate is returned when the requested due date is before today.
	ErrPastDueDate = errors.New("due date cannot be in the past")
)

// DefaultLoanDays is the borrow period applied when no due date is given.
const DefaultLoanDays = 14

// Service is the loan lifecycle engine. A borrow is Active until returned,
// Returned is terminal, and book availability always mirrors the set of
// active borrows. Both operations commit all-or-nothing through Store.
type Service struct {
	store Store
	now   func() time.Time
}

func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

// WithClock overrides the engine clock. Tests use this to pin "now".
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// BorrowBook lends bookID to userID until dueDate. A zero dueDate means the
// default loan period. Fails with catalog.ErrNotFound, ErrBookUnavailable,
// ErrLoanExists or ErrPastDueDate. Requires an authenticated member; the
// caller has already established who userID is.
func (s *Service) BorrowBook(ctx context.Context, userID, bookID string, dueDate time.Time) (ledger.Borrow, error) {
	now := s.now()
	if dueDate.IsZero() {
		dueDate = now.AddDate(0, 0, DefaultLoanDays)
	} else if dueDate.Format("2006-01-02") < now.Format("2006-01-02") {
		return ledger.Borrow{}, ErrPastDueDate
	}

	var out ledger.Borrow
	err := s.store.WithinTx(ctx, func(tx Tx) error {
		book, err := tx.BookForUpdate(ctx, bookID)
		if err != nil {
			return err
		}
		if !book.Available {
			return ErrBookUnavailable
		}

		// Redundant while each book has one lendable copy, but it keeps the
		// one-active-loan-per-(user,book) invariant independent of the
		// availability flag. The partial unique index backstops both.
		active, err := tx.HasActiveLoan(ctx, userID, bookID)
		if err != nil {
			return err
		}
		if active {
			return ErrLoanExists
		}

		borrow := ledger.Borrow{
			UserID:     userID,
			BookID:     bookID,
			BorrowedAt: now,
			DueDate:    dueDate,
			BookTitle:  book.Title,
			BookAuthor: book.Author,
		}
		if err := tx.InsertBorrow(ctx, &borrow); err != nil {
			return err
		}
		if err := tx.SetBookAvailable(ctx, bookID, false); err != nil {
			return err
		}
		out = borrow
		return nil
	})
	if err != nil {
		return ledger.Borrow{}, err
	}
	return out, nil
}

// ReturnBook closes the borrow and frees the book. Returning an already
// returned borrow is an idempotent success: the record is untouched and
// returned_at keeps its original value. Members can only return their own
// borrows; a foreign borrow id reads as not found. Librarians may return
// any borrow.
func (s *Service) ReturnBook(ctx context.Context, actorID string, actorRole user.Role, borrowID string) (ledger.Borrow, error) {
	var out ledger.Borrow
	err := s.store.WithinTx(ctx, func(tx Tx) error {
		borrow, err := tx.BorrowForUpdate(ctx, borrowID)
		if err != nil {
			return err
		}
		if actorRole != user.RoleLibrarian && borrow.UserID != actorID {
			return ledger.ErrNotFound
		}

		if borrow.Returned {
			out = borrow
			return nil
		}

		returnedAt := s.now()
		if err := tx.MarkReturned(ctx, borrowID, returnedAt); err != nil {
			return err
		}
		if err := tx.SetBookAvailable(ctx, borrow.BookID, true); err != nil {
			return err
		}

		borrow.Returned = true
		borrow.ReturnedAt = &returnedAt
		out = borrow
		return nil
	})
	if err != nil {
		return ledger.Borrow{}, err
	}
	return out, nil
}
