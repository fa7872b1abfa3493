package query

import (
	"context"
	"time"

	"lendkeeper/internal/catalog"
	"lendkeeper/internal/ledger"
)

// Service derives read-only views over the catalog and the borrow ledger.
// It never writes; librarian-only views are guarded by the transport layer.
type Service struct {
	books   catalog.Repository
	borrows ledger.Repository
}

func NewService(books catalog.Repository, borrows ledger.Repository) *Service {
	return &Service{books: books, borrows: borrows}
}

// Stats is the dashboard aggregate. Everything here is a reduction over the
// two stores; nothing is persisted separately.
type Stats struct {
	TotalBooks     int `json:"total_books"`
	AvailableBooks int `json:"available_books"`
	ActiveLoans    int `json:"active_loans"`
	OverdueLoans   int `json:"overdue_loans"`
}

// ListUserLoans returns the user's loans, any status, newest first.
func (s *Service) ListUserLoans(ctx context.Context, userID string, limit, offset int) ([]ledger.Borrow, int, error) {
	return s.borrows.List(ctx, ledger.Filter{UserID: userID, Limit: limit, Offset: offset})
}

// ListAllLoans returns every loan, newest first. Librarian view.
func (s *Service) ListAllLoans(ctx context.Context, limit, offset int) ([]ledger.Borrow, int, error) {
	return s.borrows.List(ctx, ledger.Filter{Limit: limit, Offset: offset})
}

// ListOverdueLoans returns active loans strictly past due as of the given
// date, soonest due first. Librarian view; asOf is caller-supplied so the
// boundary is testable.
func (s *Service) ListOverdueLoans(ctx context.Context, asOf time.Time, limit, offset int) ([]ledger.Borrow, int, error) {
	return s.borrows.List(ctx, ledger.Filter{OverdueAsOf: &asOf, Limit: limit, Offset: offset})
}

// Dashboard returns the aggregate counts as of the given date.
func (s *Service) Dashboard(ctx context.Context, asOf time.Time) (Stats, error) {
	var stats Stats
	var err error

	if stats.TotalBooks, err = s.books.Count(ctx, false); err != nil {
		return Stats{}, err
	}
	if stats.AvailableBooks, err = s.books.Count(ctx, true); err != nil {
		return Stats{}, err
	}
	if stats.ActiveLoans, err = s.borrows.CountActive(ctx); err != nil {
		return Stats{}, err
	}
	if stats.OverdueLoans, err = s.borrows.CountOverdue(ctx, asOf); err != nil {
		return Stats{}, err
	}
	return stats, nil
}
