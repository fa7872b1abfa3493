package lending

import (
	"context"
	"time"

	"lendkeeper/internal/catalog"
	"lendkeeper/internal/ledger"
)

// Store runs engine steps inside a single transactional boundary. Either
// every mutation issued by fn commits, or none do.
type Store interface {
	WithinTx(ctx context.Context, fn func(tx Tx) error) error
}

// Tx is the mutation surface the engine drives. Implementations must give at
// least read-committed isolation, and the book reads must lock the row so
// concurrent borrows of the same book serialize.
type Tx interface {
	BookForUpdate(ctx context.Context, bookID string) (catalog.Book, error)
	HasActiveLoan(ctx context.Context, userID, bookID string) (bool, error)
	InsertBorrow(ctx context.Context, b *ledger.Borrow) error
	SetBookAvailable(ctx context.Context, bookID string, available bool) error
	BorrowForUpdate(ctx context.Context, borrowID string) (ledger.Borrow, error)
	MarkReturned(ctx context.Context, borrowID string, at time.Time) error
}
