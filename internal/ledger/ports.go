package ledger

import (
	"context"
	"time"
)

// Repository is the read side of the borrow ledger. Mutations go through the
// lending engine's transactional store so they can never be applied half-way.
type Repository interface {
	GetByID(ctx context.Context, id string) (Borrow, error)
	List(ctx context.Context, f Filter) ([]Borrow, int, error)
	CountActive(ctx context.Context) (int, error)
	CountOverdue(ctx context.Context, asOf time.Time) (int, error)
}
