package lending

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"lendkeeper/internal/catalog"
	"lendkeeper/internal/ledger"
)

type PostgresStore struct {
	db *pgxpool.Pool
}

func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) WithinTx(ctx context.Context, fn func(tx Tx) error) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := fn(&pgTx{tx: tx}); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

type pgTx struct {
	tx pgx.Tx
}

// BookForUpdate locks the book row for the rest of the transaction so the
// availability check and flip cannot interleave with a concurrent borrow.
func (t *pgTx) BookForUpdate(ctx context.Context, bookID string) (catalog.Book, error) {
	const query = `
	SELECT id, title, author, genre, available, created_at, updated_at
	FROM books
	WHERE id = $1
	FOR UPDATE
	`
	var b catalog.Book
	err := t.tx.QueryRow(ctx, query, bookID).Scan(
		&b.ID, &b.Title, &b.Author, &b.Genre, &b.Available, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return catalog.Book{}, catalog.ErrNotFound
		}
		return catalog.Book{}, err
	}
	return b, nil
}

func (t *pgTx) HasActiveLoan(ctx context.Context, userID, bookID string) (bool, error) {
	const query = `
	SELECT EXISTS (
		SELECT 1 FROM borrows
		WHERE user_id = $1 AND book_id = $2 AND NOT returned
	)`
	var exists bool
	err := t.tx.QueryRow(ctx, query, userID, bookID).Scan(&exists)
	return exists, err
}

func (t *pgTx) InsertBorrow(ctx context.Context, b *ledger.Borrow) error {
	const query = `
	INSERT INTO borrows (id, user_id, book_id, borrowed_at, due_date)
	VALUES (gen_random_uuid(), $1, $2, $3, $4)
	RETURNING id, borrowed_at, due_date, returned
	`
	err := t.tx.QueryRow(ctx, query, b.UserID, b.BookID, b.BorrowedAt, b.DueDate.Format("2006-01-02")).
		Scan(&b.ID, &b.BorrowedAt, &b.DueDate, &b.Returned)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == "borrows_active_user_book_key" {
			return ErrLoanExists
		}
		return err
	}
	return nil
}

func (t *pgTx) SetBookAvailable(ctx context.Context, bookID string, available bool) error {
	tag, err := t.tx.Exec(ctx,
		`UPDATE books SET available = $2, updated_at = now() WHERE id = $1`,
		bookID, available)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return catalog.ErrNotFound
	}
	return nil
}

func (t *pgTx) BorrowForUpdate(ctx context.Context, borrowID string) (ledger.Borrow, error) {
	const query = `
	SELECT id, user_id, book_id, borrowed_at, due_date, returned, returned_at
	FROM borrows
	WHERE id = $1
	FOR UPDATE
	`
	var b ledger.Borrow
	err := t.tx.QueryRow(ctx, query, borrowID).Scan(
		&b.ID, &b.UserID, &b.BookID, &b.BorrowedAt, &b.DueDate, &b.Returned, &b.ReturnedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ledger.Borrow{}, ledger.ErrNotFound
		}
		return ledger.Borrow{}, err
	}
	return b, nil
}

// MarkReturned only touches still-active rows; returned_at is written once.
func (t *pgTx) MarkReturned(ctx context.Context, borrowID string, at time.Time) error {
	tag, err := t.tx.Exec(ctx,
		`UPDATE borrows SET returned = true, returned_at = $2 WHERE id = $1 AND NOT returned`,
		borrowID, at)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ledger.ErrNotFound
	}
	return nil
}
