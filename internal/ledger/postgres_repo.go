package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

const borrowColumns = `
	b.id, b.user_id, b.book_id, b.borrowed_at, b.due_date, b.returned, b.returned_at,
	bk.title, bk.author, u.username`

const borrowJoins = `
	FROM borrows b
	JOIN books bk ON bk.id = b.book_id
	JOIN users u ON u.id = b.user_id`

func scanBorrow(row pgx.Row) (Borrow, error) {
	var b Borrow
	err := row.Scan(
		&b.ID, &b.UserID, &b.BookID, &b.BorrowedAt, &b.DueDate, &b.Returned, &b.ReturnedAt,
		&b.BookTitle, &b.BookAuthor, &b.Username,
	)
	return b, err
}

func (r *PostgresRepo) GetByID(ctx context.Context, id string) (Borrow, error) {
	query := fmt.Sprintf("SELECT %s %s WHERE b.id = $1 LIMIT 1", borrowColumns, borrowJoins)
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	b, err := scanBorrow(r.db.QueryRow(timeoutCtx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Borrow{}, ErrNotFound
		}
		return Borrow{}, err
	}
	return b, nil
}

func (r *PostgresRepo) List(ctx context.Context, f Filter) ([]Borrow, int, error) {
	clauses := []string{"1=1"}
	args := []any{}
	argn := 1

	if f.UserID != "" {
		clauses = append(clauses, fmt.Sprintf("b.user_id = $%d", argn))
		args = append(args, f.UserID)
		argn++
	}

	if f.UnreturnedOnly {
		clauses = append(clauses, "NOT b.returned")
	}

	if f.OverdueAsOf != nil {
		clauses = append(clauses, fmt.Sprintf("NOT b.returned AND b.due_date < $%d", argn))
		args = append(args, f.OverdueAsOf.Format("2006-01-02"))
		argn++
	}

	where := "WHERE " + strings.Join(clauses, " AND ")

	countSQL := fmt.Sprintf("SELECT COUNT(*) %s %s", borrowJoins, where)
	var total int
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	if err := r.db.QueryRow(timeoutCtx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	order := "b.borrowed_at DESC"
	if f.OverdueAsOf != nil {
		order = "b.due_date ASC"
	}

	dataSQL := fmt.Sprintf("SELECT %s %s %s ORDER BY %s LIMIT $%d OFFSET $%d",
		borrowColumns, borrowJoins, where, order, argn, argn+1)

	argsWithPage := append([]any{}, args...)
	argsWithPage = append(argsWithPage, f.Limit, f.Offset)
	timeoutCtx2, cancel2 := r.withTimeout(ctx)
	defer cancel2()
	rows, err := r.db.Query(timeoutCtx2, dataSQL, argsWithPage...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Borrow
	for rows.Next() {
		b, err := scanBorrow(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, b)
	}
	return out, total, rows.Err()
}

func (r *PostgresRepo) CountActive(ctx context.Context) (int, error) {
	var count int
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, "SELECT COUNT(*) FROM borrows WHERE NOT returned").Scan(&count)
	return count, err
}

func (r *PostgresRepo) CountOverdue(ctx context.Context, asOf time.Time) (int, error) {
	var count int
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx,
		"SELECT COUNT(*) FROM borrows WHERE NOT returned AND due_date < $1",
		asOf.Format("2006-01-02")).Scan(&count)
	return count, err
}
