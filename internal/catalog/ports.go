package catalog

import (
	"context"
)

type Repository interface {
	Create(ctx context.Context, b *Book) error
	Update(ctx context.Context, b *Book) error
	// Delete removes the book; associated borrows are removed by the
	// schema's cascading foreign key.
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (Book, error)
	List(ctx context.Context, q Query) ([]Book, int, error)
	// ExistsTitleAuthor reports whether a book with the given title and
	// author exists, excluding excludeID (pass "" for creates).
	ExistsTitleAuthor(ctx context.Context, title, author, excludeID string) (bool, error)
	Count(ctx context.Context, availableOnly bool) (int, error)
}
