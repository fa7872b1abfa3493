package catalog

import (
	"context"
	"strings"
)

// Service provides catalog business logic. Mutating operations require the
// librarian role; the transport layer enforces that before calling in.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateParams carries the librarian-supplied fields for a new book.
type CreateParams struct {
	Title  string
	Author string
	Genre  string
}

// UpdateParams patches a book. Nil fields are left unchanged.
type UpdateParams struct {
	Title  *string
	Author *string
	Genre  *string
}

func (s *Service) Create(ctx context.Context, p CreateParams) (Book, error) {
	b := Book{
		Title:  strings.TrimSpace(p.Title),
		Author: strings.TrimSpace(p.Author),
		Genre:  strings.TrimSpace(p.Genre),
	}
	if err := validateFields(b); err != nil {
		return Book{}, err
	}

	exists, err := s.repo.ExistsTitleAuthor(ctx, b.Title, b.Author, "")
	if err != nil {
		return Book{}, err
	}
	if exists {
		return Book{}, ErrBookTaken
	}

	if err := s.repo.Create(ctx, &b); err != nil {
		return Book{}, err
	}
	return b, nil
}

func (s *Service) Update(ctx context.Context, id string, p UpdateParams) (Book, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Book{}, err
	}

	if p.Title != nil {
		b.Title = strings.TrimSpace(*p.Title)
	}
	if p.Author != nil {
		b.Author = strings.TrimSpace(*p.Author)
	}
	if p.Genre != nil {
		b.Genre = strings.TrimSpace(*p.Genre)
	}
	if err := validateFields(b); err != nil {
		return Book{}, err
	}

	// Uniqueness re-check excludes the book itself.
	exists, err := s.repo.ExistsTitleAuthor(ctx, b.Title, b.Author, b.ID)
	if err != nil {
		return Book{}, err
	}
	if exists {
		return Book{}, ErrBookTaken
	}

	if err := s.repo.Update(ctx, &b); err != nil {
		return Book{}, err
	}
	return b, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) GetByID(ctx context.Context, id string) (Book, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, q Query) ([]Book, int, error) {
	return s.repo.List(ctx, q)
}

func validateFields(b Book) error {
	if b.Title == "" {
		return &ValidationError{Field: "title", Message: "cannot be empty"}
	}
	if b.Author == "" {
		return &ValidationError{Field: "author", Message: "cannot be empty"}
	}
	if b.Genre == "" {
		return &ValidationError{Field: "genre", Message: "cannot be empty"}
	}
	return nil
}
