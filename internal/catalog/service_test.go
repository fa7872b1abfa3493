package catalog_test

import (
	"context"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lendkeeper/internal/catalog"
	"lendkeeper/internal/catalog/mocks"
)

func TestService_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := mocks.NewMockRepository(ctrl)
	service := catalog.NewService(mockRepo)
	ctx := context.Background()

	t.Run("success trims whitespace", func(t *testing.T) {
		mockRepo.EXPECT().ExistsTitleAuthor(gomock.Any(), "Dune", "Frank Herbert", "").Return(false, nil)
		mockRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

		book, err := service.Create(ctx, catalog.CreateParams{
			Title:  "  Dune  ",
			Author: " Frank Herbert ",
			Genre:  "Science Fiction",
		})
		require.NoError(t, err)
		assert.Equal(t, "Dune", book.Title)
		assert.Equal(t, "Frank Herbert", book.Author)
	})

	t.Run("blank title rejected", func(t *testing.T) {
		_, err := service.Create(ctx, catalog.CreateParams{
			Title:  "   ",
			Author: "Frank Herbert",
			Genre:  "Science Fiction",
		})

		var vErr *catalog.ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, "title", vErr.Field)
	})

	t.Run("duplicate title and author rejected", func(t *testing.T) {
		mockRepo.EXPECT().ExistsTitleAuthor(gomock.Any(), "Dune", "Frank Herbert", "").Return(true, nil)

		_, err := service.Create(ctx, catalog.CreateParams{
			Title:  "Dune",
			Author: "Frank Herbert",
			Genre:  "Science Fiction",
		})
		assert.ErrorIs(t, err, catalog.ErrBookTaken)
	})
}

func TestService_Update(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := mocks.NewMockRepository(ctrl)
	service := catalog.NewService(mockRepo)
	ctx := context.Background()

	existing := catalog.Book{
		ID:     "book-1",
		Title:  "Dune",
		Author: "Frank Herbert",
		Genre:  "Science Fiction",
	}

	t.Run("patches only provided fields", func(t *testing.T) {
		mockRepo.EXPECT().GetByID(gomock.Any(), "book-1").Return(existing, nil)
		mockRepo.EXPECT().ExistsTitleAuthor(gomock.Any(), "Dune Messiah", "Frank Herbert", "book-1").Return(false, nil)
		mockRepo.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)

		title := "Dune Messiah"
		book, err := service.Update(ctx, "book-1", catalog.UpdateParams{Title: &title})
		require.NoError(t, err)
		assert.Equal(t, "Dune Messiah", book.Title)
		assert.Equal(t, "Frank Herbert", book.Author)
		assert.Equal(t, "Science Fiction", book.Genre)
	})

	t.Run("uniqueness check excludes the book itself", func(t *testing.T) {
		mockRepo.EXPECT().GetByID(gomock.Any(), "book-1").Return(existing, nil)
		mockRepo.EXPECT().ExistsTitleAuthor(gomock.Any(), "Dune", "Frank Herbert", "book-1").Return(false, nil)
		mockRepo.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)

		genre := "Classic"
		book, err := service.Update(ctx, "book-1", catalog.UpdateParams{Genre: &genre})
		require.NoError(t, err)
		assert.Equal(t, "Classic", book.Genre)
	})

	t.Run("collision with another book rejected", func(t *testing.T) {
		mockRepo.EXPECT().GetByID(gomock.Any(), "book-1").Return(existing, nil)
		mockRepo.EXPECT().ExistsTitleAuthor(gomock.Any(), "Hyperion", "Frank Herbert", "book-1").Return(true, nil)

		title := "Hyperion"
		_, err := service.Update(ctx, "book-1", catalog.UpdateParams{Title: &title})
		assert.ErrorIs(t, err, catalog.ErrBookTaken)
	})

	t.Run("not found", func(t *testing.T) {
		mockRepo.EXPECT().GetByID(gomock.Any(), "missing").Return(catalog.Book{}, catalog.ErrNotFound)

		title := "Anything"
		_, err := service.Update(ctx, "missing", catalog.UpdateParams{Title: &title})
		assert.ErrorIs(t, err, catalog.ErrNotFound)
	})
}
