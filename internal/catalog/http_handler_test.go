package catalog_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lendkeeper/internal/catalog"
	"lendkeeper/internal/catalog/mocks"
)

func newCatalogHandler(t *testing.T) (*catalog.HTTPHandler, *mocks.MockRepository) {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	mockRepo := mocks.NewMockRepository(ctrl)
	return catalog.NewHTTPHandler(catalog.NewService(mockRepo)), mockRepo
}

func TestHTTPHandler_List(t *testing.T) {
	handler, mockRepo := newCatalogHandler(t)

	t.Run("success", func(t *testing.T) {
		mockRepo.EXPECT().List(gomock.Any(), gomock.Any()).Return([]catalog.Book{{ID: "book-1", Title: "Dune"}}, 1, nil)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/v1/books?q=dune", nil)

		handler.List(w, r)

		assert.Equal(t, http.StatusOK, w.Code)

		var body struct {
			Data []catalog.Book `json:"data"`
			Meta map[string]any `json:"meta"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		require.Len(t, body.Data, 1)
		assert.Equal(t, "Dune", body.Data[0].Title)
		assert.EqualValues(t, 1, body.Meta["total"])
		assert.EqualValues(t, 1, body.Meta["page"])
	})

	t.Run("available filter reaches the repository", func(t *testing.T) {
		mockRepo.EXPECT().
			List(gomock.Any(), catalog.Query{AvailableOnly: true, Limit: 10, Offset: 0}).
			Return([]catalog.Book{}, 0, nil)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/v1/books?available=true", nil)

		handler.List(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("oversized page size falls back to default", func(t *testing.T) {
		mockRepo.EXPECT().
			List(gomock.Any(), catalog.Query{Limit: 10, Offset: 10}).
			Return([]catalog.Book{}, 0, nil)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/v1/books?page=2&page_size=5000", nil)

		handler.List(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("repository error", func(t *testing.T) {
		mockRepo.EXPECT().List(gomock.Any(), gomock.Any()).Return(nil, 0, errors.New("db error"))

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/v1/books", nil)

		handler.List(w, r)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestHTTPHandler_Get(t *testing.T) {
	handler, mockRepo := newCatalogHandler(t)

	t.Run("success", func(t *testing.T) {
		mockRepo.EXPECT().GetByID(gomock.Any(), "book-1").Return(catalog.Book{ID: "book-1", Title: "Dune"}, nil)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/v1/books/book-1", nil)
		r.SetPathValue("id", "book-1")

		handler.Get(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("not found", func(t *testing.T) {
		mockRepo.EXPECT().GetByID(gomock.Any(), "missing").Return(catalog.Book{}, catalog.ErrNotFound)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/v1/books/missing", nil)
		r.SetPathValue("id", "missing")

		handler.Get(w, r)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestHTTPHandler_Create(t *testing.T) {
	handler, mockRepo := newCatalogHandler(t)

	t.Run("success", func(t *testing.T) {
		mockRepo.EXPECT().ExistsTitleAuthor(gomock.Any(), "Dune", "Frank Herbert", "").Return(false, nil)
		mockRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

		body := `{"title":"Dune","author":"Frank Herbert","genre":"Science Fiction"}`
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/v1/books", strings.NewReader(body))

		handler.Create(w, r)

		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("invalid json", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/v1/books", strings.NewReader("{"))

		handler.Create(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("missing fields rejected before the repository", func(t *testing.T) {
		body := `{"title":"Dune"}`
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/v1/books", strings.NewReader(body))

		handler.Create(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")
	})

	t.Run("duplicate conflict", func(t *testing.T) {
		mockRepo.EXPECT().ExistsTitleAuthor(gomock.Any(), "Dune", "Frank Herbert", "").Return(true, nil)

		body := `{"title":"Dune","author":"Frank Herbert","genre":"Science Fiction"}`
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/v1/books", strings.NewReader(body))

		handler.Create(w, r)

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestHTTPHandler_Update(t *testing.T) {
	handler, mockRepo := newCatalogHandler(t)

	t.Run("success", func(t *testing.T) {
		existing := catalog.Book{ID: "book-1", Title: "Dune", Author: "Frank Herbert", Genre: "Science Fiction"}
		mockRepo.EXPECT().GetByID(gomock.Any(), "book-1").Return(existing, nil)
		mockRepo.EXPECT().ExistsTitleAuthor(gomock.Any(), "Dune Messiah", "Frank Herbert", "book-1").Return(false, nil)
		mockRepo.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)

		body := `{"title":"Dune Messiah"}`
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPatch, "/v1/books/book-1", strings.NewReader(body))
		r.SetPathValue("id", "book-1")

		handler.Update(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("blank patch value rejected", func(t *testing.T) {
		body := `{"title":"   "}`
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPatch, "/v1/books/book-1", strings.NewReader(body))
		r.SetPathValue("id", "book-1")

		handler.Update(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("not found", func(t *testing.T) {
		mockRepo.EXPECT().GetByID(gomock.Any(), "missing").Return(catalog.Book{}, catalog.ErrNotFound)

		body := `{"title":"Anything"}`
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPatch, "/v1/books/missing", strings.NewReader(body))
		r.SetPathValue("id", "missing")

		handler.Update(w, r)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestHTTPHandler_Delete(t *testing.T) {
	handler, mockRepo := newCatalogHandler(t)

	t.Run("success", func(t *testing.T) {
		mockRepo.EXPECT().Delete(gomock.Any(), "book-1").Return(nil)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodDelete, "/v1/books/book-1", nil)
		r.SetPathValue("id", "book-1")

		handler.Delete(w, r)

		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("not found", func(t *testing.T) {
		mockRepo.EXPECT().Delete(gomock.Any(), "missing").Return(catalog.ErrNotFound)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodDelete, "/v1/books/missing", nil)
		r.SetPathValue("id", "missing")

		handler.Delete(w, r)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
