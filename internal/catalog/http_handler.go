package catalog

import (
	"encoding/json"
	"errors"
	"net/http"

	"lendkeeper/internal/httpx"
)

type HTTPHandler struct {
	svc *Service
}

func NewHTTPHandler(svc *Service) *HTTPHandler {
	return &HTTPHandler{svc: svc}
}

type createBookRequest struct {
	Title  string `json:"title" validate:"required,notblank,max=255"`
	Author string `json:"author" validate:"required,notblank,max=255"`
	Genre  string `json:"genre" validate:"required,notblank,max=100"`
}

type updateBookRequest struct {
	Title  *string `json:"title" validate:"omitempty,notblank,max=255"`
	Author *string `json:"author" validate:"omitempty,notblank,max=255"`
	Genre  *string `json:"genre" validate:"omitempty,notblank,max=100"`
}

// List handles GET /v1/books
// @Summary List books
// @Description List catalog books, most recently created first
// @Tags books
// @Produce json
// @Param available query bool false "Only available books"
// @Param q query string false "Substring match on title/author/genre"
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Items per page" default(10)
// @Success 200 {object} httpx.SuccessResponse
// @Router /v1/books [get]
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	page, pageSize := httpx.Pagination(query)
	q := Query{
		AvailableOnly: query.Get("available") == "true",
		Q:             query.Get("q"),
		Limit:         pageSize,
		Offset:        (page - 1) * pageSize,
	}

	books, total, err := h.svc.List(r.Context(), q)
	if err != nil {
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	if books == nil {
		books = []Book{}
	}

	httpx.JSONSuccess(w, r, books, map[string]any{
		"page":        page,
		"page_size":   pageSize,
		"total":       total,
		"total_pages": (total + pageSize - 1) / pageSize,
	})
}

// Get handles GET /v1/books/{id}
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	book, err := h.svc.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, book, nil)
}

// Create handles POST /v1/books (librarian only).
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createBookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid JSON body", nil)
		return
	}
	if details := httpx.ValidateStruct(req); details != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid book fields", details)
		return
	}

	book, err := h.svc.Create(r.Context(), CreateParams{
		Title:  req.Title,
		Author: req.Author,
		Genre:  req.Genre,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	httpx.JSONSuccessCreated(w, r, book)
}

// Update handles PATCH /v1/books/{id} (librarian only).
func (h *HTTPHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateBookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid JSON body", nil)
		return
	}
	if details := httpx.ValidateStruct(req); details != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid book fields", details)
		return
	}

	book, err := h.svc.Update(r.Context(), r.PathValue("id"), UpdateParams{
		Title:  req.Title,
		Author: req.Author,
		Genre:  req.Genre,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	httpx.JSONSuccess(w, r, book, nil)
}

// Delete handles DELETE /v1/books/{id} (librarian only). Borrow history for
// the book is removed with it.
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), r.PathValue("id")); err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccessNoContent(w)
}

func (h *HTTPHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var vErr *ValidationError
	switch {
	case errors.As(err, &vErr):
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid book fields",
			[]httpx.ErrorDetail{{Field: vErr.Field, Message: vErr.Message}})
	case errors.Is(err, ErrNotFound):
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Book not found", nil)
	case errors.Is(err, ErrBookTaken):
		httpx.JSONError(w, r, http.StatusConflict, "CONFLICT", "Book with this title and author already exists", nil)
	default:
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
	}
}
