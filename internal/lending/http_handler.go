package lending

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"lendkeeper/internal/catalog"
	"lendkeeper/internal/httpx"
	"lendkeeper/internal/ledger"
	"lendkeeper/internal/user"
)

type HTTPHandler struct {
	svc *Service
}

func NewHTTPHandler(svc *Service) *HTTPHandler {
	return &HTTPHandler{svc: svc}
}

type borrowRequest struct {
	BookID  string `json:"book_id" validate:"required,uuid4"`
	DueDate string `json:"due_date" validate:"omitempty,datetime=2006-01-02"`
}

// Borrow handles POST /v1/loans
// @Summary Borrow a book
// @Description Create an active loan for the authenticated user
// @Tags loans
// @Accept json
// @Produce json
// @Success 201 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Failure 409 {object} httpx.ErrorResponse
// @Router /v1/loans [post]
func (h *HTTPHandler) Borrow(w http.ResponseWriter, r *http.Request) {
	var req borrowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid JSON body", nil)
		return
	}
	if details := httpx.ValidateStruct(req); details != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid loan request", details)
		return
	}

	var dueDate time.Time
	if req.DueDate != "" {
		parsed, err := time.Parse("2006-01-02", req.DueDate)
		if err != nil {
			// A bad date is an error, never "no due date".
			httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid loan request",
				[]httpx.ErrorDetail{{Field: "due_date", Message: "must be a date in YYYY-MM-DD form"}})
			return
		}
		dueDate = parsed
	}

	borrow, err := h.svc.BorrowBook(r.Context(), httpx.UserIDFrom(r), req.BookID, dueDate)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	httpx.JSONSuccessCreated(w, r, borrow)
}

// Return handles POST /v1/loans/{id}/return
// @Summary Return a borrowed book
// @Description Close the loan and mark the book available again; idempotent
// @Tags loans
// @Produce json
// @Success 200 {object} httpx.SuccessResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /v1/loans/{id}/return [post]
func (h *HTTPHandler) Return(w http.ResponseWriter, r *http.Request) {
	borrow, err := h.svc.ReturnBook(r.Context(),
		httpx.UserIDFrom(r), user.Role(httpx.RoleFrom(r)), r.PathValue("id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	httpx.JSONSuccess(w, r, borrow, nil)
}

func (h *HTTPHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrPastDueDate):
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid loan request",
			[]httpx.ErrorDetail{{Field: "due_date", Message: "cannot be in the past"}})
	case errors.Is(err, catalog.ErrNotFound):
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Book not found", nil)
	case errors.Is(err, ledger.ErrNotFound):
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Loan not found", nil)
	case errors.Is(err, ErrBookUnavailable):
		httpx.JSONError(w, r, http.StatusConflict, "CONFLICT", "Book is not available", nil)
	case errors.Is(err, ErrLoanExists):
		httpx.JSONError(w, r, http.StatusConflict, "CONFLICT", "You already have an active loan for this book", nil)
	default:
		// Includes commit failures: nothing was applied, the caller may retry.
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
	}
}
