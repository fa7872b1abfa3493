package query

import (
	"net/http"
	"time"

	"lendkeeper/internal/httpx"
	"lendkeeper/internal/ledger"
)

type HTTPHandler struct {
	svc *Service
}

func NewHTTPHandler(svc *Service) *HTTPHandler {
	return &HTTPHandler{svc: svc}
}

// MyLoans handles GET /v1/loans/my
func (h *HTTPHandler) MyLoans(w http.ResponseWriter, r *http.Request) {
	page, pageSize := httpx.Pagination(r.URL.Query())

	loans, total, err := h.svc.ListUserLoans(r.Context(), httpx.UserIDFrom(r), pageSize, (page-1)*pageSize)
	if err != nil {
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}

	writeLoanPage(w, r, loans, page, pageSize, total)
}

// AllLoans handles GET /v1/loans (librarian only).
func (h *HTTPHandler) AllLoans(w http.ResponseWriter, r *http.Request) {
	page, pageSize := httpx.Pagination(r.URL.Query())

	loans, total, err := h.svc.ListAllLoans(r.Context(), pageSize, (page-1)*pageSize)
	if err != nil {
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}

	writeLoanPage(w, r, loans, page, pageSize, total)
}

// OverdueLoans handles GET /v1/loans/overdue (librarian only). The optional
// as_of query param pins "today"; it defaults to the current date.
func (h *HTTPHandler) OverdueLoans(w http.ResponseWriter, r *http.Request) {
	page, pageSize := httpx.Pagination(r.URL.Query())

	asOf := time.Now()
	if raw := r.URL.Query().Get("as_of"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid query",
				[]httpx.ErrorDetail{{Field: "as_of", Message: "must be a date in YYYY-MM-DD form"}})
			return
		}
		asOf = parsed
	}

	loans, total, err := h.svc.ListOverdueLoans(r.Context(), asOf, pageSize, (page-1)*pageSize)
	if err != nil {
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}

	writeLoanPage(w, r, loans, page, pageSize, total)
}

// Dashboard handles GET /v1/dashboard (librarian only).
func (h *HTTPHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Dashboard(r.Context(), time.Now())
	if err != nil {
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}

	httpx.JSONSuccess(w, r, stats, nil)
}

func writeLoanPage(w http.ResponseWriter, r *http.Request, loans []ledger.Borrow, page, pageSize, total int) {
	if loans == nil {
		loans = []ledger.Borrow{}
	}
	httpx.JSONSuccess(w, r, loans, map[string]any{
		"page":        page,
		"page_size":   pageSize,
		"total":       total,
		"total_pages": (total + pageSize - 1) / pageSize,
	})
}
