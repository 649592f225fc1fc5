package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/spendwise/spendwise/internal/auth"
	"github.com/spendwise/spendwise/internal/handler/dto"
	"github.com/spendwise/spendwise/internal/service"
)

// ExpenseHandler handles HTTP requests for expense operations.
type ExpenseHandler struct {
	svc    *service.ExpenseService
	logger *slog.Logger
	errs   errorWriter
}

// NewExpenseHandler creates a new ExpenseHandler.
func NewExpenseHandler(svc *service.ExpenseService, logger *slog.Logger) *ExpenseHandler {
	return &ExpenseHandler{
		svc:    svc,
		logger: logger,
		errs:   errorWriter{logger: logger},
	}
}

// Create handles POST /expenses.
func (h *ExpenseHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.ExpenseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	userID := auth.UserID(r.Context())
	expense, err := h.svc.Create(r.Context(), userID, toExpenseInput(req))
	if err != nil {
		h.errs.write(w, r, err)
		return
	}

	h.logger.Info("expense_created", "expense_id", expense.ID, "user_id", userID)

	writeJSON(w, http.StatusCreated, dto.ToExpenseResponse(expense))
}

// List handles GET /expenses?month=&year=.
func (h *ExpenseHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	list, err := h.svc.List(r.Context(), auth.UserID(r.Context()), query.Get("month"), query.Get("year"))
	if err != nil {
		h.errs.write(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToExpenseListResponse(list))
}

// ListByRange handles GET /expenses/range?startDate=&endDate=.
func (h *ExpenseHandler) ListByRange(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	list, err := h.svc.ListByRange(r.Context(), auth.UserID(r.Context()), query.Get("startDate"), query.Get("endDate"))
	if err != nil {
		h.errs.write(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToExpenseListResponse(list))
}

// Get handles GET /expenses/{id}.
func (h *ExpenseHandler) Get(w http.ResponseWriter, r *http.Request) {
	expense, err := h.svc.Get(r.Context(), auth.UserID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		h.errs.write(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToExpenseResponse(expense))
}

// Update handles PUT /expenses/{id}.
func (h *ExpenseHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req dto.ExpenseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	userID := auth.UserID(r.Context())
	expense, err := h.svc.Update(r.Context(), userID, chi.URLParam(r, "id"), toExpenseInput(req))
	if err != nil {
		h.errs.write(w, r, err)
		return
	}

	h.logger.Info("expense_updated", "expense_id", expense.ID, "user_id", userID)

	writeJSON(w, http.StatusOK, dto.ToExpenseResponse(expense))
}

// Delete handles DELETE /expenses/{id}.
func (h *ExpenseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	userID := auth.UserID(r.Context())

	if err := h.svc.Delete(r.Context(), userID, id); err != nil {
		h.errs.write(w, r, err)
		return
	}

	h.logger.Info("expense_deleted", "expense_id", id, "user_id", userID)

	writeJSON(w, http.StatusOK, dto.MessageResponse{Message: "Expense deleted"})
}

func toExpenseInput(req dto.ExpenseRequest) service.ExpenseInput {
	return service.ExpenseInput{
		Amount:      req.Amount,
		Description: req.Description,
		Category:    req.Category,
		CreatedAt:   req.CreatedAt,
	}
}
