package handler

import (
	"log/slog"
	"net/http"

	"github.com/spendwise/spendwise/internal/auth"
	"github.com/spendwise/spendwise/internal/handler/dto"
	"github.com/spendwise/spendwise/internal/service"
)

// CategoryHandler handles HTTP requests for category operations.
type CategoryHandler struct {
	svc    *service.CategoryService
	logger *slog.Logger
	errs   errorWriter
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(svc *service.CategoryService, logger *slog.Logger) *CategoryHandler {
	return &CategoryHandler{
		svc:    svc,
		logger: logger,
		errs:   errorWriter{logger: logger, conflictStatus: http.StatusConflict},
	}
}

// List handles GET /categories.
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	names, err := h.svc.List(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		h.errs.write(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, names)
}

// Create handles POST /categories.
func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CategoryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	name, err := h.svc.Create(r.Context(), auth.UserID(r.Context()), req.Name)
	if err != nil {
		h.errs.write(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.CategoryResponse{Name: name})
}

// Delete handles DELETE /categories. The name travels in the JSON body.
func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	var req dto.CategoryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	if err := h.svc.Delete(r.Context(), auth.UserID(r.Context()), req.Name); err != nil {
		h.errs.write(w, r, err)
		return
	}

	h.logger.Info("category_deleted", "user_id", auth.UserID(r.Context()))

	writeJSON(w, http.StatusOK, dto.MessageResponse{Message: "Category deleted"})
}
