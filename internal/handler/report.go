package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/spendwise/spendwise/internal/auth"
	"github.com/spendwise/spendwise/internal/service"
)

// ReportHandler serves the aggregate spending reports.
type ReportHandler struct {
	svc  *service.ReportService
	errs errorWriter
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(svc *service.ReportService, logger *slog.Logger) *ReportHandler {
	return &ReportHandler{
		svc:  svc,
		errs: errorWriter{logger: logger},
	}
}

// Run handles GET /reports/{report}. Window parameters are read from the
// query string; which ones are required depends on the report.
func (h *ReportHandler) Run(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	params := service.PeriodParams{
		Month:     query.Get("month"),
		Year:      query.Get("year"),
		StartDate: query.Get("startDate"),
		EndDate:   query.Get("endDate"),
	}

	rows, err := h.svc.Run(r.Context(), auth.UserID(r.Context()), chi.URLParam(r, "report"), params)
	if err != nil {
		h.errs.write(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, rows)
}
