package handler

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/spendwise/spendwise/internal/metrics"
)

// metricFamily is one Prometheus metric with its samples.
type metricFamily struct {
	name    string
	kind    string // counter or summary
	help    string
	samples []sample
}

type sample struct {
	suffix string // appended to name, e.g. "_count"
	labels string // rendered label set, e.g. `{status="failed"}`
	value  string
}

func count(n uint64) string { return strconv.FormatUint(n, 10) }

// families lays out a snapshot in exposition order.
func families(s metrics.Snapshot) []metricFamily {
	return []metricFamily{
		{"spendwise_users_registered_total", "counter", "Accounts created.", []sample{{value: count(s.UsersRegistered)}}},
		{"spendwise_logins_total", "counter", "Login attempts by outcome.", []sample{
			{labels: `{status="success"}`, value: count(s.LoginsSucceeded)},
			{labels: `{status="failed"}`, value: count(s.LoginsFailed)},
		}},
		{"spendwise_auth_rejected_total", "counter", "Bearer tokens rejected by the auth guard.", []sample{{value: count(s.AuthRejected)}}},
		{"spendwise_expenses_created_total", "counter", "Expenses created.", []sample{{value: count(s.ExpensesCreated)}}},
		{"spendwise_expenses_updated_total", "counter", "Expenses updated.", []sample{{value: count(s.ExpensesUpdated)}}},
		{"spendwise_expenses_deleted_total", "counter", "Expenses deleted.", []sample{{value: count(s.ExpensesDeleted)}}},
		{"spendwise_categories_created_total", "counter", "Categories created.", []sample{{value: count(s.CategoriesCreated)}}},
		{"spendwise_categories_deleted_total", "counter", "Categories deleted.", []sample{{value: count(s.CategoriesDeleted)}}},
		{"spendwise_report_duration_seconds", "summary", "Time spent running report queries.", []sample{
			{suffix: "_count", value: count(s.ReportDurationCount)},
			{suffix: "_sum", value: fmt.Sprintf("%.6f", float64(s.ReportDurationTotalNs)/1e9)},
		}},
		{"spendwise_events_published_total", "counter", "Expense events handed to the broker by outcome.", []sample{
			{labels: `{status="success"}`, value: count(s.EventsPublished)},
			{labels: `{status="failed"}`, value: count(s.EventsFailed)},
		}},
	}
}

// MetricsHandler serves the in-memory counters.
type MetricsHandler struct {
	snapshotter metrics.Snapshotter
}

// NewMetricsHandler creates a MetricsHandler. A nil snapshotter makes the
// endpoint answer 503.
func NewMetricsHandler(snapshotter metrics.Snapshotter) *MetricsHandler {
	return &MetricsHandler{snapshotter: snapshotter}
}

// Metrics writes the Prometheus text exposition format.
//
// GET /metrics
func (h *MetricsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	if h.snapshotter == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
	writeFamilies(w, families(h.snapshotter.Snapshot()))
}

func writeFamilies(w io.Writer, fams []metricFamily) {
	for _, f := range fams {
		_, _ = fmt.Fprintf(w, "# HELP %s %s\n# TYPE %s %s\n", f.name, f.help, f.name, f.kind)
		for _, s := range f.samples {
			_, _ = fmt.Fprintf(w, "%s%s%s %s\n", f.name, s.suffix, s.labels, s.value)
		}
	}
}
