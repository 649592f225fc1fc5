package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/spendwise/spendwise/internal/metrics"
	"github.com/spendwise/spendwise/internal/model"
)

// Report names.
const (
	ReportCategorySummary       = "category-summary"
	ReportMonthlySummary        = "monthly-summary"
	ReportWeeklyCategorySummary = "weekly-category-summary"
	ReportYearlyCategorySummary = "yearly-category-summary"
	ReportYearlySummary         = "yearly-summary"
	ReportWeeklySummary         = "weekly-summary"
	ReportRangeCategorySummary  = "range-category-summary"
	ReportRangeDailySummary     = "range-daily-summary"
)

// windowFunc turns request parameters into a window.
type windowFunc func(PeriodParams) (model.Window, error)

// queryFunc runs one aggregate.
type queryFunc func(ctx context.Context, store ReportStore, userID string, w model.Window) (any, error)

type reportDef struct {
	window windowFunc
	query  queryFunc
}

var (
	optionalMonth windowFunc = func(p PeriodParams) (model.Window, error) { return OptionalMonth(p.Month, p.Year) }
	requiredMonth windowFunc = func(p PeriodParams) (model.Window, error) { return Month(p.Month, p.Year) }
	requiredYear  windowFunc = func(p PeriodParams) (model.Window, error) { return Year(p.Year) }
	requiredRange windowFunc = func(p PeriodParams) (model.Window, error) { return DateRange(p.StartDate, p.EndDate) }
)

func byCategory(ctx context.Context, store ReportStore, userID string, w model.Window) (any, error) {
	return store.SumByCategory(ctx, userID, w)
}

func byDate(ctx context.Context, store ReportStore, userID string, w model.Window) (any, error) {
	return store.SumByDate(ctx, userID, w)
}

func byDayOfMonth(ctx context.Context, store ReportStore, userID string, w model.Window) (any, error) {
	return store.SumByDayOfMonth(ctx, userID, w)
}

func byMonth(ctx context.Context, store ReportStore, userID string, w model.Window) (any, error) {
	return store.SumByMonth(ctx, userID, w)
}

var reports = map[string]reportDef{
	ReportCategorySummary:       {window: optionalMonth, query: byCategory},
	ReportMonthlySummary:        {window: requiredMonth, query: byDayOfMonth},
	ReportWeeklyCategorySummary: {window: requiredRange, query: byCategory},
	ReportYearlyCategorySummary: {window: requiredYear, query: byCategory},
	ReportYearlySummary:         {window: requiredYear, query: byMonth},
	ReportWeeklySummary:         {window: requiredRange, query: byDate},
	ReportRangeCategorySummary:  {window: requiredRange, query: byCategory},
	ReportRangeDailySummary:     {window: requiredRange, query: byDate},
}

// ReportNames returns every supported report name in ascending order.
func ReportNames() []string {
	names := make([]string, 0, len(reports))
	for name := range reports {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ReportService runs aggregate spending reports.
type ReportService struct {
	store   ReportStore
	metrics metrics.Recorder
}

// NewReportService creates a new ReportService.
func NewReportService(store ReportStore, recorder metrics.Recorder) *ReportService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &ReportService{store: store, metrics: recorder}
}

// Run executes the named report for userID. Unknown names are ErrNotFound.
// The result is a slice of one of the model total types and is never nil.
func (s *ReportService) Run(ctx context.Context, userID, name string, params PeriodParams) (any, error) {
	def, ok := reports[name]
	if !ok {
		return nil, ErrNotFound
	}

	w, err := def.window(params)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	rows, err := def.query(ctx, s.store, userID, w)
	s.metrics.ObserveReportDuration(time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("report %s: %w", name, err)
	}
	return rows, nil
}
