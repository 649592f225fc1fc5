package service

import (
	"strconv"
	"strings"
	"time"

	"github.com/spendwise/spendwise/internal/model"
)

// PeriodParams are the raw window query parameters of a request.
type PeriodParams struct {
	Month     string
	Year      string
	StartDate string
	EndDate   string
}

// OptionalMonth returns the calendar month window when both month and year
// are present. When either is missing the zero (unbounded) window is
// returned; a lone month or year is ignored.
func OptionalMonth(month, year string) (model.Window, error) {
	month, year = strings.TrimSpace(month), strings.TrimSpace(year)
	if month == "" || year == "" {
		return model.Window{}, nil
	}
	return Month(month, year)
}

// Month returns the UTC window covering one calendar month.
func Month(month, year string) (model.Window, error) {
	m, err := parseMonth(month)
	if err != nil {
		return model.Window{}, err
	}
	y, err := parseYear(year)
	if err != nil {
		return model.Window{}, err
	}
	from := time.Date(y, time.Month(m), 1, 0, 0, 0, 0, time.UTC)
	return model.Window{From: from, To: from.AddDate(0, 1, 0)}, nil
}

// Year returns the UTC window covering one calendar year.
func Year(year string) (model.Window, error) {
	y, err := parseYear(year)
	if err != nil {
		return model.Window{}, err
	}
	from := time.Date(y, time.January, 1, 0, 0, 0, 0, time.UTC)
	return model.Window{From: from, To: from.AddDate(1, 0, 0)}, nil
}

// DateRange returns the window for the inclusive calendar-date range
// [start, end]: from start 00:00 UTC up to, not including, the day after end.
func DateRange(start, end string) (model.Window, error) {
	from, err := parseDate("startDate", start)
	if err != nil {
		return model.Window{}, err
	}
	to, err := parseDate("endDate", end)
	if err != nil {
		return model.Window{}, err
	}
	if to.Before(from) {
		return model.Window{}, invalid("endDate", "must not be before startDate")
	}
	return model.Window{From: from, To: to.AddDate(0, 0, 1)}, nil
}

func parseMonth(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, required("month")
	}
	m, err := strconv.Atoi(raw)
	if err != nil || m < 1 || m > 12 {
		return 0, invalid("month", "must be between 1 and 12")
	}
	return m, nil
}

func parseYear(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, required("year")
	}
	y, err := strconv.Atoi(raw)
	if err != nil || len(raw) != 4 || y < 1000 {
		return 0, invalid("year", "must be a four-digit year")
	}
	return y, nil
}

func parseDate(field, raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, required(field)
	}
	d, err := time.ParseInLocation(model.DateLayout, raw, time.UTC)
	if err != nil {
		return time.Time{}, invalid(field, "must be a date in YYYY-MM-DD format")
	}
	return d, nil
}
