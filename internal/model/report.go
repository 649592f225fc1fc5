package model

import "time"

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// Window is a half-open UTC time interval [From, To).
// The zero Window is unbounded.
type Window struct {
	From time.Time
	To   time.Time
}

// CategoryTotal is one row of a by-category report.
type CategoryTotal struct {
	Category    string `json:"category"`
	TotalAmount Amount `json:"total_amount"`
}

// DateTotal is one row of a by-calendar-day report. Day is YYYY-MM-DD.
type DateTotal struct {
	Day         string `json:"day"`
	TotalAmount Amount `json:"total_amount"`
}

// DayOfMonthTotal is one row of a report grouped by day of month (1-31).
type DayOfMonthTotal struct {
	Day         int    `json:"day"`
	TotalAmount Amount `json:"total_amount"`
}

// MonthTotal is one row of a report grouped by month of year (1-12).
type MonthTotal struct {
	Month       int    `json:"month"`
	TotalAmount Amount `json:"total_amount"`
}
