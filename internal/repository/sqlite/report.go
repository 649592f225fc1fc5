package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/spendwise/spendwise/internal/model"
)

// Stored timestamps are UTC, so calendar parts come straight from the text.
const (
	utcDay        = `date(created_at)`
	utcDayOfMonth = `CAST(strftime('%d', created_at) AS INTEGER)`
	utcMonth      = `CAST(strftime('%m', created_at) AS INTEGER)`
)

// SumByCategory totals amounts per category, largest first.
func (s *Store) SumByCategory(ctx context.Context, userID string, w model.Window) ([]model.CategoryTotal, error) {
	out := []model.CategoryTotal{}
	err := s.aggregate(ctx, "category", userID, w, "total_amount DESC, bucket ASC", func(rows *sql.Rows) error {
		var (
			row   model.CategoryTotal
			cents int64
		)
		if err := rows.Scan(&row.Category, &cents); err != nil {
			return err
		}
		row.TotalAmount = model.AmountFromCents(cents)
		out = append(out, row)
		return nil
	})
	return out, err
}

// SumByDate totals amounts per UTC calendar day, oldest first.
func (s *Store) SumByDate(ctx context.Context, userID string, w model.Window) ([]model.DateTotal, error) {
	out := []model.DateTotal{}
	err := s.aggregate(ctx, utcDay, userID, w, "bucket ASC", func(rows *sql.Rows) error {
		var (
			row   model.DateTotal
			cents int64
		)
		if err := rows.Scan(&row.Day, &cents); err != nil {
			return err
		}
		row.TotalAmount = model.AmountFromCents(cents)
		out = append(out, row)
		return nil
	})
	return out, err
}

// SumByDayOfMonth totals amounts per day of month (1-31), ascending.
func (s *Store) SumByDayOfMonth(ctx context.Context, userID string, w model.Window) ([]model.DayOfMonthTotal, error) {
	out := []model.DayOfMonthTotal{}
	err := s.aggregate(ctx, utcDayOfMonth, userID, w, "bucket ASC", func(rows *sql.Rows) error {
		var (
			row   model.DayOfMonthTotal
			cents int64
		)
		if err := rows.Scan(&row.Day, &cents); err != nil {
			return err
		}
		row.TotalAmount = model.AmountFromCents(cents)
		out = append(out, row)
		return nil
	})
	return out, err
}

// SumByMonth totals amounts per month of year (1-12), ascending.
func (s *Store) SumByMonth(ctx context.Context, userID string, w model.Window) ([]model.MonthTotal, error) {
	out := []model.MonthTotal{}
	err := s.aggregate(ctx, utcMonth, userID, w, "bucket ASC", func(rows *sql.Rows) error {
		var (
			row   model.MonthTotal
			cents int64
		)
		if err := rows.Scan(&row.Month, &cents); err != nil {
			return err
		}
		row.TotalAmount = model.AmountFromCents(cents)
		out = append(out, row)
		return nil
	})
	return out, err
}

// aggregate runs SELECT bucket, SUM(amount) grouped by keyExpr and hands each
// row to scan.
func (s *Store) aggregate(ctx context.Context, keyExpr, userID string, w model.Window, orderBy string, scan func(*sql.Rows) error) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	query, args := appendWindow(
		`SELECT `+keyExpr+` AS bucket, SUM(amount) AS total_amount FROM expenses WHERE user_id = ?`,
		[]any{userID}, w,
	)
	query += " GROUP BY bucket ORDER BY " + orderBy

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to run aggregate: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		if err := scan(rows); err != nil {
			return fmt.Errorf("failed to scan total: %w", err)
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating totals: %w", err)
	}
	return nil
}
