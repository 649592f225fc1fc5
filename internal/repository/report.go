package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/spendwise/spendwise/internal/model"
)

// Calendar parts are always taken in UTC.
const (
	utcDay        = `to_char(created_at AT TIME ZONE 'UTC', 'YYYY-MM-DD')`
	utcDayOfMonth = `EXTRACT(DAY FROM created_at AT TIME ZONE 'UTC')::int`
	utcMonth      = `EXTRACT(MONTH FROM created_at AT TIME ZONE 'UTC')::int`
)

// SumByCategory totals amounts per category, largest first.
func (r *Repository) SumByCategory(ctx context.Context, userID string, w model.Window) ([]model.CategoryTotal, error) {
	rows, cancel, err := r.aggregate(ctx, "category", userID, w, "total_amount DESC, bucket ASC")
	if err != nil {
		return nil, err
	}
	defer cancel()
	defer rows.Close()

	out := []model.CategoryTotal{}
	for rows.Next() {
		var row model.CategoryTotal
		if err := rows.Scan(&row.Category, &row.TotalAmount); err != nil {
			return nil, fmt.Errorf("failed to scan category total: %w", err)
		}
		out = append(out, row)
	}
	return out, rowsErr(rows)
}

// SumByDate totals amounts per UTC calendar day, oldest first.
func (r *Repository) SumByDate(ctx context.Context, userID string, w model.Window) ([]model.DateTotal, error) {
	rows, cancel, err := r.aggregate(ctx, utcDay, userID, w, "bucket ASC")
	if err != nil {
		return nil, err
	}
	defer cancel()
	defer rows.Close()

	out := []model.DateTotal{}
	for rows.Next() {
		var row model.DateTotal
		if err := rows.Scan(&row.Day, &row.TotalAmount); err != nil {
			return nil, fmt.Errorf("failed to scan daily total: %w", err)
		}
		out = append(out, row)
	}
	return out, rowsErr(rows)
}

// SumByDayOfMonth totals amounts per day of month (1-31), ascending.
func (r *Repository) SumByDayOfMonth(ctx context.Context, userID string, w model.Window) ([]model.DayOfMonthTotal, error) {
	rows, cancel, err := r.aggregate(ctx, utcDayOfMonth, userID, w, "bucket ASC")
	if err != nil {
		return nil, err
	}
	defer cancel()
	defer rows.Close()

	out := []model.DayOfMonthTotal{}
	for rows.Next() {
		var row model.DayOfMonthTotal
		if err := rows.Scan(&row.Day, &row.TotalAmount); err != nil {
			return nil, fmt.Errorf("failed to scan day-of-month total: %w", err)
		}
		out = append(out, row)
	}
	return out, rowsErr(rows)
}

// SumByMonth totals amounts per month of year (1-12), ascending.
func (r *Repository) SumByMonth(ctx context.Context, userID string, w model.Window) ([]model.MonthTotal, error) {
	rows, cancel, err := r.aggregate(ctx, utcMonth, userID, w, "bucket ASC")
	if err != nil {
		return nil, err
	}
	defer cancel()
	defer rows.Close()

	out := []model.MonthTotal{}
	for rows.Next() {
		var row model.MonthTotal
		if err := rows.Scan(&row.Month, &row.TotalAmount); err != nil {
			return nil, fmt.Errorf("failed to scan monthly total: %w", err)
		}
		out = append(out, row)
	}
	return out, rowsErr(rows)
}

// aggregate runs SELECT bucket, SUM(amount) grouped by keyExpr. The caller
// closes rows and then calls cancel.
func (r *Repository) aggregate(ctx context.Context, keyExpr, userID string, w model.Window, orderBy string) (pgx.Rows, context.CancelFunc, error) {
	ctx, cancel := r.withTimeout(ctx)

	query := `
		SELECT ` + keyExpr + ` AS bucket, SUM(amount) AS total_amount
		FROM expenses
		WHERE user_id = $1
	`
	query, args := appendWindow(query, []any{userID}, w)
	query += " GROUP BY bucket ORDER BY " + orderBy

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		cancel()
		return nil, nil, fmt.Errorf("failed to run aggregate: %w", err)
	}
	return rows, cancel, nil
}

func rowsErr(rows pgx.Rows) error {
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating totals: %w", err)
	}
	return nil
}
