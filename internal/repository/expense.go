package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/spendwise/spendwise/internal/model"
)

const expenseColumns = `id, user_id, amount, description, category, created_at`

// CreateExpense inserts a new expense. A zero CreatedAt takes now().
func (r *Repository) CreateExpense(ctx context.Context, e *model.Expense) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO expenses (id, user_id, amount, description, category, created_at)
		VALUES ($1, $2, $3, $4, $5, COALESCE($6::timestamptz, now()))
		RETURNING created_at
	`

	err := r.pool.QueryRow(ctx, query,
		e.ID,
		e.UserID,
		e.Amount,
		e.Description,
		e.Category,
		optionalTime(e.CreatedAt),
	).Scan(&e.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create expense: %w", err)
	}

	e.CreatedAt = e.CreatedAt.UTC()
	return nil
}

// GetExpense retrieves an expense owned by userID.
func (r *Repository) GetExpense(ctx context.Context, userID, id string) (*model.Expense, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := `
		SELECT ` + expenseColumns + `
		FROM expenses
		WHERE id = $1 AND user_id = $2
	`

	e, err := scanExpense(r.pool.QueryRow(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}
	return e, nil
}

// ListExpenses returns the expenses of userID inside w, newest first.
func (r *Repository) ListExpenses(ctx context.Context, userID string, w model.Window) ([]model.Expense, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := `
		SELECT ` + expenseColumns + `
		FROM expenses
		WHERE user_id = $1
	`
	query, args := appendWindow(query, []any{userID}, w)
	query += " ORDER BY created_at DESC, id DESC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	expenses := []model.Expense{}
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, *e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating expenses: %w", err)
	}

	return expenses, nil
}

// UpdateExpense replaces amount, description and category of an expense
// owned by e.UserID. A zero CreatedAt keeps the stored timestamp.
func (r *Repository) UpdateExpense(ctx context.Context, e *model.Expense) (*model.Expense, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := `
		UPDATE expenses
		SET amount = $3,
		    description = $4,
		    category = $5,
		    created_at = COALESCE($6::timestamptz, created_at)
		WHERE id = $1 AND user_id = $2
		RETURNING ` + expenseColumns

	updated, err := scanExpense(r.pool.QueryRow(ctx, query,
		e.ID,
		e.UserID,
		e.Amount,
		e.Description,
		e.Category,
		optionalTime(e.CreatedAt),
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update expense: %w", err)
	}
	return updated, nil
}

// DeleteExpense removes an expense owned by userID.
func (r *Repository) DeleteExpense(ctx context.Context, userID, id string) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	result, err := r.pool.Exec(ctx, `DELETE FROM expenses WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanExpense(row pgx.Row) (*model.Expense, error) {
	var e model.Expense
	err := row.Scan(
		&e.ID,
		&e.UserID,
		&e.Amount,
		&e.Description,
		&e.Category,
		&e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	e.CreatedAt = e.CreatedAt.UTC()
	return &e, nil
}
