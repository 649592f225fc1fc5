package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/spendwise/spendwise/internal/model"
	"github.com/spendwise/spendwise/internal/repository"
)

const expenseColumns = `id, user_id, amount, description, category, created_at`

type scanner interface {
	Scan(dest ...any) error
}

// CreateExpense inserts a new expense. A zero CreatedAt takes the current time.
func (s *Store) CreateExpense(ctx context.Context, e *model.Expense) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	cents, err := e.Amount.Cents()
	if err != nil {
		return fmt.Errorf("failed to create expense: %w", err)
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = nowUTC()
	}
	e.CreatedAt = e.CreatedAt.UTC().Truncate(time.Millisecond)

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO expenses (`+expenseColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
		e.ID, e.UserID, cents, e.Description, e.Category, formatTime(e.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to create expense: %w", err)
	}
	return nil
}

// GetExpense retrieves an expense owned by userID.
func (s *Store) GetExpense(ctx context.Context, userID, id string) (*model.Expense, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	row := s.db.QueryRowContext(ctx,
		`SELECT `+expenseColumns+` FROM expenses WHERE id = ? AND user_id = ?`,
		id, userID,
	)
	e, err := scanExpense(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}
	return e, nil
}

// ListExpenses returns the expenses of userID inside w, newest first.
func (s *Store) ListExpenses(ctx context.Context, userID string, w model.Window) ([]model.Expense, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	query, args := appendWindow(`SELECT `+expenseColumns+` FROM expenses WHERE user_id = ?`, []any{userID}, w)
	query += " ORDER BY created_at DESC, id DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
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
func (s *Store) UpdateExpense(ctx context.Context, e *model.Expense) (*model.Expense, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	cents, err := e.Amount.Cents()
	if err != nil {
		return nil, fmt.Errorf("failed to update expense: %w", err)
	}
	var created any
	if !e.CreatedAt.IsZero() {
		created = formatTime(e.CreatedAt)
	}

	row := s.db.QueryRowContext(ctx, `
		UPDATE expenses
		SET amount = ?, description = ?, category = ?, created_at = COALESCE(?, created_at)
		WHERE id = ? AND user_id = ?
		RETURNING `+expenseColumns,
		cents, e.Description, e.Category, created, e.ID, e.UserID,
	)
	updated, err := scanExpense(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update expense: %w", err)
	}
	return updated, nil
}

// DeleteExpense removes an expense owned by userID.
func (s *Store) DeleteExpense(ctx context.Context, userID, id string) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	result, err := s.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	return requireAffected(result)
}

func scanExpense(row scanner) (*model.Expense, error) {
	var (
		e       model.Expense
		cents   int64
		created string
	)
	if err := row.Scan(&e.ID, &e.UserID, &cents, &e.Description, &e.Category, &created); err != nil {
		return nil, err
	}

	t, err := parseTime(created)
	if err != nil {
		return nil, err
	}
	e.Amount = model.AmountFromCents(cents)
	e.CreatedAt = t
	return &e, nil
}

// maxStoredYear is the last year a four-digit timestamp string can hold.
const maxStoredYear = 9999

// appendWindow adds created_at bounds for w. An unbounded window adds nothing.
// Timestamps compare as text, so an upper bound past maxStoredYear is left
// out; every stored row already falls below it.
func appendWindow(query string, args []any, w model.Window) (string, []any) {
	if !w.From.IsZero() {
		query += " AND created_at >= ?"
		args = append(args, formatTime(w.From))
	}
	if !w.To.IsZero() && w.To.Year() <= maxStoredYear {
		query += " AND created_at < ?"
		args = append(args, formatTime(w.To))
	}
	return query, args
}

func requireAffected(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}
