package repository

import (
	"context"
	"fmt"
)

// ListCategories returns the category names of userID in ascending order.
func (r *Repository) ListCategories(ctx context.Context, userID string) ([]string, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	rows, err := r.pool.Query(ctx, `SELECT name FROM categories WHERE user_id = $1 ORDER BY name ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		names = append(names, name)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}
	return names, nil
}

// CreateCategory inserts a category. Duplicates return ErrConflict.
func (r *Repository) CreateCategory(ctx context.Context, userID, name string) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	_, err := r.pool.Exec(ctx, `INSERT INTO categories (user_id, name) VALUES ($1, $2)`, userID, name)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrConflict
		}
		return fmt.Errorf("failed to create category: %w", err)
	}
	return nil
}

// DeleteCategory removes a category. Expenses keep their label.
func (r *Repository) DeleteCategory(ctx context.Context, userID, name string) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	result, err := r.pool.Exec(ctx, `DELETE FROM categories WHERE user_id = $1 AND name = $2`, userID, name)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
