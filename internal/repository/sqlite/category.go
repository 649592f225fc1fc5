package sqlite

import (
	"context"
	"fmt"

	"github.com/spendwise/spendwise/internal/repository"
)

// ListCategories returns the category names of userID in ascending order.
func (s *Store) ListCategories(ctx context.Context, userID string) ([]string, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, `SELECT name FROM categories WHERE user_id = ? ORDER BY name ASC`, userID)
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

// CreateCategory inserts a category. Duplicates return repository.ErrConflict.
func (s *Store) CreateCategory(ctx context.Context, userID, name string) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	_, err := s.db.ExecContext(ctx, `INSERT INTO categories (user_id, name) VALUES (?, ?)`, userID, name)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		return fmt.Errorf("failed to create category: %w", err)
	}
	return nil
}

// DeleteCategory removes a category. Expenses keep their label.
func (s *Store) DeleteCategory(ctx context.Context, userID, name string) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	result, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE user_id = ? AND name = ?`, userID, name)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	return requireAffected(result)
}
