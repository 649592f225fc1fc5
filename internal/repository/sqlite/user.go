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

// CreateUser inserts a new user.
func (s *Store) CreateUser(ctx context.Context, user *model.User) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if user.CreatedAt.IsZero() {
		user.CreatedAt = nowUTC()
	}
	user.CreatedAt = user.CreatedAt.UTC().Truncate(time.Millisecond)

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, username, email, password_hash, created_at) VALUES (?, ?, ?, ?, ?)`,
		user.ID, user.Username, user.Email, user.PasswordHash, formatTime(user.CreatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// UpdatePasswordHash replaces a user's password hash.
func (s *Store) UpdatePasswordHash(ctx context.Context, userID, hash string) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	result, err := s.db.ExecContext(ctx, `UPDATE users SET password_hash = ? WHERE id = ?`, hash, userID)
	if err != nil {
		return fmt.Errorf("failed to update password hash: %w", err)
	}
	return requireAffected(result)
}

// GetUserByID retrieves a user by their ID.
func (s *Store) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	return s.getUser(ctx, "id", id)
}

// GetUserByUsername retrieves a user by their username.
func (s *Store) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	return s.getUser(ctx, "username", username)
}

func (s *Store) getUser(ctx context.Context, column, value string) (*model.User, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	row := s.db.QueryRowContext(ctx,
		`SELECT id, username, email, password_hash, created_at FROM users WHERE `+column+` = ?`,
		value,
	)

	var (
		user    model.User
		created string
	)
	if err := row.Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by %s: %w", column, err)
	}

	t, err := parseTime(created)
	if err != nil {
		return nil, err
	}
	user.CreatedAt = t
	return &user, nil
}
