package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/spendwise/spendwise/internal/model"
)

// CreateUser inserts a new user into the database.
func (r *Repository) CreateUser(ctx context.Context, user *model.User) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO users (id, username, email, password_hash, created_at)
		VALUES ($1, $2, $3, $4, COALESCE($5::timestamptz, now()))
		RETURNING created_at
	`

	err := r.pool.QueryRow(ctx, query,
		user.ID,
		user.Username,
		user.Email,
		user.PasswordHash,
		optionalTime(user.CreatedAt),
	).Scan(&user.CreatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return ErrConflict
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	user.CreatedAt = user.CreatedAt.UTC()
	return nil
}

// UpdatePasswordHash replaces a user's password hash.
func (r *Repository) UpdatePasswordHash(ctx context.Context, userID, hash string) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	result, err := r.pool.Exec(ctx, `UPDATE users SET password_hash = $2 WHERE id = $1`, userID, hash)
	if err != nil {
		return fmt.Errorf("failed to update password hash: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// GetUserByID retrieves a user by their ID.
func (r *Repository) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	return r.getUser(ctx, "id", id)
}

// GetUserByUsername retrieves a user by their username.
func (r *Repository) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.getUser(ctx, "username", username)
}

func (r *Repository) getUser(ctx context.Context, column, value string) (*model.User, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	// column is never user input.
	query := `
		SELECT id, username, email, password_hash, created_at
		FROM users
		WHERE ` + column + ` = $1
	`

	var user model.User
	err := r.pool.QueryRow(ctx, query, value).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by %s: %w", column, err)
	}

	user.CreatedAt = user.CreatedAt.UTC()
	return &user, nil
}
