package repository

import (
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/spendwise/spendwise/internal/model"
)

// Errors shared by every store implementation.
var (
	ErrNotFound = errors.New("record not found")
	ErrConflict = errors.New("unique constraint violation")
)

// uniqueViolation is the PostgreSQL SQLSTATE for unique_violation.
const uniqueViolation = "23505"

// isUniqueViolation checks if the error is a PostgreSQL unique constraint violation.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// appendWindow adds created_at bounds for w to a query whose next
// placeholder is $len(args)+1. An unbounded window adds nothing.
func appendWindow(query string, args []any, w model.Window) (string, []any) {
	if !w.From.IsZero() {
		args = append(args, w.From)
		query += fmt.Sprintf(" AND created_at >= $%d", len(args))
	}
	if !w.To.IsZero() {
		args = append(args, w.To)
		query += fmt.Sprintf(" AND created_at < $%d", len(args))
	}
	return query, args
}

// optionalTime returns nil for the zero time.
func optionalTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}
