package service

import (
	"context"
	"time"

	"github.com/spendwise/spendwise/internal/model"
)

// UserStore persists user accounts. Username and email are unique;
// CreateUser returns repository.ErrConflict when either is taken.
type UserStore interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	// UpdatePasswordHash replaces the stored hash of an existing user.
	UpdatePasswordHash(ctx context.Context, userID, hash string) error
}

// ExpenseStore persists expenses. Every method filters by owner inside a
// single statement, so an expense owned by someone else looks absent.
type ExpenseStore interface {
	// CreateExpense inserts e. A zero CreatedAt takes the store's current time;
	// the stored value is written back into e.
	CreateExpense(ctx context.Context, e *model.Expense) error
	GetExpense(ctx context.Context, userID, id string) (*model.Expense, error)
	// ListExpenses returns expenses inside w, newest first.
	ListExpenses(ctx context.Context, userID string, w model.Window) ([]model.Expense, error)
	// UpdateExpense replaces amount, description and category. A zero
	// CreatedAt keeps the stored timestamp.
	UpdateExpense(ctx context.Context, e *model.Expense) (*model.Expense, error)
	DeleteExpense(ctx context.Context, userID, id string) error
}

// CategoryStore persists category names per user.
type CategoryStore interface {
	ListCategories(ctx context.Context, userID string) ([]string, error)
	CreateCategory(ctx context.Context, userID, name string) error
	DeleteCategory(ctx context.Context, userID, name string) error
}

// ReportStore runs SUM(amount) aggregates over a window. Results are never nil.
type ReportStore interface {
	SumByCategory(ctx context.Context, userID string, w model.Window) ([]model.CategoryTotal, error)
	SumByDate(ctx context.Context, userID string, w model.Window) ([]model.DateTotal, error)
	SumByDayOfMonth(ctx context.Context, userID string, w model.Window) ([]model.DayOfMonthTotal, error)
	SumByMonth(ctx context.Context, userID string, w model.Window) ([]model.MonthTotal, error)
}

// Store is everything the API needs from persistence.
type Store interface {
	UserStore
	ExpenseStore
	CategoryStore
	ReportStore
	Ping(ctx context.Context) error
}

// TokenDenylist records revoked token ids until they would have expired anyway.
type TokenDenylist interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
