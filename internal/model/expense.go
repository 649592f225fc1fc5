package model

import "time"

// Expense is a single spending record owned by one user.
// Category is a free-form label; it is not checked against the
// categories table, so it may name a category that was deleted.
type Expense struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Amount      Amount    `json:"amount"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	CreatedAt   time.Time `json:"created_at"`
}

// Category is a named label owned by a user. (UserID, Name) is unique.
type Category struct {
	UserID string `json:"-"`
	Name   string `json:"name"`
}
