// Package model defines domain entities for the application.
package model

import "time"

// User is an account that owns expenses and categories.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never serialize
	CreatedAt    time.Time `json:"created_at"`
}

// AuthContext holds the authenticated caller.
// This is injected into the request context by auth middleware.
type AuthContext struct {
	UserID    string
	TokenID   string
	ExpiresAt time.Time
}
