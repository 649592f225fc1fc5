package dto

import (
	"time"

	"github.com/spendwise/spendwise/internal/model"
)

// RegisterRequest represents the request body for creating an account.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest represents the request body for logging in.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// UserResponse represents a user in API responses. The password hash
// never leaves the service.
type UserResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// SessionResponse is returned by register and login.
type SessionResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}

// ToUserResponse converts a User model to UserResponse DTO.
func ToUserResponse(u *model.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		CreatedAt: u.CreatedAt.UTC(),
	}
}

// ToSessionResponse builds the register/login response.
func ToSessionResponse(token string, expiresAt time.Time, u *model.User) SessionResponse {
	return SessionResponse{
		Token:     token,
		ExpiresAt: expiresAt.UTC(),
		User:      ToUserResponse(u),
	}
}
