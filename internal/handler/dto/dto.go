// Package dto provides Data Transfer Objects for API requests and responses.
package dto

// ErrorResponse represents an API error.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// MessageResponse is the body of operations that return no resource.
type MessageResponse struct {
	Message string `json:"message"`
}
