package dto

import (
	"time"

	"github.com/spendwise/spendwise/internal/model"
)

// ExpenseRequest is the body of create and update. Amount is a pointer so
// a missing amount is distinguishable from zero.
type ExpenseRequest struct {
	Amount      *model.Amount `json:"amount"`
	Description *string       `json:"description,omitempty"`
	Category    string        `json:"category"`
	CreatedAt   *time.Time    `json:"created_at,omitempty"`
}

// ExpenseResponse represents an expense in API responses.
type ExpenseResponse struct {
	ID          string       `json:"id"`
	UserID      string       `json:"user_id"`
	Amount      model.Amount `json:"amount"`
	Description string       `json:"description"`
	Category    string       `json:"category"`
	CreatedAt   time.Time    `json:"created_at"`
}

// ToExpenseResponse converts an Expense model to ExpenseResponse DTO.
func ToExpenseResponse(e *model.Expense) ExpenseResponse {
	return ExpenseResponse{
		ID:          e.ID,
		UserID:      e.UserID,
		Amount:      e.Amount,
		Description: e.Description,
		Category:    e.Category,
		CreatedAt:   e.CreatedAt.UTC(),
	}
}

// ToExpenseListResponse converts a list of expenses. An empty list
// encodes as [] rather than null.
func ToExpenseListResponse(list []model.Expense) []ExpenseResponse {
	out := make([]ExpenseResponse, 0, len(list))
	for i := range list {
		out = append(out, ToExpenseResponse(&list[i]))
	}
	return out
}
