// Package events publishes expense domain events.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/spendwise/spendwise/internal/model"
)

// Type names an event. It doubles as the AMQP routing key.
type Type string

// Event types.
const (
	ExpenseCreated Type = "expense.created"
	ExpenseUpdated Type = "expense.updated"
	ExpenseDeleted Type = "expense.deleted"
)

// ExpenseEvent is the message body published after an expense mutation.
// Expense is omitted for deletions.
type ExpenseEvent struct {
	Type       Type           `json:"type"`
	ExpenseID  string         `json:"expense_id"`
	UserID     string         `json:"user_id"`
	OccurredAt time.Time      `json:"occurred_at"`
	Expense    *model.Expense `json:"expense,omitempty"`
}

// NewExpenseEvent builds an event stamped with the current UTC time.
func NewExpenseEvent(typ Type, userID, expenseID string, e *model.Expense) ExpenseEvent {
	return ExpenseEvent{
		Type:       typ,
		ExpenseID:  expenseID,
		UserID:     userID,
		OccurredAt: time.Now().UTC(),
		Expense:    e,
	}
}

// ToJSON encodes the event.
func (e ExpenseEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// Publisher delivers events to interested consumers.
type Publisher interface {
	Publish(ctx context.Context, event ExpenseEvent) error
	Close() error
}

// NoopPublisher drops every event. It is used when no broker is configured.
type NoopPublisher struct{}

// NewNoop returns a Publisher that discards events.
func NewNoop() Publisher {
	return NoopPublisher{}
}

// Publish is a no-op.
func (NoopPublisher) Publish(context.Context, ExpenseEvent) error { return nil }

// Close is a no-op.
func (NoopPublisher) Close() error { return nil }
