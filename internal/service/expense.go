package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spendwise/spendwise/internal/events"
	"github.com/spendwise/spendwise/internal/metrics"
	"github.com/spendwise/spendwise/internal/model"
	"github.com/spendwise/spendwise/internal/repository"
)

// ExpenseInput defines input for creating or replacing an expense.
// Amount is a pointer so that an absent amount can be told apart from zero.
type ExpenseInput struct {
	Amount      *model.Amount
	Description *string
	Category    string
	CreatedAt   *time.Time
}

func (in ExpenseInput) validate() error {
	if in.Amount == nil {
		return required("amount")
	}
	if !in.Amount.InRange() {
		return invalid("amount", "must be less than 10000000000 in magnitude")
	}
	if strings.TrimSpace(in.Category) == "" {
		return required("category")
	}
	return nil
}

func (in ExpenseInput) description() string {
	if in.Description == nil {
		return ""
	}
	return *in.Description
}

func (in ExpenseInput) createdAt() time.Time {
	if in.CreatedAt == nil {
		return time.Time{}
	}
	return in.CreatedAt.UTC()
}

// ExpenseService handles expense business logic.
type ExpenseService struct {
	store     ExpenseStore
	publisher events.Publisher
	metrics   metrics.Recorder
	logger    *slog.Logger
}

// NewExpenseService creates a new ExpenseService.
func NewExpenseService(store ExpenseStore, publisher events.Publisher, recorder metrics.Recorder, logger *slog.Logger) *ExpenseService {
	if publisher == nil {
		publisher = events.NewNoop()
	}
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ExpenseService{
		store:     store,
		publisher: publisher,
		metrics:   recorder,
		logger:    logger.With("component", "expenses"),
	}
}

// Create records a new expense for userID.
func (s *ExpenseService) Create(ctx context.Context, userID string, input ExpenseInput) (*model.Expense, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	e := &model.Expense{
		ID:          model.NewID(),
		UserID:      userID,
		Amount:      *input.Amount,
		Description: input.description(),
		Category:    strings.TrimSpace(input.Category),
		CreatedAt:   input.createdAt(),
	}
	if err := s.store.CreateExpense(ctx, e); err != nil {
		return nil, fmt.Errorf("create expense: %w", err)
	}

	s.metrics.IncExpenseCreated()
	s.publish(ctx, events.NewExpenseEvent(events.ExpenseCreated, userID, e.ID, e))
	return e, nil
}

// Get returns one expense owned by userID.
func (s *ExpenseService) Get(ctx context.Context, userID, id string) (*model.Expense, error) {
	e, err := s.store.GetExpense(ctx, userID, id)
	if err != nil {
		return nil, mapNotFound(err, "get expense")
	}
	return e, nil
}

// List returns the caller's expenses, newest first. The month filter
// applies only when both month and year are given.
func (s *ExpenseService) List(ctx context.Context, userID, month, year string) ([]model.Expense, error) {
	w, err := OptionalMonth(month, year)
	if err != nil {
		return nil, err
	}
	return s.list(ctx, userID, w)
}

// ListByRange returns the caller's expenses dated inside the inclusive
// calendar range [startDate, endDate], newest first.
func (s *ExpenseService) ListByRange(ctx context.Context, userID, startDate, endDate string) ([]model.Expense, error) {
	w, err := DateRange(startDate, endDate)
	if err != nil {
		return nil, err
	}
	return s.list(ctx, userID, w)
}

func (s *ExpenseService) list(ctx context.Context, userID string, w model.Window) ([]model.Expense, error) {
	list, err := s.store.ListExpenses(ctx, userID, w)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	return list, nil
}

// Update replaces amount, description and category of an expense owned by
// userID. created_at changes only when supplied.
func (s *ExpenseService) Update(ctx context.Context, userID, id string, input ExpenseInput) (*model.Expense, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	e, err := s.store.UpdateExpense(ctx, &model.Expense{
		ID:          id,
		UserID:      userID,
		Amount:      *input.Amount,
		Description: input.description(),
		Category:    strings.TrimSpace(input.Category),
		CreatedAt:   input.createdAt(),
	})
	if err != nil {
		return nil, mapNotFound(err, "update expense")
	}

	s.metrics.IncExpenseUpdated()
	s.publish(ctx, events.NewExpenseEvent(events.ExpenseUpdated, userID, e.ID, e))
	return e, nil
}

// Delete removes an expense owned by userID.
func (s *ExpenseService) Delete(ctx context.Context, userID, id string) error {
	if err := s.store.DeleteExpense(ctx, userID, id); err != nil {
		return mapNotFound(err, "delete expense")
	}

	s.metrics.IncExpenseDeleted()
	s.publish(ctx, events.NewExpenseEvent(events.ExpenseDeleted, userID, id, nil))
	return nil
}

// publish never fails the request; broker trouble is logged and counted.
func (s *ExpenseService) publish(ctx context.Context, event events.ExpenseEvent) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.metrics.IncEventPublished("failed")
		s.logger.Warn("event_publish_failed",
			"type", event.Type,
			"expense_id", event.ExpenseID,
			"error", err,
		)
		return
	}
	s.metrics.IncEventPublished("success")
}

func mapNotFound(err error, op string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}
