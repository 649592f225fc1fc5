package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spendwise/spendwise/internal/metrics"
	"github.com/spendwise/spendwise/internal/repository"
)

// CategoryService handles per-user category names.
type CategoryService struct {
	store   CategoryStore
	metrics metrics.Recorder
}

// NewCategoryService creates a new CategoryService.
func NewCategoryService(store CategoryStore, recorder metrics.Recorder) *CategoryService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &CategoryService{store: store, metrics: recorder}
}

// List returns the caller's category names in ascending order.
func (s *CategoryService) List(ctx context.Context, userID string) ([]string, error) {
	names, err := s.store.ListCategories(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return names, nil
}

// Create adds a category. A duplicate name for the same user is ErrConflict.
func (s *CategoryService) Create(ctx context.Context, userID, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", required("name")
	}

	if err := s.store.CreateCategory(ctx, userID, name); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return "", ErrConflict
		}
		return "", fmt.Errorf("create category: %w", err)
	}

	s.metrics.IncCategoryCreated()
	return name, nil
}

// Delete removes a category. Expenses labelled with it are left untouched.
func (s *CategoryService) Delete(ctx context.Context, userID, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return required("name")
	}

	if err := s.store.DeleteCategory(ctx, userID, name); err != nil {
		return mapNotFound(err, "delete category")
	}

	s.metrics.IncCategoryDeleted()
	return nil
}
