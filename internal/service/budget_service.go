package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/chaching/backend/internal/models"
	"github.com/chaching/backend/internal/repository"
)

// BudgetService implements budget operations. Every operation is scoped to
// the caller's resolved user id; client-supplied owner fields are ignored.
type BudgetService interface {
	List(ctx context.Context, userID uuid.UUID) ([]*models.Budget, error)
	Create(ctx context.Context, userID uuid.UUID, category string, amount float64) (*models.Budget, error)
}

type budgetService struct {
	budgetRepo repository.BudgetRepository
}

// NewBudgetService creates a new budget service.
func NewBudgetService(budgetRepo repository.BudgetRepository) BudgetService {
	return &budgetService{budgetRepo: budgetRepo}
}

func (s *budgetService) List(ctx context.Context, userID uuid.UUID) ([]*models.Budget, error) {
	budgets, err := s.budgetRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list budgets: %w", err)
	}
	return budgets, nil
}

func (s *budgetService) Create(ctx context.Context, userID uuid.UUID, category string, amount float64) (*models.Budget, error) {
	budget := &models.Budget{
		UserID:   userID,
		Category: category,
		Amount:   amount,
	}
	if err := s.budgetRepo.Create(ctx, budget); err != nil {
		return nil, fmt.Errorf("failed to create budget: %w", err)
	}
	return budget, nil
}

var _ BudgetService = (*budgetService)(nil)
