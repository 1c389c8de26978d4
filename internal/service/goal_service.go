package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/chaching/backend/internal/models"
	apierrors "github.com/chaching/backend/internal/pkg/errors"
	"github.com/chaching/backend/internal/repository"
)

// GoalService implements savings goal operations.
type GoalService interface {
	List(ctx context.Context, userID uuid.UUID) ([]*models.Goal, error)
	Create(ctx context.Context, userID uuid.UUID, name string, targetAmount float64) (*models.Goal, error)
	Contribute(ctx context.Context, userID uuid.UUID, goalID string, amount float64) (*models.Goal, error)
}

type goalService struct {
	goalRepo repository.GoalRepository
}

// NewGoalService creates a new goal service.
func NewGoalService(goalRepo repository.GoalRepository) GoalService {
	return &goalService{goalRepo: goalRepo}
}

func (s *goalService) List(ctx context.Context, userID uuid.UUID) ([]*models.Goal, error) {
	goals, err := s.goalRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}
	return goals, nil
}

func (s *goalService) Create(ctx context.Context, userID uuid.UUID, name string, targetAmount float64) (*models.Goal, error) {
	goal := &models.Goal{
		UserID:       userID,
		Name:         name,
		TargetAmount: targetAmount,
	}
	if err := s.goalRepo.Create(ctx, goal); err != nil {
		return nil, fmt.Errorf("failed to create goal: %w", err)
	}
	return goal, nil
}

// Contribute adds an amount to a goal's running total. A goal id that does
// not exist yields not-found; a goal owned by another user yields forbidden
// and the stored total is left untouched.
func (s *goalService) Contribute(ctx context.Context, userID uuid.UUID, goalID string, amount float64) (*models.Goal, error) {
	goal, err := s.goalRepo.GetByID(ctx, goalID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up goal: %w", err)
	}
	if goal == nil {
		return nil, apierrors.NewNotFoundError("Goal")
	}
	if goal.UserID != userID {
		return nil, apierrors.ErrForbidden
	}

	updated := *goal
	updated.CurrentAmount = goal.CurrentAmount + amount
	if err := s.goalRepo.UpdateAmount(ctx, updated.ID, updated.CurrentAmount); err != nil {
		return nil, fmt.Errorf("failed to update goal: %w", err)
	}
	return &updated, nil
}

var _ GoalService = (*goalService)(nil)
