package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/chaching/backend/internal/models"
	"github.com/chaching/backend/internal/pkg/ulid"
)

// GoalRepository defines the interface for savings goal data operations.
type GoalRepository interface {
	Create(ctx context.Context, goal *models.Goal) error
	GetByID(ctx context.Context, id string) (*models.Goal, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Goal, error)
	UpdateAmount(ctx context.Context, id string, currentAmount float64) error
}

type goalRepo struct {
	pool *pgxpool.Pool
}

// NewGoalRepository creates a new goal repository.
func NewGoalRepository(pool *pgxpool.Pool) GoalRepository {
	return &goalRepo{pool: pool}
}

// Create inserts a new goal.
func (r *goalRepo) Create(ctx context.Context, goal *models.Goal) error {
	query := `
		INSERT INTO goals (id, user_id, name, target_amount, current_amount)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`

	if goal.ID == "" {
		goal.ID = ulid.New()
	}

	return r.pool.QueryRow(ctx, query,
		goal.ID,
		goal.UserID,
		goal.Name,
		goal.TargetAmount,
		goal.CurrentAmount,
	).Scan(&goal.CreatedAt)
}

// GetByID retrieves a goal by id. Returns nil when no row matches.
func (r *goalRepo) GetByID(ctx context.Context, id string) (*models.Goal, error) {
	query := `
		SELECT id, user_id, name, target_amount, current_amount, created_at
		FROM goals WHERE id = $1`

	var g models.Goal
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&g.ID, &g.UserID, &g.Name, &g.TargetAmount, &g.CurrentAmount, &g.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// ListByUser retrieves all goals owned by the user.
func (r *goalRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Goal, error) {
	query := `
		SELECT id, user_id, name, target_amount, current_amount, created_at
		FROM goals WHERE user_id = $1
		ORDER BY id`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	goals := []*models.Goal{}
	for rows.Next() {
		var g models.Goal
		if err := rows.Scan(&g.ID, &g.UserID, &g.Name, &g.TargetAmount, &g.CurrentAmount, &g.CreatedAt); err != nil {
			return nil, err
		}
		goals = append(goals, &g)
	}
	return goals, rows.Err()
}

// UpdateAmount writes a new running total for the goal.
func (r *goalRepo) UpdateAmount(ctx context.Context, id string, currentAmount float64) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE goals SET current_amount = $2 WHERE id = $1`, id, currentAmount,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
