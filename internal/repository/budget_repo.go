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

// BudgetRepository defines the interface for budget data operations.
type BudgetRepository interface {
	Create(ctx context.Context, budget *models.Budget) error
	GetByID(ctx context.Context, id string) (*models.Budget, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Budget, error)
}

type budgetRepo struct {
	pool *pgxpool.Pool
}

// NewBudgetRepository creates a new budget repository.
func NewBudgetRepository(pool *pgxpool.Pool) BudgetRepository {
	return &budgetRepo{pool: pool}
}

// Create inserts a new budget.
func (r *budgetRepo) Create(ctx context.Context, budget *models.Budget) error {
	query := `
		INSERT INTO budgets (id, user_id, category, amount, spent)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`

	if budget.ID == "" {
		budget.ID = ulid.New()
	}

	return r.pool.QueryRow(ctx, query,
		budget.ID,
		budget.UserID,
		budget.Category,
		budget.Amount,
		budget.Spent,
	).Scan(&budget.CreatedAt)
}

// GetByID retrieves a budget by id. Returns nil when no row matches.
func (r *budgetRepo) GetByID(ctx context.Context, id string) (*models.Budget, error) {
	query := `
		SELECT id, user_id, category, amount, spent, created_at
		FROM budgets WHERE id = $1`

	var b models.Budget
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&b.ID, &b.UserID, &b.Category, &b.Amount, &b.Spent, &b.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// ListByUser retrieves all budgets owned by the user.
func (r *budgetRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Budget, error) {
	query := `
		SELECT id, user_id, category, amount, spent, created_at
		FROM budgets WHERE user_id = $1
		ORDER BY id`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	budgets := []*models.Budget{}
	for rows.Next() {
		var b models.Budget
		if err := rows.Scan(&b.ID, &b.UserID, &b.Category, &b.Amount, &b.Spent, &b.CreatedAt); err != nil {
			return nil, err
		}
		budgets = append(budgets, &b)
	}
	return budgets, rows.Err()
}
