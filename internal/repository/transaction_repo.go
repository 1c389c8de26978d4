package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/chaching/backend/internal/models"
	"github.com/chaching/backend/internal/pkg/ulid"
)

// TransactionRepository defines the interface for transaction data operations.
type TransactionRepository interface {
	Create(ctx context.Context, tx *models.Transaction) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Transaction, error)
}

type transactionRepo struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new transaction repository.
func NewTransactionRepository(pool *pgxpool.Pool) TransactionRepository {
	return &transactionRepo{pool: pool}
}

// Create inserts a new transaction.
func (r *transactionRepo) Create(ctx context.Context, tx *models.Transaction) error {
	query := `
		INSERT INTO transactions (id, user_id, amount, description, category, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`

	if tx.ID == "" {
		tx.ID = ulid.New()
	}

	return r.pool.QueryRow(ctx, query,
		tx.ID,
		tx.UserID,
		tx.Amount,
		tx.Description,
		tx.Category,
		tx.OccurredAt,
	).Scan(&tx.CreatedAt)
}

// ListByUser retrieves all transactions owned by the user, newest first.
func (r *transactionRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Transaction, error) {
	query := `
		SELECT id, user_id, amount, description, category, occurred_at, created_at
		FROM transactions WHERE user_id = $1
		ORDER BY id DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	txs := []*models.Transaction{}
	for rows.Next() {
		var t models.Transaction
		if err := rows.Scan(&t.ID, &t.UserID, &t.Amount, &t.Description, &t.Category, &t.OccurredAt, &t.CreatedAt); err != nil {
			return nil, err
		}
		txs = append(txs, &t)
	}
	return txs, rows.Err()
}
