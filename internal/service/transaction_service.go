package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/chaching/backend/internal/models"
	"github.com/chaching/backend/internal/repository"
)

// CreateTransactionRequest carries the caller-supplied transaction fields.
type CreateTransactionRequest struct {
	Amount      float64
	Description string
	Category    string
	OccurredAt  time.Time
}

// TransactionService implements transaction operations.
type TransactionService interface {
	List(ctx context.Context, userID uuid.UUID) ([]*models.Transaction, error)
	Create(ctx context.Context, userID uuid.UUID, req CreateTransactionRequest) (*models.Transaction, error)
}

type transactionService struct {
	txRepo repository.TransactionRepository
}

// NewTransactionService creates a new transaction service.
func NewTransactionService(txRepo repository.TransactionRepository) TransactionService {
	return &transactionService{txRepo: txRepo}
}

func (s *transactionService) List(ctx context.Context, userID uuid.UUID) ([]*models.Transaction, error) {
	txs, err := s.txRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return txs, nil
}

func (s *transactionService) Create(ctx context.Context, userID uuid.UUID, req CreateTransactionRequest) (*models.Transaction, error) {
	occurredAt := req.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now()
	}

	tx := &models.Transaction{
		UserID:      userID,
		Amount:      req.Amount,
		Description: req.Description,
		Category:    req.Category,
		OccurredAt:  occurredAt,
	}
	if err := s.txRepo.Create(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}
	return tx, nil
}

var _ TransactionService = (*transactionService)(nil)
