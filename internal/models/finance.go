package models

import (
	"time"

	"github.com/google/uuid"
)

// Budget represents a spending budget for a category. Owned by exactly one
// user; every read and write is scoped by UserID.
type Budget struct {
	ID        string    `json:"id" db:"id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	Category  string    `json:"category" db:"category"`
	Amount    float64   `json:"amount" db:"amount"`
	Spent     float64   `json:"spent" db:"spent"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Goal represents a savings goal with a running total of contributions.
type Goal struct {
	ID            string    `json:"id" db:"id"`
	UserID        uuid.UUID `json:"user_id" db:"user_id"`
	Name          string    `json:"name" db:"name"`
	TargetAmount  float64   `json:"target_amount" db:"target_amount"`
	CurrentAmount float64   `json:"current_amount" db:"current_amount"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

// Transaction represents a single income or expense entry.
type Transaction struct {
	ID          string    `json:"id" db:"id"`
	UserID      uuid.UUID `json:"user_id" db:"user_id"`
	Amount      float64   `json:"amount" db:"amount"`
	Description string    `json:"description" db:"description"`
	Category    string    `json:"category,omitempty" db:"category"`
	OccurredAt  time.Time `json:"occurred_at" db:"occurred_at"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
