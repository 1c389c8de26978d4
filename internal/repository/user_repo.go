// Package repository provides data access layer implementations.
package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/chaching/backend/internal/models"
)

// ErrDuplicateEmail is returned by Create when the email is already taken.
// The unique constraint on users.email is what makes concurrent first-time
// logins for the same address resolve to a single row.
var ErrDuplicateEmail = errors.New("email already exists")

// UserRepository defines the interface for user data operations.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Update(ctx context.Context, user *models.User) error
}

type userRepo struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new user repository.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepo{pool: pool}
}

const uniqueViolation = "23505"

// Create inserts a new user. Returns ErrDuplicateEmail when another row
// already holds the email, so callers can fall back to a re-lookup.
func (r *userRepo) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, email, full_name, profile_picture, password_hash, provider)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at`

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}

	err := r.pool.QueryRow(ctx, query,
		user.ID,
		user.Email,
		user.FullName,
		user.ProfilePicture,
		user.PasswordHash,
		user.Provider,
	).Scan(&user.CreatedAt, &user.UpdatedAt)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrDuplicateEmail
	}
	return err
}

// GetByID retrieves a user by id. Returns nil when no row matches.
func (r *userRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	query := `
		SELECT id, email, full_name, profile_picture, password_hash, provider, created_at, updated_at
		FROM users WHERE id = $1`

	return r.scanOne(r.pool.QueryRow(ctx, query, id))
}

// GetByEmail retrieves a user by email. Returns nil when no row matches.
func (r *userRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `
		SELECT id, email, full_name, profile_picture, password_hash, provider, created_at, updated_at
		FROM users WHERE email = $1`

	return r.scanOne(r.pool.QueryRow(ctx, query, email))
}

// ExistsByEmail checks whether a user with the email exists.
func (r *userRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email,
	).Scan(&exists)
	return exists, err
}

// Update writes a user snapshot back under its id.
func (r *userRepo) Update(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users
		SET full_name = $2, profile_picture = $3, password_hash = $4, updated_at = now()
		WHERE id = $1
		RETURNING updated_at`

	return r.pool.QueryRow(ctx, query,
		user.ID,
		user.FullName,
		user.ProfilePicture,
		user.PasswordHash,
	).Scan(&user.UpdatedAt)
}

func (r *userRepo) scanOne(row pgx.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.FullName,
		&user.ProfilePicture,
		&user.PasswordHash,
		&user.Provider,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}
