package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/chaching/backend/internal/models"
	apierrors "github.com/chaching/backend/internal/pkg/errors"
	"github.com/chaching/backend/internal/repository"
)

// AuthService reconciles identities into user records and handles the local
// credential path.
type AuthService interface {
	// Reconcile resolves an external-provider identity (email, display
	// name, avatar URL) into a local user record, creating one on first
	// login. Repeated calls for the same email return the same record.
	Reconcile(ctx context.Context, email, fullName, profilePicture string) (*models.User, error)

	// Register creates a locally-authenticated user with a hashed password.
	Register(ctx context.Context, email, password, fullName string) (*models.User, error)

	// Login verifies a local user's password and returns the record.
	Login(ctx context.Context, email, password string) (*models.User, error)
}

type authService struct {
	userRepo repository.UserRepository
}

// NewAuthService creates a new auth service.
func NewAuthService(userRepo repository.UserRepository) AuthService {
	return &authService{userRepo: userRepo}
}

func (s *authService) Reconcile(ctx context.Context, email, fullName, profilePicture string) (*models.User, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, apierrors.ErrInvalidIdentity
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user != nil {
		return s.enrichPicture(ctx, user, profilePicture)
	}

	created := &models.User{
		Email:          email,
		FullName:       optional(fullName),
		ProfilePicture: optional(profilePicture),
		Provider:       models.ProviderGoogle,
		PasswordHash:   nil,
	}

	err = s.userRepo.Create(ctx, created)
	if errors.Is(err, repository.ErrDuplicateEmail) {
		// Lost the race against a concurrent first login for the same
		// address; the row the winner created is the record.
		user, err = s.userRepo.GetByEmail(ctx, email)
		if err != nil {
			return nil, fmt.Errorf("failed to look up user after conflict: %w", err)
		}
		if user == nil {
			return nil, fmt.Errorf("user vanished after duplicate-email conflict")
		}
		return s.enrichPicture(ctx, user, profilePicture)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return created, nil
}

// enrichPicture fills in a missing profile picture from the provider
// payload. Enrichment is monotonic and one-shot: a stored picture is never
// overwritten and never cleared.
func (s *authService) enrichPicture(ctx context.Context, user *models.User, profilePicture string) (*models.User, error) {
	if profilePicture == "" || (user.ProfilePicture != nil && *user.ProfilePicture != "") {
		return user, nil
	}

	updated := *user
	updated.ProfilePicture = &profilePicture
	if err := s.userRepo.Update(ctx, &updated); err != nil {
		return nil, fmt.Errorf("failed to update profile picture: %w", err)
	}
	return &updated, nil
}

func (s *authService) Register(ctx context.Context, email, password, fullName string) (*models.User, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, apierrors.NewValidationError("email", "email is required")
	}
	if password == "" {
		return nil, apierrors.NewValidationError("password", "password is required")
	}

	exists, err := s.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil, apierrors.ErrDuplicateEmail
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	hashStr := string(hash)

	user := &models.User{
		Email:        email,
		FullName:     optional(fullName),
		PasswordHash: &hashStr,
		Provider:     models.ProviderLocal,
	}

	err = s.userRepo.Create(ctx, user)
	if errors.Is(err, repository.ErrDuplicateEmail) {
		return nil, apierrors.ErrDuplicateEmail
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	// Google-provider accounts have no password hash and can never
	// password-login.
	if user == nil || user.PasswordHash == nil {
		return nil, apierrors.ErrUnauthorized
	}
	if bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(password)) != nil {
		return nil, apierrors.ErrUnauthorized
	}
	return user, nil
}

// normalizeEmail implements the fixed case policy: emails are lower-cased on
// every write and lookup.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

var _ AuthService = (*authService)(nil)
