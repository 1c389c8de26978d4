// Package service provides business logic implementations.
package service

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/chaching/backend/internal/models"
	apierrors "github.com/chaching/backend/internal/pkg/errors"
)

// TokenService mints and verifies the signed session credential. The token
// is stateless and never stored server-side; the compact JWS encoding is
// URL-safe, which the OAuth redirect completion relies on.
type TokenService interface {
	// Issue produces a signed token binding the user's id to an expiry.
	Issue(user *models.User) (string, error)

	// Verify returns the user id a token asserts. It fails closed: any
	// structural corruption, signature mismatch, or past expiry yields
	// ErrInvalidCredential, never a partial identity.
	Verify(token string) (uuid.UUID, error)
}

type tokenService struct {
	secret []byte
	expiry time.Duration
}

// NewTokenService creates a token service signing with the given secret.
func NewTokenService(secret []byte, expiry time.Duration) TokenService {
	if expiry == 0 {
		expiry = 24 * time.Hour
	}
	return &tokenService{secret: secret, expiry: expiry}
}

func (s *tokenService) Issue(user *models.User) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   user.ID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (s *tokenService) Verify(tokenString string) (uuid.UUID, error) {
	claims := &jwt.RegisteredClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return uuid.Nil, apierrors.ErrInvalidCredential
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, apierrors.ErrInvalidCredential
	}
	return userID, nil
}

var _ TokenService = (*tokenService)(nil)
