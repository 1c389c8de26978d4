// Package middleware provides HTTP middleware for the cha-ching API.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/chaching/backend/internal/models"
	apierrors "github.com/chaching/backend/internal/pkg/errors"
	"github.com/chaching/backend/internal/pkg/response"
	"github.com/chaching/backend/internal/repository"
	"github.com/chaching/backend/internal/service"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// UserIDKey is the context key for the authenticated user id.
	UserIDKey contextKey = "user_id"
	// UserKey is the context key for the authenticated user snapshot.
	UserKey contextKey = "user"
)

// Auth returns the authentication gate. Requests to a skip path pass
// through unchanged. Everything else must carry a bearer token: the token
// is verified, the user is loaded, and both are attached to the request
// context. A missing or invalid credential is rejected with 401 before any
// request body processing.
func Auth(tokens service.TokenService, users repository.UserRepository, skipPaths []string) func(next http.Handler) http.Handler {
	skip := make(map[string]bool)
	for _, path := range skipPaths {
		skip[path] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if skip[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				response.Error(w, apierrors.ErrUnauthorized)
				return
			}
			token := strings.TrimPrefix(authHeader, "Bearer ")

			userID, err := tokens.Verify(token)
			if err != nil {
				response.Error(w, apierrors.ErrInvalidCredential)
				return
			}

			user, err := users.GetByID(r.Context(), userID)
			if err != nil {
				response.Error(w, apierrors.ErrInternal)
				return
			}
			if user == nil {
				response.Error(w, apierrors.ErrUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, user.ID)
			ctx = context.WithValue(ctx, UserKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserID retrieves the authenticated user id from context.
func GetUserID(ctx context.Context) uuid.UUID {
	if v := ctx.Value(UserIDKey); v != nil {
		return v.(uuid.UUID)
	}
	return uuid.Nil
}

// GetUser retrieves the authenticated user snapshot from context.
func GetUser(ctx context.Context) *models.User {
	if v := ctx.Value(UserKey); v != nil {
		return v.(*models.User)
	}
	return nil
}
