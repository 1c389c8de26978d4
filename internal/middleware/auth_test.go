package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chaching/backend/internal/models"
	"github.com/chaching/backend/internal/service"
)

// countingUserRepo tracks store access so tests can assert that rejected
// requests never touch the store.
type countingUserRepo struct {
	users map[uuid.UUID]*models.User
	calls int
}

func newCountingUserRepo(users ...*models.User) *countingUserRepo {
	m := &countingUserRepo{users: make(map[uuid.UUID]*models.User)}
	for _, u := range users {
		m.users[u.ID] = u
	}
	return m
}

func (m *countingUserRepo) Create(ctx context.Context, user *models.User) error { m.calls++; return nil }

func (m *countingUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	m.calls++
	return m.users[id], nil
}

func (m *countingUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	m.calls++
	return nil, nil
}

func (m *countingUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	m.calls++
	return false, nil
}

func (m *countingUserRepo) Update(ctx context.Context, user *models.User) error {
	m.calls++
	return nil
}

func TestAuth_NoCredential(t *testing.T) {
	tokens := service.NewTokenService([]byte("secret"), time.Hour)
	repo := newCountingUserRepo()

	handlerCalled := false
	gate := Auth(tokens, repo, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/budgets", nil)
	rec := httptest.NewRecorder()
	gate.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, handlerCalled)
	assert.Zero(t, repo.calls, "a credential-less request must not reach the store")
}

func TestAuth_InvalidCredential(t *testing.T) {
	tokens := service.NewTokenService([]byte("secret"), time.Hour)
	repo := newCountingUserRepo()

	gate := Auth(tokens, repo, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/api/budgets", nil)
	req.Header.Set("Authorization", "Bearer not-a-real-token")
	rec := httptest.NewRecorder()
	gate.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Zero(t, repo.calls)
}

func TestAuth_ValidCredentialAttachesIdentity(t *testing.T) {
	tokens := service.NewTokenService([]byte("secret"), time.Hour)
	user := &models.User{ID: uuid.New(), Email: "jane@example.com", Provider: models.ProviderGoogle}
	repo := newCountingUserRepo(user)

	token, err := tokens.Issue(user)
	require.NoError(t, err)

	var gotID uuid.UUID
	var gotUser *models.User
	gate := Auth(tokens, repo, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = GetUserID(r.Context())
		gotUser = GetUser(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/budgets", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	gate.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, user.ID, gotID)
	require.NotNil(t, gotUser)
	assert.Equal(t, "jane@example.com", gotUser.Email)
}

func TestAuth_ValidTokenForDeletedUser(t *testing.T) {
	tokens := service.NewTokenService([]byte("secret"), time.Hour)
	repo := newCountingUserRepo() // token's subject is not in the store

	token, err := tokens.Issue(&models.User{ID: uuid.New()})
	require.NoError(t, err)

	gate := Auth(tokens, repo, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/api/budgets", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	gate.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuth_SkipPathPassesThrough(t *testing.T) {
	tokens := service.NewTokenService([]byte("secret"), time.Hour)
	repo := newCountingUserRepo()

	handlerCalled := false
	gate := Auth(tokens, repo, []string{"/health"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
	}))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	gate.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, handlerCalled)
	assert.Zero(t, repo.calls)
}
