package service

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chaching/backend/internal/models"
	apierrors "github.com/chaching/backend/internal/pkg/errors"
	"github.com/chaching/backend/internal/repository"
)

// mockUserRepo is an in-memory user store. It enforces the unique-email
// constraint under a lock, so it behaves like the real store when hit by
// concurrent creates.
type mockUserRepo struct {
	mu      sync.Mutex
	users   map[uuid.UUID]*models.User
	byEmail map[string]*models.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{
		users:   make(map[uuid.UUID]*models.User),
		byEmail: make(map[string]*models.User),
	}
}

func (m *mockUserRepo) Create(ctx context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byEmail[user.Email]; ok {
		return repository.ErrDuplicateEmail
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	snapshot := *user
	m.users[user.ID] = &snapshot
	m.byEmail[user.Email] = &snapshot
	return nil
}

func (m *mockUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		snapshot := *u
		return &snapshot, nil
	}
	return nil, nil
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.byEmail[email]; ok {
		snapshot := *u
		return &snapshot, nil
	}
	return nil, nil
}

func (m *mockUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.byEmail[email]
	return ok, nil
}

func (m *mockUserRepo) Update(ctx context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	snapshot := *user
	m.users[user.ID] = &snapshot
	m.byEmail[user.Email] = &snapshot
	return nil
}

func TestReconcile_EmptyEmail(t *testing.T) {
	svc := NewAuthService(newMockUserRepo())

	_, err := svc.Reconcile(context.Background(), "", "Jane Doe", "http://pic")
	assert.ErrorIs(t, err, apierrors.ErrInvalidIdentity)
}

func TestReconcile_CreatesGoogleUser(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewAuthService(repo)

	user, err := svc.Reconcile(context.Background(), "Jane@Example.com", "Jane Doe", "http://pic")
	require.NoError(t, err)

	assert.Equal(t, "jane@example.com", user.Email, "email must be lower-cased on write")
	assert.Equal(t, models.ProviderGoogle, user.Provider)
	assert.Nil(t, user.PasswordHash)
	require.NotNil(t, user.ProfilePicture)
	assert.Equal(t, "http://pic", *user.ProfilePicture)
}

func TestReconcile_IdempotentOnRepeatedCalls(t *testing.T) {
	svc := NewAuthService(newMockUserRepo())
	ctx := context.Background()

	first, err := svc.Reconcile(ctx, "jane@example.com", "Jane Doe", "http://pic")
	require.NoError(t, err)

	second, err := svc.Reconcile(ctx, "jane@example.com", "Jane Doe", "http://pic")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
}

func TestReconcile_ConcurrentFirstLoginsCreateOneUser(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewAuthService(repo)

	const workers = 16
	ids := make([]uuid.UUID, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			user, err := svc.Reconcile(context.Background(), "race@example.com", "Racer", "")
			if err != nil {
				t.Errorf("reconcile failed: %v", err)
				return
			}
			ids[i] = user.ID
		}(i)
	}
	wg.Wait()

	for i := 1; i < workers; i++ {
		assert.Equal(t, ids[0], ids[i], "all concurrent reconciliations must resolve to the same user")
	}
	assert.Len(t, repo.users, 1)
}

func TestReconcile_PictureEnrichmentIsOneShot(t *testing.T) {
	svc := NewAuthService(newMockUserRepo())
	ctx := context.Background()

	user, err := svc.Reconcile(ctx, "jane@example.com", "Jane Doe", "")
	require.NoError(t, err)
	assert.Nil(t, user.ProfilePicture)

	// Absent -> set
	user, err = svc.Reconcile(ctx, "jane@example.com", "Jane Doe", "http://pic")
	require.NoError(t, err)
	require.NotNil(t, user.ProfilePicture)
	assert.Equal(t, "http://pic", *user.ProfilePicture)

	// Set -> never overwritten
	user, err = svc.Reconcile(ctx, "jane@example.com", "Jane Doe", "http://other-pic")
	require.NoError(t, err)
	require.NotNil(t, user.ProfilePicture)
	assert.Equal(t, "http://pic", *user.ProfilePicture)

	// Set -> never cleared
	user, err = svc.Reconcile(ctx, "jane@example.com", "Jane Doe", "")
	require.NoError(t, err)
	require.NotNil(t, user.ProfilePicture)
	assert.Equal(t, "http://pic", *user.ProfilePicture)
}

func TestRegister_DuplicateEmailLeavesFirstHashUnchanged(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewAuthService(repo)
	ctx := context.Background()

	first, err := svc.Register(ctx, "jane@example.com", "correct horse", "Jane Doe")
	require.NoError(t, err)
	require.NotNil(t, first.PasswordHash)
	firstHash := *first.PasswordHash

	_, err = svc.Register(ctx, "jane@example.com", "battery staple", "Jane Imposter")
	assert.ErrorIs(t, err, apierrors.ErrDuplicateEmail)

	stored, err := repo.GetByEmail(ctx, "jane@example.com")
	require.NoError(t, err)
	require.NotNil(t, stored)
	require.NotNil(t, stored.PasswordHash)
	assert.Equal(t, firstHash, *stored.PasswordHash)
}

func TestRegister_CreatesLocalUserWithHashedPassword(t *testing.T) {
	svc := NewAuthService(newMockUserRepo())

	user, err := svc.Register(context.Background(), "Jane@Example.com", "correct horse", "Jane Doe")
	require.NoError(t, err)

	assert.Equal(t, "jane@example.com", user.Email)
	assert.Equal(t, models.ProviderLocal, user.Provider)
	require.NotNil(t, user.PasswordHash)
	assert.NotEqual(t, "correct horse", *user.PasswordHash, "password must never be stored in plaintext")
}

func TestLogin(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewAuthService(repo)
	ctx := context.Background()

	_, err := svc.Register(ctx, "jane@example.com", "correct horse", "Jane Doe")
	require.NoError(t, err)
	_, err = svc.Reconcile(ctx, "google-only@example.com", "No Password", "")
	require.NoError(t, err)

	t.Run("correct password", func(t *testing.T) {
		user, err := svc.Login(ctx, "jane@example.com", "correct horse")
		require.NoError(t, err)
		assert.Equal(t, "jane@example.com", user.Email)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, "jane@example.com", "wrong")
		assert.ErrorIs(t, err, apierrors.ErrUnauthorized)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.Login(ctx, "nobody@example.com", "whatever")
		assert.ErrorIs(t, err, apierrors.ErrUnauthorized)
	})

	t.Run("google account has no password path", func(t *testing.T) {
		_, err := svc.Login(ctx, "google-only@example.com", "")
		assert.ErrorIs(t, err, apierrors.ErrUnauthorized)
	})
}
