package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chaching/backend/internal/models"
	apierrors "github.com/chaching/backend/internal/pkg/errors"
	"github.com/chaching/backend/internal/service"
)

// fakeProvider substitutes the Google handshake so flows are testable
// without network access.
type fakeProvider struct {
	info *service.GoogleUserInfo
	err  error
}

func (f *fakeProvider) AuthURL(state string) string {
	return "https://accounts.example.com/consent?state=" + state
}

func (f *fakeProvider) Exchange(ctx context.Context, code string) (*service.GoogleUserInfo, error) {
	return f.info, f.err
}

var _ service.Provider = (*fakeProvider)(nil)

// mockAuthService is a mock implementation of AuthService for testing.
type mockAuthService struct {
	reconcileFunc func(ctx context.Context, email, fullName, profilePicture string) (*models.User, error)
	registerFunc  func(ctx context.Context, email, password, fullName string) (*models.User, error)
	loginFunc     func(ctx context.Context, email, password string) (*models.User, error)
}

func (m *mockAuthService) Reconcile(ctx context.Context, email, fullName, profilePicture string) (*models.User, error) {
	if m.reconcileFunc != nil {
		return m.reconcileFunc(ctx, email, fullName, profilePicture)
	}
	return nil, nil
}

func (m *mockAuthService) Register(ctx context.Context, email, password, fullName string) (*models.User, error) {
	if m.registerFunc != nil {
		return m.registerFunc(ctx, email, password, fullName)
	}
	return nil, nil
}

func (m *mockAuthService) Login(ctx context.Context, email, password string) (*models.User, error) {
	if m.loginFunc != nil {
		return m.loginFunc(ctx, email, password)
	}
	return nil, nil
}

var _ service.AuthService = (*mockAuthService)(nil)

func newTestAuthHandler(auth service.AuthService, provider service.Provider) (*AuthHandler, service.TokenService) {
	tokens := service.NewTokenService([]byte("test-secret"), time.Hour)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewAuthHandler(auth, tokens, provider, "http://localhost:8080", logger), tokens
}

func TestGoogleCallback_RedirectsWithToken(t *testing.T) {
	user := &models.User{ID: uuid.New(), Email: "jane@example.com", Provider: models.ProviderGoogle}
	auth := &mockAuthService{
		reconcileFunc: func(ctx context.Context, email, fullName, profilePicture string) (*models.User, error) {
			assert.Equal(t, "jane@example.com", email)
			return user, nil
		},
	}
	provider := &fakeProvider{info: &service.GoogleUserInfo{Email: "jane@example.com", Name: "Jane", Picture: "http://pic"}}
	h, tokens := newTestAuthHandler(auth, provider)

	req := httptest.NewRequest(http.MethodGet, "/auth/google/callback?code=abc&state=xyz", nil)
	req.AddCookie(&http.Cookie{Name: oauthStateCookie, Value: "xyz"})
	rec := httptest.NewRecorder()
	h.GoogleCallback(rec, req)

	require.Equal(t, http.StatusFound, rec.Code)

	loc, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "/auth-callback", loc.Path)

	token := loc.Query().Get("token")
	require.NotEmpty(t, token)

	gotID, err := tokens.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, gotID)
}

func TestGoogleCallback_ReconcileFailureRedirectsWithOpaqueError(t *testing.T) {
	auth := &mockAuthService{
		reconcileFunc: func(ctx context.Context, email, fullName, profilePicture string) (*models.User, error) {
			return nil, apierrors.ErrInvalidIdentity
		},
	}
	provider := &fakeProvider{info: &service.GoogleUserInfo{Name: "No Email"}}
	h, _ := newTestAuthHandler(auth, provider)

	req := httptest.NewRequest(http.MethodGet, "/auth/google/callback?code=abc&state=xyz", nil)
	req.AddCookie(&http.Cookie{Name: oauthStateCookie, Value: "xyz"})
	rec := httptest.NewRecorder()
	h.GoogleCallback(rec, req)

	require.Equal(t, http.StatusFound, rec.Code)

	loc, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "login_failed", loc.Query().Get("error"))
	assert.Empty(t, loc.Query().Get("token"), "no credential may be issued for a failed reconciliation")
}

func TestGoogleCallback_StateMismatch(t *testing.T) {
	h, _ := newTestAuthHandler(&mockAuthService{}, &fakeProvider{})

	req := httptest.NewRequest(http.MethodGet, "/auth/google/callback?code=abc&state=evil", nil)
	req.AddCookie(&http.Cookie{Name: oauthStateCookie, Value: "xyz"})
	rec := httptest.NewRecorder()
	h.GoogleCallback(rec, req)

	require.Equal(t, http.StatusFound, rec.Code)

	loc, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "invalid_state", loc.Query().Get("error"))
}

func TestGoogleCodeExchange_ReturnsTokenJSON(t *testing.T) {
	user := &models.User{ID: uuid.New(), Email: "jane@example.com", Provider: models.ProviderGoogle}
	auth := &mockAuthService{
		reconcileFunc: func(ctx context.Context, email, fullName, profilePicture string) (*models.User, error) {
			return user, nil
		},
	}
	provider := &fakeProvider{info: &service.GoogleUserInfo{Email: "jane@example.com"}}
	h, tokens := newTestAuthHandler(auth, provider)

	body, _ := json.Marshal(map[string]string{"code": "abc"})
	req := httptest.NewRequest(http.MethodPost, "/api/auth/google/callback", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	h.GoogleCodeExchange(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Data map[string]string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))

	gotID, err := tokens.Verify(envelope.Data["token"])
	require.NoError(t, err)
	assert.Equal(t, user.ID, gotID)
}

func TestGoogleCodeExchange_MissingCode(t *testing.T) {
	h, _ := newTestAuthHandler(&mockAuthService{}, &fakeProvider{})

	req := httptest.NewRequest(http.MethodPost, "/api/auth/google/callback", bytes.NewReader([]byte(`{}`)))
	rec := httptest.NewRecorder()
	h.GoogleCodeExchange(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	auth := &mockAuthService{
		registerFunc: func(ctx context.Context, email, password, fullName string) (*models.User, error) {
			return nil, apierrors.ErrDuplicateEmail
		},
	}
	h, _ := newTestAuthHandler(auth, &fakeProvider{})

	body, _ := json.Marshal(map[string]string{"email": "jane@example.com", "password": "correct horse"})
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	h.Register(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)

	var envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "duplicate_email", envelope.Error.Code)
}

func TestLogin_ReturnsToken(t *testing.T) {
	user := &models.User{ID: uuid.New(), Email: "jane@example.com", Provider: models.ProviderLocal}
	auth := &mockAuthService{
		loginFunc: func(ctx context.Context, email, password string) (*models.User, error) {
			return user, nil
		},
	}
	h, tokens := newTestAuthHandler(auth, &fakeProvider{})

	body, _ := json.Marshal(map[string]string{"email": "jane@example.com", "password": "correct horse"})
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	h.Login(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Data map[string]string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))

	gotID, err := tokens.Verify(envelope.Data["token"])
	require.NoError(t, err)
	assert.Equal(t, user.ID, gotID)
}
