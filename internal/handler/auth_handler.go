// Package handler provides HTTP handlers for the cha-ching API.
package handler

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	apierrors "github.com/chaching/backend/internal/pkg/errors"
	"github.com/chaching/backend/internal/pkg/response"
	"github.com/chaching/backend/internal/service"
)

const oauthStateCookie = "chaching_oauth_state"

// AuthHandler handles login, registration, and the OAuth handshake.
type AuthHandler struct {
	authService service.AuthService
	tokens      service.TokenService
	provider    service.Provider
	frontendURL string
	logger      *slog.Logger
	validate    *validator.Validate
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(
	authService service.AuthService,
	tokens service.TokenService,
	provider service.Provider,
	frontendURL string,
	logger *slog.Logger,
) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		tokens:      tokens,
		provider:    provider,
		frontendURL: frontendURL,
		logger:      logger,
		validate:    validator.New(),
	}
}

// APIRoutes returns the /api/auth routes.
func (h *AuthHandler) APIRoutes() chi.Router {
	r := chi.NewRouter()
	r.Post("/google/callback", h.GoogleCodeExchange)
	r.Post("/register", h.Register)
	r.Post("/login", h.Login)
	return r
}

// GoogleLogin handles GET /auth/google: redirects the browser to the
// Google consent page with a random state bound to a cookie.
func (h *AuthHandler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	state, err := randomState()
	if err != nil {
		response.InternalError(w)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     "/",
		MaxAge:   300,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, h.provider.AuthURL(state), http.StatusTemporaryRedirect)
}

// GoogleCallback handles GET /auth/google/callback: completes the provider
// handshake, reconciles the identity, and redirects the user agent back to
// the front end with the token as a query parameter. Failures redirect with
// an opaque error indicator; internals are only logged.
func (h *AuthHandler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		h.redirectWithError(w, r, "missing_code")
		return
	}

	if cookie, err := r.Cookie(oauthStateCookie); err != nil || cookie.Value == "" || cookie.Value != r.URL.Query().Get("state") {
		h.redirectWithError(w, r, "invalid_state")
		return
	}

	info, err := h.provider.Exchange(r.Context(), code)
	if err != nil {
		h.logger.Error("oauth exchange failed", slog.String("error", err.Error()))
		h.redirectWithError(w, r, "login_failed")
		return
	}

	user, err := h.authService.Reconcile(r.Context(), info.Email, info.Name, info.Picture)
	if err != nil {
		h.logger.Error("identity reconciliation failed", slog.String("error", err.Error()))
		h.redirectWithError(w, r, "login_failed")
		return
	}

	token, err := h.tokens.Issue(user)
	if err != nil {
		h.logger.Error("token issuance failed", slog.String("error", err.Error()))
		h.redirectWithError(w, r, "login_failed")
		return
	}

	http.Redirect(w, r, h.frontendURL+"/auth-callback?token="+url.QueryEscape(token), http.StatusFound)
}

// googleCodeRequest is the HTTP request body for the SPA-driven exchange.
type googleCodeRequest struct {
	Code string `json:"code" validate:"required"`
}

// GoogleCodeExchange handles POST /api/auth/google/callback: the SPA sends
// the authorization code and receives the session token as JSON.
func (h *AuthHandler) GoogleCodeExchange(w http.ResponseWriter, r *http.Request) {
	var req googleCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, apierrors.ErrBadRequest.WithMessage("Invalid request body"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.ValidationError(w, "code", "code is required")
		return
	}

	info, err := h.provider.Exchange(r.Context(), req.Code)
	if err != nil {
		h.logger.Error("oauth exchange failed", slog.String("error", err.Error()))
		response.Error(w, apierrors.ErrUnauthorized)
		return
	}

	user, err := h.authService.Reconcile(r.Context(), info.Email, info.Name, info.Picture)
	if err != nil {
		h.logger.Error("identity reconciliation failed", slog.String("error", err.Error()))
		response.Error(w, err)
		return
	}

	token, err := h.tokens.Issue(user)
	if err != nil {
		h.logger.Error("token issuance failed", slog.String("error", err.Error()))
		response.InternalError(w)
		return
	}

	response.OK(w, map[string]string{"token": token})
}

// registerRequest is the HTTP request body for local registration.
type registerRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	FullName string `json:"full_name"`
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, apierrors.ErrBadRequest.WithMessage("Invalid request body"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.ValidationError(w, "email", "a valid email and a password of at least 8 characters are required")
		return
	}

	user, err := h.authService.Register(r.Context(), req.Email, req.Password, req.FullName)
	if err != nil {
		response.Error(w, err)
		return
	}

	token, err := h.tokens.Issue(user)
	if err != nil {
		h.logger.Error("token issuance failed", slog.String("error", err.Error()))
		response.InternalError(w)
		return
	}

	response.Created(w, map[string]string{"token": token})
}

// loginRequest is the HTTP request body for local login.
type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, apierrors.ErrBadRequest.WithMessage("Invalid request body"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.ValidationError(w, "email", "email and password are required")
		return
	}

	user, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		response.Error(w, err)
		return
	}

	token, err := h.tokens.Issue(user)
	if err != nil {
		h.logger.Error("token issuance failed", slog.String("error", err.Error()))
		response.InternalError(w)
		return
	}

	response.OK(w, map[string]string{"token": token})
}

func (h *AuthHandler) redirectWithError(w http.ResponseWriter, r *http.Request, code string) {
	http.Redirect(w, r, h.frontendURL+"/auth-callback?error="+url.QueryEscape(code), http.StatusFound)
}

func randomState() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
