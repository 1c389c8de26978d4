package handler

import (
	"net/http"

	"github.com/chaching/backend/internal/middleware"
	apierrors "github.com/chaching/backend/internal/pkg/errors"
	"github.com/chaching/backend/internal/pkg/response"
)

// UserHandler serves the resolved identity of the caller.
type UserHandler struct{}

// NewUserHandler creates a new user handler.
func NewUserHandler() *UserHandler {
	return &UserHandler{}
}

// Me handles GET /api/user: returns the identity attributes the gate
// resolved for this request.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())
	if user == nil {
		response.Error(w, apierrors.ErrUnauthorized)
		return
	}
	response.OK(w, user)
}
