package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/chaching/backend/internal/middleware"
	apierrors "github.com/chaching/backend/internal/pkg/errors"
	"github.com/chaching/backend/internal/pkg/response"
	"github.com/chaching/backend/internal/service"
)

// GoalHandler handles savings goal HTTP requests.
type GoalHandler struct {
	goalService service.GoalService
	validate    *validator.Validate
}

// NewGoalHandler creates a new goal handler.
func NewGoalHandler(goalService service.GoalService) *GoalHandler {
	return &GoalHandler{
		goalService: goalService,
		validate:    validator.New(),
	}
}

// Routes returns a chi router with goal routes.
func (h *GoalHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Post("/{id}/contribute", h.Contribute)
	return r
}

// List handles GET /api/goals
func (h *GoalHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Error(w, apierrors.ErrUnauthorized)
		return
	}

	goals, err := h.goalService.List(r.Context(), userID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, goals)
}

// createGoalRequest is the HTTP request body for creating a goal.
type createGoalRequest struct {
	Name         string  `json:"name" validate:"required"`
	TargetAmount float64 `json:"target_amount" validate:"required,gt=0"`
}

// Create handles POST /api/goals
func (h *GoalHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Error(w, apierrors.ErrUnauthorized)
		return
	}

	var req createGoalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, apierrors.ErrBadRequest.WithMessage("Invalid request body"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.ValidationError(w, "name", "name and a positive target_amount are required")
		return
	}

	goal, err := h.goalService.Create(r.Context(), userID, req.Name, req.TargetAmount)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.Created(w, goal)
}

// contributeRequest is the HTTP request body for a goal contribution.
type contributeRequest struct {
	Amount float64 `json:"amount" validate:"required,gt=0"`
}

// Contribute handles POST /api/goals/{id}/contribute
func (h *GoalHandler) Contribute(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Error(w, apierrors.ErrUnauthorized)
		return
	}

	goalID := chi.URLParam(r, "id")

	var req contributeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, apierrors.ErrBadRequest.WithMessage("Invalid request body"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.ValidationError(w, "amount", "a positive amount is required")
		return
	}

	goal, err := h.goalService.Contribute(r.Context(), userID, goalID, req.Amount)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, goal)
}
