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

// BudgetHandler handles budget HTTP requests.
type BudgetHandler struct {
	budgetService service.BudgetService
	validate      *validator.Validate
}

// NewBudgetHandler creates a new budget handler.
func NewBudgetHandler(budgetService service.BudgetService) *BudgetHandler {
	return &BudgetHandler{
		budgetService: budgetService,
		validate:      validator.New(),
	}
}

// Routes returns a chi router with budget routes.
func (h *BudgetHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.List)
	r.Post("/", h.Create)
	return r
}

// List handles GET /api/budgets
func (h *BudgetHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Error(w, apierrors.ErrUnauthorized)
		return
	}

	budgets, err := h.budgetService.List(r.Context(), userID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, budgets)
}

// createBudgetRequest is the HTTP request body for creating a budget.
type createBudgetRequest struct {
	Category string  `json:"category" validate:"required"`
	Amount   float64 `json:"amount" validate:"required,gt=0"`
}

// Create handles POST /api/budgets
func (h *BudgetHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Error(w, apierrors.ErrUnauthorized)
		return
	}

	var req createBudgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, apierrors.ErrBadRequest.WithMessage("Invalid request body"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.ValidationError(w, "category", "category and a positive amount are required")
		return
	}

	budget, err := h.budgetService.Create(r.Context(), userID, req.Category, req.Amount)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.Created(w, budget)
}
