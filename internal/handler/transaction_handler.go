package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/chaching/backend/internal/middleware"
	apierrors "github.com/chaching/backend/internal/pkg/errors"
	"github.com/chaching/backend/internal/pkg/response"
	"github.com/chaching/backend/internal/service"
)

// TransactionHandler handles transaction HTTP requests.
type TransactionHandler struct {
	txService service.TransactionService
	validate  *validator.Validate
}

// NewTransactionHandler creates a new transaction handler.
func NewTransactionHandler(txService service.TransactionService) *TransactionHandler {
	return &TransactionHandler{
		txService: txService,
		validate:  validator.New(),
	}
}

// Routes returns a chi router with transaction routes.
func (h *TransactionHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.List)
	r.Post("/", h.Create)
	return r
}

// List handles GET /api/transactions
func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Error(w, apierrors.ErrUnauthorized)
		return
	}

	txs, err := h.txService.List(r.Context(), userID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, txs)
}

// createTransactionRequest is the HTTP request body for creating a transaction.
type createTransactionRequest struct {
	Amount      float64    `json:"amount" validate:"required"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	OccurredAt  *time.Time `json:"occurred_at,omitempty"`
}

// Create handles POST /api/transactions
func (h *TransactionHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Error(w, apierrors.ErrUnauthorized)
		return
	}

	var req createTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, apierrors.ErrBadRequest.WithMessage("Invalid request body"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.ValidationError(w, "amount", "a non-zero amount is required")
		return
	}

	createReq := service.CreateTransactionRequest{
		Amount:      req.Amount,
		Description: req.Description,
		Category:    req.Category,
	}
	if req.OccurredAt != nil {
		createReq.OccurredAt = *req.OccurredAt
	}

	tx, err := h.txService.Create(r.Context(), userID, createReq)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.Created(w, tx)
}
