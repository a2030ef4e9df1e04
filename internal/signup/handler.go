package signup

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/salonora/salonora/internal/platform/httpx"
)

// Handler wires the public signup endpoints. They sit outside the tenant
// scope: there is no salon yet.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

// MountRoutes registers signup routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/plans", h.Plans)
	r.Post("/checkout", h.Checkout)
	r.Post("/", h.Complete)
}

// Plans returns the active subscription tiers.
func (h *Handler) Plans(w http.ResponseWriter, r *http.Request) {
	plans, err := h.service.Plans(r.Context())
	if err != nil {
		h.logger.Error("list plans failed", "error", err)
		respond(w, err)
		return
	}
	httpx.Data(w, http.StatusOK, plans)
}

type checkoutRequest struct {
	PlanID string `json:"plan_id" validate:"required"`
	Email  string `json:"email" validate:"required,email"`
}

// Checkout opens a payment order for the chosen plan.
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "plan_id and email are required")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "plan_id and email are required")
		return
	}

	order, err := h.service.Checkout(r.Context(), req.PlanID, req.Email)
	if err != nil {
		h.logger.Error("signup checkout failed", "error", err, "plan", req.PlanID)
		respond(w, err)
		return
	}
	httpx.Data(w, http.StatusCreated, order)
}

// Complete finishes the signup once the gateway confirms payment.
func (h *Handler) Complete(w http.ResponseWriter, r *http.Request) {
	var reg Registration
	if err := httpx.DecodeJSON(r, &reg); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid signup body")
		return
	}

	account, err := h.service.Complete(r.Context(), reg)
	if err != nil {
		h.logger.Error("signup completion failed", "error", err)
		respond(w, err)
		return
	}
	httpx.Data(w, http.StatusCreated, account)
}

func respond(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrPlanNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, ErrEmailTaken):
		httpx.Problem(w, http.StatusConflict, "Duplicate", err.Error())
	case errors.Is(err, ErrPaymentInvalid):
		httpx.Problem(w, http.StatusUnprocessableEntity, "Payment Invalid", err.Error())
	case errors.Is(err, ErrInvalidForm):
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	case errors.Is(err, httpx.ErrGatewayFailed):
		httpx.Problem(w, http.StatusBadGateway, "Gateway Error", err.Error())
	default:
		httpx.RespondError(w, err)
	}
}
