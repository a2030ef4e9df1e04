package orders

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/salonora/salonora/internal/listing"
	"github.com/salonora/salonora/internal/platform/httpx"
	"github.com/salonora/salonora/internal/tenant"
)

// Handler wires order HTTP endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers order routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/export", h.Export)
	r.Get("/{id}", h.Show)
	r.Post("/{id}/status", h.Transition)
}

func filterFromQuery(r *http.Request) listing.Filter {
	return listing.Filter{
		Search:   r.URL.Query().Get("search"),
		Status:   r.URL.Query().Get("status"),
		Category: r.URL.Query().Get("category"),
	}
}

// List returns the filtered order collection.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	salon := tenant.MustFromContext(r.Context())

	orders, err := h.service.List(r.Context(), salon)
	if err != nil {
		h.logger.Error("list orders failed", "error", err)
		respond(w, err)
		return
	}
	httpx.Data(w, http.StatusOK, listing.NewCollection(orders).View(filterFromQuery(r)))
}

// Export streams the filtered view as CSV.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	salon := tenant.MustFromContext(r.Context())

	orders, err := h.service.List(r.Context(), salon)
	if err != nil {
		respond(w, err)
		return
	}

	view := listing.NewCollection(orders).View(filterFromQuery(r))
	rows := make([]map[string]string, 0, len(view))
	for _, o := range view {
		rows = append(rows, map[string]string{
			"Customer": o.CustomerName,
			"Phone":    o.CustomerPhone,
			"Total":    o.Total.String(),
			"Status":   o.Status,
			"Placed":   o.CreatedAt.Format("2006-01-02 15:04"),
		})
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="orders.csv"`)
	if err := listing.ExportCSV(w, []string{"Customer", "Phone", "Total", "Status", "Placed"}, rows); err != nil {
		h.logger.Error("export orders failed", "error", err)
	}
}

// Show returns one order with its lines.
func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	salon := tenant.MustFromContext(r.Context())

	o, err := h.service.Get(r.Context(), salon, chi.URLParam(r, "id"))
	if err != nil {
		respond(w, err)
		return
	}
	httpx.Data(w, http.StatusOK, o)
}

// Transition moves an order to the requested status.
func (h *Handler) Transition(w http.ResponseWriter, r *http.Request) {
	salon := tenant.MustFromContext(r.Context())
	id := chi.URLParam(r, "id")

	var body struct {
		Status string `json:"status"`
	}
	if err := httpx.DecodeJSON(r, &body); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "status is required")
		return
	}

	o, err := h.service.Transition(r.Context(), salon, id, body.Status)
	if err != nil {
		h.logger.Error("order transition failed", "error", err, "id", id, "target", body.Status)
		respond(w, err)
		return
	}
	httpx.Data(w, http.StatusOK, o)
}

func respond(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, ErrInvalidTransition):
		httpx.Problem(w, http.StatusConflict, "Invalid Transition", err.Error())
	default:
		httpx.RespondError(w, err)
	}
}
