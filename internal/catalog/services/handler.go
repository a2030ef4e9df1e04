package services

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/salonora/salonora/internal/formkit"
	"github.com/salonora/salonora/internal/listing"
	"github.com/salonora/salonora/internal/platform/httpx"
	"github.com/salonora/salonora/internal/tenant"
)

// Handler wires service-catalog HTTP endpoints.
type Handler struct {
	logger  *slog.Logger
	manager *Manager
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, manager *Manager) *Handler {
	return &Handler{logger: logger, manager: manager}
}

// MountRoutes registers service routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/export", h.Export)
	r.Get("/form-options", h.FormOptions)
	r.Get("/{id}", h.Show)
	r.Post("/", h.Create)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

func filterFromQuery(r *http.Request) listing.Filter {
	return listing.Filter{
		Search:   r.URL.Query().Get("search"),
		Status:   r.URL.Query().Get("status"),
		Category: r.URL.Query().Get("category"),
	}
}

// List returns the filtered service collection.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	salon := tenant.MustFromContext(r.Context())

	items, err := h.manager.List(r.Context(), salon)
	if err != nil {
		h.logger.Error("list services failed", "error", err)
		respond(w, err)
		return
	}
	httpx.Data(w, http.StatusOK, listing.NewCollection(items).View(filterFromQuery(r)))
}

// Export streams the filtered view as CSV.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	salon := tenant.MustFromContext(r.Context())

	items, err := h.manager.List(r.Context(), salon)
	if err != nil {
		respond(w, err)
		return
	}

	view := listing.NewCollection(items).View(filterFromQuery(r))
	rows := make([]map[string]string, 0, len(view))
	for _, s := range view {
		status := "Inactive"
		if s.ItemActive() {
			status = "Active"
		}
		rows = append(rows, map[string]string{
			"Name":   s.Name,
			"Price":  s.Price.String(),
			"Status": status,
		})
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="services.csv"`)
	if err := listing.ExportCSV(w, []string{"Name", "Price", "Status"}, rows); err != nil {
		h.logger.Error("export services failed", "error", err)
	}
}

// FormOptions returns the dependent selects (branches, categories) for the
// sidebar. Fetched when the sidebar becomes visible, not per keystroke.
func (h *Handler) FormOptions(w http.ResponseWriter, r *http.Request) {
	salon := tenant.MustFromContext(r.Context())

	opts, err := h.manager.FormOptions(r.Context(), salon)
	if err != nil {
		h.logger.Error("load service form options failed", "error", err)
		respond(w, err)
		return
	}
	httpx.Data(w, http.StatusOK, opts)
}

// Show returns one service.
func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	salon := tenant.MustFromContext(r.Context())

	svc, err := h.manager.Get(r.Context(), salon, chi.URLParam(r, "id"))
	if err != nil {
		respond(w, err)
		return
	}
	httpx.Data(w, http.StatusOK, svc)
}

// Create validates the form and persists a new service.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	salon := tenant.MustFromContext(r.Context())

	payload, err := h.submit(r, salon, "")
	if err != nil {
		respond(w, err)
		return
	}

	if _, err := h.manager.Create(r.Context(), salon, payload); err != nil {
		h.logger.Error("create service failed", "error", err)
		respond(w, err)
		return
	}
	httpx.Message(w, http.StatusCreated, "Service added successfully")
}

// Update validates the form and persists changes.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	salon := tenant.MustFromContext(r.Context())
	id := chi.URLParam(r, "id")

	payload, err := h.submit(r, salon, id)
	if err != nil {
		respond(w, err)
		return
	}

	if _, err := h.manager.Update(r.Context(), salon, id, payload); err != nil {
		h.logger.Error("update service failed", "error", err, "id", id)
		respond(w, err)
		return
	}
	httpx.Message(w, http.StatusOK, "Service updated successfully")
}

// Delete removes a service after name confirmation.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	salon := tenant.MustFromContext(r.Context())
	id := chi.URLParam(r, "id")

	if err := h.manager.Delete(r.Context(), salon, id, r.URL.Query().Get("confirm")); err != nil {
		respond(w, err)
		return
	}
	httpx.Message(w, http.StatusOK, "Service deleted successfully")
}

func (h *Handler) submit(r *http.Request, salon tenant.ID, id string) (map[string]any, error) {
	editor, err := h.manager.Editor(r.Context(), salon, id)
	if err != nil {
		return nil, err
	}

	var body map[string]any
	if err := httpx.DecodeJSON(r, &body); err != nil {
		return nil, formkit.ErrBlocked
	}
	for field, value := range body {
		editor.Set(field, value)
	}
	return editor.Payload(salon)
}

func respond(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, ErrAlreadyExists):
		httpx.Problem(w, http.StatusConflict, "Duplicate", err.Error())
	case errors.Is(err, ErrNotConfirmed):
		httpx.Problem(w, http.StatusConflict, "Confirmation Required", err.Error())
	case errors.Is(err, formkit.ErrBlocked):
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	default:
		httpx.RespondError(w, err)
	}
}
