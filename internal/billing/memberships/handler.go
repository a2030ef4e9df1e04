package memberships

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

// Handler wires membership HTTP endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers membership routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/export", h.Export)
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

// List returns the filtered membership collection.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	salon := tenant.MustFromContext(r.Context())

	items, err := h.service.List(r.Context(), salon)
	if err != nil {
		h.logger.Error("list memberships failed", "error", err)
		respond(w, err)
		return
	}
	httpx.Data(w, http.StatusOK, listing.NewCollection(items).View(filterFromQuery(r)))
}

// Export streams the filtered view as CSV.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	salon := tenant.MustFromContext(r.Context())

	items, err := h.service.List(r.Context(), salon)
	if err != nil {
		respond(w, err)
		return
	}

	view := listing.NewCollection(items).View(filterFromQuery(r))
	rows := make([]map[string]string, 0, len(view))
	for _, m := range view {
		status := "Inactive"
		if m.ItemActive() {
			status = "Active"
		}
		rows = append(rows, map[string]string{
			"Name":     m.Name,
			"Discount": m.Discount.String(),
			"Type":     m.DiscountType,
			"Months":   formatInt(m.DurationMonths),
			"Status":   status,
		})
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="memberships.csv"`)
	if err := listing.ExportCSV(w, []string{"Name", "Discount", "Type", "Months", "Status"}, rows); err != nil {
		h.logger.Error("export memberships failed", "error", err)
	}
}

// Show returns one membership.
func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	salon := tenant.MustFromContext(r.Context())

	m, err := h.service.Get(r.Context(), salon, chi.URLParam(r, "id"))
	if err != nil {
		respond(w, err)
		return
	}
	httpx.Data(w, http.StatusOK, m)
}

// Create validates the form and persists a new membership.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	salon := tenant.MustFromContext(r.Context())

	payload, err := h.submit(r, salon, "")
	if err != nil {
		respond(w, err)
		return
	}

	if _, err := h.service.Create(r.Context(), salon, payload); err != nil {
		h.logger.Error("create membership failed", "error", err)
		respond(w, err)
		return
	}
	httpx.Message(w, http.StatusCreated, "Membership added successfully")
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

	if _, err := h.service.Update(r.Context(), salon, id, payload); err != nil {
		h.logger.Error("update membership failed", "error", err, "id", id)
		respond(w, err)
		return
	}
	httpx.Message(w, http.StatusOK, "Membership updated successfully")
}

// Delete removes a membership after name confirmation.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	salon := tenant.MustFromContext(r.Context())
	id := chi.URLParam(r, "id")

	if err := h.service.Delete(r.Context(), salon, id, r.URL.Query().Get("confirm")); err != nil {
		respond(w, err)
		return
	}
	httpx.Message(w, http.StatusOK, "Membership deleted successfully")
}

func (h *Handler) submit(r *http.Request, salon tenant.ID, id string) (map[string]any, error) {
	editor, err := h.service.Editor(r.Context(), salon, id)
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
