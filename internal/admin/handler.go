package admin

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

// Handler serves every descriptor resource under /{resource}.
type Handler struct {
	logger *slog.Logger
	engine *Engine
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, engine *Engine) *Handler {
	return &Handler{logger: logger, engine: engine}
}

// MountRoutes registers the shared routes. The resource slug is a path
// parameter, validated against the descriptor registry on every request.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/{resource}", func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/export", h.Export)
		r.Get("/form-options", h.FormOptions)
		r.Get("/{id}", h.Show)
		r.Post("/", h.Create)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
}

func filterFromQuery(r *http.Request) listing.Filter {
	return listing.Filter{
		Search:   r.URL.Query().Get("search"),
		Status:   r.URL.Query().Get("status"),
		Category: r.URL.Query().Get("category"),
	}
}

// List returns the filtered record collection for the resource.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	salon := tenant.MustFromContext(r.Context())
	resource := chi.URLParam(r, "resource")

	records, err := h.engine.List(r.Context(), salon, resource)
	if err != nil {
		h.logger.Error("list records failed", "resource", resource, "error", err)
		respond(w, err)
		return
	}
	httpx.Data(w, http.StatusOK, listing.NewCollection(records).View(filterFromQuery(r)))
}

// Export streams the filtered view as CSV using the descriptor's columns.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	salon := tenant.MustFromContext(r.Context())
	resource := chi.URLParam(r, "resource")

	d, err := h.engine.Descriptor(resource)
	if err != nil {
		respond(w, err)
		return
	}
	records, err := h.engine.List(r.Context(), salon, resource)
	if err != nil {
		respond(w, err)
		return
	}

	view := listing.NewCollection(records).View(filterFromQuery(r))
	rows := make([]map[string]string, 0, len(view))
	for _, rec := range view {
		row := make(map[string]string, len(d.ExportColumns))
		for _, col := range d.ExportColumns {
			row[col] = rec.attr(col)
		}
		rows = append(rows, row)
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+resource+`.csv"`)
	if err := listing.ExportCSV(w, d.ExportColumns, rows); err != nil {
		h.logger.Error("export records failed", "resource", resource, "error", err)
	}
}

// FormOptions returns the selects the resource form depends on.
func (h *Handler) FormOptions(w http.ResponseWriter, r *http.Request) {
	salon := tenant.MustFromContext(r.Context())
	resource := chi.URLParam(r, "resource")

	opts, err := h.engine.FormOptions(r.Context(), salon, resource)
	if err != nil {
		respond(w, err)
		return
	}
	httpx.Data(w, http.StatusOK, opts)
}

// Show returns one record.
func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	salon := tenant.MustFromContext(r.Context())

	rec, err := h.engine.Get(r.Context(), salon, chi.URLParam(r, "resource"), chi.URLParam(r, "id"))
	if err != nil {
		respond(w, err)
		return
	}
	httpx.Data(w, http.StatusOK, rec)
}

// Create validates the form and persists a new record.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	salon := tenant.MustFromContext(r.Context())
	resource := chi.URLParam(r, "resource")

	d, err := h.engine.Descriptor(resource)
	if err != nil {
		respond(w, err)
		return
	}

	payload, err := h.submit(r, salon, resource, "")
	if err != nil {
		respond(w, err)
		return
	}

	if _, err := h.engine.Create(r.Context(), salon, resource, payload); err != nil {
		h.logger.Error("create record failed", "resource", resource, "error", err)
		respond(w, err)
		return
	}
	httpx.Message(w, http.StatusCreated, d.Title+" added successfully")
}

// Update validates the form and persists changes.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	salon := tenant.MustFromContext(r.Context())
	resource := chi.URLParam(r, "resource")
	id := chi.URLParam(r, "id")

	d, err := h.engine.Descriptor(resource)
	if err != nil {
		respond(w, err)
		return
	}

	payload, err := h.submit(r, salon, resource, id)
	if err != nil {
		respond(w, err)
		return
	}

	if _, err := h.engine.Update(r.Context(), salon, resource, id, payload); err != nil {
		h.logger.Error("update record failed", "resource", resource, "error", err, "id", id)
		respond(w, err)
		return
	}
	httpx.Message(w, http.StatusOK, d.Title+" updated successfully")
}

// Delete removes a record after name confirmation.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	salon := tenant.MustFromContext(r.Context())
	resource := chi.URLParam(r, "resource")
	id := chi.URLParam(r, "id")

	d, err := h.engine.Descriptor(resource)
	if err != nil {
		respond(w, err)
		return
	}

	if err := h.engine.Delete(r.Context(), salon, resource, id, r.URL.Query().Get("confirm")); err != nil {
		respond(w, err)
		return
	}
	httpx.Message(w, http.StatusOK, d.Title+" deleted successfully")
}

func (h *Handler) submit(r *http.Request, salon tenant.ID, resource, id string) (map[string]any, error) {
	editor, err := h.engine.Editor(r.Context(), salon, resource, id)
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
	case errors.Is(err, ErrUnknownKind):
		httpx.Problem(w, http.StatusNotFound, "Unknown Resource", err.Error())
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
