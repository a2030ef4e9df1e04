package categories

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/salonora/salonora/internal/formkit"
	"github.com/salonora/salonora/internal/listing"
	"github.com/salonora/salonora/internal/platform/httpx"
	"github.com/salonora/salonora/internal/tenant"
)

// Handler wires category and subcategory HTTP endpoints.
type Handler struct {
	logger  *slog.Logger
	manager *Manager
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, manager *Manager) *Handler {
	return &Handler{logger: logger, manager: manager}
}

// MountRoutes registers category routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/form-options", h.FormOptions)
	r.Get("/{id}", h.Show)
	r.Post("/", h.Create)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

// MountSubRoutes registers subcategory routes.
func (h *Handler) MountSubRoutes(r chi.Router) {
	r.Get("/", h.ListSub)
	r.Get("/form-options", h.SubFormOptions)
	r.Get("/{id}", h.ShowSub)
	r.Post("/", h.CreateSub)
	r.Put("/{id}", h.UpdateSub)
	r.Delete("/{id}", h.DeleteSub)
}

func filterFromQuery(r *http.Request) listing.Filter {
	return listing.Filter{
		Search:   r.URL.Query().Get("search"),
		Status:   r.URL.Query().Get("status"),
		Category: r.URL.Query().Get("category"),
	}
}

// List returns the filtered category collection.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	salon := tenant.MustFromContext(r.Context())

	items, err := h.manager.List(r.Context(), salon)
	if err != nil {
		h.logger.Error("list categories failed", "error", err)
		respond(w, err)
		return
	}
	httpx.Data(w, http.StatusOK, listing.NewCollection(items).View(filterFromQuery(r)))
}

// FormOptions returns the branch select for the category form.
func (h *Handler) FormOptions(w http.ResponseWriter, r *http.Request) {
	salon := tenant.MustFromContext(r.Context())

	opts, err := h.manager.FormOptions(r.Context(), salon)
	if err != nil {
		respond(w, err)
		return
	}
	httpx.Data(w, http.StatusOK, opts)
}

// Show returns one category.
func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	salon := tenant.MustFromContext(r.Context())

	cat, err := h.manager.Get(r.Context(), salon, chi.URLParam(r, "id"))
	if err != nil {
		respond(w, err)
		return
	}
	httpx.Data(w, http.StatusOK, cat)
}

// Create validates the form and persists a new category.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	salon := tenant.MustFromContext(r.Context())

	payload, err := h.submit(r, salon, "", h.manager.Editor)
	if err != nil {
		respond(w, err)
		return
	}

	if _, err := h.manager.Create(r.Context(), salon, payload); err != nil {
		h.logger.Error("create category failed", "error", err)
		respond(w, err)
		return
	}
	httpx.Message(w, http.StatusCreated, "Category added successfully")
}

// Update validates the form and persists changes.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	salon := tenant.MustFromContext(r.Context())
	id := chi.URLParam(r, "id")

	payload, err := h.submit(r, salon, id, h.manager.Editor)
	if err != nil {
		respond(w, err)
		return
	}

	if _, err := h.manager.Update(r.Context(), salon, id, payload); err != nil {
		h.logger.Error("update category failed", "error", err, "id", id)
		respond(w, err)
		return
	}
	httpx.Message(w, http.StatusOK, "Category updated successfully")
}

// Delete removes a category after name confirmation.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	salon := tenant.MustFromContext(r.Context())
	id := chi.URLParam(r, "id")

	if err := h.manager.Delete(r.Context(), salon, id, r.URL.Query().Get("confirm")); err != nil {
		respond(w, err)
		return
	}
	httpx.Message(w, http.StatusOK, "Category deleted successfully")
}

// ListSub returns the filtered subcategory collection.
func (h *Handler) ListSub(w http.ResponseWriter, r *http.Request) {
	salon := tenant.MustFromContext(r.Context())

	items, err := h.manager.ListSub(r.Context(), salon)
	if err != nil {
		h.logger.Error("list subcategories failed", "error", err)
		respond(w, err)
		return
	}
	httpx.Data(w, http.StatusOK, listing.NewCollection(items).View(filterFromQuery(r)))
}

// SubFormOptions returns the parent-category select for the subcategory form.
func (h *Handler) SubFormOptions(w http.ResponseWriter, r *http.Request) {
	salon := tenant.MustFromContext(r.Context())

	opts, err := h.manager.SubFormOptions(r.Context(), salon)
	if err != nil {
		respond(w, err)
		return
	}
	httpx.Data(w, http.StatusOK, opts)
}

// ShowSub returns one subcategory.
func (h *Handler) ShowSub(w http.ResponseWriter, r *http.Request) {
	salon := tenant.MustFromContext(r.Context())

	sub, err := h.manager.GetSub(r.Context(), salon, chi.URLParam(r, "id"))
	if err != nil {
		respond(w, err)
		return
	}
	httpx.Data(w, http.StatusOK, sub)
}

// CreateSub validates the form and persists a new subcategory.
func (h *Handler) CreateSub(w http.ResponseWriter, r *http.Request) {
	salon := tenant.MustFromContext(r.Context())

	payload, err := h.submit(r, salon, "", h.manager.SubEditor)
	if err != nil {
		respond(w, err)
		return
	}

	if _, err := h.manager.CreateSub(r.Context(), salon, payload); err != nil {
		h.logger.Error("create subcategory failed", "error", err)
		respond(w, err)
		return
	}
	httpx.Message(w, http.StatusCreated, "Subcategory added successfully")
}

// UpdateSub validates the form and persists changes.
func (h *Handler) UpdateSub(w http.ResponseWriter, r *http.Request) {
	salon := tenant.MustFromContext(r.Context())
	id := chi.URLParam(r, "id")

	payload, err := h.submit(r, salon, id, h.manager.SubEditor)
	if err != nil {
		respond(w, err)
		return
	}

	if _, err := h.manager.UpdateSub(r.Context(), salon, id, payload); err != nil {
		h.logger.Error("update subcategory failed", "error", err, "id", id)
		respond(w, err)
		return
	}
	httpx.Message(w, http.StatusOK, "Subcategory updated successfully")
}

// DeleteSub removes a subcategory after name confirmation.
func (h *Handler) DeleteSub(w http.ResponseWriter, r *http.Request) {
	salon := tenant.MustFromContext(r.Context())
	id := chi.URLParam(r, "id")

	if err := h.manager.DeleteSub(r.Context(), salon, id, r.URL.Query().Get("confirm")); err != nil {
		respond(w, err)
		return
	}
	httpx.Message(w, http.StatusOK, "Subcategory deleted successfully")
}

type editorFunc func(ctx context.Context, salon tenant.ID, id string) (*formkit.Editor, error)

func (h *Handler) submit(r *http.Request, salon tenant.ID, id string, open editorFunc) (map[string]any, error) {
	editor, err := open(r.Context(), salon, id)
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
	case errors.Is(err, ErrNotConfirmed), errors.Is(err, ErrHasChildren):
		httpx.Problem(w, http.StatusConflict, "Delete Refused", err.Error())
	case errors.Is(err, formkit.ErrBlocked):
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	default:
		httpx.RespondError(w, err)
	}
}
