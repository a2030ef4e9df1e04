package payouts

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/salonora/salonora/internal/listing"
	"github.com/salonora/salonora/internal/platform/httpx"
	"github.com/salonora/salonora/internal/tenant"
)

// StatementQueuer hands statement generation to the background queue.
type StatementQueuer interface {
	QueueStatement(ctx context.Context, salonID string) error
}

// Handler wires payout HTTP endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
	queue   StatementQueuer
}

// NewHandler constructs a Handler. A nil queue disables background
// statement export; the synchronous CSV download keeps working.
func NewHandler(logger *slog.Logger, service *Service, queue StatementQueuer) *Handler {
	return &Handler{logger: logger, service: service, queue: queue}
}

// MountRoutes registers payout routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/statement", h.Statement)
	r.Post("/statement/queue", h.QueueStatement)
	r.Get("/{id}", h.Show)
	r.Post("/compute", h.Compute)
	r.Post("/{id}/pay", h.Pay)
}

// List returns the filtered payout collection.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	salon := tenant.MustFromContext(r.Context())

	payouts, err := h.service.List(r.Context(), salon)
	if err != nil {
		h.logger.Error("list payouts failed", "error", err)
		respond(w, err)
		return
	}
	filter := listing.Filter{
		Search:   r.URL.Query().Get("search"),
		Status:   r.URL.Query().Get("status"),
		Category: r.URL.Query().Get("category"),
	}
	httpx.Data(w, http.StatusOK, listing.NewCollection(payouts).View(filter))
}

// Show returns one payout.
func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	salon := tenant.MustFromContext(r.Context())

	p, err := h.service.Get(r.Context(), salon, chi.URLParam(r, "id"))
	if err != nil {
		respond(w, err)
		return
	}
	httpx.Data(w, http.StatusOK, p)
}

// Compute records pending payouts for the requested period.
func (h *Handler) Compute(w http.ResponseWriter, r *http.Request) {
	salon := tenant.MustFromContext(r.Context())

	var body struct {
		PeriodStart string `json:"period_start"`
		PeriodEnd   string `json:"period_end"`
	}
	if err := httpx.DecodeJSON(r, &body); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "period_start and period_end are required")
		return
	}
	start, err := time.Parse("2006-01-02", body.PeriodStart)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "period_start must be YYYY-MM-DD")
		return
	}
	end, err := time.Parse("2006-01-02", body.PeriodEnd)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "period_end must be YYYY-MM-DD")
		return
	}

	payouts, err := h.service.ComputePeriod(r.Context(), salon, start, end)
	if err != nil {
		h.logger.Error("compute payouts failed", "error", err)
		respond(w, err)
		return
	}
	httpx.Data(w, http.StatusCreated, payouts)
}

// Pay settles one pending payout.
func (h *Handler) Pay(w http.ResponseWriter, r *http.Request) {
	salon := tenant.MustFromContext(r.Context())
	id := chi.URLParam(r, "id")

	p, err := h.service.MarkPaid(r.Context(), salon, id)
	if err != nil {
		respond(w, err)
		return
	}
	httpx.Data(w, http.StatusOK, p)
}

// QueueStatement asks the worker to write the statement to disk instead of
// streaming it.
func (h *Handler) QueueStatement(w http.ResponseWriter, r *http.Request) {
	salon := tenant.MustFromContext(r.Context())

	if h.queue == nil {
		httpx.Problem(w, http.StatusServiceUnavailable, "Unavailable", "background export is not configured")
		return
	}
	if err := h.queue.QueueStatement(r.Context(), salon.String()); err != nil {
		h.logger.Error("queue payout statement failed", "error", err)
		httpx.RespondError(w, err)
		return
	}
	httpx.Message(w, http.StatusAccepted, "Statement export queued")
}

// Statement streams the payout statement as CSV.
func (h *Handler) Statement(w http.ResponseWriter, r *http.Request) {
	salon := tenant.MustFromContext(r.Context())

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="payouts.csv"`)
	if err := h.service.WriteStatement(r.Context(), salon, w); err != nil {
		h.logger.Error("payout statement failed", "error", err)
	}
}

func respond(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, ErrAlreadyPaid):
		httpx.Problem(w, http.StatusConflict, "Already Paid", err.Error())
	case errors.Is(err, ErrEmptyPeriod):
		httpx.Problem(w, http.StatusUnprocessableEntity, "Empty Period", err.Error())
	default:
		httpx.RespondError(w, err)
	}
}
