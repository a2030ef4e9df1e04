package app

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/salonora/salonora/internal/admin"
	"github.com/salonora/salonora/internal/auth"
	"github.com/salonora/salonora/internal/billing/coupons"
	"github.com/salonora/salonora/internal/billing/memberships"
	"github.com/salonora/salonora/internal/billing/payouts"
	"github.com/salonora/salonora/internal/catalog/branches"
	"github.com/salonora/salonora/internal/catalog/categories"
	"github.com/salonora/salonora/internal/catalog/services"
	"github.com/salonora/salonora/internal/media"
	"github.com/salonora/salonora/internal/orders"
	"github.com/salonora/salonora/internal/shared"
	"github.com/salonora/salonora/internal/signup"
	"github.com/salonora/salonora/internal/staff/managers"
	"github.com/salonora/salonora/internal/tenant"
	"github.com/salonora/salonora/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	SessionManager *shared.SessionManager
	CSRFManager    *shared.CSRFManager
	AuditLogger    *shared.AuditLogger

	AuthHandler       *auth.Handler
	SignupHandler     *signup.Handler
	BranchHandler     *branches.Handler
	ServiceHandler    *services.Handler
	CategoryHandler   *categories.Handler
	AdminHandler      *admin.Handler
	CouponHandler     *coupons.Handler
	MembershipHandler *memberships.Handler
	PayoutHandler     *payouts.Handler
	ManagerHandler    *managers.Handler
	OrderHandler      *orders.Handler
	MediaHandler      *media.Handler
	JobHandler        *jobs.Handler
}

// NewRouter constructs the chi.Router with Salonora defaults. Signup and auth
// stay public; everything under /api/v1 requires an authenticated salon.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:         params.Logger,
		Config:         params.Config,
		SessionManager: params.SessionManager,
		CSRFManager:    params.CSRFManager,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/auth", params.AuthHandler.MountRoutes)
	r.Route("/signup", params.SignupHandler.MountRoutes)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(tenant.Require)
		r.Use(auditTrail(params.Logger, params.AuditLogger))

		r.Route("/branches", params.BranchHandler.MountRoutes)
		r.Route("/services", params.ServiceHandler.MountRoutes)
		r.Route("/categories", params.CategoryHandler.MountRoutes)
		r.Route("/subcategories", params.CategoryHandler.MountSubRoutes)
		r.Route("/coupons", params.CouponHandler.MountRoutes)
		r.Route("/memberships", params.MembershipHandler.MountRoutes)
		r.Route("/payouts", params.PayoutHandler.MountRoutes)
		r.Route("/managers", params.ManagerHandler.MountRoutes)
		r.Route("/orders", params.OrderHandler.MountRoutes)
		r.Route("/media", params.MediaHandler.MountRoutes)
		if params.JobHandler != nil {
			r.Route("/jobs", params.JobHandler.MountRoutes)
		}

		// Catalog resources served by the shared admin engine; static routes
		// above take precedence over the {resource} parameter.
		params.AdminHandler.MountRoutes(r)
	})

	return r
}

// auditTrail records every mutating API request against the acting manager.
// Reads are not logged.
func auditTrail(logger *slog.Logger, audit *shared.AuditLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r)

			if audit == nil {
				return
			}
			switch r.Method {
			case http.MethodPost, http.MethodPut, http.MethodDelete:
			default:
				return
			}

			entity, entityID := splitAPIPath(r.URL.Path)
			if entity == "" {
				return
			}
			salon, _ := tenant.FromContext(r.Context())
			var actor string
			if sess := shared.SessionFromContext(r.Context()); sess != nil {
				actor = sess.User()
			}
			log := shared.AuditLog{
				SalonID:  salon.String(),
				ActorID:  actor,
				Action:   strings.ToLower(r.Method),
				Entity:   entity,
				EntityID: entityID,
				At:       time.Now(),
			}
			if err := audit.Record(r.Context(), log); err != nil {
				logger.Warn("audit record", slog.Any("error", err))
			}
		})
	}
}

// splitAPIPath extracts the resource and optional record id from an
// /api/v1/<resource>/<id>... path.
func splitAPIPath(path string) (string, string) {
	rest := strings.TrimPrefix(path, "/api/v1/")
	parts := strings.SplitN(strings.Trim(rest, "/"), "/", 3)
	switch {
	case len(parts) >= 2:
		return parts[0], parts[1]
	case len(parts) == 1:
		return parts[0], ""
	default:
		return "", ""
	}
}
