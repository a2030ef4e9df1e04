// Package tenant carries the salon scoping identifier through request
// handling. Every data access takes the tenant explicitly instead of reading
// it from ambient storage.
package tenant

import (
	"context"
	"net/http"

	"github.com/salonora/salonora/internal/platform/httpx"
	"github.com/salonora/salonora/internal/shared"
)

// ID identifies one salon installation. All repository queries are scoped by it.
type ID string

func (id ID) String() string { return string(id) }

type contextKey struct{}

// WithTenant stores the tenant in context.
func WithTenant(ctx context.Context, id ID) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// FromContext extracts the tenant from context.
func FromContext(ctx context.Context) (ID, bool) {
	id, ok := ctx.Value(contextKey{}).(ID)
	return id, ok && id != ""
}

// MustFromContext returns the tenant or panics. Handlers behind Require can
// use it safely.
func MustFromContext(ctx context.Context) ID {
	id, ok := FromContext(ctx)
	if !ok {
		panic("tenant: missing from context")
	}
	return id
}

// Require resolves the tenant from the authenticated session and rejects
// requests without one.
func Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := shared.SessionFromContext(r.Context())
		if sess == nil || sess.Salon() == "" {
			httpx.RespondError(w, httpx.ErrUnauthorized)
			return
		}
		ctx := WithTenant(r.Context(), ID(sess.Salon()))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
