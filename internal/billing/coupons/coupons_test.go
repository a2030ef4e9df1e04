package coupons

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/salonora/salonora/internal/tenant"
)

type countingRepo struct {
	coupons map[string]Coupon
	calls   int
	next    int
}

func newCountingRepo() *countingRepo {
	return &countingRepo{coupons: make(map[string]Coupon)}
}

func (r *countingRepo) List(_ context.Context, salon tenant.ID) ([]Coupon, error) {
	r.calls++
	out := make([]Coupon, 0)
	for _, c := range r.coupons {
		if c.SalonID == salon.String() {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *countingRepo) Get(_ context.Context, salon tenant.ID, id string) (Coupon, error) {
	r.calls++
	c, ok := r.coupons[id]
	if !ok || c.SalonID != salon.String() {
		return Coupon{}, ErrNotFound
	}
	return c, nil
}

func (r *countingRepo) GetByCode(_ context.Context, salon tenant.ID, code string) (Coupon, error) {
	r.calls++
	for _, c := range r.coupons {
		if c.SalonID == salon.String() && c.Code == code {
			return c, nil
		}
	}
	return Coupon{}, ErrNotFound
}

func (r *countingRepo) Create(_ context.Context, c Coupon) (Coupon, error) {
	r.calls++
	r.next++
	c.ID = "cpn-" + strconv.Itoa(r.next)
	r.coupons[c.ID] = c
	return c, nil
}

func (r *countingRepo) Update(_ context.Context, c Coupon) error {
	r.calls++
	if _, ok := r.coupons[c.ID]; !ok {
		return ErrNotFound
	}
	r.coupons[c.ID] = c
	return nil
}

func (r *countingRepo) Delete(_ context.Context, salon tenant.ID, id string) error {
	r.calls++
	if _, ok := r.coupons[id]; !ok {
		return ErrNotFound
	}
	delete(r.coupons, id)
	return nil
}

func (r *countingRepo) ExistsByCode(_ context.Context, salon tenant.ID, code, excludeID string) (bool, error) {
	r.calls++
	for id, c := range r.coupons {
		if id != excludeID && c.SalonID == salon.String() && c.Code == code {
			return true, nil
		}
	}
	return false, nil
}

func (r *countingRepo) IncrementUsed(_ context.Context, salon tenant.ID, id string) error {
	r.calls++
	c, ok := r.coupons[id]
	if !ok {
		return ErrNotFound
	}
	if c.Used >= c.UseLimit {
		return ErrNotRedeemable
	}
	c.Used++
	r.coupons[id] = c
	return nil
}

func newRouter(repo Repository) http.Handler {
	h := NewHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), NewService(repo))
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(tenant.WithTenant(req.Context(), "salon-1")))
		})
	})
	r.Route("/", h.MountRoutes)
	return r
}

func postJSON(t *testing.T, router http.Handler, path string, body map[string]any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func validBody() map[string]any {
	return map[string]any{
		"code":          "WELCOME10",
		"discount_type": "percent",
		"amount":        "10",
		"start_date":    "2026-01-01",
		"end_date":      "2026-12-31",
		"use_limit":     "100",
		"status":        "active",
	}
}

func TestCreateRejectsInvertedDatesWithoutTouchingStorage(t *testing.T) {
	repo := newCountingRepo()
	router := newRouter(repo)

	body := validBody()
	body["start_date"] = "2026-12-31"
	body["end_date"] = "2026-01-01"

	rec := postJSON(t, router, "/", body)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Zero(t, repo.calls, "a blocked submit must not reach the repository")
}

func TestCreateValidCoupon(t *testing.T) {
	repo := newCountingRepo()
	router := newRouter(repo)

	rec := postJSON(t, router, "/", validBody())
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, repo.coupons, 1)
}

func TestCreateRejectsZeroAmount(t *testing.T) {
	repo := newCountingRepo()
	router := newRouter(repo)

	body := validBody()
	body["amount"] = "0"

	rec := postJSON(t, router, "/", body)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Zero(t, repo.calls)
}

func TestRedeemRespectsWindowAndCap(t *testing.T) {
	repo := newCountingRepo()
	svc := NewService(repo)
	svc.now = func() time.Time { return time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC) }

	created, err := repo.Create(context.Background(), Coupon{
		SalonID:      "salon-1",
		Code:         "SUMMER",
		DiscountType: "percent",
		StartDate:    time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
		EndDate:      time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC),
		UseLimit:     1,
		Status:       1,
	})
	require.NoError(t, err)

	_, err = svc.Redeem(context.Background(), "salon-1", "SUMMER")
	require.NoError(t, err)

	_, err = svc.Redeem(context.Background(), "salon-1", "SUMMER")
	require.ErrorIs(t, err, ErrNotRedeemable, "cap of one is exhausted")

	svc.now = func() time.Time { return time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC) }
	_, err = svc.Redeem(context.Background(), "salon-1", created.Code)
	require.ErrorIs(t, err, ErrNotRedeemable, "outside the validity window")
}

func TestUpdateKeepsRedemptionCounter(t *testing.T) {
	repo := newCountingRepo()
	svc := NewService(repo)

	created, err := repo.Create(context.Background(), Coupon{
		SalonID:      "salon-1",
		Code:         "LOYAL",
		DiscountType: "fixed",
		StartDate:    time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:      time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC),
		UseLimit:     10,
		Status:       1,
	})
	require.NoError(t, err)
	require.NoError(t, repo.IncrementUsed(context.Background(), "salon-1", created.ID))

	updated, err := svc.Update(context.Background(), "salon-1", created.ID, map[string]any{
		"code":          "LOYAL",
		"discount_type": "fixed",
		"amount":        "50",
		"start_date":    "2026-01-01",
		"end_date":      "2026-12-31",
		"use_limit":     "20",
		"status":        1,
	})
	require.NoError(t, err)
	require.Equal(t, 1, updated.Used)
	require.Equal(t, 20, updated.UseLimit)
}
