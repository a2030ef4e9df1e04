package signup

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/salonora/salonora/jobs"
)

type memoryRepo struct {
	plans    map[string]Plan
	accounts []Account
	emails   map[string]bool
	writes   int
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		plans: map[string]Plan{
			"basic": {ID: "basic", Name: "Basic", Price: decimal.NewFromInt(999), Currency: "INR", DurationMonths: 1, Status: 1},
			"pro":   {ID: "pro", Name: "Pro", Price: decimal.NewFromInt(9990), Currency: "INR", DurationMonths: 12, Status: 1},
		},
		emails: make(map[string]bool),
	}
}

func (r *memoryRepo) ListPlans(_ context.Context) ([]Plan, error) {
	out := make([]Plan, 0, len(r.plans))
	for _, p := range r.plans {
		out = append(out, p)
	}
	return out, nil
}

func (r *memoryRepo) GetPlan(_ context.Context, id string) (Plan, error) {
	p, ok := r.plans[id]
	if !ok {
		return Plan{}, ErrPlanNotFound
	}
	return p, nil
}

func (r *memoryRepo) EmailTaken(_ context.Context, email string) (bool, error) {
	return r.emails[email], nil
}

func (r *memoryRepo) CreateAccount(_ context.Context, reg Registration, plan Plan, passwordHash string) (Account, error) {
	r.writes++
	account := Account{
		SalonID:   "salon-new",
		ManagerID: "mgr-new",
		SalonName: reg.SalonName,
		Email:     reg.Email,
		PlanID:    plan.ID,
	}
	r.accounts = append(r.accounts, account)
	r.emails[reg.Email] = true
	return account, nil
}

type fakeGateway struct {
	secret string
	orders int
}

func (g *fakeGateway) CreateOrder(_ context.Context, amount decimal.Decimal, currency, receipt string) (GatewayOrder, error) {
	g.orders++
	return GatewayOrder{OrderID: "order-1", Amount: amount, Currency: currency}, nil
}

func (g *fakeGateway) VerifySignature(orderID, paymentID, signature string) bool {
	mac := hmac.New(sha256.New, []byte(g.secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil)) == signature
}

type fakeEnqueuer struct {
	sent []jobs.WelcomeEmailPayload
}

func (e *fakeEnqueuer) EnqueueWelcomeEmail(_ context.Context, payload jobs.WelcomeEmailPayload) error {
	e.sent = append(e.sent, payload)
	return nil
}

func sign(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func newTestService(repo *memoryRepo, gw *fakeGateway, enq *fakeEnqueuer) *Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(logger, repo, gw, enq)
}

func validRegistration(secret string) Registration {
	return Registration{
		SalonName: "Bliss Spa",
		OwnerName: "Asha Rao",
		Email:     "asha@example.com",
		Phone:     "9876543210",
		Password:  "supersecret",
		PlanID:    "basic",
		OrderID:   "order-1",
		PaymentID: "pay-1",
		Signature: sign(secret, "order-1", "pay-1"),
	}
}

func TestAbandonedCheckoutLeavesNothing(t *testing.T) {
	repo := newMemoryRepo()
	gw := &fakeGateway{secret: "s3cret"}
	svc := newTestService(repo, gw, &fakeEnqueuer{})

	order, err := svc.Checkout(context.Background(), "basic", "asha@example.com")
	require.NoError(t, err)
	require.Equal(t, "order-1", order.OrderID)
	require.Equal(t, 1, gw.orders)
	require.Zero(t, repo.writes, "checkout alone must not persist anything")
}

func TestCompleteRejectsBadSignature(t *testing.T) {
	repo := newMemoryRepo()
	enq := &fakeEnqueuer{}
	svc := newTestService(repo, &fakeGateway{secret: "s3cret"}, enq)

	reg := validRegistration("s3cret")
	reg.Signature = sign("wrong-secret", reg.OrderID, reg.PaymentID)

	_, err := svc.Complete(context.Background(), reg)
	require.ErrorIs(t, err, ErrPaymentInvalid)
	require.Zero(t, repo.writes, "a failed verification must not persist anything")
	require.Empty(t, enq.sent)
}

func TestCompleteCreatesAccountAndQueuesWelcome(t *testing.T) {
	repo := newMemoryRepo()
	enq := &fakeEnqueuer{}
	svc := newTestService(repo, &fakeGateway{secret: "s3cret"}, enq)

	account, err := svc.Complete(context.Background(), validRegistration("s3cret"))
	require.NoError(t, err)
	require.Equal(t, "Bliss Spa", account.SalonName)
	require.Equal(t, 1, repo.writes)
	require.Len(t, enq.sent, 1)
	require.Equal(t, "asha@example.com", enq.sent[0].To)
	require.Equal(t, "Basic", enq.sent[0].PlanName)
}

func TestCompleteRejectsTakenEmail(t *testing.T) {
	repo := newMemoryRepo()
	repo.emails["asha@example.com"] = true
	svc := newTestService(repo, &fakeGateway{secret: "s3cret"}, &fakeEnqueuer{})

	_, err := svc.Complete(context.Background(), validRegistration("s3cret"))
	require.ErrorIs(t, err, ErrEmailTaken)
	require.Zero(t, repo.writes)
}

func TestCompleteRejectsShortPassword(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo, &fakeGateway{secret: "s3cret"}, &fakeEnqueuer{})

	reg := validRegistration("s3cret")
	reg.Password = "short"

	_, err := svc.Complete(context.Background(), reg)
	require.ErrorIs(t, err, ErrInvalidForm)
	require.Zero(t, repo.writes)
}

func TestHTTPGatewayCreateOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/orders", r.URL.Path)
		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		require.Equal(t, "key-id", user)
		require.Equal(t, "key-secret", pass)

		var req struct {
			Amount   int64  `json:"amount"`
			Currency string `json:"currency"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, int64(99900), req.Amount)

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]any{"id": "order-77", "amount": req.Amount, "currency": req.Currency})
	}))
	defer srv.Close()

	gw := NewHTTPGateway(srv.URL, "key-id", "key-secret")
	order, err := gw.CreateOrder(context.Background(), decimal.NewFromInt(999), "INR", "signup:basic")
	require.NoError(t, err)
	require.Equal(t, "order-77", order.OrderID)
	require.True(t, decimal.NewFromInt(999).Equal(order.Amount))
}

func TestHTTPGatewaySignatureRoundTrip(t *testing.T) {
	gw := NewHTTPGateway("http://unused", "key-id", "key-secret")
	sig := sign("key-secret", "o1", "p1")
	require.True(t, gw.VerifySignature("o1", "p1", sig))
	require.False(t, gw.VerifySignature("o1", "p2", sig))
}
