package jobs

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/salonora/salonora/internal/billing/payouts"
	"github.com/salonora/salonora/internal/tenant"
)

type recordedMail struct {
	to      string
	subject string
	body    string
}

type recorderMailer struct {
	sent []recordedMail
	fail error
}

func (m *recorderMailer) Send(_ context.Context, to, subject, body string) error {
	if m.fail != nil {
		return m.fail
	}
	m.sent = append(m.sent, recordedMail{to: to, subject: subject, body: body})
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestWelcomeEmailHandlerSendsMail(t *testing.T) {
	mailer := &recorderMailer{}
	handler := NewWelcomeEmailHandler(discardLogger(), mailer)

	task, err := NewWelcomeEmailTask(WelcomeEmailPayload{
		To:        "owner@demo.salon",
		OwnerName: "Priya",
		SalonName: "Demo Salon",
		PlanName:  "Premium",
	})
	require.NoError(t, err)

	require.NoError(t, handler(context.Background(), task))
	require.Len(t, mailer.sent, 1)
	require.Equal(t, "owner@demo.salon", mailer.sent[0].to)
	require.Contains(t, mailer.sent[0].body, "Demo Salon")
	require.Contains(t, mailer.sent[0].body, "Premium")
}

func TestWelcomeEmailHandlerPropagatesSendFailure(t *testing.T) {
	mailer := &recorderMailer{fail: errors.New("relay down")}
	handler := NewWelcomeEmailHandler(discardLogger(), mailer)

	task, err := NewWelcomeEmailTask(WelcomeEmailPayload{To: "owner@demo.salon"})
	require.NoError(t, err)
	require.Error(t, handler(context.Background(), task))
}

type payoutListRepo struct {
	items []payouts.Payout
}

func (r *payoutListRepo) List(_ context.Context, salon tenant.ID) ([]payouts.Payout, error) {
	out := make([]payouts.Payout, 0)
	for _, p := range r.items {
		if p.SalonID == salon.String() {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *payoutListRepo) Get(context.Context, tenant.ID, string) (payouts.Payout, error) {
	return payouts.Payout{}, payouts.ErrNotFound
}

func (r *payoutListRepo) Create(_ context.Context, p payouts.Payout) (payouts.Payout, error) {
	return p, nil
}

func (r *payoutListRepo) MarkPaid(context.Context, tenant.ID, string, time.Time) error {
	return nil
}

func (r *payoutListRepo) SalesByStaff(context.Context, tenant.ID, time.Time, time.Time) ([]payouts.StaffSales, error) {
	return nil, nil
}

func TestPayoutStatementHandlerWritesCSV(t *testing.T) {
	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	repo := &payoutListRepo{items: []payouts.Payout{{
		SalonID:           "salon-1",
		StaffName:         "Asha",
		PeriodStart:       start,
		PeriodEnd:         start.AddDate(0, 1, 0),
		TotalSales:        decimal.NewFromInt(12500),
		CommissionPercent: decimal.NewFromInt(10),
		Amount:            decimal.NewFromInt(1250),
		Status:            payouts.StatusPending,
	}}}

	dir := t.TempDir()
	handler := NewPayoutStatementHandler(discardLogger(), payouts.NewService(repo), dir)

	task, err := NewPayoutStatementTask(PayoutStatementPayload{SalonID: "salon-1"})
	require.NoError(t, err)
	require.NoError(t, handler(context.Background(), task))

	data, err := os.ReadFile(filepath.Join(dir, "salon-1.csv"))
	require.NoError(t, err)
	content := string(data)
	require.True(t, strings.HasPrefix(content, "Staff,Period,Sales,Commission,Amount,Status"))
	require.Contains(t, content, "Asha")
	require.Contains(t, content, "1250")
}
