package payouts

import (
	"bytes"
	"context"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/salonora/salonora/internal/tenant"
)

type memoryRepo struct {
	payouts map[string]Payout
	sales   []StaffSales
	next    int
}

func newMemoryRepo(sales ...StaffSales) *memoryRepo {
	return &memoryRepo{payouts: make(map[string]Payout), sales: sales}
}

func (r *memoryRepo) List(_ context.Context, salon tenant.ID) ([]Payout, error) {
	out := make([]Payout, 0)
	for _, p := range r.payouts {
		if p.SalonID == salon.String() {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *memoryRepo) Get(_ context.Context, salon tenant.ID, id string) (Payout, error) {
	p, ok := r.payouts[id]
	if !ok || p.SalonID != salon.String() {
		return Payout{}, ErrNotFound
	}
	return p, nil
}

func (r *memoryRepo) Create(_ context.Context, p Payout) (Payout, error) {
	r.next++
	p.ID = "pay-" + strconv.Itoa(r.next)
	r.payouts[p.ID] = p
	return p, nil
}

func (r *memoryRepo) MarkPaid(_ context.Context, salon tenant.ID, id string, paidAt time.Time) error {
	p, ok := r.payouts[id]
	if !ok || p.Status != StatusPending {
		return ErrAlreadyPaid
	}
	p.Status = StatusPaid
	p.PaidAt = &paidAt
	r.payouts[id] = p
	return nil
}

func (r *memoryRepo) SalesByStaff(_ context.Context, _ tenant.ID, _, _ time.Time) ([]StaffSales, error) {
	return r.sales, nil
}

func period() (time.Time, time.Time) {
	return time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC), time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC)
}

func TestComputePeriodRecordsCommission(t *testing.T) {
	repo := newMemoryRepo(
		StaffSales{StaffID: "st1", StaffName: "Asha", Total: decimal.NewFromInt(10000), CommissionPercent: decimal.NewFromInt(15)},
		StaffSales{StaffID: "st2", StaffName: "Meera", Total: decimal.Zero, CommissionPercent: decimal.NewFromInt(10)},
	)
	svc := NewService(repo)

	start, end := period()
	payouts, err := svc.ComputePeriod(context.Background(), "salon-1", start, end)
	require.NoError(t, err)
	require.Len(t, payouts, 1, "staff without sales get no payout row")
	require.Equal(t, "Asha", payouts[0].StaffName)
	require.True(t, decimal.NewFromInt(1500).Equal(payouts[0].Amount))
	require.Equal(t, StatusPending, payouts[0].Status)
}

func TestCommissionAmountRounds(t *testing.T) {
	s := StaffSales{
		Total:             decimal.RequireFromString("999.99"),
		CommissionPercent: decimal.RequireFromString("12.5"),
	}
	require.Equal(t, "125", s.CommissionAmount().String())
}

func TestMarkPaidOnlyOnce(t *testing.T) {
	repo := newMemoryRepo(StaffSales{StaffID: "st1", StaffName: "Asha", Total: decimal.NewFromInt(100), CommissionPercent: decimal.NewFromInt(10)})
	svc := NewService(repo)

	start, end := period()
	payouts, err := svc.ComputePeriod(context.Background(), "salon-1", start, end)
	require.NoError(t, err)

	paid, err := svc.MarkPaid(context.Background(), "salon-1", payouts[0].ID)
	require.NoError(t, err)
	require.Equal(t, StatusPaid, paid.Status)
	require.NotNil(t, paid.PaidAt)

	_, err = svc.MarkPaid(context.Background(), "salon-1", payouts[0].ID)
	require.ErrorIs(t, err, ErrAlreadyPaid)
}

func TestStatementContainsEveryPayout(t *testing.T) {
	repo := newMemoryRepo(
		StaffSales{StaffID: "st1", StaffName: "Asha", Total: decimal.NewFromInt(10000), CommissionPercent: decimal.NewFromInt(15)},
	)
	svc := NewService(repo)

	start, end := period()
	_, err := svc.ComputePeriod(context.Background(), "salon-1", start, end)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, svc.WriteStatement(context.Background(), "salon-1", &buf))

	out := buf.String()
	require.True(t, strings.HasPrefix(out, "Staff,Period,Sales,Commission,Amount,Status"))
	require.Contains(t, out, "Asha")
	require.Contains(t, out, "1500")
}

func TestComputeEmptyPeriodRefused(t *testing.T) {
	svc := NewService(newMemoryRepo())

	start, end := period()
	_, err := svc.ComputePeriod(context.Background(), "salon-1", start, end)
	require.ErrorIs(t, err, ErrEmptyPeriod)
}
