package payouts

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/salonora/salonora/internal/listing"
	"github.com/salonora/salonora/internal/tenant"
)

var (
	ErrNotFound    = errors.New("payout not found")
	ErrAlreadyPaid = errors.New("payout already paid")
	ErrEmptyPeriod = errors.New("no sales in period")
)

// Service computes and settles staff payouts.
type Service struct {
	repo Repository
	now  func() time.Time
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// List returns every payout of the salon.
func (s *Service) List(ctx context.Context, salon tenant.ID) ([]Payout, error) {
	return s.repo.List(ctx, salon)
}

// Get returns one payout.
func (s *Service) Get(ctx context.Context, salon tenant.ID, id string) (Payout, error) {
	return s.repo.Get(ctx, salon, id)
}

// ComputePeriod aggregates completed sales per staff member over the period
// and records one pending payout each. Staff with no sales are skipped.
func (s *Service) ComputePeriod(ctx context.Context, salon tenant.ID, start, end time.Time) ([]Payout, error) {
	if end.Before(start) {
		return nil, fmt.Errorf("%w: period end before start", ErrEmptyPeriod)
	}
	sales, err := s.repo.SalesByStaff(ctx, salon, start, end)
	if err != nil {
		return nil, fmt.Errorf("aggregate staff sales: %w", err)
	}
	if len(sales) == 0 {
		return nil, ErrEmptyPeriod
	}

	payouts := make([]Payout, 0, len(sales))
	for _, sale := range sales {
		if !sale.Total.IsPositive() {
			continue
		}
		p := Payout{
			SalonID:           salon.String(),
			StaffID:           sale.StaffID,
			StaffName:         sale.StaffName,
			PeriodStart:       start,
			PeriodEnd:         end,
			TotalSales:        sale.Total,
			CommissionPercent: sale.CommissionPercent,
			Amount:            sale.CommissionAmount(),
			Status:            StatusPending,
		}
		created, err := s.repo.Create(ctx, p)
		if err != nil {
			return nil, fmt.Errorf("record payout for %s: %w", sale.StaffID, err)
		}
		payouts = append(payouts, created)
	}
	return payouts, nil
}

// MarkPaid settles a pending payout. Paying twice is refused.
func (s *Service) MarkPaid(ctx context.Context, salon tenant.ID, id string) (Payout, error) {
	p, err := s.repo.Get(ctx, salon, id)
	if err != nil {
		return Payout{}, err
	}
	if p.Status == StatusPaid {
		return Payout{}, fmt.Errorf("%w: %s", ErrAlreadyPaid, id)
	}
	paidAt := s.now()
	if err := s.repo.MarkPaid(ctx, salon, id, paidAt); err != nil {
		return Payout{}, fmt.Errorf("mark payout paid: %w", err)
	}
	return s.repo.Get(ctx, salon, id)
}

// WriteStatement renders the salon's payouts as a CSV statement.
func (s *Service) WriteStatement(ctx context.Context, salon tenant.ID, w io.Writer) error {
	payouts, err := s.repo.List(ctx, salon)
	if err != nil {
		return err
	}
	rows := make([]map[string]string, 0, len(payouts))
	for _, p := range payouts {
		rows = append(rows, map[string]string{
			"Staff":      p.StaffName,
			"Period":     p.PeriodStart.Format("2006-01-02") + " to " + p.PeriodEnd.Format("2006-01-02"),
			"Sales":      p.TotalSales.String(),
			"Commission": p.CommissionPercent.String() + "%",
			"Amount":     p.Amount.String(),
			"Status":     p.Status,
		})
	}
	return listing.ExportCSV(w, []string{"Staff", "Period", "Sales", "Commission", "Amount", "Status"}, rows)
}
