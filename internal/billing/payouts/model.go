package payouts

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payout states.
const (
	StatusPending = "pending"
	StatusPaid    = "paid"
)

// Payout is one staff member's commission settlement for a period.
type Payout struct {
	ID                string          `json:"_id"`
	SalonID           string          `json:"salon_id"`
	StaffID           string          `json:"staff_id"`
	StaffName         string          `json:"staff_name"`
	PeriodStart       time.Time       `json:"period_start"`
	PeriodEnd         time.Time       `json:"period_end"`
	TotalSales        decimal.Decimal `json:"total_sales"`
	CommissionPercent decimal.Decimal `json:"commission_percent"`
	Amount            decimal.Decimal `json:"amount"`
	Status            string          `json:"status"`
	PaidAt            *time.Time      `json:"paid_at,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// listing.Item

func (p Payout) ItemID() string      { return p.ID }
func (p Payout) SearchText() string  { return p.StaffName }
func (p Payout) ItemActive() bool    { return p.Status == StatusPending }
func (p Payout) CategoryRef() string { return p.Status }

// StaffSales is the per-staff sales aggregate a payout is computed from.
type StaffSales struct {
	StaffID           string
	StaffName         string
	Total             decimal.Decimal
	CommissionPercent decimal.Decimal
}

// CommissionAmount computes the payout due: total × percent / 100, rounded
// to two places.
func (s StaffSales) CommissionAmount() decimal.Decimal {
	return s.Total.Mul(s.CommissionPercent).Div(decimal.NewFromInt(100)).Round(2)
}
