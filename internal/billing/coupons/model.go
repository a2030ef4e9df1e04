package coupons

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/salonora/salonora/internal/formkit"
)

// DateLayout is the wire format for coupon validity dates.
const DateLayout = "2006-01-02"

// Coupon is a discount code with a validity window and a redemption cap.
type Coupon struct {
	ID           string          `json:"_id"`
	SalonID      string          `json:"salon_id"`
	Code         string          `json:"code"`
	DiscountType string          `json:"discount_type"`
	Amount       decimal.Decimal `json:"amount"`
	StartDate    time.Time       `json:"start_date"`
	EndDate      time.Time       `json:"end_date"`
	UseLimit     int             `json:"use_limit"`
	Used         int             `json:"used"`
	Status       int             `json:"status"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// listing.Item

func (c Coupon) ItemID() string      { return c.ID }
func (c Coupon) SearchText() string  { return c.Code }
func (c Coupon) ItemActive() bool    { return c.Status == 1 }
func (c Coupon) CategoryRef() string { return c.DiscountType }

// Redeemable reports whether the coupon can still be applied at the given
// moment.
func (c Coupon) Redeemable(now time.Time) bool {
	if c.Status != 1 {
		return false
	}
	if now.Before(c.StartDate) || now.After(c.EndDate) {
		return false
	}
	return c.Used < c.UseLimit
}

func (c Coupon) formValues() formkit.Values {
	status := formkit.StatusInactive
	if c.Status == 1 {
		status = formkit.StatusActive
	}
	return formkit.Values{
		"_id":           c.ID,
		"code":          c.Code,
		"discount_type": c.DiscountType,
		"amount":        c.Amount.String(),
		"start_date":    c.StartDate.Format(DateLayout),
		"end_date":      c.EndDate.Format(DateLayout),
		"use_limit":     formatInt(c.UseLimit),
		"status":        status,
	}
}
