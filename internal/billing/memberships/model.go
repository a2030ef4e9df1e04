package memberships

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/salonora/salonora/internal/formkit"
)

// Membership is a recurring plan a customer can buy into (gold card, yearly
// spa pass).
type Membership struct {
	ID             string          `json:"_id"`
	SalonID        string          `json:"salon_id"`
	Name           string          `json:"name"`
	Discount       decimal.Decimal `json:"discount"`
	DiscountType   string          `json:"discount_type"`
	DurationMonths int             `json:"duration_months"`
	Status         int             `json:"status"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// listing.Item

func (m Membership) ItemID() string      { return m.ID }
func (m Membership) SearchText() string  { return m.Name }
func (m Membership) ItemActive() bool    { return m.Status == 1 }
func (m Membership) CategoryRef() string { return m.DiscountType }

func (m Membership) formValues() formkit.Values {
	status := formkit.StatusInactive
	if m.Status == 1 {
		status = formkit.StatusActive
	}
	return formkit.Values{
		"_id":           m.ID,
		"name":          m.Name,
		"discount":      m.Discount.String(),
		"discount_type": m.DiscountType,
		"duration":      formatInt(m.DurationMonths),
		"status":        status,
	}
}
