package signup

import (
	"time"

	"github.com/shopspring/decimal"
)

// Plan is a subscription tier a new salon signs up for.
type Plan struct {
	ID             string          `json:"_id"`
	Name           string          `json:"name"`
	Price          decimal.Decimal `json:"price"`
	Currency       string          `json:"currency"`
	DurationMonths int             `json:"duration_months"`
	Status         int             `json:"status"`
}

// Registration is the signup form submitted after a verified payment.
type Registration struct {
	SalonName string `json:"salon_name"`
	OwnerName string `json:"owner_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Password  string `json:"password"`
	PlanID    string `json:"plan_id"`
	OrderID   string `json:"order_id"`
	PaymentID string `json:"payment_id"`
	Signature string `json:"signature"`
}

// Account is the persisted outcome of a completed signup.
type Account struct {
	SalonID   string    `json:"salon_id"`
	ManagerID string    `json:"manager_id"`
	SalonName string    `json:"salon_name"`
	Email     string    `json:"email"`
	PlanID    string    `json:"plan_id"`
	PaidUntil time.Time `json:"paid_until"`
}
