package orders

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order states. An order moves forward only: placed → confirmed → completed,
// with cancellation allowed until completion.
const (
	StatusPlaced    = "placed"
	StatusConfirmed = "confirmed"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// Order is a product purchase placed through the customer app.
type Order struct {
	ID            string          `json:"_id"`
	SalonID       string          `json:"salon_id"`
	CustomerName  string          `json:"customer_name"`
	CustomerPhone string          `json:"customer_phone"`
	StaffID       string          `json:"staff_id,omitempty"`
	Items         []Item          `json:"items"`
	Total         decimal.Decimal `json:"total"`
	Status        string          `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// Item is one order line.
type Item struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

// listing.Item

func (o Order) ItemID() string      { return o.ID }
func (o Order) SearchText() string  { return o.CustomerName + " " + o.CustomerPhone }
func (o Order) ItemActive() bool    { return o.Status != StatusCancelled }
func (o Order) CategoryRef() string { return o.Status }

// transitions maps each state to the states reachable from it.
var transitions = map[string][]string{
	StatusPlaced:    {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusCancelled},
	StatusCompleted: {},
	StatusCancelled: {},
}

// CanTransition reports whether the order may move to the target state.
func (o Order) CanTransition(target string) bool {
	for _, next := range transitions[o.Status] {
		if next == target {
			return true
		}
	}
	return false
}
