package branches

import (
	"time"

	"github.com/salonora/salonora/internal/formkit"
)

// Branch is one physical location of a salon.
type Branch struct {
	ID        string    `json:"_id"`
	SalonID   string    `json:"salon_id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	Photo     string    `json:"photo,omitempty"`
	Status    int       `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// listing.Item

func (b Branch) ItemID() string      { return b.ID }
func (b Branch) SearchText() string  { return b.Name + " " + b.Address + " " + b.Email }
func (b Branch) ItemActive() bool    { return b.Status == 1 }
func (b Branch) CategoryRef() string { return "" }

func (b Branch) formValues() formkit.Values {
	status := formkit.StatusInactive
	if b.Status == 1 {
		status = formkit.StatusActive
	}
	return formkit.Values{
		"_id":     b.ID,
		"name":    b.Name,
		"address": b.Address,
		"phone":   b.Phone,
		"email":   b.Email,
		"photo":   b.Photo,
		"status":  status,
	}
}
