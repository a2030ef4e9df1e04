package managers

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/salonora/salonora/internal/formkit"
)

// Manager is a staff account that can sign in to the panel. The password
// hash never leaves the server.
type Manager struct {
	ID                string          `json:"_id"`
	SalonID           string          `json:"salon_id"`
	BranchID          string          `json:"branch_id"`
	Name              string          `json:"name"`
	Email             string          `json:"email"`
	Phone             string          `json:"phone"`
	CommissionPercent decimal.Decimal `json:"commission_percent"`
	PasswordHash      string          `json:"-"`
	Status            int             `json:"status"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// listing.Item

func (m Manager) ItemID() string      { return m.ID }
func (m Manager) SearchText() string  { return m.Name + " " + m.Email }
func (m Manager) ItemActive() bool    { return m.Status == 1 }
func (m Manager) CategoryRef() string { return m.BranchID }

func (m Manager) formValues() formkit.Values {
	status := formkit.StatusInactive
	if m.Status == 1 {
		status = formkit.StatusActive
	}
	return formkit.Values{
		"_id":        m.ID,
		"name":       m.Name,
		"email":      m.Email,
		"phone":      m.Phone,
		"branch_id":  m.BranchID,
		"commission": m.CommissionPercent.String(),
		"status":     status,
	}
}
