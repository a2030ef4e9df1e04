package services

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/salonora/salonora/internal/formkit"
)

// Service is one bookable offering (haircut, facial, spa package).
type Service struct {
	ID              string          `json:"_id"`
	SalonID         string          `json:"salon_id"`
	Name            string          `json:"name"`
	Price           decimal.Decimal `json:"price"`
	DurationMinutes int             `json:"duration_minutes"`
	CategoryID      string          `json:"category_id"`
	BranchIDs       []string        `json:"branch_id"`
	Photo           string          `json:"photo,omitempty"`
	Status          int             `json:"status"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// listing.Item

func (s Service) ItemID() string      { return s.ID }
func (s Service) SearchText() string  { return s.Name }
func (s Service) ItemActive() bool    { return s.Status == 1 }
func (s Service) CategoryRef() string { return s.CategoryID }

func (s Service) formValues() formkit.Values {
	status := formkit.StatusInactive
	if s.Status == 1 {
		status = formkit.StatusActive
	}
	return formkit.Values{
		"_id":         s.ID,
		"name":        s.Name,
		"price":       s.Price.String(),
		"duration":    formatInt(s.DurationMinutes),
		"category_id": s.CategoryID,
		"branch_id":   s.BranchIDs,
		"photo":       s.Photo,
		"status":      status,
	}
}
