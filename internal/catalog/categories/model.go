package categories

import (
	"time"

	"github.com/salonora/salonora/internal/formkit"
)

// Category groups services under a branch (Hair, Skin, Nails).
type Category struct {
	ID        string    `json:"_id"`
	SalonID   string    `json:"salon_id"`
	BranchID  string    `json:"branch_id"`
	Name      string    `json:"name"`
	Photo     string    `json:"photo,omitempty"`
	Status    int       `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SubCategory refines a parent category (Hair → Coloring).
type SubCategory struct {
	ID         string    `json:"_id"`
	SalonID    string    `json:"salon_id"`
	CategoryID string    `json:"category_id"`
	Name       string    `json:"name"`
	Status     int       `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// listing.Item

func (c Category) ItemID() string      { return c.ID }
func (c Category) SearchText() string  { return c.Name }
func (c Category) ItemActive() bool    { return c.Status == 1 }
func (c Category) CategoryRef() string { return c.BranchID }

func (s SubCategory) ItemID() string      { return s.ID }
func (s SubCategory) SearchText() string  { return s.Name }
func (s SubCategory) ItemActive() bool    { return s.Status == 1 }
func (s SubCategory) CategoryRef() string { return s.CategoryID }

func (c Category) formValues() formkit.Values {
	status := formkit.StatusInactive
	if c.Status == 1 {
		status = formkit.StatusActive
	}
	return formkit.Values{
		"_id":       c.ID,
		"name":      c.Name,
		"branch_id": c.BranchID,
		"photo":     c.Photo,
		"status":    status,
	}
}

func (s SubCategory) formValues() formkit.Values {
	status := formkit.StatusInactive
	if s.Status == 1 {
		status = formkit.StatusActive
	}
	return formkit.Values{
		"_id":         s.ID,
		"name":        s.Name,
		"category_id": s.CategoryID,
		"status":      status,
	}
}
