package auth

import "time"

// Account represents a manager login bound to one salon.
type Account struct {
	ID           string
	SalonID      string
	Name         string
	Email        string
	PasswordHash string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
