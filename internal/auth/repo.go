package auth

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/salonora/salonora/internal/shared"
)

// Repository loads manager accounts for authentication.
type Repository interface {
	FindByEmail(ctx context.Context, email string) (*Account, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a Repository backed by postgres.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*Account, error) {
	const query = `
		SELECT id, salon_id, name, email, password_hash, status = 1 AS is_active, created_at, updated_at
		FROM managers
		WHERE LOWER(email) = LOWER($1)
	`
	var acc Account
	err := r.pool.QueryRow(ctx, query, email).Scan(
		&acc.ID, &acc.SalonID, &acc.Name, &acc.Email, &acc.PasswordHash,
		&acc.IsActive, &acc.CreatedAt, &acc.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &acc, nil
}
