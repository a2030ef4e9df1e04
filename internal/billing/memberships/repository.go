package memberships

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/salonora/salonora/internal/tenant"
)

// Repository persists memberships.
type Repository interface {
	List(ctx context.Context, salon tenant.ID) ([]Membership, error)
	Get(ctx context.Context, salon tenant.ID, id string) (Membership, error)
	Create(ctx context.Context, m Membership) (Membership, error)
	Update(ctx context.Context, m Membership) error
	Delete(ctx context.Context, salon tenant.ID, id string) error
	ExistsByName(ctx context.Context, salon tenant.ID, name, excludeID string) (bool, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a Repository backed by postgres.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const membershipColumns = `id, salon_id, name, discount, discount_type, duration_months, status, created_at, updated_at`

func scanMembership(row pgx.Row) (Membership, error) {
	var m Membership
	var discount string
	err := row.Scan(&m.ID, &m.SalonID, &m.Name, &discount, &m.DiscountType, &m.DurationMonths, &m.Status, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return Membership{}, err
	}
	m.Discount, err = decimal.NewFromString(discount)
	return m, err
}

func (r *repository) List(ctx context.Context, salon tenant.ID) ([]Membership, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+membershipColumns+` FROM memberships WHERE salon_id = $1 ORDER BY name`, salon.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	memberships := make([]Membership, 0)
	for rows.Next() {
		m, err := scanMembership(rows)
		if err != nil {
			return nil, err
		}
		memberships = append(memberships, m)
	}
	return memberships, rows.Err()
}

func (r *repository) Get(ctx context.Context, salon tenant.ID, id string) (Membership, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+membershipColumns+` FROM memberships WHERE salon_id = $1 AND id = $2`, salon.String(), id)
	m, err := scanMembership(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Membership{}, ErrNotFound
		}
		return Membership{}, err
	}
	return m, nil
}

func (r *repository) Create(ctx context.Context, m Membership) (Membership, error) {
	m.ID = uuid.NewString()
	row := r.pool.QueryRow(ctx, `
		INSERT INTO memberships (id, salon_id, name, discount, discount_type, duration_months, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING `+membershipColumns,
		m.ID, m.SalonID, m.Name, m.Discount.String(), m.DiscountType, m.DurationMonths, m.Status,
	)
	return scanMembership(row)
}

func (r *repository) Update(ctx context.Context, m Membership) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE memberships
		SET name = $3, discount = $4, discount_type = $5, duration_months = $6, status = $7, updated_at = NOW()
		WHERE salon_id = $1 AND id = $2`,
		m.SalonID, m.ID, m.Name, m.Discount.String(), m.DiscountType, m.DurationMonths, m.Status,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, salon tenant.ID, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM memberships WHERE salon_id = $1 AND id = $2`, salon.String(), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) ExistsByName(ctx context.Context, salon tenant.ID, name, excludeID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM memberships WHERE salon_id = $1 AND LOWER(name) = LOWER($2) AND id <> $3)`,
		salon.String(), name, excludeID,
	).Scan(&exists)
	return exists, err
}
