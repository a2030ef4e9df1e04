package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/salonora/salonora/internal/tenant"
)

// Repository persists catalog services.
type Repository interface {
	List(ctx context.Context, salon tenant.ID) ([]Service, error)
	Get(ctx context.Context, salon tenant.ID, id string) (Service, error)
	Create(ctx context.Context, svc Service) (Service, error)
	Update(ctx context.Context, svc Service) error
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

const serviceColumns = `id, salon_id, name, price, duration_minutes, category_id, branch_ids, photo, status, created_at, updated_at`

func scanService(row pgx.Row) (Service, error) {
	var s Service
	var price string
	err := row.Scan(&s.ID, &s.SalonID, &s.Name, &price, &s.DurationMinutes, &s.CategoryID, &s.BranchIDs, &s.Photo, &s.Status, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return Service{}, err
	}
	s.Price, err = decimal.NewFromString(price)
	return s, err
}

func (r *repository) List(ctx context.Context, salon tenant.ID) ([]Service, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+serviceColumns+` FROM services WHERE salon_id = $1 ORDER BY name`, salon.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	services := make([]Service, 0)
	for rows.Next() {
		s, err := scanService(rows)
		if err != nil {
			return nil, err
		}
		services = append(services, s)
	}
	return services, rows.Err()
}

func (r *repository) Get(ctx context.Context, salon tenant.ID, id string) (Service, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+serviceColumns+` FROM services WHERE salon_id = $1 AND id = $2`, salon.String(), id)
	s, err := scanService(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Service{}, ErrNotFound
		}
		return Service{}, err
	}
	return s, nil
}

func (r *repository) Create(ctx context.Context, svc Service) (Service, error) {
	svc.ID = uuid.NewString()
	row := r.pool.QueryRow(ctx, `
		INSERT INTO services (id, salon_id, name, price, duration_minutes, category_id, branch_ids, photo, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
		RETURNING `+serviceColumns,
		svc.ID, svc.SalonID, svc.Name, svc.Price.String(), svc.DurationMinutes, svc.CategoryID, svc.BranchIDs, svc.Photo, svc.Status,
	)
	return scanService(row)
}

func (r *repository) Update(ctx context.Context, svc Service) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE services
		SET name = $3, price = $4, duration_minutes = $5, category_id = $6, branch_ids = $7, photo = $8, status = $9, updated_at = NOW()
		WHERE salon_id = $1 AND id = $2`,
		svc.SalonID, svc.ID, svc.Name, svc.Price.String(), svc.DurationMinutes, svc.CategoryID, svc.BranchIDs, svc.Photo, svc.Status,
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
	tag, err := r.pool.Exec(ctx, `DELETE FROM services WHERE salon_id = $1 AND id = $2`, salon.String(), id)
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
		`SELECT EXISTS (SELECT 1 FROM services WHERE salon_id = $1 AND LOWER(name) = LOWER($2) AND id <> $3)`,
		salon.String(), name, excludeID,
	).Scan(&exists)
	return exists, err
}
