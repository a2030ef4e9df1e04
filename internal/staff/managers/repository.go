package managers

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/salonora/salonora/internal/tenant"
)

// Repository persists manager accounts.
type Repository interface {
	List(ctx context.Context, salon tenant.ID) ([]Manager, error)
	Get(ctx context.Context, salon tenant.ID, id string) (Manager, error)
	Create(ctx context.Context, m Manager) (Manager, error)
	Update(ctx context.Context, m Manager) error
	Delete(ctx context.Context, salon tenant.ID, id string) error
	ExistsByEmail(ctx context.Context, salon tenant.ID, email, excludeID string) (bool, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a Repository backed by postgres.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const managerColumns = `id, salon_id, branch_id, name, email, phone, commission_percent, password_hash, status, created_at, updated_at`

func scanManager(row pgx.Row) (Manager, error) {
	var m Manager
	var commission string
	err := row.Scan(&m.ID, &m.SalonID, &m.BranchID, &m.Name, &m.Email, &m.Phone, &commission, &m.PasswordHash, &m.Status, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return Manager{}, err
	}
	m.CommissionPercent, err = decimal.NewFromString(commission)
	return m, err
}

func (r *repository) List(ctx context.Context, salon tenant.ID) ([]Manager, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+managerColumns+` FROM managers WHERE salon_id = $1 ORDER BY name`, salon.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	managers := make([]Manager, 0)
	for rows.Next() {
		m, err := scanManager(rows)
		if err != nil {
			return nil, err
		}
		managers = append(managers, m)
	}
	return managers, rows.Err()
}

func (r *repository) Get(ctx context.Context, salon tenant.ID, id string) (Manager, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+managerColumns+` FROM managers WHERE salon_id = $1 AND id = $2`, salon.String(), id)
	m, err := scanManager(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Manager{}, ErrNotFound
		}
		return Manager{}, err
	}
	return m, nil
}

func (r *repository) Create(ctx context.Context, m Manager) (Manager, error) {
	m.ID = uuid.NewString()
	row := r.pool.QueryRow(ctx, `
		INSERT INTO managers (id, salon_id, branch_id, name, email, phone, commission_percent, password_hash, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
		RETURNING `+managerColumns,
		m.ID, m.SalonID, m.BranchID, m.Name, m.Email, m.Phone, m.CommissionPercent.String(), m.PasswordHash, m.Status,
	)
	return scanManager(row)
}

func (r *repository) Update(ctx context.Context, m Manager) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE managers
		SET branch_id = $3, name = $4, email = $5, phone = $6, commission_percent = $7, password_hash = $8, status = $9, updated_at = NOW()
		WHERE salon_id = $1 AND id = $2`,
		m.SalonID, m.ID, m.BranchID, m.Name, m.Email, m.Phone, m.CommissionPercent.String(), m.PasswordHash, m.Status,
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
	tag, err := r.pool.Exec(ctx, `DELETE FROM managers WHERE salon_id = $1 AND id = $2`, salon.String(), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) ExistsByEmail(ctx context.Context, salon tenant.ID, email, excludeID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM managers WHERE salon_id = $1 AND LOWER(email) = LOWER($2) AND id <> $3)`,
		salon.String(), email, excludeID,
	).Scan(&exists)
	return exists, err
}
