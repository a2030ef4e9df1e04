package branches

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/salonora/salonora/internal/tenant"
)

// Repository persists branches.
type Repository interface {
	List(ctx context.Context, salon tenant.ID) ([]Branch, error)
	Get(ctx context.Context, salon tenant.ID, id string) (Branch, error)
	Create(ctx context.Context, branch Branch) (Branch, error)
	Update(ctx context.Context, branch Branch) error
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

const branchColumns = `id, salon_id, name, address, phone, email, photo, status, created_at, updated_at`

func scanBranch(row pgx.Row) (Branch, error) {
	var b Branch
	err := row.Scan(&b.ID, &b.SalonID, &b.Name, &b.Address, &b.Phone, &b.Email, &b.Photo, &b.Status, &b.CreatedAt, &b.UpdatedAt)
	return b, err
}

func (r *repository) List(ctx context.Context, salon tenant.ID) ([]Branch, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+branchColumns+` FROM branches WHERE salon_id = $1 ORDER BY name`, salon.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	branches := make([]Branch, 0)
	for rows.Next() {
		b, err := scanBranch(rows)
		if err != nil {
			return nil, err
		}
		branches = append(branches, b)
	}
	return branches, rows.Err()
}

func (r *repository) Get(ctx context.Context, salon tenant.ID, id string) (Branch, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+branchColumns+` FROM branches WHERE salon_id = $1 AND id = $2`, salon.String(), id)
	b, err := scanBranch(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Branch{}, ErrNotFound
		}
		return Branch{}, err
	}
	return b, nil
}

func (r *repository) Create(ctx context.Context, branch Branch) (Branch, error) {
	branch.ID = uuid.NewString()
	row := r.pool.QueryRow(ctx, `
		INSERT INTO branches (id, salon_id, name, address, phone, email, photo, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		RETURNING `+branchColumns,
		branch.ID, branch.SalonID, branch.Name, branch.Address, branch.Phone, branch.Email, branch.Photo, branch.Status,
	)
	return scanBranch(row)
}

func (r *repository) Update(ctx context.Context, branch Branch) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE branches
		SET name = $3, address = $4, phone = $5, email = $6, photo = $7, status = $8, updated_at = NOW()
		WHERE salon_id = $1 AND id = $2`,
		branch.SalonID, branch.ID, branch.Name, branch.Address, branch.Phone, branch.Email, branch.Photo, branch.Status,
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
	tag, err := r.pool.Exec(ctx, `DELETE FROM branches WHERE salon_id = $1 AND id = $2`, salon.String(), id)
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
		`SELECT EXISTS (SELECT 1 FROM branches WHERE salon_id = $1 AND LOWER(name) = LOWER($2) AND id <> $3)`,
		salon.String(), name, excludeID,
	).Scan(&exists)
	return exists, err
}
