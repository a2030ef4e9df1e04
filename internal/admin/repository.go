package admin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/salonora/salonora/internal/tenant"
)

// Repository persists admin records. All resources share one table; the
// resource slug partitions it.
type Repository interface {
	List(ctx context.Context, salon tenant.ID, resource string) ([]Record, error)
	Get(ctx context.Context, salon tenant.ID, resource, id string) (Record, error)
	Create(ctx context.Context, rec Record) (Record, error)
	Update(ctx context.Context, rec Record) error
	Delete(ctx context.Context, salon tenant.ID, resource, id string) error
	ExistsByName(ctx context.Context, salon tenant.ID, resource, name, excludeID string) (bool, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a Repository backed by postgres.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const recordColumns = `id, salon_id, resource, name, status, attrs, created_at, updated_at`

func scanRecord(row pgx.Row) (Record, error) {
	var rec Record
	var attrs []byte
	err := row.Scan(&rec.ID, &rec.SalonID, &rec.Resource, &rec.Name, &rec.Status, &attrs, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return Record{}, err
	}
	if len(attrs) > 0 {
		if err := json.Unmarshal(attrs, &rec.Attrs); err != nil {
			return Record{}, fmt.Errorf("decode record attrs: %w", err)
		}
	}
	if rec.Attrs == nil {
		rec.Attrs = map[string]any{}
	}
	return rec, nil
}

func (r *repository) List(ctx context.Context, salon tenant.ID, resource string) ([]Record, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+recordColumns+` FROM admin_records WHERE salon_id = $1 AND resource = $2 ORDER BY name`,
		salon.String(), resource,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]Record, 0)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (r *repository) Get(ctx context.Context, salon tenant.ID, resource, id string) (Record, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+recordColumns+` FROM admin_records WHERE salon_id = $1 AND resource = $2 AND id = $3`,
		salon.String(), resource, id,
	)
	rec, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Record{}, ErrNotFound
		}
		return Record{}, err
	}
	return rec, nil
}

func (r *repository) Create(ctx context.Context, rec Record) (Record, error) {
	rec.ID = uuid.NewString()
	attrs, err := json.Marshal(rec.Attrs)
	if err != nil {
		return Record{}, fmt.Errorf("encode record attrs: %w", err)
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO admin_records (id, salon_id, resource, name, status, attrs, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING `+recordColumns,
		rec.ID, rec.SalonID, rec.Resource, rec.Name, rec.Status, attrs,
	)
	return scanRecord(row)
}

func (r *repository) Update(ctx context.Context, rec Record) error {
	attrs, err := json.Marshal(rec.Attrs)
	if err != nil {
		return fmt.Errorf("encode record attrs: %w", err)
	}
	tag, err := r.pool.Exec(ctx, `
		UPDATE admin_records
		SET name = $4, status = $5, attrs = $6, updated_at = NOW()
		WHERE salon_id = $1 AND resource = $2 AND id = $3`,
		rec.SalonID, rec.Resource, rec.ID, rec.Name, rec.Status, attrs,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, salon tenant.ID, resource, id string) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM admin_records WHERE salon_id = $1 AND resource = $2 AND id = $3`,
		salon.String(), resource, id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) ExistsByName(ctx context.Context, salon tenant.ID, resource, name, excludeID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM admin_records WHERE salon_id = $1 AND resource = $2 AND LOWER(name) = LOWER($3) AND id <> $4)`,
		salon.String(), resource, name, excludeID,
	).Scan(&exists)
	return exists, err
}
