package orders

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/salonora/salonora/internal/tenant"
)

// Repository persists orders.
type Repository interface {
	List(ctx context.Context, salon tenant.ID) ([]Order, error)
	Get(ctx context.Context, salon tenant.ID, id string) (Order, error)
	SetStatus(ctx context.Context, salon tenant.ID, id, from, to string) error
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a Repository backed by postgres.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const orderColumns = `id, salon_id, customer_name, customer_phone, staff_id, items, total, status, created_at, updated_at`

func scanOrder(row pgx.Row) (Order, error) {
	var o Order
	var items []byte
	var total string
	err := row.Scan(&o.ID, &o.SalonID, &o.CustomerName, &o.CustomerPhone, &o.StaffID, &items, &total, &o.Status, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return Order{}, err
	}
	if len(items) > 0 {
		if err := json.Unmarshal(items, &o.Items); err != nil {
			return Order{}, fmt.Errorf("decode order items: %w", err)
		}
	}
	if o.Items == nil {
		o.Items = []Item{}
	}
	o.Total, err = decimal.NewFromString(total)
	return o, err
}

func (r *repository) List(ctx context.Context, salon tenant.ID) ([]Order, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE salon_id = $1 ORDER BY created_at DESC`,
		salon.String(),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (r *repository) Get(ctx context.Context, salon tenant.ID, id string) (Order, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE salon_id = $1 AND id = $2`, salon.String(), id)
	o, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Order{}, ErrNotFound
		}
		return Order{}, err
	}
	return o, nil
}

// SetStatus is compare-and-set on the current status, so two racing
// transitions cannot both win.
func (r *repository) SetStatus(ctx context.Context, salon tenant.ID, id, from, to string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE orders SET status = $4, updated_at = NOW() WHERE salon_id = $1 AND id = $2 AND status = $3`,
		salon.String(), id, from, to,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrInvalidTransition
	}
	return nil
}
