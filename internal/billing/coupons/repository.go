package coupons

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/salonora/salonora/internal/tenant"
)

// Repository persists coupons.
type Repository interface {
	List(ctx context.Context, salon tenant.ID) ([]Coupon, error)
	Get(ctx context.Context, salon tenant.ID, id string) (Coupon, error)
	GetByCode(ctx context.Context, salon tenant.ID, code string) (Coupon, error)
	Create(ctx context.Context, c Coupon) (Coupon, error)
	Update(ctx context.Context, c Coupon) error
	Delete(ctx context.Context, salon tenant.ID, id string) error
	ExistsByCode(ctx context.Context, salon tenant.ID, code, excludeID string) (bool, error)
	IncrementUsed(ctx context.Context, salon tenant.ID, id string) error
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a Repository backed by postgres.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const couponColumns = `id, salon_id, code, discount_type, amount, start_date, end_date, use_limit, used, status, created_at, updated_at`

func scanCoupon(row pgx.Row) (Coupon, error) {
	var c Coupon
	var amount string
	err := row.Scan(&c.ID, &c.SalonID, &c.Code, &c.DiscountType, &amount, &c.StartDate, &c.EndDate, &c.UseLimit, &c.Used, &c.Status, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return Coupon{}, err
	}
	c.Amount, err = decimal.NewFromString(amount)
	return c, err
}

func (r *repository) List(ctx context.Context, salon tenant.ID) ([]Coupon, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+couponColumns+` FROM coupons WHERE salon_id = $1 ORDER BY code`, salon.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	coupons := make([]Coupon, 0)
	for rows.Next() {
		c, err := scanCoupon(rows)
		if err != nil {
			return nil, err
		}
		coupons = append(coupons, c)
	}
	return coupons, rows.Err()
}

func (r *repository) Get(ctx context.Context, salon tenant.ID, id string) (Coupon, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+couponColumns+` FROM coupons WHERE salon_id = $1 AND id = $2`, salon.String(), id)
	c, err := scanCoupon(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Coupon{}, ErrNotFound
		}
		return Coupon{}, err
	}
	return c, nil
}

func (r *repository) GetByCode(ctx context.Context, salon tenant.ID, code string) (Coupon, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+couponColumns+` FROM coupons WHERE salon_id = $1 AND LOWER(code) = LOWER($2)`, salon.String(), code)
	c, err := scanCoupon(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Coupon{}, ErrNotFound
		}
		return Coupon{}, err
	}
	return c, nil
}

func (r *repository) Create(ctx context.Context, c Coupon) (Coupon, error) {
	c.ID = uuid.NewString()
	row := r.pool.QueryRow(ctx, `
		INSERT INTO coupons (id, salon_id, code, discount_type, amount, start_date, end_date, use_limit, used, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 0, $9, NOW(), NOW())
		RETURNING `+couponColumns,
		c.ID, c.SalonID, c.Code, c.DiscountType, c.Amount.String(), c.StartDate, c.EndDate, c.UseLimit, c.Status,
	)
	return scanCoupon(row)
}

func (r *repository) Update(ctx context.Context, c Coupon) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE coupons
		SET code = $3, discount_type = $4, amount = $5, start_date = $6, end_date = $7, use_limit = $8, used = $9, status = $10, updated_at = NOW()
		WHERE salon_id = $1 AND id = $2`,
		c.SalonID, c.ID, c.Code, c.DiscountType, c.Amount.String(), c.StartDate, c.EndDate, c.UseLimit, c.Used, c.Status,
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
	tag, err := r.pool.Exec(ctx, `DELETE FROM coupons WHERE salon_id = $1 AND id = $2`, salon.String(), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) ExistsByCode(ctx context.Context, salon tenant.ID, code, excludeID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM coupons WHERE salon_id = $1 AND LOWER(code) = LOWER($2) AND id <> $3)`,
		salon.String(), code, excludeID,
	).Scan(&exists)
	return exists, err
}

// IncrementUsed bumps the redemption counter, guarded against racing past the
// cap.
func (r *repository) IncrementUsed(ctx context.Context, salon tenant.ID, id string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE coupons SET used = used + 1, updated_at = NOW() WHERE salon_id = $1 AND id = $2 AND used < use_limit`,
		salon.String(), id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotRedeemable
	}
	return nil
}
