package payouts

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/salonora/salonora/internal/tenant"
)

// Repository persists payouts and aggregates the sales they derive from.
type Repository interface {
	List(ctx context.Context, salon tenant.ID) ([]Payout, error)
	Get(ctx context.Context, salon tenant.ID, id string) (Payout, error)
	Create(ctx context.Context, p Payout) (Payout, error)
	MarkPaid(ctx context.Context, salon tenant.ID, id string, paidAt time.Time) error
	SalesByStaff(ctx context.Context, salon tenant.ID, start, end time.Time) ([]StaffSales, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a Repository backed by postgres.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const payoutColumns = `id, salon_id, staff_id, staff_name, period_start, period_end, total_sales, commission_percent, amount, status, paid_at, created_at, updated_at`

func scanPayout(row pgx.Row) (Payout, error) {
	var p Payout
	var total, percent, amount string
	err := row.Scan(&p.ID, &p.SalonID, &p.StaffID, &p.StaffName, &p.PeriodStart, &p.PeriodEnd, &total, &percent, &amount, &p.Status, &p.PaidAt, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return Payout{}, err
	}
	if p.TotalSales, err = decimal.NewFromString(total); err != nil {
		return Payout{}, err
	}
	if p.CommissionPercent, err = decimal.NewFromString(percent); err != nil {
		return Payout{}, err
	}
	p.Amount, err = decimal.NewFromString(amount)
	return p, err
}

func (r *repository) List(ctx context.Context, salon tenant.ID) ([]Payout, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+payoutColumns+` FROM payouts WHERE salon_id = $1 ORDER BY period_start DESC, staff_name`,
		salon.String(),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	payouts := make([]Payout, 0)
	for rows.Next() {
		p, err := scanPayout(rows)
		if err != nil {
			return nil, err
		}
		payouts = append(payouts, p)
	}
	return payouts, rows.Err()
}

func (r *repository) Get(ctx context.Context, salon tenant.ID, id string) (Payout, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+payoutColumns+` FROM payouts WHERE salon_id = $1 AND id = $2`, salon.String(), id)
	p, err := scanPayout(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Payout{}, ErrNotFound
		}
		return Payout{}, err
	}
	return p, nil
}

func (r *repository) Create(ctx context.Context, p Payout) (Payout, error) {
	p.ID = uuid.NewString()
	row := r.pool.QueryRow(ctx, `
		INSERT INTO payouts (id, salon_id, staff_id, staff_name, period_start, period_end, total_sales, commission_percent, amount, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
		RETURNING `+payoutColumns,
		p.ID, p.SalonID, p.StaffID, p.StaffName, p.PeriodStart, p.PeriodEnd,
		p.TotalSales.String(), p.CommissionPercent.String(), p.Amount.String(), p.Status,
	)
	return scanPayout(row)
}

func (r *repository) MarkPaid(ctx context.Context, salon tenant.ID, id string, paidAt time.Time) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE payouts SET status = $3, paid_at = $4, updated_at = NOW() WHERE salon_id = $1 AND id = $2 AND status = $5`,
		salon.String(), id, StatusPaid, paidAt, StatusPending,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrAlreadyPaid
	}
	return nil
}

// SalesByStaff totals completed order lines per staff member and joins the
// staff member's commission percent.
func (r *repository) SalesByStaff(ctx context.Context, salon tenant.ID, start, end time.Time) ([]StaffSales, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT m.id, m.name, COALESCE(SUM(o.total::numeric), 0)::text, COALESCE(m.commission_percent, '0')
		FROM managers m
		LEFT JOIN orders o
			ON o.staff_id = m.id
			AND o.salon_id = m.salon_id
			AND o.status = 'completed'
			AND o.created_at >= $2
			AND o.created_at < $3
		WHERE m.salon_id = $1
		GROUP BY m.id, m.name, m.commission_percent
		ORDER BY m.name`,
		salon.String(), start, end,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sales := make([]StaffSales, 0)
	for rows.Next() {
		var s StaffSales
		var total, percent string
		if err := rows.Scan(&s.StaffID, &s.StaffName, &total, &percent); err != nil {
			return nil, err
		}
		if s.Total, err = decimal.NewFromString(total); err != nil {
			return nil, err
		}
		if s.CommissionPercent, err = decimal.NewFromString(percent); err != nil {
			return nil, err
		}
		sales = append(sales, s)
	}
	return sales, rows.Err()
}
