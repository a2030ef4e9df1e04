package signup

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/salonora/salonora/internal/platform/db"
)

// Repository persists plans and completed signups.
type Repository interface {
	ListPlans(ctx context.Context) ([]Plan, error)
	GetPlan(ctx context.Context, id string) (Plan, error)
	EmailTaken(ctx context.Context, email string) (bool, error)
	CreateAccount(ctx context.Context, reg Registration, plan Plan, passwordHash string) (Account, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a Repository backed by postgres.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) ListPlans(ctx context.Context) ([]Plan, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, price, currency, duration_months, status FROM plans WHERE status = 1 ORDER BY price::numeric`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	plans := make([]Plan, 0)
	for rows.Next() {
		var p Plan
		var price string
		if err := rows.Scan(&p.ID, &p.Name, &price, &p.Currency, &p.DurationMonths, &p.Status); err != nil {
			return nil, err
		}
		if p.Price, err = decimal.NewFromString(price); err != nil {
			return nil, err
		}
		plans = append(plans, p)
	}
	return plans, rows.Err()
}

func (r *repository) GetPlan(ctx context.Context, id string) (Plan, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, name, price, currency, duration_months, status FROM plans WHERE id = $1 AND status = 1`, id,
	)
	var p Plan
	var price string
	err := row.Scan(&p.ID, &p.Name, &price, &p.Currency, &p.DurationMonths, &p.Status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Plan{}, ErrPlanNotFound
		}
		return Plan{}, err
	}
	p.Price, err = decimal.NewFromString(price)
	return p, err
}

func (r *repository) EmailTaken(ctx context.Context, email string) (bool, error) {
	var taken bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM managers WHERE LOWER(email) = LOWER($1))`, email,
	).Scan(&taken)
	return taken, err
}

// CreateAccount writes the salon, its subscription and the owner's manager
// login in one transaction.
func (r *repository) CreateAccount(ctx context.Context, reg Registration, plan Plan, passwordHash string) (Account, error) {
	account := Account{
		SalonID:   uuid.NewString(),
		ManagerID: uuid.NewString(),
		SalonName: reg.SalonName,
		Email:     reg.Email,
		PlanID:    plan.ID,
	}

	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx, `
			INSERT INTO salons (id, name, plan_id, paid_until, created_at, updated_at)
			VALUES ($1, $2, $3, NOW() + make_interval(months => $4), NOW(), NOW())
			RETURNING paid_until`,
			account.SalonID, reg.SalonName, plan.ID, plan.DurationMonths,
		)
		if err := row.Scan(&account.PaidUntil); err != nil {
			return err
		}

		_, err := tx.Exec(ctx, `
			INSERT INTO managers (id, salon_id, branch_id, name, email, phone, commission_percent, password_hash, status, created_at, updated_at)
			VALUES ($1, $2, '', $3, $4, $5, '0', $6, 1, NOW(), NOW())`,
			account.ManagerID, account.SalonID, reg.OwnerName, reg.Email, reg.Phone, passwordHash,
		)
		return err
	})
	if err != nil {
		return Account{}, err
	}
	return account, nil
}
