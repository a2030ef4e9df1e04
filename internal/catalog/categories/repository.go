package categories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/salonora/salonora/internal/tenant"
)

// Repository persists categories and their subcategories.
type Repository interface {
	List(ctx context.Context, salon tenant.ID) ([]Category, error)
	Get(ctx context.Context, salon tenant.ID, id string) (Category, error)
	Create(ctx context.Context, cat Category) (Category, error)
	Update(ctx context.Context, cat Category) error
	Delete(ctx context.Context, salon tenant.ID, id string) error
	ExistsByName(ctx context.Context, salon tenant.ID, branchID, name, excludeID string) (bool, error)
	CountSubCategories(ctx context.Context, salon tenant.ID, categoryID string) (int, error)

	ListSub(ctx context.Context, salon tenant.ID) ([]SubCategory, error)
	GetSub(ctx context.Context, salon tenant.ID, id string) (SubCategory, error)
	CreateSub(ctx context.Context, sub SubCategory) (SubCategory, error)
	UpdateSub(ctx context.Context, sub SubCategory) error
	DeleteSub(ctx context.Context, salon tenant.ID, id string) error
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a Repository backed by postgres.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const categoryColumns = `id, salon_id, branch_id, name, photo, status, created_at, updated_at`
const subCategoryColumns = `id, salon_id, category_id, name, status, created_at, updated_at`

func scanCategory(row pgx.Row) (Category, error) {
	var c Category
	err := row.Scan(&c.ID, &c.SalonID, &c.BranchID, &c.Name, &c.Photo, &c.Status, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func scanSubCategory(row pgx.Row) (SubCategory, error) {
	var s SubCategory
	err := row.Scan(&s.ID, &s.SalonID, &s.CategoryID, &s.Name, &s.Status, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

func (r *repository) List(ctx context.Context, salon tenant.ID) ([]Category, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+categoryColumns+` FROM categories WHERE salon_id = $1 ORDER BY name`, salon.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cats := make([]Category, 0)
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

func (r *repository) Get(ctx context.Context, salon tenant.ID, id string) (Category, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+categoryColumns+` FROM categories WHERE salon_id = $1 AND id = $2`, salon.String(), id)
	c, err := scanCategory(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Category{}, ErrNotFound
		}
		return Category{}, err
	}
	return c, nil
}

func (r *repository) Create(ctx context.Context, cat Category) (Category, error) {
	cat.ID = uuid.NewString()
	row := r.pool.QueryRow(ctx, `
		INSERT INTO categories (id, salon_id, branch_id, name, photo, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING `+categoryColumns,
		cat.ID, cat.SalonID, cat.BranchID, cat.Name, cat.Photo, cat.Status,
	)
	return scanCategory(row)
}

func (r *repository) Update(ctx context.Context, cat Category) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE categories
		SET branch_id = $3, name = $4, photo = $5, status = $6, updated_at = NOW()
		WHERE salon_id = $1 AND id = $2`,
		cat.SalonID, cat.ID, cat.BranchID, cat.Name, cat.Photo, cat.Status,
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
	tag, err := r.pool.Exec(ctx, `DELETE FROM categories WHERE salon_id = $1 AND id = $2`, salon.String(), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) ExistsByName(ctx context.Context, salon tenant.ID, branchID, name, excludeID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM categories WHERE salon_id = $1 AND branch_id = $2 AND LOWER(name) = LOWER($3) AND id <> $4)`,
		salon.String(), branchID, name, excludeID,
	).Scan(&exists)
	return exists, err
}

func (r *repository) CountSubCategories(ctx context.Context, salon tenant.ID, categoryID string) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM subcategories WHERE salon_id = $1 AND category_id = $2`,
		salon.String(), categoryID,
	).Scan(&n)
	return n, err
}

func (r *repository) ListSub(ctx context.Context, salon tenant.ID) ([]SubCategory, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+subCategoryColumns+` FROM subcategories WHERE salon_id = $1 ORDER BY name`, salon.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	subs := make([]SubCategory, 0)
	for rows.Next() {
		s, err := scanSubCategory(rows)
		if err != nil {
			return nil, err
		}
		subs = append(subs, s)
	}
	return subs, rows.Err()
}

func (r *repository) GetSub(ctx context.Context, salon tenant.ID, id string) (SubCategory, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+subCategoryColumns+` FROM subcategories WHERE salon_id = $1 AND id = $2`, salon.String(), id)
	s, err := scanSubCategory(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return SubCategory{}, ErrNotFound
		}
		return SubCategory{}, err
	}
	return s, nil
}

func (r *repository) CreateSub(ctx context.Context, sub SubCategory) (SubCategory, error) {
	sub.ID = uuid.NewString()
	row := r.pool.QueryRow(ctx, `
		INSERT INTO subcategories (id, salon_id, category_id, name, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING `+subCategoryColumns,
		sub.ID, sub.SalonID, sub.CategoryID, sub.Name, sub.Status,
	)
	return scanSubCategory(row)
}

func (r *repository) UpdateSub(ctx context.Context, sub SubCategory) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE subcategories
		SET category_id = $3, name = $4, status = $5, updated_at = NOW()
		WHERE salon_id = $1 AND id = $2`,
		sub.SalonID, sub.ID, sub.CategoryID, sub.Name, sub.Status,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) DeleteSub(ctx context.Context, salon tenant.ID, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM subcategories WHERE salon_id = $1 AND id = $2`, salon.String(), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
