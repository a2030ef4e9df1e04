package options

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/salonora/salonora/internal/tenant"
)

// PGSource reads option rows straight from the entity tables. Resources not
// listed here are served from the shared admin records table.
type PGSource struct {
	pool *pgxpool.Pool
}

// NewPGSource constructs a PGSource.
func NewPGSource(pool *pgxpool.Pool) *PGSource {
	return &PGSource{pool: pool}
}

// entityQueries maps option resources onto their dedicated tables.
var entityQueries = map[string]string{
	"branches":   `SELECT name, id, status = 1 FROM branches WHERE salon_id = $1 ORDER BY name`,
	"categories": `SELECT name, id, status = 1 FROM categories WHERE salon_id = $1 ORDER BY name`,
	"services":   `SELECT name, id, status = 1 FROM services WHERE salon_id = $1 ORDER BY name`,
	"managers":   `SELECT name, id, status = 1 FROM managers WHERE salon_id = $1 ORDER BY name`,
}

const adminRecordQuery = `SELECT name, id, status = 1 FROM admin_records WHERE salon_id = $1 AND resource = $2 ORDER BY name`

// ListOptions implements Source.
func (s *PGSource) ListOptions(ctx context.Context, salon tenant.ID, resource string) ([]Row, error) {
	query, ok := entityQueries[resource]
	var args []any
	if ok {
		args = []any{salon.String()}
	} else {
		query = adminRecordQuery
		args = []any{salon.String(), resource}
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("options: query %s: %w", resource, err)
	}
	defer rows.Close()

	out := make([]Row, 0)
	for rows.Next() {
		var row Row
		if err := rows.Scan(&row.Label, &row.Value, &row.Active); err != nil {
			return nil, fmt.Errorf("options: scan %s: %w", resource, err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
