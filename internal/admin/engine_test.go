package admin

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/salonora/salonora/internal/formkit"
	"github.com/salonora/salonora/internal/options"
	"github.com/salonora/salonora/internal/tenant"
)

type memoryRepo struct {
	records map[string]Record
	next    int
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{records: make(map[string]Record)}
}

func (r *memoryRepo) List(_ context.Context, salon tenant.ID, resource string) ([]Record, error) {
	out := make([]Record, 0)
	for _, rec := range r.records {
		if rec.SalonID == salon.String() && rec.Resource == resource {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *memoryRepo) Get(_ context.Context, salon tenant.ID, resource, id string) (Record, error) {
	rec, ok := r.records[id]
	if !ok || rec.SalonID != salon.String() || rec.Resource != resource {
		return Record{}, ErrNotFound
	}
	return rec, nil
}

func (r *memoryRepo) Create(_ context.Context, rec Record) (Record, error) {
	r.next++
	rec.ID = "rec-" + strconv.Itoa(r.next)
	r.records[rec.ID] = rec
	return rec, nil
}

func (r *memoryRepo) Update(_ context.Context, rec Record) error {
	if _, ok := r.records[rec.ID]; !ok {
		return ErrNotFound
	}
	r.records[rec.ID] = rec
	return nil
}

func (r *memoryRepo) Delete(_ context.Context, salon tenant.ID, resource, id string) error {
	if _, ok := r.records[id]; !ok {
		return ErrNotFound
	}
	delete(r.records, id)
	return nil
}

func (r *memoryRepo) ExistsByName(_ context.Context, salon tenant.ID, resource, name, excludeID string) (bool, error) {
	for id, rec := range r.records {
		if id != excludeID && rec.SalonID == salon.String() && rec.Resource == resource && rec.Name == name {
			return true, nil
		}
	}
	return false, nil
}

type branchSource struct{}

func (branchSource) ListOptions(_ context.Context, _ tenant.ID, resource string) ([]options.Row, error) {
	if resource != "branches" {
		return nil, nil
	}
	return []options.Row{
		{Label: "Downtown", Value: "b1", Active: true},
		{Label: "Uptown", Value: "b2", Active: true},
		{Label: "Closed", Value: "b3", Active: false},
	}, nil
}

func newEngine(repo Repository) *Engine {
	return NewEngine(repo, options.NewLoader(branchSource{}, nil, time.Minute, nil))
}

func TestUnknownResourceRejected(t *testing.T) {
	e := newEngine(newMemoryRepo())

	_, err := e.List(context.Background(), "salon-1", "widgets")
	require.ErrorIs(t, err, ErrUnknownKind)
}

func TestTagCreateExpandsSelectAllBranches(t *testing.T) {
	e := newEngine(newMemoryRepo())

	created, err := e.Create(context.Background(), "salon-1", "tags", map[string]any{
		"name":      "Spa Deals",
		"branch_id": []string{options.SelectAll},
		"status":    1,
	})
	require.NoError(t, err)
	require.Equal(t, []string{"b1", "b2"}, created.Attrs["branch_id"], "inactive branches stay out of the expansion")
}

func TestTagEditorDropsStaleBranch(t *testing.T) {
	repo := newMemoryRepo()
	e := newEngine(repo)

	rec, err := repo.Create(context.Background(), Record{
		SalonID:  "salon-1",
		Resource: "tags",
		Name:     "Spa Deals",
		Status:   1,
		Attrs:    map[string]any{"branch_id": []any{"b1", "b3"}},
	})
	require.NoError(t, err)

	editor, err := e.Editor(context.Background(), "salon-1", "tags", rec.ID)
	require.NoError(t, err)
	require.Equal(t, []string{"b1"}, editor.Get("branch_id"))
}

func TestTaxPercentRuleBlocksSubmit(t *testing.T) {
	e := newEngine(newMemoryRepo())

	d, err := e.Descriptor("taxes")
	require.NoError(t, err)

	editor := d.Schema.Open(nil)
	editor.Set("name", "GST")
	editor.Set("percent", "120")
	_, err = editor.Payload("salon-1")
	require.ErrorIs(t, err, formkit.ErrBlocked)

	editor.Set("percent", "18")
	payload, err := editor.Payload("salon-1")
	require.NoError(t, err)
	require.Equal(t, "18", payload["percent"])
}

func TestDuplicateNameScopedToResource(t *testing.T) {
	e := newEngine(newMemoryRepo())

	_, err := e.Create(context.Background(), "salon-1", "brands", map[string]any{"name": "Loreal", "status": 1})
	require.NoError(t, err)

	_, err = e.Create(context.Background(), "salon-1", "brands", map[string]any{"name": "Loreal", "status": 1})
	require.ErrorIs(t, err, ErrAlreadyExists)

	_, err = e.Create(context.Background(), "salon-1", "tags", map[string]any{"name": "Loreal", "branch_id": []string{"b1"}, "status": 1})
	require.NoError(t, err, "other resources may reuse the name")
}

func TestDeleteRequiresTypedName(t *testing.T) {
	repo := newMemoryRepo()
	e := newEngine(repo)

	created, err := e.Create(context.Background(), "salon-1", "brands", map[string]any{"name": "Loreal", "status": 1})
	require.NoError(t, err)

	err = e.Delete(context.Background(), "salon-1", "brands", created.ID, "wrong")
	require.ErrorIs(t, err, ErrNotConfirmed)

	require.NoError(t, e.Delete(context.Background(), "salon-1", "brands", created.ID, "loreal"))
}
