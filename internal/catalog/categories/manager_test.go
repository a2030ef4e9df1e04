package categories

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/salonora/salonora/internal/options"
	"github.com/salonora/salonora/internal/tenant"
)

type memoryRepo struct {
	cats map[string]Category
	subs map[string]SubCategory
	next int
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{cats: make(map[string]Category), subs: make(map[string]SubCategory)}
}

func (r *memoryRepo) id() string {
	r.next++
	return "id-" + string(rune('0'+r.next))
}

func (r *memoryRepo) List(_ context.Context, salon tenant.ID) ([]Category, error) {
	out := make([]Category, 0, len(r.cats))
	for _, c := range r.cats {
		if c.SalonID == salon.String() {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *memoryRepo) Get(_ context.Context, salon tenant.ID, id string) (Category, error) {
	c, ok := r.cats[id]
	if !ok || c.SalonID != salon.String() {
		return Category{}, ErrNotFound
	}
	return c, nil
}

func (r *memoryRepo) Create(_ context.Context, cat Category) (Category, error) {
	cat.ID = r.id()
	r.cats[cat.ID] = cat
	return cat, nil
}

func (r *memoryRepo) Update(_ context.Context, cat Category) error {
	if _, ok := r.cats[cat.ID]; !ok {
		return ErrNotFound
	}
	r.cats[cat.ID] = cat
	return nil
}

func (r *memoryRepo) Delete(_ context.Context, salon tenant.ID, id string) error {
	if _, ok := r.cats[id]; !ok {
		return ErrNotFound
	}
	delete(r.cats, id)
	return nil
}

func (r *memoryRepo) ExistsByName(_ context.Context, salon tenant.ID, branchID, name, excludeID string) (bool, error) {
	for id, c := range r.cats {
		if id != excludeID && c.SalonID == salon.String() && c.BranchID == branchID && c.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (r *memoryRepo) CountSubCategories(_ context.Context, salon tenant.ID, categoryID string) (int, error) {
	n := 0
	for _, s := range r.subs {
		if s.SalonID == salon.String() && s.CategoryID == categoryID {
			n++
		}
	}
	return n, nil
}

func (r *memoryRepo) ListSub(_ context.Context, salon tenant.ID) ([]SubCategory, error) {
	out := make([]SubCategory, 0, len(r.subs))
	for _, s := range r.subs {
		if s.SalonID == salon.String() {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *memoryRepo) GetSub(_ context.Context, salon tenant.ID, id string) (SubCategory, error) {
	s, ok := r.subs[id]
	if !ok || s.SalonID != salon.String() {
		return SubCategory{}, ErrNotFound
	}
	return s, nil
}

func (r *memoryRepo) CreateSub(_ context.Context, sub SubCategory) (SubCategory, error) {
	sub.ID = r.id()
	r.subs[sub.ID] = sub
	return sub, nil
}

func (r *memoryRepo) UpdateSub(_ context.Context, sub SubCategory) error {
	if _, ok := r.subs[sub.ID]; !ok {
		return ErrNotFound
	}
	r.subs[sub.ID] = sub
	return nil
}

func (r *memoryRepo) DeleteSub(_ context.Context, salon tenant.ID, id string) error {
	if _, ok := r.subs[id]; !ok {
		return ErrNotFound
	}
	delete(r.subs, id)
	return nil
}

type staticSource struct{}

func (staticSource) ListOptions(_ context.Context, _ tenant.ID, resource string) ([]options.Row, error) {
	return []options.Row{{Label: resource, Value: resource + "-1", Active: true}}, nil
}

func newTestManager(repo Repository) *Manager {
	return NewManager(repo, options.NewLoader(staticSource{}, nil, time.Minute, nil))
}

func TestDeleteRefusedWhileSubcategoriesExist(t *testing.T) {
	repo := newMemoryRepo()
	m := newTestManager(repo)

	cat, err := repo.Create(context.Background(), Category{SalonID: "salon-1", BranchID: "b1", Name: "Hair", Status: 1})
	require.NoError(t, err)
	_, err = repo.CreateSub(context.Background(), SubCategory{SalonID: "salon-1", CategoryID: cat.ID, Name: "Coloring", Status: 1})
	require.NoError(t, err)

	err = m.Delete(context.Background(), "salon-1", cat.ID, "Hair")
	require.ErrorIs(t, err, ErrHasChildren)
	_, err = repo.Get(context.Background(), "salon-1", cat.ID)
	require.NoError(t, err)
}

func TestCreateSubRequiresParent(t *testing.T) {
	repo := newMemoryRepo()
	m := newTestManager(repo)

	_, err := m.CreateSub(context.Background(), "salon-1", map[string]any{
		"name":        "Coloring",
		"category_id": "missing",
		"status":      1,
	})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestCreateRejectsDuplicatePerBranch(t *testing.T) {
	repo := newMemoryRepo()
	m := newTestManager(repo)

	payload := map[string]any{"name": "Hair", "branch_id": "b1", "status": 1}
	_, err := m.Create(context.Background(), "salon-1", payload)
	require.NoError(t, err)

	_, err = m.Create(context.Background(), "salon-1", payload)
	require.ErrorIs(t, err, ErrAlreadyExists)

	other := map[string]any{"name": "Hair", "branch_id": "b2", "status": 1}
	_, err = m.Create(context.Background(), "salon-1", other)
	require.NoError(t, err, "same name under another branch is allowed")
}

func TestEditorPrefillsExistingCategory(t *testing.T) {
	repo := newMemoryRepo()
	m := newTestManager(repo)

	cat, err := repo.Create(context.Background(), Category{SalonID: "salon-1", BranchID: "b1", Name: "Nails", Status: 0})
	require.NoError(t, err)

	editor, err := m.Editor(context.Background(), "salon-1", cat.ID)
	require.NoError(t, err)
	require.True(t, editor.IsEdit())
	require.Equal(t, "Nails", editor.Get("name"))
	require.Equal(t, "b1", editor.Get("branch_id"))
}
