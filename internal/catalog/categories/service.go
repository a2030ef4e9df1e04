package categories

import (
	"context"
	"errors"
	"fmt"

	"github.com/salonora/salonora/internal/formkit"
	"github.com/salonora/salonora/internal/listing"
	"github.com/salonora/salonora/internal/options"
	"github.com/salonora/salonora/internal/tenant"
)

var (
	ErrNotFound      = errors.New("category not found")
	ErrAlreadyExists = errors.New("category already exists")
	ErrNotConfirmed  = errors.New("delete not confirmed")
	ErrHasChildren   = errors.New("category still has subcategories")
)

// Manager wraps category and subcategory business rules.
type Manager struct {
	repo   Repository
	loader *options.Loader
}

// NewManager constructs a Manager.
func NewManager(repo Repository, loader *options.Loader) *Manager {
	return &Manager{repo: repo, loader: loader}
}

// List returns every category of the salon.
func (m *Manager) List(ctx context.Context, salon tenant.ID) ([]Category, error) {
	return m.repo.List(ctx, salon)
}

// Get returns one category.
func (m *Manager) Get(ctx context.Context, salon tenant.ID, id string) (Category, error) {
	return m.repo.Get(ctx, salon, id)
}

// FormOptions loads the branch select for the category form.
func (m *Manager) FormOptions(ctx context.Context, salon tenant.ID) (map[string][]options.OptionRef, error) {
	branches, err := m.loader.Load(ctx, salon, "branches")
	if err != nil {
		return nil, err
	}
	return map[string][]options.OptionRef{"branches": branches}, nil
}

// Editor opens the category form, prefilled in edit mode.
func (m *Manager) Editor(ctx context.Context, salon tenant.ID, id string) (*formkit.Editor, error) {
	if id == "" {
		return CategorySchema().Open(nil), nil
	}
	cat, err := m.repo.Get(ctx, salon, id)
	if err != nil {
		return nil, err
	}
	return CategorySchema().Open(cat.formValues()), nil
}

// Create persists a new category.
func (m *Manager) Create(ctx context.Context, salon tenant.ID, payload map[string]any) (Category, error) {
	cat := fromPayload(salon, payload)

	exists, err := m.repo.ExistsByName(ctx, salon, cat.BranchID, cat.Name, "")
	if err != nil {
		return Category{}, fmt.Errorf("check existing category: %w", err)
	}
	if exists {
		return Category{}, fmt.Errorf("%w: %s", ErrAlreadyExists, cat.Name)
	}

	created, err := m.repo.Create(ctx, cat)
	if err != nil {
		return Category{}, fmt.Errorf("create category: %w", err)
	}
	m.loader.Invalidate(ctx, salon, "categories")
	return created, nil
}

// Update persists changes to an existing category.
func (m *Manager) Update(ctx context.Context, salon tenant.ID, id string, payload map[string]any) (Category, error) {
	if _, err := m.repo.Get(ctx, salon, id); err != nil {
		return Category{}, err
	}
	cat := fromPayload(salon, payload)
	cat.ID = id
	if err := m.repo.Update(ctx, cat); err != nil {
		return Category{}, fmt.Errorf("update category: %w", err)
	}
	m.loader.Invalidate(ctx, salon, "categories")
	return m.repo.Get(ctx, salon, id)
}

// Delete removes a category after name confirmation. Categories that still
// have subcategories are refused.
func (m *Manager) Delete(ctx context.Context, salon tenant.ID, id, confirm string) error {
	cat, err := m.repo.Get(ctx, salon, id)
	if err != nil {
		return err
	}
	if !listing.Confirmed(cat.Name, confirm) {
		return fmt.Errorf("%w: type the category name to confirm", ErrNotConfirmed)
	}
	children, err := m.repo.CountSubCategories(ctx, salon, id)
	if err != nil {
		return err
	}
	if children > 0 {
		return fmt.Errorf("%w: %s", ErrHasChildren, cat.Name)
	}
	if err := m.repo.Delete(ctx, salon, id); err != nil {
		return err
	}
	m.loader.Invalidate(ctx, salon, "categories")
	return nil
}

// ListSub returns every subcategory of the salon.
func (m *Manager) ListSub(ctx context.Context, salon tenant.ID) ([]SubCategory, error) {
	return m.repo.ListSub(ctx, salon)
}

// GetSub returns one subcategory.
func (m *Manager) GetSub(ctx context.Context, salon tenant.ID, id string) (SubCategory, error) {
	return m.repo.GetSub(ctx, salon, id)
}

// SubFormOptions loads the parent-category select for the subcategory form.
func (m *Manager) SubFormOptions(ctx context.Context, salon tenant.ID) (map[string][]options.OptionRef, error) {
	cats, err := m.loader.Load(ctx, salon, "categories")
	if err != nil {
		return nil, err
	}
	return map[string][]options.OptionRef{"categories": cats}, nil
}

// SubEditor opens the subcategory form, prefilled in edit mode.
func (m *Manager) SubEditor(ctx context.Context, salon tenant.ID, id string) (*formkit.Editor, error) {
	if id == "" {
		return SubCategorySchema().Open(nil), nil
	}
	sub, err := m.repo.GetSub(ctx, salon, id)
	if err != nil {
		return nil, err
	}
	return SubCategorySchema().Open(sub.formValues()), nil
}

// CreateSub persists a new subcategory. The parent category must exist.
func (m *Manager) CreateSub(ctx context.Context, salon tenant.ID, payload map[string]any) (SubCategory, error) {
	sub := subFromPayload(salon, payload)

	if _, err := m.repo.Get(ctx, salon, sub.CategoryID); err != nil {
		return SubCategory{}, fmt.Errorf("parent category: %w", err)
	}

	created, err := m.repo.CreateSub(ctx, sub)
	if err != nil {
		return SubCategory{}, fmt.Errorf("create subcategory: %w", err)
	}
	return created, nil
}

// UpdateSub persists changes to an existing subcategory.
func (m *Manager) UpdateSub(ctx context.Context, salon tenant.ID, id string, payload map[string]any) (SubCategory, error) {
	if _, err := m.repo.GetSub(ctx, salon, id); err != nil {
		return SubCategory{}, err
	}
	sub := subFromPayload(salon, payload)
	sub.ID = id
	if _, err := m.repo.Get(ctx, salon, sub.CategoryID); err != nil {
		return SubCategory{}, fmt.Errorf("parent category: %w", err)
	}
	if err := m.repo.UpdateSub(ctx, sub); err != nil {
		return SubCategory{}, fmt.Errorf("update subcategory: %w", err)
	}
	return m.repo.GetSub(ctx, salon, id)
}

// DeleteSub removes a subcategory after name confirmation.
func (m *Manager) DeleteSub(ctx context.Context, salon tenant.ID, id, confirm string) error {
	sub, err := m.repo.GetSub(ctx, salon, id)
	if err != nil {
		return err
	}
	if !listing.Confirmed(sub.Name, confirm) {
		return fmt.Errorf("%w: type the subcategory name to confirm", ErrNotConfirmed)
	}
	return m.repo.DeleteSub(ctx, salon, id)
}

func fromPayload(salon tenant.ID, payload map[string]any) Category {
	str := func(key string) string {
		s, _ := payload[key].(string)
		return s
	}
	status, _ := payload["status"].(int)
	return Category{
		SalonID:  salon.String(),
		BranchID: str("branch_id"),
		Name:     str("name"),
		Photo:    str("photo"),
		Status:   status,
	}
}

func subFromPayload(salon tenant.ID, payload map[string]any) SubCategory {
	str := func(key string) string {
		s, _ := payload[key].(string)
		return s
	}
	status, _ := payload["status"].(int)
	return SubCategory{
		SalonID:    salon.String(),
		CategoryID: str("category_id"),
		Name:       str("name"),
		Status:     status,
	}
}
