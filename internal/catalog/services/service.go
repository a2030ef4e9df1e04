package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/salonora/salonora/internal/formkit"
	"github.com/salonora/salonora/internal/listing"
	"github.com/salonora/salonora/internal/options"
	"github.com/salonora/salonora/internal/tenant"
)

var (
	ErrNotFound      = errors.New("service not found")
	ErrAlreadyExists = errors.New("service already exists")
	ErrNotConfirmed  = errors.New("delete not confirmed")
)

// Manager wraps service-catalog business rules. It owns the dependency chain
// branch → service → category: the form's branch multi-select and category
// select are loaded and cross-referenced here.
type Manager struct {
	repo   Repository
	loader *options.Loader
}

// NewManager constructs a Manager.
func NewManager(repo Repository, loader *options.Loader) *Manager {
	return &Manager{repo: repo, loader: loader}
}

// List returns every service of the salon.
func (m *Manager) List(ctx context.Context, salon tenant.ID) ([]Service, error) {
	return m.repo.List(ctx, salon)
}

// Get returns one service.
func (m *Manager) Get(ctx context.Context, salon tenant.ID, id string) (Service, error) {
	return m.repo.Get(ctx, salon, id)
}

// FormOptions loads the dependent selects for the sidebar when it opens.
func (m *Manager) FormOptions(ctx context.Context, salon tenant.ID) (map[string][]options.OptionRef, error) {
	branches, err := m.loader.Load(ctx, salon, "branches")
	if err != nil {
		return nil, err
	}
	categories, err := m.loader.Load(ctx, salon, "categories")
	if err != nil {
		return nil, err
	}
	return map[string][]options.OptionRef{
		"branches":   branches,
		"categories": categories,
	}, nil
}

// Editor opens the service form. In edit mode stored branch ids are
// cross-referenced against the freshly loaded active branches; stale ids are
// dropped silently.
func (m *Manager) Editor(ctx context.Context, salon tenant.ID, id string) (*formkit.Editor, error) {
	if id == "" {
		return Schema().Open(nil), nil
	}
	svc, err := m.repo.Get(ctx, salon, id)
	if err != nil {
		return nil, err
	}
	branchOpts, err := m.loader.Load(ctx, salon, "branches")
	if err != nil {
		return nil, err
	}
	values := svc.formValues()
	values["branch_id"] = m.loader.Prefill(svc.BranchIDs, branchOpts, "branches")
	return Schema().Open(values), nil
}

// Create persists a new service. A submitted Select All branch selection is
// expanded to every active branch before storage.
func (m *Manager) Create(ctx context.Context, salon tenant.ID, payload map[string]any) (Service, error) {
	svc, err := m.fromPayload(ctx, salon, payload)
	if err != nil {
		return Service{}, err
	}

	exists, err := m.repo.ExistsByName(ctx, salon, svc.Name, "")
	if err != nil {
		return Service{}, fmt.Errorf("check existing service: %w", err)
	}
	if exists {
		return Service{}, fmt.Errorf("%w: %s", ErrAlreadyExists, svc.Name)
	}

	created, err := m.repo.Create(ctx, svc)
	if err != nil {
		return Service{}, fmt.Errorf("create service: %w", err)
	}
	return created, nil
}

// Update persists changes to an existing service.
func (m *Manager) Update(ctx context.Context, salon tenant.ID, id string, payload map[string]any) (Service, error) {
	if _, err := m.repo.Get(ctx, salon, id); err != nil {
		return Service{}, err
	}
	svc, err := m.fromPayload(ctx, salon, payload)
	if err != nil {
		return Service{}, err
	}
	svc.ID = id
	if err := m.repo.Update(ctx, svc); err != nil {
		return Service{}, fmt.Errorf("update service: %w", err)
	}
	return m.repo.Get(ctx, salon, id)
}

// Delete removes a service after name confirmation.
func (m *Manager) Delete(ctx context.Context, salon tenant.ID, id, confirm string) error {
	svc, err := m.repo.Get(ctx, salon, id)
	if err != nil {
		return err
	}
	if !listing.Confirmed(svc.Name, confirm) {
		return fmt.Errorf("%w: type the service name to confirm", ErrNotConfirmed)
	}
	return m.repo.Delete(ctx, salon, id)
}

func (m *Manager) fromPayload(ctx context.Context, salon tenant.ID, payload map[string]any) (Service, error) {
	str := func(key string) string {
		s, _ := payload[key].(string)
		return s
	}

	branchIDs, _ := payload["branch_id"].([]string)
	branchOpts, err := m.loader.Load(ctx, salon, "branches")
	if err != nil {
		return Service{}, err
	}
	branchIDs = options.ExpandSelectAll(branchIDs, branchOpts)

	price, err := decimal.NewFromString(str("price"))
	if err != nil {
		return Service{}, fmt.Errorf("%w: price must be a number", formkit.ErrBlocked)
	}
	duration, err := strconv.Atoi(str("duration"))
	if err != nil {
		return Service{}, fmt.Errorf("%w: duration must be a number", formkit.ErrBlocked)
	}

	status, _ := payload["status"].(int)
	return Service{
		SalonID:         salon.String(),
		Name:            str("name"),
		Price:           price,
		DurationMinutes: duration,
		CategoryID:      str("category_id"),
		BranchIDs:       branchIDs,
		Photo:           str("photo"),
		Status:          status,
	}, nil
}
