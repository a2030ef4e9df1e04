package branches

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
	ErrNotFound      = errors.New("branch not found")
	ErrAlreadyExists = errors.New("branch already exists")
	ErrNotConfirmed  = errors.New("delete not confirmed")
)

// Service wraps branch business rules. Branch mutations invalidate the
// cached branch option set that dependent forms select from.
type Service struct {
	repo   Repository
	loader *options.Loader
}

// NewService constructs a new Service.
func NewService(repo Repository, loader *options.Loader) *Service {
	return &Service{repo: repo, loader: loader}
}

// List returns every branch of the salon; filtering happens in the handler
// over this collection.
func (s *Service) List(ctx context.Context, salon tenant.ID) ([]Branch, error) {
	return s.repo.List(ctx, salon)
}

// Get returns one branch.
func (s *Service) Get(ctx context.Context, salon tenant.ID, id string) (Branch, error) {
	return s.repo.Get(ctx, salon, id)
}

// Create persists a new branch from an assembled form payload.
func (s *Service) Create(ctx context.Context, salon tenant.ID, payload map[string]any) (Branch, error) {
	branch := fromPayload(salon, payload)

	exists, err := s.repo.ExistsByName(ctx, salon, branch.Name, "")
	if err != nil {
		return Branch{}, fmt.Errorf("check existing branch: %w", err)
	}
	if exists {
		return Branch{}, fmt.Errorf("%w: %s", ErrAlreadyExists, branch.Name)
	}

	created, err := s.repo.Create(ctx, branch)
	if err != nil {
		return Branch{}, fmt.Errorf("create branch: %w", err)
	}
	s.loader.Invalidate(ctx, salon, "branches")
	return created, nil
}

// Update persists changes to an existing branch.
func (s *Service) Update(ctx context.Context, salon tenant.ID, id string, payload map[string]any) (Branch, error) {
	if _, err := s.repo.Get(ctx, salon, id); err != nil {
		return Branch{}, err
	}

	branch := fromPayload(salon, payload)
	branch.ID = id

	exists, err := s.repo.ExistsByName(ctx, salon, branch.Name, id)
	if err != nil {
		return Branch{}, fmt.Errorf("check existing branch: %w", err)
	}
	if exists {
		return Branch{}, fmt.Errorf("%w: %s", ErrAlreadyExists, branch.Name)
	}

	if err := s.repo.Update(ctx, branch); err != nil {
		return Branch{}, fmt.Errorf("update branch: %w", err)
	}
	s.loader.Invalidate(ctx, salon, "branches")
	return s.repo.Get(ctx, salon, id)
}

// Delete removes a branch once the confirmation matches its name. Without a
// matching confirmation no repository call is made.
func (s *Service) Delete(ctx context.Context, salon tenant.ID, id, confirm string) error {
	branch, err := s.repo.Get(ctx, salon, id)
	if err != nil {
		return err
	}
	if !listing.Confirmed(branch.Name, confirm) {
		return fmt.Errorf("%w: type the branch name to confirm", ErrNotConfirmed)
	}
	if err := s.repo.Delete(ctx, salon, id); err != nil {
		return err
	}
	s.loader.Invalidate(ctx, salon, "branches")
	return nil
}

// Editor opens the branch form, prefilled when id resolves to a record.
func (s *Service) Editor(ctx context.Context, salon tenant.ID, id string) (*formkit.Editor, error) {
	if id == "" {
		return Schema().Open(nil), nil
	}
	branch, err := s.repo.Get(ctx, salon, id)
	if err != nil {
		return nil, err
	}
	return Schema().Open(branch.formValues()), nil
}

func fromPayload(salon tenant.ID, payload map[string]any) Branch {
	str := func(key string) string {
		s, _ := payload[key].(string)
		return s
	}
	status, _ := payload["status"].(int)
	return Branch{
		SalonID: salon.String(),
		Name:    str("name"),
		Address: str("address"),
		Phone:   str("phone"),
		Email:   str("email"),
		Photo:   str("photo"),
		Status:  status,
	}
}
