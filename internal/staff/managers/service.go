package managers

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/salonora/salonora/internal/formkit"
	"github.com/salonora/salonora/internal/listing"
	"github.com/salonora/salonora/internal/options"
	"github.com/salonora/salonora/internal/tenant"
)

var (
	ErrNotFound      = errors.New("manager not found")
	ErrAlreadyExists = errors.New("manager email already in use")
	ErrNotConfirmed  = errors.New("delete not confirmed")
)

// Service wraps staff account business rules.
type Service struct {
	repo   Repository
	loader *options.Loader
}

// NewService constructs a Service.
func NewService(repo Repository, loader *options.Loader) *Service {
	return &Service{repo: repo, loader: loader}
}

// List returns every manager of the salon.
func (s *Service) List(ctx context.Context, salon tenant.ID) ([]Manager, error) {
	return s.repo.List(ctx, salon)
}

// Get returns one manager.
func (s *Service) Get(ctx context.Context, salon tenant.ID, id string) (Manager, error) {
	return s.repo.Get(ctx, salon, id)
}

// FormOptions loads the branch select for the manager form.
func (s *Service) FormOptions(ctx context.Context, salon tenant.ID) (map[string][]options.OptionRef, error) {
	branches, err := s.loader.Load(ctx, salon, "branches")
	if err != nil {
		return nil, err
	}
	return map[string][]options.OptionRef{"branches": branches}, nil
}

// Editor opens the manager form. Password fields stay blank in edit mode.
func (s *Service) Editor(ctx context.Context, salon tenant.ID, id string) (*formkit.Editor, error) {
	if id == "" {
		return Schema().Open(nil), nil
	}
	m, err := s.repo.Get(ctx, salon, id)
	if err != nil {
		return nil, err
	}
	return Schema().Open(m.formValues()), nil
}

// Create persists a new manager with a freshly hashed password.
func (s *Service) Create(ctx context.Context, salon tenant.ID, payload map[string]any) (Manager, error) {
	m, password, err := fromPayload(salon, payload)
	if err != nil {
		return Manager{}, err
	}
	if password == "" {
		return Manager{}, fmt.Errorf("%w: password is required", formkit.ErrBlocked)
	}

	exists, err := s.repo.ExistsByEmail(ctx, salon, m.Email, "")
	if err != nil {
		return Manager{}, fmt.Errorf("check existing manager: %w", err)
	}
	if exists {
		return Manager{}, fmt.Errorf("%w: %s", ErrAlreadyExists, m.Email)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return Manager{}, fmt.Errorf("hash password: %w", err)
	}
	m.PasswordHash = string(hash)

	created, err := s.repo.Create(ctx, m)
	if err != nil {
		return Manager{}, fmt.Errorf("create manager: %w", err)
	}
	return created, nil
}

// Update persists changes to an existing manager. An absent password keeps
// the stored hash.
func (s *Service) Update(ctx context.Context, salon tenant.ID, id string, payload map[string]any) (Manager, error) {
	existing, err := s.repo.Get(ctx, salon, id)
	if err != nil {
		return Manager{}, err
	}
	m, password, err := fromPayload(salon, payload)
	if err != nil {
		return Manager{}, err
	}
	m.ID = id

	exists, err := s.repo.ExistsByEmail(ctx, salon, m.Email, id)
	if err != nil {
		return Manager{}, fmt.Errorf("check existing manager: %w", err)
	}
	if exists {
		return Manager{}, fmt.Errorf("%w: %s", ErrAlreadyExists, m.Email)
	}

	if password == "" {
		m.PasswordHash = existing.PasswordHash
	} else {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return Manager{}, fmt.Errorf("hash password: %w", err)
		}
		m.PasswordHash = string(hash)
	}

	if err := s.repo.Update(ctx, m); err != nil {
		return Manager{}, fmt.Errorf("update manager: %w", err)
	}
	return s.repo.Get(ctx, salon, id)
}

// Delete removes a manager after name confirmation.
func (s *Service) Delete(ctx context.Context, salon tenant.ID, id, confirm string) error {
	m, err := s.repo.Get(ctx, salon, id)
	if err != nil {
		return err
	}
	if !listing.Confirmed(m.Name, confirm) {
		return fmt.Errorf("%w: type the manager name to confirm", ErrNotConfirmed)
	}
	return s.repo.Delete(ctx, salon, id)
}

func fromPayload(salon tenant.ID, payload map[string]any) (Manager, string, error) {
	str := func(key string) string {
		s, _ := payload[key].(string)
		return s
	}

	commission, err := decimal.NewFromString(str("commission"))
	if err != nil {
		return Manager{}, "", fmt.Errorf("%w: commission must be a number", formkit.ErrBlocked)
	}

	status, _ := payload["status"].(int)
	m := Manager{
		SalonID:           salon.String(),
		BranchID:          str("branch_id"),
		Name:              str("name"),
		Email:             str("email"),
		Phone:             str("phone"),
		CommissionPercent: commission,
		Status:            status,
	}
	return m, str("password"), nil
}
