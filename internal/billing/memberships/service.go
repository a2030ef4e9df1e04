package memberships

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/salonora/salonora/internal/formkit"
	"github.com/salonora/salonora/internal/listing"
	"github.com/salonora/salonora/internal/tenant"
)

var (
	ErrNotFound      = errors.New("membership not found")
	ErrAlreadyExists = errors.New("membership already exists")
	ErrNotConfirmed  = errors.New("delete not confirmed")
)

// Service wraps membership business rules.
type Service struct {
	repo Repository
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns every membership of the salon.
func (s *Service) List(ctx context.Context, salon tenant.ID) ([]Membership, error) {
	return s.repo.List(ctx, salon)
}

// Get returns one membership.
func (s *Service) Get(ctx context.Context, salon tenant.ID, id string) (Membership, error) {
	return s.repo.Get(ctx, salon, id)
}

// Editor opens the membership form. In edit mode every field comes back
// prefilled, discount_type included, so an edit that only touches the
// discount amount leaves the type untouched.
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

// Create persists a new membership.
func (s *Service) Create(ctx context.Context, salon tenant.ID, payload map[string]any) (Membership, error) {
	m, err := fromPayload(salon, payload)
	if err != nil {
		return Membership{}, err
	}

	exists, err := s.repo.ExistsByName(ctx, salon, m.Name, "")
	if err != nil {
		return Membership{}, fmt.Errorf("check existing membership: %w", err)
	}
	if exists {
		return Membership{}, fmt.Errorf("%w: %s", ErrAlreadyExists, m.Name)
	}

	created, err := s.repo.Create(ctx, m)
	if err != nil {
		return Membership{}, fmt.Errorf("create membership: %w", err)
	}
	return created, nil
}

// Update persists changes to an existing membership.
func (s *Service) Update(ctx context.Context, salon tenant.ID, id string, payload map[string]any) (Membership, error) {
	if _, err := s.repo.Get(ctx, salon, id); err != nil {
		return Membership{}, err
	}
	m, err := fromPayload(salon, payload)
	if err != nil {
		return Membership{}, err
	}
	m.ID = id
	if err := s.repo.Update(ctx, m); err != nil {
		return Membership{}, fmt.Errorf("update membership: %w", err)
	}
	return s.repo.Get(ctx, salon, id)
}

// Delete removes a membership after name confirmation.
func (s *Service) Delete(ctx context.Context, salon tenant.ID, id, confirm string) error {
	m, err := s.repo.Get(ctx, salon, id)
	if err != nil {
		return err
	}
	if !listing.Confirmed(m.Name, confirm) {
		return fmt.Errorf("%w: type the membership name to confirm", ErrNotConfirmed)
	}
	return s.repo.Delete(ctx, salon, id)
}

func fromPayload(salon tenant.ID, payload map[string]any) (Membership, error) {
	str := func(key string) string {
		s, _ := payload[key].(string)
		return s
	}

	discount, err := decimal.NewFromString(str("discount"))
	if err != nil {
		return Membership{}, fmt.Errorf("%w: discount must be a number", formkit.ErrBlocked)
	}
	months, err := strconv.Atoi(str("duration"))
	if err != nil {
		return Membership{}, fmt.Errorf("%w: duration must be a number", formkit.ErrBlocked)
	}

	status, _ := payload["status"].(int)
	return Membership{
		SalonID:        salon.String(),
		Name:           str("name"),
		Discount:       discount,
		DiscountType:   str("discount_type"),
		DurationMonths: months,
		Status:         status,
	}, nil
}
