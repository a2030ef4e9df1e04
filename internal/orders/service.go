package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/salonora/salonora/internal/tenant"
)

var (
	ErrNotFound          = errors.New("order not found")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// Service wraps order business rules.
type Service struct {
	repo Repository
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns every order of the salon, newest first.
func (s *Service) List(ctx context.Context, salon tenant.ID) ([]Order, error) {
	return s.repo.List(ctx, salon)
}

// Get returns one order with its lines.
func (s *Service) Get(ctx context.Context, salon tenant.ID, id string) (Order, error) {
	return s.repo.Get(ctx, salon, id)
}

// Transition moves an order to the target state. Completed and cancelled
// orders are final.
func (s *Service) Transition(ctx context.Context, salon tenant.ID, id, target string) (Order, error) {
	if _, ok := transitions[target]; !ok {
		return Order{}, fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, target)
	}
	o, err := s.repo.Get(ctx, salon, id)
	if err != nil {
		return Order{}, err
	}
	if !o.CanTransition(target) {
		return Order{}, fmt.Errorf("%w: %s to %s", ErrInvalidTransition, o.Status, target)
	}
	if err := s.repo.SetStatus(ctx, salon, id, o.Status, target); err != nil {
		return Order{}, fmt.Errorf("set order status: %w", err)
	}
	return s.repo.Get(ctx, salon, id)
}
