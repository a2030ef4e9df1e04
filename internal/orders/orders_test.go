package orders

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/salonora/salonora/internal/tenant"
)

type memoryRepo struct {
	items map[string]Order
}

func newMemoryRepo(orders ...Order) *memoryRepo {
	r := &memoryRepo{items: make(map[string]Order)}
	for _, o := range orders {
		r.items[o.ID] = o
	}
	return r
}

func (r *memoryRepo) List(_ context.Context, salon tenant.ID) ([]Order, error) {
	out := make([]Order, 0)
	for _, o := range r.items {
		if o.SalonID == salon.String() {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *memoryRepo) Get(_ context.Context, salon tenant.ID, id string) (Order, error) {
	o, ok := r.items[id]
	if !ok || o.SalonID != salon.String() {
		return Order{}, ErrNotFound
	}
	return o, nil
}

func (r *memoryRepo) SetStatus(_ context.Context, salon tenant.ID, id, from, to string) error {
	o, ok := r.items[id]
	if !ok || o.Status != from {
		return ErrInvalidTransition
	}
	o.Status = to
	r.items[id] = o
	return nil
}

func placedOrder() Order {
	return Order{
		ID:            "ord-1",
		SalonID:       "salon-1",
		CustomerName:  "Priya",
		CustomerPhone: "9876543210",
		Items:         []Item{{ProductID: "p1", Name: "Shampoo", Quantity: 2, Price: decimal.NewFromInt(250)}},
		Total:         decimal.NewFromInt(500),
		Status:        StatusPlaced,
	}
}

func TestOrderLifecycle(t *testing.T) {
	svc := NewService(newMemoryRepo(placedOrder()))

	o, err := svc.Transition(context.Background(), "salon-1", "ord-1", StatusConfirmed)
	require.NoError(t, err)
	require.Equal(t, StatusConfirmed, o.Status)

	o, err = svc.Transition(context.Background(), "salon-1", "ord-1", StatusCompleted)
	require.NoError(t, err)
	require.Equal(t, StatusCompleted, o.Status)
}

func TestCompletedOrderIsFinal(t *testing.T) {
	order := placedOrder()
	order.Status = StatusCompleted
	svc := NewService(newMemoryRepo(order))

	_, err := svc.Transition(context.Background(), "salon-1", "ord-1", StatusCancelled)
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestPlacedCannotSkipToCompleted(t *testing.T) {
	svc := NewService(newMemoryRepo(placedOrder()))

	_, err := svc.Transition(context.Background(), "salon-1", "ord-1", StatusCompleted)
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestUnknownStatusRejected(t *testing.T) {
	svc := NewService(newMemoryRepo(placedOrder()))

	_, err := svc.Transition(context.Background(), "salon-1", "ord-1", "shipped")
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestCancelFromConfirmed(t *testing.T) {
	order := placedOrder()
	order.Status = StatusConfirmed
	svc := NewService(newMemoryRepo(order))

	o, err := svc.Transition(context.Background(), "salon-1", "ord-1", StatusCancelled)
	require.NoError(t, err)
	require.Equal(t, StatusCancelled, o.Status)
}
