package memberships

import (
	"context"
	"strconv"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/salonora/salonora/internal/tenant"
)

type memoryRepo struct {
	items map[string]Membership
	next  int
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{items: make(map[string]Membership)}
}

func (r *memoryRepo) List(_ context.Context, salon tenant.ID) ([]Membership, error) {
	out := make([]Membership, 0)
	for _, m := range r.items {
		if m.SalonID == salon.String() {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *memoryRepo) Get(_ context.Context, salon tenant.ID, id string) (Membership, error) {
	m, ok := r.items[id]
	if !ok || m.SalonID != salon.String() {
		return Membership{}, ErrNotFound
	}
	return m, nil
}

func (r *memoryRepo) Create(_ context.Context, m Membership) (Membership, error) {
	r.next++
	m.ID = "mem-" + strconv.Itoa(r.next)
	r.items[m.ID] = m
	return m, nil
}

func (r *memoryRepo) Update(_ context.Context, m Membership) error {
	if _, ok := r.items[m.ID]; !ok {
		return ErrNotFound
	}
	r.items[m.ID] = m
	return nil
}

func (r *memoryRepo) Delete(_ context.Context, salon tenant.ID, id string) error {
	if _, ok := r.items[id]; !ok {
		return ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *memoryRepo) ExistsByName(_ context.Context, salon tenant.ID, name, excludeID string) (bool, error) {
	for id, m := range r.items {
		if id != excludeID && m.SalonID == salon.String() && m.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func storedGold(t *testing.T, repo *memoryRepo) Membership {
	t.Helper()
	m, err := repo.Create(context.Background(), Membership{
		SalonID:        "salon-1",
		Name:           "Gold Card",
		Discount:       decimal.NewFromInt(10),
		DiscountType:   "percent",
		DurationMonths: 12,
		Status:         1,
	})
	require.NoError(t, err)
	return m
}

func TestDiscountEditKeepsDiscountType(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)
	stored := storedGold(t, repo)

	editor, err := svc.Editor(context.Background(), "salon-1", stored.ID)
	require.NoError(t, err)
	require.Equal(t, "percent", editor.Get("discount_type"))

	editor.Set("discount", "15")
	payload, err := editor.Payload("salon-1")
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), "salon-1", stored.ID, payload)
	require.NoError(t, err)
	require.Equal(t, "percent", updated.DiscountType)
	require.True(t, decimal.NewFromInt(15).Equal(updated.Discount))
}

func TestCreateRejectsPercentOverHundred(t *testing.T) {
	editor := Schema().Open(nil)
	editor.Set("name", "Platinum")
	editor.Set("discount", "150")
	editor.Set("discount_type", "percent")
	editor.Set("duration", "12")

	_, err := editor.Payload("salon-1")
	require.Error(t, err)
}

func TestFixedDiscountMayExceedHundred(t *testing.T) {
	editor := Schema().Open(nil)
	editor.Set("name", "Platinum")
	editor.Set("discount", "500")
	editor.Set("discount_type", "fixed")
	editor.Set("duration", "12")

	payload, err := editor.Payload("salon-1")
	require.NoError(t, err)
	require.Equal(t, "500", payload["discount"])
}

func TestDeleteRequiresTypedName(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)
	stored := storedGold(t, repo)

	err := svc.Delete(context.Background(), "salon-1", stored.ID, "gold")
	require.ErrorIs(t, err, ErrNotConfirmed)

	require.NoError(t, svc.Delete(context.Background(), "salon-1", stored.ID, "Gold Card"))
}
