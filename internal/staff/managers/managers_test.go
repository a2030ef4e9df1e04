package managers

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/salonora/salonora/internal/options"
	"github.com/salonora/salonora/internal/tenant"
)

type memoryRepo struct {
	items map[string]Manager
	next  int
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{items: make(map[string]Manager)}
}

func (r *memoryRepo) List(_ context.Context, salon tenant.ID) ([]Manager, error) {
	out := make([]Manager, 0)
	for _, m := range r.items {
		if m.SalonID == salon.String() {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *memoryRepo) Get(_ context.Context, salon tenant.ID, id string) (Manager, error) {
	m, ok := r.items[id]
	if !ok || m.SalonID != salon.String() {
		return Manager{}, ErrNotFound
	}
	return m, nil
}

func (r *memoryRepo) Create(_ context.Context, m Manager) (Manager, error) {
	r.next++
	m.ID = "mgr-" + strconv.Itoa(r.next)
	r.items[m.ID] = m
	return m, nil
}

func (r *memoryRepo) Update(_ context.Context, m Manager) error {
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

func (r *memoryRepo) ExistsByEmail(_ context.Context, salon tenant.ID, email, excludeID string) (bool, error) {
	for id, m := range r.items {
		if id != excludeID && m.SalonID == salon.String() && m.Email == email {
			return true, nil
		}
	}
	return false, nil
}

type branchSource struct{}

func (branchSource) ListOptions(_ context.Context, _ tenant.ID, resource string) ([]options.Row, error) {
	if resource == "branches" {
		return []options.Row{{Label: "Downtown", Value: "b1", Active: true}}, nil
	}
	return nil, nil
}

func newService(repo Repository) *Service {
	return NewService(repo, options.NewLoader(branchSource{}, nil, time.Minute, nil))
}

func validPayload() map[string]any {
	return map[string]any{
		"name":       "Asha Rao",
		"email":      "asha@example.com",
		"phone":      "9876543210",
		"branch_id":  "b1",
		"commission": "15",
		"password":   "supersecret",
		"status":     1,
	}
}

func TestCreateHashesPassword(t *testing.T) {
	repo := newMemoryRepo()
	svc := newService(repo)

	created, err := svc.Create(context.Background(), "salon-1", validPayload())
	require.NoError(t, err)
	require.NotEqual(t, "supersecret", created.PasswordHash)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte("supersecret")))
}

func TestEditWithoutPasswordKeepsHash(t *testing.T) {
	repo := newMemoryRepo()
	svc := newService(repo)

	created, err := svc.Create(context.Background(), "salon-1", validPayload())
	require.NoError(t, err)

	editor, err := svc.Editor(context.Background(), "salon-1", created.ID)
	require.NoError(t, err)
	require.Equal(t, "", editor.Get("password"), "password never prefills")

	editor.Set("phone", "9123456780")
	payload, err := editor.Payload("salon-1")
	require.NoError(t, err, "blank password is allowed while editing")
	require.NotContains(t, payload, "password")

	updated, err := svc.Update(context.Background(), "salon-1", created.ID, payload)
	require.NoError(t, err)
	require.Equal(t, created.PasswordHash, updated.PasswordHash)
	require.Equal(t, "9123456780", updated.Phone)
}

func TestEditWithNewPasswordRehashes(t *testing.T) {
	repo := newMemoryRepo()
	svc := newService(repo)

	created, err := svc.Create(context.Background(), "salon-1", validPayload())
	require.NoError(t, err)

	payload := validPayload()
	payload["password"] = "freshsecret99"

	updated, err := svc.Update(context.Background(), "salon-1", created.ID, payload)
	require.NoError(t, err)
	require.NotEqual(t, created.PasswordHash, updated.PasswordHash)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(updated.PasswordHash), []byte("freshsecret99")))
}

func TestShortPasswordBlocksCreateForm(t *testing.T) {
	editor := Schema().Open(nil)
	editor.Set("name", "Asha Rao")
	editor.Set("email", "asha@example.com")
	editor.Set("phone", "9876543210")
	editor.Set("branch_id", "b1")
	editor.Set("commission", "15")
	editor.Set("password", "short")
	editor.Set("confirm_password", "short")

	_, err := editor.Payload("salon-1")
	require.Error(t, err)
	require.Contains(t, editor.Errors(), "password")
}

func TestConfirmPasswordRecheckedOnChange(t *testing.T) {
	editor := Schema().Open(nil)
	editor.Set("password", "supersecret")
	editor.Set("confirm_password", "supersecret")
	require.NotContains(t, editor.Errors(), "confirm_password")

	editor.Set("password", "differentsecret")
	require.Contains(t, editor.Errors(), "confirm_password")
}

func TestDuplicateEmailRejected(t *testing.T) {
	repo := newMemoryRepo()
	svc := newService(repo)

	_, err := svc.Create(context.Background(), "salon-1", validPayload())
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), "salon-1", validPayload())
	require.ErrorIs(t, err, ErrAlreadyExists)
}

func TestCommissionBoundsEnforced(t *testing.T) {
	editor := Schema().Open(nil)
	editor.Set("name", "Asha Rao")
	editor.Set("email", "asha@example.com")
	editor.Set("phone", "9876543210")
	editor.Set("branch_id", "b1")
	editor.Set("commission", "150")
	editor.Set("password", "supersecret")
	editor.Set("confirm_password", "supersecret")

	_, err := editor.Payload("salon-1")
	require.Error(t, err)

	editor.Set("commission", "15")
	payload, err := editor.Payload("salon-1")
	require.NoError(t, err)
	require.Equal(t, "15", payload["commission"])
}
