package coupons

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/salonora/salonora/internal/formkit"
	"github.com/salonora/salonora/internal/listing"
	"github.com/salonora/salonora/internal/tenant"
)

var (
	ErrNotFound      = errors.New("coupon not found")
	ErrAlreadyExists = errors.New("coupon code already exists")
	ErrNotConfirmed  = errors.New("delete not confirmed")
	ErrNotRedeemable = errors.New("coupon not redeemable")
)

// Service wraps coupon business rules.
type Service struct {
	repo Repository
	now  func() time.Time
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// List returns every coupon of the salon.
func (s *Service) List(ctx context.Context, salon tenant.ID) ([]Coupon, error) {
	return s.repo.List(ctx, salon)
}

// Get returns one coupon.
func (s *Service) Get(ctx context.Context, salon tenant.ID, id string) (Coupon, error) {
	return s.repo.Get(ctx, salon, id)
}

// Editor opens the coupon form, prefilled in edit mode.
func (s *Service) Editor(ctx context.Context, salon tenant.ID, id string) (*formkit.Editor, error) {
	if id == "" {
		return Schema().Open(nil), nil
	}
	c, err := s.repo.Get(ctx, salon, id)
	if err != nil {
		return nil, err
	}
	return Schema().Open(c.formValues()), nil
}

// Create persists a new coupon.
func (s *Service) Create(ctx context.Context, salon tenant.ID, payload map[string]any) (Coupon, error) {
	c, err := fromPayload(salon, payload)
	if err != nil {
		return Coupon{}, err
	}

	exists, err := s.repo.ExistsByCode(ctx, salon, c.Code, "")
	if err != nil {
		return Coupon{}, fmt.Errorf("check existing coupon: %w", err)
	}
	if exists {
		return Coupon{}, fmt.Errorf("%w: %s", ErrAlreadyExists, c.Code)
	}

	created, err := s.repo.Create(ctx, c)
	if err != nil {
		return Coupon{}, fmt.Errorf("create coupon: %w", err)
	}
	return created, nil
}

// Update persists changes to an existing coupon. The redemption counter is
// carried over, never reset by an edit.
func (s *Service) Update(ctx context.Context, salon tenant.ID, id string, payload map[string]any) (Coupon, error) {
	existing, err := s.repo.Get(ctx, salon, id)
	if err != nil {
		return Coupon{}, err
	}
	c, err := fromPayload(salon, payload)
	if err != nil {
		return Coupon{}, err
	}
	c.ID = id
	c.Used = existing.Used
	if err := s.repo.Update(ctx, c); err != nil {
		return Coupon{}, fmt.Errorf("update coupon: %w", err)
	}
	return s.repo.Get(ctx, salon, id)
}

// Delete removes a coupon after code confirmation.
func (s *Service) Delete(ctx context.Context, salon tenant.ID, id, confirm string) error {
	c, err := s.repo.Get(ctx, salon, id)
	if err != nil {
		return err
	}
	if !listing.Confirmed(c.Code, confirm) {
		return fmt.Errorf("%w: type the coupon code to confirm", ErrNotConfirmed)
	}
	return s.repo.Delete(ctx, salon, id)
}

// Redeem applies a coupon by code, bumping its redemption counter. Expired,
// inactive or exhausted coupons are refused.
func (s *Service) Redeem(ctx context.Context, salon tenant.ID, code string) (Coupon, error) {
	c, err := s.repo.GetByCode(ctx, salon, code)
	if err != nil {
		return Coupon{}, err
	}
	if !c.Redeemable(s.now()) {
		return Coupon{}, fmt.Errorf("%w: %s", ErrNotRedeemable, code)
	}
	if err := s.repo.IncrementUsed(ctx, salon, c.ID); err != nil {
		return Coupon{}, fmt.Errorf("redeem coupon: %w", err)
	}
	return s.repo.Get(ctx, salon, c.ID)
}

func fromPayload(salon tenant.ID, payload map[string]any) (Coupon, error) {
	str := func(key string) string {
		s, _ := payload[key].(string)
		return s
	}

	amount, err := decimal.NewFromString(str("amount"))
	if err != nil {
		return Coupon{}, fmt.Errorf("%w: amount must be a number", formkit.ErrBlocked)
	}
	start, err := time.Parse(DateLayout, str("start_date"))
	if err != nil {
		return Coupon{}, fmt.Errorf("%w: start date must be YYYY-MM-DD", formkit.ErrBlocked)
	}
	end, err := time.Parse(DateLayout, str("end_date"))
	if err != nil {
		return Coupon{}, fmt.Errorf("%w: end date must be YYYY-MM-DD", formkit.ErrBlocked)
	}
	limit, err := strconv.Atoi(str("use_limit"))
	if err != nil {
		return Coupon{}, fmt.Errorf("%w: use limit must be a number", formkit.ErrBlocked)
	}

	status, _ := payload["status"].(int)
	return Coupon{
		SalonID:      salon.String(),
		Code:         str("code"),
		DiscountType: str("discount_type"),
		Amount:       amount,
		StartDate:    start,
		EndDate:      end,
		UseLimit:     limit,
		Status:       status,
	}, nil
}
