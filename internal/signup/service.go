package signup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/salonora/salonora/internal/validate"
	"github.com/salonora/salonora/jobs"
)

var (
	ErrPlanNotFound   = errors.New("plan not found")
	ErrEmailTaken     = errors.New("email already registered")
	ErrPaymentInvalid = errors.New("payment verification failed")
	ErrInvalidForm    = errors.New("signup form invalid")
)

// Enqueuer hands follow-up work to the background queue.
type Enqueuer interface {
	EnqueueWelcomeEmail(ctx context.Context, payload jobs.WelcomeEmailPayload) error
}

// Service runs the signup flow: plan selection, gateway checkout, then
// account creation once the payment proof checks out. An abandoned checkout
// never touches storage.
type Service struct {
	logger   *slog.Logger
	repo     Repository
	gateway  Gateway
	enqueuer Enqueuer
}

// NewService constructs a Service.
func NewService(logger *slog.Logger, repo Repository, gateway Gateway, enqueuer Enqueuer) *Service {
	return &Service{logger: logger, repo: repo, gateway: gateway, enqueuer: enqueuer}
}

// Plans returns the active subscription tiers.
func (s *Service) Plans(ctx context.Context) ([]Plan, error) {
	return s.repo.ListPlans(ctx)
}

// Checkout opens a gateway order for the chosen plan. Nothing is persisted:
// walking away here leaves no trace.
func (s *Service) Checkout(ctx context.Context, planID, email string) (GatewayOrder, error) {
	if res := validate.Email(email); !res.Valid {
		return GatewayOrder{}, fmt.Errorf("%w: %s", ErrInvalidForm, res.Message)
	}
	plan, err := s.repo.GetPlan(ctx, planID)
	if err != nil {
		return GatewayOrder{}, err
	}

	taken, err := s.repo.EmailTaken(ctx, email)
	if err != nil {
		return GatewayOrder{}, fmt.Errorf("check email: %w", err)
	}
	if taken {
		return GatewayOrder{}, fmt.Errorf("%w: %s", ErrEmailTaken, email)
	}

	order, err := s.gateway.CreateOrder(ctx, plan.Price, plan.Currency, "signup:"+planID)
	if err != nil {
		return GatewayOrder{}, err
	}
	s.logger.Info("signup checkout opened", "plan", planID, "order", order.OrderID)
	return order, nil
}

// Complete verifies the payment proof and creates the salon with its owner
// account in one transaction. A bad signature persists nothing.
func (s *Service) Complete(ctx context.Context, reg Registration) (Account, error) {
	if err := validateRegistration(reg); err != nil {
		return Account{}, err
	}
	if !s.gateway.VerifySignature(reg.OrderID, reg.PaymentID, reg.Signature) {
		return Account{}, fmt.Errorf("%w: signature mismatch for order %s", ErrPaymentInvalid, reg.OrderID)
	}

	plan, err := s.repo.GetPlan(ctx, reg.PlanID)
	if err != nil {
		return Account{}, err
	}

	taken, err := s.repo.EmailTaken(ctx, reg.Email)
	if err != nil {
		return Account{}, fmt.Errorf("check email: %w", err)
	}
	if taken {
		return Account{}, fmt.Errorf("%w: %s", ErrEmailTaken, reg.Email)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(reg.Password), bcrypt.DefaultCost)
	if err != nil {
		return Account{}, fmt.Errorf("hash password: %w", err)
	}

	account, err := s.repo.CreateAccount(ctx, reg, plan, string(hash))
	if err != nil {
		return Account{}, fmt.Errorf("create account: %w", err)
	}

	if err := s.enqueuer.EnqueueWelcomeEmail(ctx, jobs.WelcomeEmailPayload{
		To:        reg.Email,
		OwnerName: reg.OwnerName,
		SalonName: reg.SalonName,
		PlanName:  plan.Name,
	}); err != nil {
		// The account exists; a lost email is not worth failing the signup.
		s.logger.Warn("welcome email enqueue failed", "email", reg.Email, "error", err)
	}

	s.logger.Info("signup completed", "salon", account.SalonID, "plan", plan.ID)
	return account, nil
}

func validateRegistration(reg Registration) error {
	if res := validate.Required(reg.SalonName); !res.Valid {
		return fmt.Errorf("%w: salon name is required", ErrInvalidForm)
	}
	if res := validate.Required(reg.OwnerName); !res.Valid {
		return fmt.Errorf("%w: owner name is required", ErrInvalidForm)
	}
	if res := validate.Email(reg.Email); !res.Valid {
		return fmt.Errorf("%w: %s", ErrInvalidForm, res.Message)
	}
	if res := validate.Phone(reg.Phone); !res.Valid {
		return fmt.Errorf("%w: %s", ErrInvalidForm, res.Message)
	}
	if res := validate.Password(reg.Password); !res.Valid {
		return fmt.Errorf("%w: %s", ErrInvalidForm, res.Message)
	}
	if reg.OrderID == "" || reg.PaymentID == "" || reg.Signature == "" {
		return fmt.Errorf("%w: payment proof is required", ErrInvalidForm)
	}
	return nil
}
