package jobs

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeWelcomeEmail greets a freshly signed-up salon owner.
	TaskTypeWelcomeEmail = "mail:welcome"
	// TaskTypePayoutStatement renders a salon's payout statement.
	TaskTypePayoutStatement = "payouts:statement"
)

// WelcomeEmailPayload describes the signup confirmation email.
type WelcomeEmailPayload struct {
	To        string `json:"to"`
	OwnerName string `json:"owner_name"`
	SalonName string `json:"salon_name"`
	PlanName  string `json:"plan_name"`
}

// NewWelcomeEmailTask constructs an Asynq task.
func NewWelcomeEmailTask(payload WelcomeEmailPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeWelcomeEmail, data), nil
}

// PayoutStatementPayload names the salon whose statement should be rendered.
type PayoutStatementPayload struct {
	SalonID string `json:"salon_id"`
}

// NewPayoutStatementTask constructs an Asynq task.
func NewPayoutStatementTask(payload PayoutStatementPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypePayoutStatement, data), nil
}

// Mailer sends transactional mail. The SMTP implementation lives in the
// worker binary; tests use a recorder.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// NewWelcomeEmailHandler returns the handler processing welcome emails.
func NewWelcomeEmailHandler(logger *slog.Logger, mailer Mailer) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload WelcomeEmailPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
		body := "Hi " + payload.OwnerName + ",\n\n" +
			payload.SalonName + " is ready on the " + payload.PlanName + " plan. " +
			"Sign in with this email address to set up your first branch."
		if err := mailer.Send(ctx, payload.To, "Welcome to Salonora", body); err != nil {
			logger.Error("welcome email failed", "to", payload.To, "error", err)
			return err
		}
		logger.Info("welcome email sent", "to", payload.To, "salon", payload.SalonName)
		return nil
	}
}
