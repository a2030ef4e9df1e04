package jobs

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/hibiken/asynq"

	"github.com/salonora/salonora/internal/billing/payouts"
	"github.com/salonora/salonora/internal/tenant"
)

// NewPayoutStatementHandler renders a salon's payout statement to the
// statements directory, one CSV per salon, overwritten on each run.
func NewPayoutStatementHandler(logger *slog.Logger, svc *payouts.Service, dir string) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload PayoutStatementPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}

		var buf bytes.Buffer
		if err := svc.WriteStatement(ctx, tenant.ID(payload.SalonID), &buf); err != nil {
			logger.Error("payout statement failed", "salon", payload.SalonID, "error", err)
			return err
		}

		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
		path := filepath.Join(dir, payload.SalonID+".csv")
		if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
			return err
		}
		logger.Info("payout statement written", "salon", payload.SalonID, "path", path, "bytes", buf.Len())
		return nil
	}
}
