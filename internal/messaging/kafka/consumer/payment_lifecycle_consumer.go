package consumer

import (
	"context"
	"encoding/json"

	"github.com/masad-stock/mutech-civil-hrm/internal/events"
	"github.com/masad-stock/mutech-civil-hrm/internal/payroll"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ConsumePaymentLifecycle marks payroll rows as paid when a linked payment
// completes. Events without a payroll id are acknowledged and skipped.
func ConsumePaymentLifecycle(
	ctx context.Context,
	reader *kafkago.Reader,
	payrollService payroll.Service,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.payment_lifecycle")
	log.Info("payment lifecycle consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("payment lifecycle consumer stopped")
				return
			}
			log.Error("fetch payment lifecycle message failed", zap.Error(err))
			continue
		}

		var event events.PaymentLifecyclePayload
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode payment lifecycle event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		if event.Status != "COMPLETED" || event.PayrollID == "" {
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		if err := payrollService.MarkPaid(ctx, event.PayrollID, event.PaymentID); err != nil {
			log.Error("mark payroll paid failed",
				zap.String("payroll_id", event.PayrollID),
				zap.String("payment_id", event.PaymentID),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit payment lifecycle message failed", zap.Error(err))
			continue
		}

		log.Info("payroll marked paid from payment event",
			zap.String("payroll_id", event.PayrollID),
			zap.String("payment_id", event.PaymentID),
		)
	}
}
