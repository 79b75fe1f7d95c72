package job

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"

	"petcare-backend/internal/domains/payment/service"
	"petcare-backend/internal/shared"
	"petcare-backend/internal/shared/utils"
	"petcare-backend/pkg/logger"
)

const defaultSweepLimit = 200

// SweepExpiredHandler catches payments whose expiry task was lost.
type SweepExpiredHandler struct {
	paymentService service.PaymentService
}

func NewSweepExpiredHandler(paymentService service.PaymentService) *SweepExpiredHandler {
	return &SweepExpiredHandler{paymentService: paymentService}
}

func (h *SweepExpiredHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload shared.SweepExpiredPaymentsPayload
	if len(t.Payload()) > 0 {
		if err := utils.UnmarshalTask(t, &payload); err != nil {
			return fmt.Errorf("unmarshal payload: %w: %w", err, asynq.SkipRetry)
		}
	}
	if payload.Limit <= 0 {
		payload.Limit = defaultSweepLimit
	}

	resolved, err := h.paymentService.SweepExpiredPayments(ctx, payload.Limit)
	if err != nil {
		return fmt.Errorf("sweep expired payments: %w", err)
	}

	logger.Info("Swept expired payments", map[string]interface{}{
		"resolved": resolved,
		"limit":    payload.Limit,
	})
	return nil
}
