package job

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"petcare-backend/internal/domains/payment/service"
	"petcare-backend/internal/shared"
	"petcare-backend/internal/shared/apperror"
	"petcare-backend/internal/shared/utils"
	"petcare-backend/pkg/logger"
)

// ExpirePaymentHandler runs when a checkout window closes. It asks the
// provider for a final answer and cancels the payment if there is none.
type ExpirePaymentHandler struct {
	paymentService service.PaymentService
}

func NewExpirePaymentHandler(paymentService service.PaymentService) *ExpirePaymentHandler {
	return &ExpirePaymentHandler{paymentService: paymentService}
}

func (h *ExpirePaymentHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload shared.ExpirePaymentPayload
	if err := utils.UnmarshalTask(t, &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w: %w", err, asynq.SkipRetry)
	}

	paymentID, err := uuid.Parse(payload.PaymentID)
	if err != nil {
		return fmt.Errorf("invalid payment id %q: %w", payload.PaymentID, asynq.SkipRetry)
	}

	payment, err := h.paymentService.ReconcilePayment(ctx, paymentID)
	if err != nil {
		if apperror.IsKind(err, apperror.KindNotFound) {
			logger.Warn("Expiry task for unknown payment", map[string]interface{}{"payment_id": payload.PaymentID})
			return fmt.Errorf("reconcile payment: %w: %w", err, asynq.SkipRetry)
		}
		return fmt.Errorf("reconcile payment: %w", err)
	}

	logger.Info("Processed payment expiry", map[string]interface{}{
		"payment_id": payment.ID.String(),
		"status":     payment.Status,
	})
	return nil
}
