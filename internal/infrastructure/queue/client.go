package queue

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"petcare-backend/internal/shared"
	"petcare-backend/internal/shared/utils"
	"petcare-backend/pkg/logger"
)

// Enqueuer is an asynq-backed scheduler for payment follow-up tasks.
type Enqueuer struct {
	client *asynq.Client
}

func NewEnqueuer(client *asynq.Client) *Enqueuer {
	return &Enqueuer{client: client}
}

// EnqueueExpirePayment schedules the expiry check of a payment. The task id
// is derived from the payment, so issuing the same checkout twice queues
// only one check.
func (e *Enqueuer) EnqueueExpirePayment(ctx context.Context, paymentID uuid.UUID, delay time.Duration) error {
	task, err := utils.NewTask(shared.TypeExpirePayment, shared.ExpirePaymentPayload{
		PaymentID: paymentID.String(),
	})
	if err != nil {
		return err
	}

	info, err := e.client.EnqueueContext(ctx, task,
		asynq.ProcessIn(delay),
		asynq.Queue(shared.QueueCritical),
		asynq.MaxRetry(5),
		asynq.Timeout(time.Minute),
		asynq.TaskID(expireTaskID(paymentID)),
		asynq.Retention(24*time.Hour),
	)
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to enqueue %s: %w", shared.TypeExpirePayment, err)
	}

	logger.Debug("Payment expiry scheduled", map[string]interface{}{
		"payment_id": paymentID.String(),
		"task_id":    info.ID,
		"process_at": info.NextProcessAt,
	})
	return nil
}

func expireTaskID(paymentID uuid.UUID) string {
	return shared.TypeExpirePayment + ":" + paymentID.String()
}
