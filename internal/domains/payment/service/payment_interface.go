package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"petcare-backend/internal/domains/payment/model"
	"petcare-backend/internal/shared"
)

// =====================================================
// PAYMENT SERVICE INTERFACE
// =====================================================
type PaymentService interface {
	// CreatePayment opens a checkout with the requested provider for a
	// booking. A provider rejection is reported as Success=false with a nil
	// error; transport failures return a gateway error and may be retried.
	CreatePayment(ctx context.Context, actor shared.Actor, req model.CreatePaymentRequest, clientIP string) (*model.CreatePaymentResponse, error)

	// ApplyCallback records a verified provider outcome. It returns false
	// when nothing changed (repeated or still pending outcome).
	ApplyCallback(ctx context.Context, update model.CallbackUpdate) (bool, error)

	// HandleCallback detects the provider, verifies the payload and applies it.
	HandleCallback(ctx context.Context, payload map[string]string) (*model.CallbackOutcome, error)

	// CancelPayment cancels a pending payment; false when it is no longer pending.
	CancelPayment(ctx context.Context, actor shared.Actor, paymentID uuid.UUID) (bool, error)

	// GetPaymentStatus returns the latest attempt of a booking, reconciling
	// it with the provider first when refresh is set and it is still pending.
	GetPaymentStatus(ctx context.Context, actor shared.Actor, bookingID uuid.UUID, refresh bool) (*model.PaymentStatusResponse, error)

	// ReconcilePayment asks the provider about a pending payment, applies a
	// final answer and cancels it once the checkout window has passed.
	ReconcilePayment(ctx context.Context, paymentID uuid.UUID) (*model.Payment, error)

	// SweepExpiredPayments reconciles pending payments older than the
	// checkout window and returns how many left pending.
	SweepExpiredPayments(ctx context.Context, limit int) (int, error)
}

// Enqueuer schedules the expiry check of a freshly issued checkout.
type Enqueuer interface {
	EnqueueExpirePayment(ctx context.Context, paymentID uuid.UUID, delay time.Duration) error
}

type Config struct {
	CommissionRate decimal.Decimal
	PaymentTimeout time.Duration
	// ReturnURL is where providers send the browser and IPN callbacks.
	ReturnURL       string
	CallbackLockTTL time.Duration
	// CallbackLockWait bounds how long a callback waits for a concurrent
	// one of the same reference before reporting it as processing.
	CallbackLockWait time.Duration
}
