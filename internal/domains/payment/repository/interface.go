package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"petcare-backend/internal/domains/payment/model"
)

// =====================================================
// PAYMENT REPOSITORY INTERFACE
// =====================================================

// Repository is bound to one unit of work. Lookups return
// model.ErrPaymentNotFound when nothing matches.
type Repository interface {
	// Create returns model.ErrActivePaymentExists when the booking already
	// has a pending or successful payment.
	Create(ctx context.Context, payment *model.Payment) error

	GetByID(ctx context.Context, id uuid.UUID) (*model.Payment, error)

	// GetByIDForUpdate locks the payment row until the unit of work ends.
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Payment, error)

	// GetByTransactionRef finds the payment by the merchant reference echoed
	// in callbacks.
	GetByTransactionRef(ctx context.Context, ref string) (*model.Payment, error)

	// GetLatestByBookingID returns the most recent attempt for a booking.
	GetLatestByBookingID(ctx context.Context, bookingID uuid.UUID) (*model.Payment, error)

	// HasActivePayment reports whether a pending or successful payment exists.
	HasActivePayment(ctx context.Context, bookingID uuid.UUID) (bool, error)

	// Update persists every mutable field of the payment.
	Update(ctx context.Context, payment *model.Payment) error

	// CancelPendingByBookingID cancels the pending attempt of a booking, if any.
	CancelPendingByBookingID(ctx context.Context, bookingID uuid.UUID, reason string, now time.Time) (int, error)

	// ListPendingCreatedBefore returns pending payments older than cutoff, oldest first.
	ListPendingCreatedBefore(ctx context.Context, cutoff time.Time, limit int) ([]*model.Payment, error)
}
