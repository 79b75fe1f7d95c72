package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =====================================================
// CREATE PAYMENT REQUEST/RESPONSE
// =====================================================

type CreatePaymentRequest struct {
	BookingID   uuid.UUID     `json:"booking_id"`
	Method      PaymentMethod `json:"method"`
	Description *string       `json:"description,omitempty"`
}

func (r CreatePaymentRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.BookingID, validation.By(func(value interface{}) error {
			if id, _ := value.(uuid.UUID); id == uuid.Nil {
				return validation.NewError("validation_required", "booking_id is required")
			}
			return nil
		})),
		validation.Field(&r.Method, validation.Required, validation.In(ValidPaymentMethods...)),
		validation.Field(&r.Description, validation.NilOrNotEmpty, validation.Length(1, MaxDescriptionLength)),
	)
}

type CreatePaymentResponse struct {
	Success    bool       `json:"success"`
	PaymentID  *uuid.UUID `json:"payment_id,omitempty"`
	PaymentURL *string    `json:"payment_url,omitempty"`
	Message    string     `json:"message"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
}

// =====================================================
// PAYMENT STATUS
// =====================================================

type PaymentResponse struct {
	ID               uuid.UUID       `json:"id"`
	BookingID        uuid.UUID       `json:"booking_id"`
	Method           PaymentMethod   `json:"method"`
	Status           PaymentStatus   `json:"status"`
	Amount           decimal.Decimal `json:"amount"`
	CommissionAmount decimal.Decimal `json:"commission_amount"`
	TransactionRef   *string         `json:"transaction_ref,omitempty"`
	TransactionID    *string         `json:"transaction_id,omitempty"`
	ProviderStatus   *string         `json:"provider_status,omitempty"`
	Message          *string         `json:"message,omitempty"`
	PaidAt           *time.Time      `json:"paid_at,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
}

func ToPaymentResponse(p *Payment) *PaymentResponse {
	return &PaymentResponse{
		ID:               p.ID,
		BookingID:        p.BookingID,
		Method:           p.Method,
		Status:           p.Status,
		Amount:           p.Amount,
		CommissionAmount: p.CommissionAmount,
		TransactionRef:   p.TransactionRef,
		TransactionID:    p.TransactionID,
		ProviderStatus:   p.ProviderStatus,
		Message:          p.Message,
		PaidAt:           p.PaidAt,
		CreatedAt:        p.CreatedAt,
	}
}

type PaymentStatusResponse struct {
	BookingID uuid.UUID        `json:"booking_id"`
	IsPaid    bool             `json:"is_paid"`
	Payment   *PaymentResponse `json:"payment,omitempty"`
}

// =====================================================
// CALLBACK
// =====================================================

// CallbackUpdate is the verified outcome applied to the ledger.
type CallbackUpdate struct {
	TransactionRef string
	TransactionID  string
	Status         PaymentStatus
	ProviderStatus string
	Message        string
	// Amount is zero when the provider does not echo it.
	Amount decimal.Decimal
}

// CallbackOutcome drives the browser redirect after a provider callback.
type CallbackOutcome struct {
	Success bool
	// Verified is false when the payload failed signature or provider checks.
	Verified bool
	// Processing is set when another request still holds the payment's
	// callback and the payment is pending.
	Processing     bool
	BookingID      uuid.UUID
	PaymentID      uuid.UUID
	TransactionRef string
	TransactionID  string
	Status         PaymentStatus
	Message        string
}
