package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =====================================================
// ENTITY: Payment
// =====================================================
type Payment struct {
	ID               uuid.UUID       `json:"id"`
	BookingID        uuid.UUID       `json:"booking_id"`
	Amount           decimal.Decimal `json:"amount"`
	CommissionAmount decimal.Decimal `json:"commission_amount"`
	Method           PaymentMethod   `json:"method"`
	Status           PaymentStatus   `json:"status"`
	TransactionRef   *string         `json:"transaction_ref,omitempty"`
	TransactionID    *string         `json:"transaction_id,omitempty"`
	Description      string          `json:"description,omitempty"`
	PaymentURL       *string         `json:"payment_url,omitempty"`
	ProviderStatus   *string         `json:"provider_status,omitempty"`
	Message          *string         `json:"message,omitempty"`
	PaidAt           *time.Time      `json:"paid_at,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// IsExpired reports whether a pending payment outlived its checkout window.
func (p *Payment) IsExpired(timeout time.Duration, now time.Time) bool {
	return p.Status == PaymentStatusPending && now.Sub(p.CreatedAt) > timeout
}

func (p *Payment) Clone() *Payment {
	c := *p
	c.TransactionRef = cloneString(p.TransactionRef)
	c.TransactionID = cloneString(p.TransactionID)
	c.PaymentURL = cloneString(p.PaymentURL)
	c.ProviderStatus = cloneString(p.ProviderStatus)
	c.Message = cloneString(p.Message)
	if p.PaidAt != nil {
		t := *p.PaidAt
		c.PaidAt = &t
	}
	return &c
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
