package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =====================================================
// ENTITY: Booking
// =====================================================
type Booking struct {
	ID           uuid.UUID       `json:"id"`
	CustomerID   uuid.UUID       `json:"customer_id"`
	FreelancerID uuid.UUID       `json:"freelancer_id"`
	BookingDate  Date            `json:"booking_date"`
	PickUpTime   TimeOfDay       `json:"pick_up_time"`
	Status       BookingStatus   `json:"status"`
	PickUpStatus PickUpStatus    `json:"pick_up_status"`
	TotalPrice   decimal.Decimal `json:"total_price"`
	IsPaid       bool            `json:"is_paid"`
	ServiceIDs   []uuid.UUID     `json:"service_ids"`
	PetIDs       []uuid.UUID     `json:"pet_ids"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// IsParticipant reports whether userID is the booking's customer or freelancer.
func (b *Booking) IsParticipant(userID uuid.UUID) bool {
	return b.CustomerID == userID || b.FreelancerID == userID
}

func (b *Booking) CanBeCancelled() bool {
	return b.Status.CanTransitionTo(BookingStatusCancelled)
}

// HasAnyService reports whether the booking references one of ids.
func (b *Booking) HasAnyService(ids []uuid.UUID) bool {
	for _, own := range b.ServiceIDs {
		for _, id := range ids {
			if own == id {
				return true
			}
		}
	}
	return false
}

// MarkPaid records a successful payment. Only a pending booking is confirmed;
// a booking already past confirmation keeps its status.
func (b *Booking) MarkPaid(now time.Time) {
	b.IsPaid = true
	if b.Status == BookingStatusPending {
		b.Status = BookingStatusConfirmed
	}
	b.UpdatedAt = now
}

func (b *Booking) Clone() *Booking {
	c := *b
	c.ServiceIDs = append([]uuid.UUID(nil), b.ServiceIDs...)
	c.PetIDs = append([]uuid.UUID(nil), b.PetIDs...)
	return &c
}

// =====================================================
// CATALOG (read-only collaborators)
// =====================================================

// Service is a priced offering published by a freelancer.
type Service struct {
	ID           uuid.UUID       `json:"id"`
	FreelancerID uuid.UUID       `json:"freelancer_id"`
	Name         string          `json:"name"`
	Price        decimal.Decimal `json:"price"`
}

func (s Service) UnitPrice() decimal.Decimal {
	return s.Price
}

type Pet struct {
	ID      uuid.UUID `json:"id"`
	OwnerID uuid.UUID `json:"owner_id"`
	Name    string    `json:"name"`
}
