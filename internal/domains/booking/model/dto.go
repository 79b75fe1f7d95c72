package model

import (
	"errors"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =====================================================
// CREATE BOOKING
// =====================================================

type CreateBookingRequest struct {
	FreelancerID uuid.UUID   `json:"freelancer_id"`
	BookingDate  Date        `json:"booking_date"`
	PickUpTime   TimeOfDay   `json:"pick_up_time"`
	ServiceIDs   []uuid.UUID `json:"service_ids"`
	PetIDs       []uuid.UUID `json:"pet_ids"`
}

func (req CreateBookingRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.FreelancerID, validation.By(requiredUUID)),
		validation.Field(&req.BookingDate, validation.By(requiredDate)),
		validation.Field(&req.PickUpTime, validation.By(requiredTimeOfDay)),
		validation.Field(&req.ServiceIDs, validation.Required.Error("at least one service is required"), validation.Each(validation.By(requiredUUID))),
		validation.Field(&req.PetIDs, validation.Required.Error("at least one pet is required"), validation.Each(validation.By(requiredUUID))),
	)
}

// =====================================================
// UPDATE BOOKING
// =====================================================

type UpdateBookingRequest struct {
	Status       *BookingStatus `json:"status,omitempty"`
	PickUpStatus *PickUpStatus  `json:"pick_up_status,omitempty"`
	PickUpTime   *TimeOfDay     `json:"pick_up_time,omitempty"`
}

func (req UpdateBookingRequest) Validate() error {
	if req.Status == nil && req.PickUpStatus == nil && req.PickUpTime == nil {
		return errors.New("at least one field must be provided")
	}
	return validation.ValidateStruct(&req,
		validation.Field(&req.Status, validation.NilOrNotEmpty, validation.In(AllBookingStatuses()...)),
		validation.Field(&req.PickUpStatus, validation.NilOrNotEmpty, validation.In(AllPickUpStatuses()...)),
		validation.Field(&req.PickUpTime, validation.By(optionalTimeOfDay)),
	)
}

// =====================================================
// LIST BOOKINGS
// =====================================================

type ListBookingsRequest struct {
	Status *BookingStatus `form:"status"`
	Page   int            `form:"page"`
	Limit  int            `form:"limit"`
}

func (req *ListBookingsRequest) Normalize() {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.Limit < 1 {
		req.Limit = DefaultPageSize
	}
	if req.Limit > MaxPageSize {
		req.Limit = MaxPageSize
	}
}

func (req ListBookingsRequest) Offset() int {
	return (req.Page - 1) * req.Limit
}

func (req ListBookingsRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.Status, validation.NilOrNotEmpty, validation.In(AllBookingStatuses()...)),
	)
}

// ListFilter is what the repository sees after actor scoping.
type ListFilter struct {
	CustomerID   *uuid.UUID
	FreelancerID *uuid.UUID
	Status       *BookingStatus
	Limit        int
	Offset       int
}

// =====================================================
// RESPONSES
// =====================================================

type BookingResponse struct {
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

func ToBookingResponse(b *Booking) BookingResponse {
	return BookingResponse{
		ID:           b.ID,
		CustomerID:   b.CustomerID,
		FreelancerID: b.FreelancerID,
		BookingDate:  b.BookingDate,
		PickUpTime:   b.PickUpTime,
		Status:       b.Status,
		PickUpStatus: b.PickUpStatus,
		TotalPrice:   b.TotalPrice,
		IsPaid:       b.IsPaid,
		ServiceIDs:   b.ServiceIDs,
		PetIDs:       b.PetIDs,
		CreatedAt:    b.CreatedAt,
		UpdatedAt:    b.UpdatedAt,
	}
}

type ListBookingsResponse struct {
	Bookings []BookingResponse `json:"bookings"`
	Total    int               `json:"total"`
	Page     int               `json:"page"`
	Limit    int               `json:"limit"`
}

// =====================================================
// VALIDATION RULES
// =====================================================

func requiredUUID(value interface{}) error {
	id, ok := value.(uuid.UUID)
	if !ok || id == uuid.Nil {
		return errors.New("must be a valid non-empty id")
	}
	return nil
}

func requiredDate(value interface{}) error {
	d, ok := value.(Date)
	if !ok || d.IsZero() {
		return errors.New("is required")
	}
	return nil
}

func requiredTimeOfDay(value interface{}) error {
	t, ok := value.(TimeOfDay)
	if !ok || t.IsZero() {
		return errors.New("is required")
	}
	return nil
}

func optionalTimeOfDay(value interface{}) error {
	t, ok := value.(*TimeOfDay)
	if !ok || t == nil {
		return nil
	}
	return requiredTimeOfDay(*t)
}
