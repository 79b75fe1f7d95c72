package service

import (
	"context"

	"github.com/google/uuid"

	"petcare-backend/internal/domains/booking/model"
	"petcare-backend/internal/shared"
)

type ServiceInterface interface {
	// CreateBooking reserves the freelancer's services for the customer's
	// pets on one date. Only customers may create bookings.
	CreateBooking(ctx context.Context, actor shared.Actor, req model.CreateBookingRequest) (*model.Booking, error)

	// UpdateBooking changes status, pick-up status or pick-up time.
	// Allowed for the booking's freelancer and back office.
	UpdateBooking(ctx context.Context, actor shared.Actor, id uuid.UUID, req model.UpdateBookingRequest) (*model.Booking, error)

	// CancelBooking cancels the booking and its pending payment together.
	CancelBooking(ctx context.Context, actor shared.Actor, id uuid.UUID) (bool, error)

	// GetBooking returns nil, nil when the booking does not exist.
	GetBooking(ctx context.Context, actor shared.Actor, id uuid.UUID) (*model.Booking, error)

	// ListBookings scopes customers and freelancers to their own bookings.
	ListBookings(ctx context.Context, actor shared.Actor, req model.ListBookingsRequest) ([]*model.Booking, int, error)
}
