package repository

import (
	"context"

	"github.com/google/uuid"

	"petcare-backend/internal/domains/booking/model"
)

// =====================================================
// BOOKING REPOSITORY INTERFACE
// =====================================================

// Repository is bound to one unit of work; every call runs on the same
// transaction.
type Repository interface {
	// Create inserts the booking together with its service and pet links.
	Create(ctx context.Context, booking *model.Booking) error

	// GetByID returns model.ErrBookingNotFound when absent.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Booking, error)

	// GetByIDForUpdate locks the booking row until the unit of work ends.
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Booking, error)

	// Update persists status, pick-up status, pick-up time, paid flag and updated_at.
	Update(ctx context.Context, booking *model.Booking) error

	List(ctx context.Context, filter model.ListFilter) ([]*model.Booking, int, error)

	// LockSlot serializes bookings of one freelancer on one date.
	LockSlot(ctx context.Context, freelancerID uuid.UUID, date model.Date) error

	// HasSlotConflict reports whether a live booking of the freelancer on date
	// already references one of serviceIDs.
	HasSlotConflict(ctx context.Context, freelancerID uuid.UUID, date model.Date, serviceIDs []uuid.UUID) (bool, error)
}

// CatalogRepository reads the services and pets a booking refers to.
// Both lookups silently skip unknown ids; callers compare counts.
type CatalogRepository interface {
	FindServicesByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Service, error)
	FindPetsByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Pet, error)
}
