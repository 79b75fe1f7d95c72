package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"petcare-backend/internal/domains/booking/model"
	"petcare-backend/internal/domains/payment/pricing"
	"petcare-backend/internal/infrastructure/database"
	"petcare-backend/internal/shared"
	"petcare-backend/internal/shared/utils"
	"petcare-backend/pkg/logger"
)

const cancelledByBookingReason = "Booking cancelled"

type BookingService struct {
	uow database.UnitOfWork
	now func() time.Time
}

// NewBookingService uses time.Now when clock is nil.
func NewBookingService(uow database.UnitOfWork, clock func() time.Time) ServiceInterface {
	if clock == nil {
		clock = time.Now
	}
	return &BookingService{uow: uow, now: clock}
}

// =====================================================
// CREATE
// =====================================================

func (s *BookingService) CreateBooking(ctx context.Context, actor shared.Actor, req model.CreateBookingRequest) (*model.Booking, error) {
	if actor.Role != shared.RoleCustomer {
		return nil, model.NewCustomerOnlyError()
	}

	req.ServiceIDs = utils.UniqueUUIDs(req.ServiceIDs)
	req.PetIDs = utils.UniqueUUIDs(req.PetIDs)
	if err := req.Validate(); err != nil {
		return nil, model.NewInvalidRequestError(err)
	}

	now := s.now()
	if req.BookingDate.Before(model.DateFromTime(now)) {
		return nil, model.NewInvalidRequestError(fmt.Errorf("booking_date: %s is in the past", req.BookingDate))
	}

	var created *model.Booking
	err := s.uow.Do(ctx, func(repos database.Repositories) error {
		// Step 1: Serialize the (freelancer, date) slot, then check it
		if err := repos.Bookings.LockSlot(ctx, req.FreelancerID, req.BookingDate); err != nil {
			return err
		}
		taken, err := repos.Bookings.HasSlotConflict(ctx, req.FreelancerID, req.BookingDate, req.ServiceIDs)
		if err != nil {
			return err
		}
		if taken {
			return model.NewSlotTakenError(req.FreelancerID, req.BookingDate)
		}

		// Step 2: Every service must exist and belong to the freelancer
		services, err := repos.Catalog.FindServicesByIDs(ctx, req.ServiceIDs)
		if err != nil {
			return err
		}
		if len(services) != len(req.ServiceIDs) {
			return model.NewServiceNotFoundError(req.FreelancerID)
		}
		for _, svc := range services {
			if svc.FreelancerID != req.FreelancerID {
				return model.NewServiceNotFoundError(req.FreelancerID)
			}
		}

		// Step 3: Every pet must exist and belong to the customer
		pets, err := repos.Catalog.FindPetsByIDs(ctx, req.PetIDs)
		if err != nil {
			return err
		}
		if len(pets) != len(req.PetIDs) {
			return model.NewPetNotFoundError()
		}
		for _, pet := range pets {
			if pet.OwnerID != actor.ID {
				return model.NewPetNotFoundError()
			}
		}

		// Step 4: Price snapshot
		total, err := pricing.ComputeTotal(services, len(pets))
		if err != nil {
			return err
		}

		booking := &model.Booking{
			ID:           uuid.New(),
			CustomerID:   actor.ID,
			FreelancerID: req.FreelancerID,
			BookingDate:  req.BookingDate,
			PickUpTime:   req.PickUpTime,
			Status:       model.BookingStatusPending,
			PickUpStatus: model.PickUpStatusNotPickedUp,
			TotalPrice:   total,
			IsPaid:       false,
			ServiceIDs:   req.ServiceIDs,
			PetIDs:       req.PetIDs,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := repos.Bookings.Create(ctx, booking); err != nil {
			return err
		}

		created = booking
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Booking created", map[string]interface{}{
		"booking_id":    created.ID.String(),
		"freelancer_id": created.FreelancerID.String(),
		"date":          created.BookingDate.String(),
		"total":         created.TotalPrice.String(),
	})
	return created, nil
}

// =====================================================
// UPDATE
// =====================================================

func (s *BookingService) UpdateBooking(
	ctx context.Context,
	actor shared.Actor,
	id uuid.UUID,
	req model.UpdateBookingRequest,
) (*model.Booking, error) {
	if err := req.Validate(); err != nil {
		return nil, model.NewInvalidRequestError(err)
	}

	var updated *model.Booking
	err := s.uow.Do(ctx, func(repos database.Repositories) error {
		booking, err := s.lockBooking(ctx, repos, id)
		if err != nil {
			return err
		}

		if booking.FreelancerID != actor.ID && !actor.Role.IsBackOffice() {
			return model.NewForbiddenError("update")
		}
		if booking.Status == model.BookingStatusCancelled {
			return model.NewBookingClosedError(booking.ID)
		}

		cancelling := false
		if req.Status != nil && *req.Status != booking.Status {
			if !booking.Status.CanTransitionTo(*req.Status) {
				return model.NewInvalidTransitionError(booking.Status, *req.Status)
			}
			booking.Status = *req.Status
			cancelling = booking.Status == model.BookingStatusCancelled
		}

		if req.PickUpStatus != nil && *req.PickUpStatus != booking.PickUpStatus {
			if !booking.PickUpStatus.CanAdvanceTo(*req.PickUpStatus) {
				return model.NewInvalidPickUpError(booking.PickUpStatus, *req.PickUpStatus)
			}
			booking.PickUpStatus = *req.PickUpStatus
		}

		if req.PickUpTime != nil {
			booking.PickUpTime = *req.PickUpTime
		}

		now := s.now()
		booking.UpdatedAt = now
		if err := repos.Bookings.Update(ctx, booking); err != nil {
			return err
		}

		if cancelling {
			if _, err := repos.Payments.CancelPendingByBookingID(ctx, booking.ID, cancelledByBookingReason, now); err != nil {
				return err
			}
		}

		updated = booking
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Booking updated", map[string]interface{}{
		"booking_id":     updated.ID.String(),
		"status":         updated.Status,
		"pick_up_status": updated.PickUpStatus,
		"actor_id":       actor.ID.String(),
	})
	return updated, nil
}

// =====================================================
// CANCEL
// =====================================================

func (s *BookingService) CancelBooking(ctx context.Context, actor shared.Actor, id uuid.UUID) (bool, error) {
	cancelledPayments := 0
	err := s.uow.Do(ctx, func(repos database.Repositories) error {
		booking, err := s.lockBooking(ctx, repos, id)
		if err != nil {
			return err
		}

		if !booking.IsParticipant(actor.ID) && !actor.Role.IsBackOffice() {
			return model.NewForbiddenError("cancel")
		}
		if !booking.CanBeCancelled() {
			return model.NewInvalidTransitionError(booking.Status, model.BookingStatusCancelled)
		}

		now := s.now()
		booking.Status = model.BookingStatusCancelled
		booking.UpdatedAt = now
		if err := repos.Bookings.Update(ctx, booking); err != nil {
			return err
		}

		cancelledPayments, err = repos.Payments.CancelPendingByBookingID(ctx, booking.ID, cancelledByBookingReason, now)
		return err
	})
	if err != nil {
		return false, err
	}

	logger.Info("Booking cancelled", map[string]interface{}{
		"booking_id":         id.String(),
		"actor_id":           actor.ID.String(),
		"cancelled_payments": cancelledPayments,
	})
	return true, nil
}

// =====================================================
// READ
// =====================================================

func (s *BookingService) GetBooking(ctx context.Context, actor shared.Actor, id uuid.UUID) (*model.Booking, error) {
	var booking *model.Booking
	err := s.uow.Do(ctx, func(repos database.Repositories) error {
		b, err := repos.Bookings.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, model.ErrBookingNotFound) {
				return nil
			}
			return err
		}
		booking = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, nil
	}

	if !booking.IsParticipant(actor.ID) && !actor.Role.IsBackOffice() {
		return nil, model.NewForbiddenError("view")
	}
	return booking, nil
}

func (s *BookingService) ListBookings(
	ctx context.Context,
	actor shared.Actor,
	req model.ListBookingsRequest,
) ([]*model.Booking, int, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, 0, model.NewInvalidRequestError(err)
	}

	filter := model.ListFilter{
		Status: req.Status,
		Limit:  req.Limit,
		Offset: req.Offset(),
	}
	switch actor.Role {
	case shared.RoleCustomer:
		filter.CustomerID = &actor.ID
	case shared.RoleFreelancer:
		filter.FreelancerID = &actor.ID
	case shared.RoleStaff, shared.RoleAdmin:
	default:
		return nil, 0, model.NewForbiddenError("list")
	}

	var (
		bookings []*model.Booking
		total    int
	)
	err := s.uow.Do(ctx, func(repos database.Repositories) error {
		var err error
		bookings, total, err = repos.Bookings.List(ctx, filter)
		return err
	})
	if err != nil {
		return nil, 0, err
	}
	if bookings == nil {
		bookings = []*model.Booking{}
	}
	return bookings, total, nil
}

func (s *BookingService) lockBooking(ctx context.Context, repos database.Repositories, id uuid.UUID) (*model.Booking, error) {
	booking, err := repos.Bookings.GetByIDForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrBookingNotFound) {
			return nil, model.NewBookingNotFoundError(id)
		}
		return nil, err
	}
	return booking, nil
}
