package model

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"petcare-backend/internal/shared/apperror"
)

// =====================================================
// PREDEFINED ERRORS
// =====================================================

var (
	ErrBookingNotFound = errors.New("booking not found")
	ErrSlotTaken       = errors.New("booking slot already taken")
)

// =====================================================
// ERROR CODES
// =====================================================
const (
	ErrCodeInvalidRequest    = "BKG001"
	ErrCodeBookingNotFound   = "BKG002"
	ErrCodeSlotTaken         = "BKG003"
	ErrCodeServiceNotFound   = "BKG004"
	ErrCodePetNotFound       = "BKG005"
	ErrCodeInvalidTransition = "BKG006"
	ErrCodeForbidden         = "BKG007"
	ErrCodeInvalidPickUp     = "BKG008"
	ErrCodeCustomerOnly      = "BKG009"
	ErrCodeBookingClosed     = "BKG010"
)

// =====================================================
// ERROR CONSTRUCTORS
// =====================================================

func NewInvalidRequestError(err error) *apperror.Error {
	return apperror.New(apperror.KindValidation, ErrCodeInvalidRequest, err.Error(), err)
}

func NewBookingNotFoundError(id uuid.UUID) *apperror.Error {
	return apperror.NewNotFound(ErrCodeBookingNotFound, fmt.Sprintf("Booking %s not found", id), ErrBookingNotFound)
}

func NewSlotTakenError(freelancerID uuid.UUID, date Date) *apperror.Error {
	return apperror.NewConflict(
		ErrCodeSlotTaken,
		fmt.Sprintf("Freelancer %s is already booked on %s for one of the selected services", freelancerID, date),
		ErrSlotTaken,
	)
}

func NewServiceNotFoundError(freelancerID uuid.UUID) *apperror.Error {
	return apperror.NewNotFound(
		ErrCodeServiceNotFound,
		fmt.Sprintf("One or more services do not exist or are not offered by freelancer %s", freelancerID),
		nil,
	)
}

func NewPetNotFoundError() *apperror.Error {
	return apperror.NewNotFound(ErrCodePetNotFound, "One or more pets do not exist", nil)
}

func NewInvalidTransitionError(from, to BookingStatus) *apperror.Error {
	return apperror.NewConflict(
		ErrCodeInvalidTransition,
		fmt.Sprintf("Cannot change booking status from %s to %s", from, to),
		nil,
	)
}

func NewInvalidPickUpError(from, to PickUpStatus) *apperror.Error {
	return apperror.NewConflict(
		ErrCodeInvalidPickUp,
		fmt.Sprintf("Cannot change pick-up status from %s to %s", from, to),
		nil,
	)
}

func NewForbiddenError(action string) *apperror.Error {
	return apperror.NewUnauthorized(ErrCodeForbidden, fmt.Sprintf("Not allowed to %s this booking", action))
}

func NewCustomerOnlyError() *apperror.Error {
	return apperror.NewUnauthorized(ErrCodeCustomerOnly, "Only customers can create bookings")
}

func NewBookingClosedError(id uuid.UUID) *apperror.Error {
	return apperror.NewConflict(ErrCodeBookingClosed, fmt.Sprintf("Booking %s is cancelled and can no longer change", id), nil)
}
