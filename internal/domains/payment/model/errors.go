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
	ErrPaymentNotFound      = errors.New("payment not found")
	ErrActivePaymentExists  = errors.New("active payment already exists")
	ErrBookingAlreadyPaid   = errors.New("booking already paid")
	ErrInvalidSignature     = errors.New("invalid callback signature")
	ErrUnsupportedMethod    = errors.New("unsupported payment method")
	ErrGatewayUnavailable   = errors.New("payment gateway unavailable")
	ErrCallbackInProgress   = errors.New("callback already being processed")
	ErrCallbackUnrecognized = errors.New("callback payload does not match any gateway")
)

// =====================================================
// ERROR CODES
// =====================================================
const (
	ErrCodeInvalidRequest      = "PAY001"
	ErrCodePaymentNotFound     = "PAY002"
	ErrCodeBookingAlreadyPaid  = "PAY003"
	ErrCodeBookingCancelled    = "PAY004"
	ErrCodeActivePaymentExists = "PAY005"
	ErrCodeUnsupportedMethod   = "PAY006"
	ErrCodeInvalidSignature    = "PAY007"
	ErrCodeMalformedCallback   = "PAY008"
	ErrCodeGatewayUnavailable  = "PAY009"
	ErrCodeAmountMismatch      = "PAY010"
	ErrCodeForbidden           = "PAY011"
	ErrCodeBookingNotFound     = "PAY012"
	ErrCodeCallbackInProgress  = "PAY013"
)

// =====================================================
// ERROR CONSTRUCTORS
// =====================================================

func NewInvalidRequestError(err error) *apperror.Error {
	return apperror.New(apperror.KindValidation, ErrCodeInvalidRequest, err.Error(), err)
}

func NewPaymentNotFoundError(ref string) *apperror.Error {
	return apperror.NewNotFound(ErrCodePaymentNotFound, fmt.Sprintf("Payment not found: %s", ref), ErrPaymentNotFound)
}

func NewBookingNotFoundError(id uuid.UUID) *apperror.Error {
	return apperror.NewNotFound(ErrCodeBookingNotFound, fmt.Sprintf("Booking %s not found", id), nil)
}

func NewBookingAlreadyPaidError(id uuid.UUID) *apperror.Error {
	return apperror.NewConflict(ErrCodeBookingAlreadyPaid, fmt.Sprintf("Booking %s is already paid", id), ErrBookingAlreadyPaid)
}

func NewBookingCancelledError(id uuid.UUID) *apperror.Error {
	return apperror.NewConflict(ErrCodeBookingCancelled, fmt.Sprintf("Booking %s is cancelled", id), nil)
}

func NewActivePaymentExistsError(bookingID uuid.UUID) *apperror.Error {
	return apperror.NewConflict(
		ErrCodeActivePaymentExists,
		fmt.Sprintf("Booking %s already has a pending or successful payment", bookingID),
		ErrActivePaymentExists,
	)
}

func NewUnsupportedMethodError(method PaymentMethod) *apperror.Error {
	return apperror.New(apperror.KindValidation, ErrCodeUnsupportedMethod,
		fmt.Sprintf("Payment method %q is not enabled", method), ErrUnsupportedMethod)
}

func NewInvalidSignatureError() *apperror.Error {
	return apperror.NewGateway(ErrCodeInvalidSignature, "Invalid callback signature", ErrInvalidSignature)
}

func NewMalformedCallbackError(reason string) *apperror.Error {
	return apperror.NewGateway(ErrCodeMalformedCallback, reason, ErrCallbackUnrecognized)
}

func NewGatewayUnavailableError(method PaymentMethod, err error) *apperror.Error {
	return apperror.NewGateway(
		ErrCodeGatewayUnavailable,
		fmt.Sprintf("Payment provider %s is unavailable, please retry", method),
		errors.Join(ErrGatewayUnavailable, err),
	)
}

func NewAmountMismatchError(ref string) *apperror.Error {
	return apperror.NewGateway(ErrCodeAmountMismatch, fmt.Sprintf("Callback amount does not match payment %s", ref), nil)
}

func NewForbiddenError(action string) *apperror.Error {
	return apperror.NewUnauthorized(ErrCodeForbidden, fmt.Sprintf("Not allowed to %s", action))
}

func NewCallbackInProgressError(ref string) *apperror.Error {
	return apperror.NewConflict(ErrCodeCallbackInProgress, fmt.Sprintf("Callback for %s is already being processed", ref), ErrCallbackInProgress)
}
