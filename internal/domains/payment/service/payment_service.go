package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	bookingModel "petcare-backend/internal/domains/booking/model"
	"petcare-backend/internal/domains/payment/gateway"
	"petcare-backend/internal/domains/payment/model"
	"petcare-backend/internal/domains/payment/pricing"
	"petcare-backend/internal/infrastructure/database"
	"petcare-backend/internal/shared"
	"petcare-backend/internal/shared/apperror"
	"petcare-backend/pkg/cache"
	"petcare-backend/pkg/logger"
)

const (
	defaultCallbackLockTTL  = 30 * time.Second
	defaultCallbackLockWait = 2 * time.Second
	callbackLockPoll        = 100 * time.Millisecond
	callbackLockPrefix      = "payment:callback:"

	messageProcessing = "Payment is being processed"

	reasonCancelledByUser = "Cancelled by user"
	reasonExpired         = "Payment expired"
)

// =====================================================
// PAYMENT SERVICE IMPLEMENTATION
// =====================================================
type paymentService struct {
	uow      database.UnitOfWork
	gateways *gateway.Registry
	cache    cache.Cache
	enqueuer Enqueuer
	config   Config
	now      func() time.Time
}

// NewPaymentService accepts a nil cache (no callback lock), a nil enqueuer
// (no scheduled expiry) and a nil clock (time.Now).
func NewPaymentService(
	uow database.UnitOfWork,
	gateways *gateway.Registry,
	cache cache.Cache,
	enqueuer Enqueuer,
	config Config,
	clock func() time.Time,
) PaymentService {
	if clock == nil {
		clock = time.Now
	}
	if config.CommissionRate.IsZero() {
		config.CommissionRate = pricing.DefaultCommissionRate
	}
	if config.PaymentTimeout <= 0 {
		config.PaymentTimeout = model.DefaultPaymentTimeoutMinutes * time.Minute
	}
	if config.CallbackLockTTL <= 0 {
		config.CallbackLockTTL = defaultCallbackLockTTL
	}
	if config.CallbackLockWait <= 0 {
		config.CallbackLockWait = defaultCallbackLockWait
	}
	return &paymentService{
		uow:      uow,
		gateways: gateways,
		cache:    cache,
		enqueuer: enqueuer,
		config:   config,
		now:      clock,
	}
}

// =====================================================
// CREATE PAYMENT
// =====================================================

// CreatePayment runs in two units of work around the provider call so that
// no database transaction stays open during network I/O:
//
//  1. lock the booking, check it can be paid, insert a pending payment
//  2. call the provider
//  3. record the issued link, or mark the payment failed so a retry is not
//     blocked by a dead pending row
func (s *paymentService) CreatePayment(
	ctx context.Context,
	actor shared.Actor,
	req model.CreatePaymentRequest,
	clientIP string,
) (*model.CreatePaymentResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, model.NewInvalidRequestError(err)
	}

	gw, ok := s.gateways.Get(req.Method)
	if !ok {
		return nil, model.NewUnsupportedMethodError(req.Method)
	}

	// Step 1: Reserve the booking with a pending payment
	var payment *model.Payment
	err := s.uow.Do(ctx, func(repos database.Repositories) error {
		booking, err := lockBooking(ctx, repos, req.BookingID)
		if err != nil {
			return err
		}

		if !booking.IsParticipant(actor.ID) && actor.Role != shared.RoleAdmin {
			return model.NewForbiddenError("pay for this booking")
		}
		if booking.IsPaid {
			return model.NewBookingAlreadyPaidError(booking.ID)
		}
		if booking.Status == bookingModel.BookingStatusCancelled {
			return model.NewBookingCancelledError(booking.ID)
		}

		active, err := repos.Payments.HasActivePayment(ctx, booking.ID)
		if err != nil {
			return err
		}
		if active {
			return model.NewActivePaymentExistsError(booking.ID)
		}

		now := s.now()
		payment = &model.Payment{
			ID:               uuid.New(),
			BookingID:        booking.ID,
			Amount:           booking.TotalPrice,
			CommissionAmount: pricing.ComputeCommission(booking.TotalPrice, s.config.CommissionRate),
			Method:           req.Method,
			Status:           model.PaymentStatusPending,
			Description:      describeOrder(req.Description, booking.ID),
			CreatedAt:        now,
			UpdatedAt:        now,
		}
		if err := repos.Payments.Create(ctx, payment); err != nil {
			if errors.Is(err, model.ErrActivePaymentExists) {
				return model.NewActivePaymentExistsError(booking.ID)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Step 2: Ask the provider for a checkout link
	result, gwErr := gw.CreatePaymentURL(ctx, gateway.PaymentURLRequest{
		PaymentID: payment.ID,
		BookingID: payment.BookingID,
		Amount:    payment.Amount,
		OrderInfo: payment.Description,
		ReturnURL: s.config.ReturnURL,
		IPAddress: clientIP,
	})

	// Step 3: Record the outcome
	if gwErr != nil {
		logger.ErrorWithFields("Payment gateway unavailable", gwErr, map[string]interface{}{
			"payment_id": payment.ID.String(),
			"method":     payment.Method,
		})
		if err := s.markFailed(ctx, payment.ID, "Payment provider unavailable"); err != nil {
			logger.Error("Failed to mark payment as failed", err)
		}
		return nil, model.NewGatewayUnavailableError(payment.Method, gwErr)
	}

	if !result.Success {
		message := result.ErrorMessage
		if message == "" {
			message = "Payment provider rejected the request"
		}
		if err := s.markFailed(ctx, payment.ID, message); err != nil {
			return nil, err
		}
		logger.Warn("Payment rejected by provider", map[string]interface{}{
			"payment_id": payment.ID.String(),
			"method":     payment.Method,
			"message":    message,
		})
		return &model.CreatePaymentResponse{Success: false, PaymentID: &payment.ID, Message: message}, nil
	}

	issued, err := s.recordIssuedLink(ctx, payment.ID, result)
	if err != nil {
		return nil, err
	}
	if !issued {
		return &model.CreatePaymentResponse{
			Success:   false,
			PaymentID: &payment.ID,
			Message:   "Payment is no longer pending",
		}, nil
	}

	if s.enqueuer != nil {
		if err := s.enqueuer.EnqueueExpirePayment(ctx, payment.ID, s.config.PaymentTimeout); err != nil {
			logger.ErrorWithFields("Failed to schedule payment expiry", err, map[string]interface{}{
				"payment_id": payment.ID.String(),
			})
		}
	}

	logger.Info("Payment link issued", map[string]interface{}{
		"payment_id":      payment.ID.String(),
		"booking_id":      payment.BookingID.String(),
		"method":          payment.Method,
		"amount":          payment.Amount.String(),
		"transaction_ref": result.TransactionRef,
	})

	paymentURL := result.PaymentURL
	expiresAt := payment.CreatedAt.Add(s.config.PaymentTimeout)
	return &model.CreatePaymentResponse{
		Success:    true,
		PaymentID:  &payment.ID,
		PaymentURL: &paymentURL,
		Message:    "Payment link created",
		ExpiresAt:  &expiresAt,
	}, nil
}

// recordIssuedLink stores the provider reference and link. It reports false
// when the payment left pending while the provider was being called.
func (s *paymentService) recordIssuedLink(ctx context.Context, paymentID uuid.UUID, result *gateway.PaymentURLResult) (bool, error) {
	issued := false
	err := s.uow.Do(ctx, func(repos database.Repositories) error {
		payment, err := repos.Payments.GetByIDForUpdate(ctx, paymentID)
		if err != nil {
			return err
		}

		ref := result.TransactionRef
		url := result.PaymentURL
		payment.TransactionRef = &ref
		payment.PaymentURL = &url
		payment.UpdatedAt = s.now()
		issued = payment.Status == model.PaymentStatusPending

		return repos.Payments.Update(ctx, payment)
	})
	return issued, err
}

func (s *paymentService) markFailed(ctx context.Context, paymentID uuid.UUID, message string) error {
	return s.uow.Do(ctx, func(repos database.Repositories) error {
		payment, err := repos.Payments.GetByIDForUpdate(ctx, paymentID)
		if err != nil {
			return err
		}
		if payment.Status != model.PaymentStatusPending {
			return nil
		}

		payment.Status = model.PaymentStatusFailed
		payment.Message = &message
		payment.UpdatedAt = s.now()
		return repos.Payments.Update(ctx, payment)
	})
}

// =====================================================
// CALLBACKS
// =====================================================

func (s *paymentService) ApplyCallback(ctx context.Context, update model.CallbackUpdate) (bool, error) {
	_, changed, err := s.applyCallback(ctx, update)
	return changed, err
}

// applyCallback locks the booking before the payment, the same order every
// other writer uses, and commits the payment outcome and the booking paid
// flag together.
func (s *paymentService) applyCallback(ctx context.Context, update model.CallbackUpdate) (*model.Payment, bool, error) {
	var (
		payment *model.Payment
		changed bool
	)

	err := s.uow.Do(ctx, func(repos database.Repositories) error {
		found, err := repos.Payments.GetByTransactionRef(ctx, update.TransactionRef)
		if err != nil {
			if errors.Is(err, model.ErrPaymentNotFound) {
				return model.NewPaymentNotFoundError(update.TransactionRef)
			}
			return err
		}

		booking, err := lockBooking(ctx, repos, found.BookingID)
		if err != nil {
			return err
		}
		payment, err = repos.Payments.GetByIDForUpdate(ctx, found.ID)
		if err != nil {
			return err
		}

		if payment.Status != model.PaymentStatusPending {
			if payment.Status != update.Status && update.Status != model.PaymentStatusPending {
				logger.Warn("Conflicting payment outcome ignored", map[string]interface{}{
					"payment_id":      payment.ID.String(),
					"current_status":  payment.Status,
					"incoming_status": update.Status,
					"transaction_ref": update.TransactionRef,
				})
			}
			return nil
		}
		if update.Status == model.PaymentStatusPending {
			return nil
		}

		if !update.Amount.IsZero() && !amountMatches(payment.Amount, update.Amount) {
			logger.Warn("Callback amount mismatch", map[string]interface{}{
				"payment_id": payment.ID.String(),
				"expected":   payment.Amount.String(),
				"received":   update.Amount.String(),
			})
			return model.NewAmountMismatchError(update.TransactionRef)
		}

		now := s.now()
		payment.Status = update.Status
		payment.UpdatedAt = now
		if update.TransactionID != "" {
			transactionID := update.TransactionID
			payment.TransactionID = &transactionID
		}
		if update.ProviderStatus != "" {
			providerStatus := update.ProviderStatus
			payment.ProviderStatus = &providerStatus
		}
		if update.Message != "" {
			message := update.Message
			payment.Message = &message
		}
		if update.Status == model.PaymentStatusSuccess {
			payment.PaidAt = &now
		}

		if err := repos.Payments.Update(ctx, payment); err != nil {
			return err
		}

		if update.Status == model.PaymentStatusSuccess {
			booking.MarkPaid(now)
			if err := repos.Bookings.Update(ctx, booking); err != nil {
				return err
			}
		}

		changed = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	if changed {
		logger.Info("Payment resolved", map[string]interface{}{
			"payment_id":      payment.ID.String(),
			"booking_id":      payment.BookingID.String(),
			"status":          payment.Status,
			"transaction_ref": update.TransactionRef,
		})
	}
	return payment, changed, nil
}

func (s *paymentService) HandleCallback(ctx context.Context, payload map[string]string) (*model.CallbackOutcome, error) {
	// Step 1: Which provider sent it
	gw, ok := s.gateways.Detect(payload)
	if !ok {
		return nil, model.NewMalformedCallbackError("Callback does not match any payment provider")
	}

	// Step 2: Verify the payload
	result, err := gw.ProcessCallback(ctx, payload)
	if err != nil {
		return nil, model.NewGatewayUnavailableError(gw.Method(), err)
	}
	if !result.Verified {
		logger.Warn("Unverified payment callback", map[string]interface{}{
			"method":          gw.Method(),
			"transaction_ref": result.TransactionRef,
			"message":         result.Message,
		})
		return &model.CallbackOutcome{
			Success:        false,
			Verified:       false,
			TransactionRef: result.TransactionRef,
			Status:         model.PaymentStatusPending,
			Message:        result.Message,
		}, nil
	}

	logger.Debug("Payment callback verified", map[string]interface{}{
		"method":          gw.Method(),
		"transaction_ref": result.TransactionRef,
		"status":          result.Status,
	})

	// Step 3: One callback per reference at a time
	release, acquired, err := s.acquireCallbackLock(ctx, result.TransactionRef)
	if err != nil {
		return nil, err
	}
	if !acquired {
		return s.processingOutcome(ctx, result)
	}
	defer release()

	// Step 4: Apply
	payment, _, err := s.applyCallback(ctx, model.CallbackUpdate{
		TransactionRef: result.TransactionRef,
		TransactionID:  result.TransactionID,
		Status:         result.Status,
		ProviderStatus: result.ProviderStatus,
		Message:        result.Message,
		Amount:         result.Amount,
	})
	if err != nil {
		return nil, err
	}

	transactionID := result.TransactionID
	if transactionID == "" && payment.TransactionID != nil {
		transactionID = *payment.TransactionID
	}
	return &model.CallbackOutcome{
		Success:        payment.Status == model.PaymentStatusSuccess,
		Verified:       true,
		BookingID:      payment.BookingID,
		PaymentID:      payment.ID,
		TransactionRef: result.TransactionRef,
		TransactionID:  transactionID,
		Status:         payment.Status,
		Message:        result.Message,
	}, nil
}

// processingOutcome reports the stored state of a payment whose callback is
// still being applied by another request. It never writes.
func (s *paymentService) processingOutcome(ctx context.Context, result *gateway.CallbackResult) (*model.CallbackOutcome, error) {
	var payment *model.Payment
	err := s.uow.Do(ctx, func(repos database.Repositories) error {
		found, err := repos.Payments.GetByTransactionRef(ctx, result.TransactionRef)
		if err != nil {
			if errors.Is(err, model.ErrPaymentNotFound) {
				return model.NewPaymentNotFoundError(result.TransactionRef)
			}
			return err
		}
		payment = found
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Callback deferred to concurrent handler", map[string]interface{}{
		"transaction_ref": result.TransactionRef,
		"payment_id":      payment.ID.String(),
		"status":          payment.Status,
	})

	outcome := &model.CallbackOutcome{
		Success:        payment.Status == model.PaymentStatusSuccess,
		Verified:       true,
		Processing:     payment.Status == model.PaymentStatusPending,
		BookingID:      payment.BookingID,
		PaymentID:      payment.ID,
		TransactionRef: result.TransactionRef,
		TransactionID:  result.TransactionID,
		Status:         payment.Status,
		Message:        result.Message,
	}
	if outcome.Processing {
		outcome.Message = messageProcessing
	}
	return outcome, nil
}

// acquireCallbackLock waits up to CallbackLockWait for a concurrent callback
// of the same reference to finish. It is best effort: a cache outage lets the
// callback through, since the row locks already keep the ledger consistent.
func (s *paymentService) acquireCallbackLock(ctx context.Context, ref string) (func(), bool, error) {
	noop := func() {}
	if s.cache == nil || ref == "" {
		return noop, true, nil
	}

	key := callbackLockPrefix + ref
	deadline := time.Now().Add(s.config.CallbackLockWait)
	for {
		acquired, err := s.cache.SetNX(ctx, key, "1", s.config.CallbackLockTTL)
		if err != nil {
			logger.Warn("Callback lock unavailable", map[string]interface{}{
				"transaction_ref": ref,
				"error":           err.Error(),
			})
			return noop, true, nil
		}
		if acquired {
			break
		}
		if !time.Now().Before(deadline) {
			return nil, false, nil
		}

		select {
		case <-ctx.Done():
			return nil, false, ctx.Err()
		case <-time.After(callbackLockPoll):
		}
	}

	return func() {
		if err := s.cache.Delete(context.WithoutCancel(ctx), key); err != nil {
			logger.Warn("Failed to release callback lock", map[string]interface{}{
				"transaction_ref": ref,
				"error":           err.Error(),
			})
		}
	}, true, nil
}

// =====================================================
// CANCEL PAYMENT
// =====================================================

func (s *paymentService) CancelPayment(ctx context.Context, actor shared.Actor, paymentID uuid.UUID) (bool, error) {
	authorize := func(booking *bookingModel.Booking) error {
		if !booking.IsParticipant(actor.ID) && !actor.Role.IsBackOffice() {
			return model.NewForbiddenError("cancel this payment")
		}
		return nil
	}

	payment, cancelled, err := s.cancelPending(ctx, paymentID, reasonCancelledByUser, authorize)
	if err != nil {
		return false, err
	}
	if cancelled {
		logger.Info("Payment cancelled", map[string]interface{}{
			"payment_id": payment.ID.String(),
			"actor_id":   actor.ID.String(),
		})
	}
	return cancelled, nil
}

// cancelPending cancels a pending payment and then, outside the unit of
// work, voids the provider link when the provider supports it.
func (s *paymentService) cancelPending(
	ctx context.Context,
	paymentID uuid.UUID,
	reason string,
	authorize func(*bookingModel.Booking) error,
) (*model.Payment, bool, error) {
	var (
		payment   *model.Payment
		cancelled bool
	)

	err := s.uow.Do(ctx, func(repos database.Repositories) error {
		found, err := repos.Payments.GetByID(ctx, paymentID)
		if err != nil {
			if errors.Is(err, model.ErrPaymentNotFound) {
				return model.NewPaymentNotFoundError(paymentID.String())
			}
			return err
		}

		booking, err := lockBooking(ctx, repos, found.BookingID)
		if err != nil {
			return err
		}
		if authorize != nil {
			if err := authorize(booking); err != nil {
				return err
			}
		}

		payment, err = repos.Payments.GetByIDForUpdate(ctx, paymentID)
		if err != nil {
			return err
		}
		if payment.Status != model.PaymentStatusPending {
			return nil
		}

		payment.Status = model.PaymentStatusCancelled
		payment.Message = &reason
		payment.UpdatedAt = s.now()
		if err := repos.Payments.Update(ctx, payment); err != nil {
			return err
		}

		cancelled = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	if cancelled {
		s.voidProviderLink(ctx, payment, reason)
	}
	return payment, cancelled, nil
}

func (s *paymentService) voidProviderLink(ctx context.Context, payment *model.Payment, reason string) {
	if payment.TransactionRef == nil {
		return
	}
	gw, ok := s.gateways.Get(payment.Method)
	if !ok {
		return
	}
	canceller, ok := gw.(gateway.Canceller)
	if !ok {
		return
	}

	if err := canceller.CancelPayment(ctx, *payment.TransactionRef, reason); err != nil {
		logger.Warn("Failed to cancel provider payment link", map[string]interface{}{
			"payment_id":      payment.ID.String(),
			"method":          payment.Method,
			"transaction_ref": *payment.TransactionRef,
			"error":           err.Error(),
		})
	}
}

// =====================================================
// STATUS & RECONCILIATION
// =====================================================

func (s *paymentService) GetPaymentStatus(
	ctx context.Context,
	actor shared.Actor,
	bookingID uuid.UUID,
	refresh bool,
) (*model.PaymentStatusResponse, error) {
	booking, latest, err := s.loadStatus(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !booking.IsParticipant(actor.ID) && !actor.Role.IsBackOffice() {
		return nil, model.NewForbiddenError("view payments of this booking")
	}

	if refresh && latest != nil && latest.Status == model.PaymentStatusPending {
		if _, err := s.ReconcilePayment(ctx, latest.ID); err != nil {
			if !apperror.IsKind(err, apperror.KindGateway) {
				return nil, err
			}
			logger.Warn("Payment refresh failed, returning stored status", map[string]interface{}{
				"payment_id": latest.ID.String(),
				"error":      err.Error(),
			})
		} else if booking, latest, err = s.loadStatus(ctx, bookingID); err != nil {
			return nil, err
		}
	}

	response := &model.PaymentStatusResponse{BookingID: booking.ID, IsPaid: booking.IsPaid}
	if latest != nil {
		response.Payment = model.ToPaymentResponse(latest)
	}
	return response, nil
}

func (s *paymentService) loadStatus(ctx context.Context, bookingID uuid.UUID) (*bookingModel.Booking, *model.Payment, error) {
	var (
		booking *bookingModel.Booking
		latest  *model.Payment
	)
	err := s.uow.Do(ctx, func(repos database.Repositories) error {
		var err error
		booking, err = repos.Bookings.GetByID(ctx, bookingID)
		if err != nil {
			if errors.Is(err, bookingModel.ErrBookingNotFound) {
				return model.NewBookingNotFoundError(bookingID)
			}
			return err
		}

		latest, err = repos.Payments.GetLatestByBookingID(ctx, bookingID)
		if errors.Is(err, model.ErrPaymentNotFound) {
			latest = nil
			return nil
		}
		return err
	})
	return booking, latest, err
}

func (s *paymentService) ReconcilePayment(ctx context.Context, paymentID uuid.UUID) (*model.Payment, error) {
	var payment *model.Payment
	err := s.uow.Do(ctx, func(repos database.Repositories) error {
		var err error
		payment, err = repos.Payments.GetByID(ctx, paymentID)
		if errors.Is(err, model.ErrPaymentNotFound) {
			return model.NewPaymentNotFoundError(paymentID.String())
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	if payment.Status != model.PaymentStatusPending {
		return payment, nil
	}

	expired := payment.IsExpired(s.config.PaymentTimeout, s.now())
	gw, ok := s.gateways.Get(payment.Method)
	if payment.TransactionRef == nil || !ok {
		if expired {
			return s.expire(ctx, payment)
		}
		return payment, nil
	}

	result, err := gw.QueryPayment(ctx, gateway.QueryRequest{
		TransactionRef: *payment.TransactionRef,
		CreatedAt:      payment.CreatedAt,
	})
	if err != nil {
		return nil, model.NewGatewayUnavailableError(payment.Method, err)
	}

	if result.Success && result.Status != model.PaymentStatusPending {
		resolved, _, err := s.applyCallback(ctx, model.CallbackUpdate{
			TransactionRef: *payment.TransactionRef,
			TransactionID:  result.TransactionID,
			Status:         result.Status,
			ProviderStatus: result.ProviderStatus,
			Message:        result.Message,
			Amount:         result.Amount,
		})
		return resolved, err
	}

	if expired {
		return s.expire(ctx, payment)
	}
	return payment, nil
}

func (s *paymentService) expire(ctx context.Context, payment *model.Payment) (*model.Payment, error) {
	expired, cancelled, err := s.cancelPending(ctx, payment.ID, reasonExpired, nil)
	if err != nil {
		return nil, err
	}
	if cancelled {
		logger.Info("Payment expired", map[string]interface{}{
			"payment_id": expired.ID.String(),
			"booking_id": expired.BookingID.String(),
		})
	}
	return expired, nil
}

func (s *paymentService) SweepExpiredPayments(ctx context.Context, limit int) (int, error) {
	cutoff := s.now().Add(-s.config.PaymentTimeout)

	var pending []*model.Payment
	err := s.uow.Do(ctx, func(repos database.Repositories) error {
		var err error
		pending, err = repos.Payments.ListPendingCreatedBefore(ctx, cutoff, limit)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("failed to list expired payments: %w", err)
	}

	resolved := 0
	for _, payment := range pending {
		if err := ctx.Err(); err != nil {
			return resolved, err
		}

		result, err := s.ReconcilePayment(ctx, payment.ID)
		if err != nil {
			logger.ErrorWithFields("Failed to reconcile expired payment", err, map[string]interface{}{
				"payment_id": payment.ID.String(),
			})
			continue
		}
		if result.Status != model.PaymentStatusPending {
			resolved++
		}
	}

	if len(pending) > 0 {
		logger.Info("Expired payments swept", map[string]interface{}{
			"candidates": len(pending),
			"resolved":   resolved,
		})
	}
	return resolved, nil
}

// =====================================================
// HELPERS
// =====================================================

func lockBooking(ctx context.Context, repos database.Repositories, id uuid.UUID) (*bookingModel.Booking, error) {
	booking, err := repos.Bookings.GetByIDForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, bookingModel.ErrBookingNotFound) {
			return nil, model.NewBookingNotFoundError(id)
		}
		return nil, err
	}
	return booking, nil
}

// amountMatches accepts the provider echoing the amount rounded to whole
// units, as VND providers do.
func amountMatches(expected, received decimal.Decimal) bool {
	return received.Equal(expected) || received.Equal(expected.Round(0))
}

func describeOrder(description *string, bookingID uuid.UUID) string {
	if description != nil && *description != "" {
		return *description
	}
	return fmt.Sprintf("Payment for booking %s", bookingID)
}
