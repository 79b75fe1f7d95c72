package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"petcare-backend/internal/domains/payment/model"
	"petcare-backend/pkg/database"
)

// activePaymentIndex is the partial unique index allowing one pending or
// successful payment per booking.
const activePaymentIndex = "payments_active_booking_uniq"

// =====================================================
// PAYMENT REPOSITORY IMPLEMENTATION
// =====================================================
type postgresRepository struct {
	db database.Querier
}

// NewPostgresRepository binds the repository to a pool or an open transaction.
func NewPostgresRepository(db database.Querier) Repository {
	return &postgresRepository{db: db}
}

const paymentColumns = `
	id, booking_id, amount, commission_amount, method, status,
	transaction_ref, transaction_id, description, payment_url,
	provider_status, message, paid_at, created_at, updated_at
`

func (r *postgresRepository) Create(ctx context.Context, payment *model.Payment) error {
	query := `
		INSERT INTO payments (
			id, booking_id, amount, commission_amount, method, status,
			transaction_ref, description, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.Exec(ctx, query,
		payment.ID,
		payment.BookingID,
		payment.Amount,
		payment.CommissionAmount,
		payment.Method,
		payment.Status,
		payment.TransactionRef,
		payment.Description,
		payment.CreatedAt,
		payment.UpdatedAt,
	)
	if err != nil {
		if database.IsUniqueViolation(err, activePaymentIndex) {
			return model.ErrActivePaymentExists
		}
		return fmt.Errorf("failed to create payment: %w", err)
	}

	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`
	return r.getOne(ctx, query, id)
}

func (r *postgresRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1 FOR UPDATE`
	return r.getOne(ctx, query, id)
}

func (r *postgresRepository) GetByTransactionRef(ctx context.Context, ref string) (*model.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE transaction_ref = $1`
	return r.getOne(ctx, query, ref)
}

func (r *postgresRepository) GetLatestByBookingID(ctx context.Context, bookingID uuid.UUID) (*model.Payment, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM payments
		WHERE booking_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`
	return r.getOne(ctx, query, bookingID)
}

func (r *postgresRepository) getOne(ctx context.Context, query string, arg any) (*model.Payment, error) {
	payment, err := scanPayment(r.db.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrPaymentNotFound
		}
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}
	return payment, nil
}

func (r *postgresRepository) HasActivePayment(ctx context.Context, bookingID uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM payments
			WHERE booking_id = $1 AND status IN ($2, $3)
		)
	`

	var exists bool
	err := r.db.QueryRow(ctx, query,
		bookingID,
		model.PaymentStatusPending,
		model.PaymentStatusSuccess,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check active payment: %w", err)
	}

	return exists, nil
}

func (r *postgresRepository) Update(ctx context.Context, payment *model.Payment) error {
	query := `
		UPDATE payments
		SET status = $2,
			transaction_ref = $3,
			transaction_id = $4,
			payment_url = $5,
			provider_status = $6,
			message = $7,
			paid_at = $8,
			updated_at = $9
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		payment.ID,
		payment.Status,
		payment.TransactionRef,
		payment.TransactionID,
		payment.PaymentURL,
		payment.ProviderStatus,
		payment.Message,
		payment.PaidAt,
		payment.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update payment: %w", err)
	}
	if result.RowsAffected() == 0 {
		return model.ErrPaymentNotFound
	}

	return nil
}

func (r *postgresRepository) CancelPendingByBookingID(
	ctx context.Context,
	bookingID uuid.UUID,
	reason string,
	now time.Time,
) (int, error) {
	query := `
		UPDATE payments
		SET status = $2, message = $3, updated_at = $4
		WHERE booking_id = $1 AND status = $5
	`

	result, err := r.db.Exec(ctx, query,
		bookingID,
		model.PaymentStatusCancelled,
		reason,
		now,
		model.PaymentStatusPending,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to cancel pending payments: %w", err)
	}

	return int(result.RowsAffected()), nil
}

func (r *postgresRepository) ListPendingCreatedBefore(ctx context.Context, cutoff time.Time, limit int) ([]*model.Payment, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM payments
		WHERE status = $1 AND created_at < $2
		ORDER BY created_at ASC
		LIMIT $3
	`

	rows, err := r.db.Query(ctx, query, model.PaymentStatusPending, cutoff, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending payments: %w", err)
	}
	defer rows.Close()

	var payments []*model.Payment
	for rows.Next() {
		payment, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		payments = append(payments, payment)
	}

	return payments, rows.Err()
}

func scanPayment(row pgx.Row) (*model.Payment, error) {
	var p model.Payment
	err := row.Scan(
		&p.ID,
		&p.BookingID,
		&p.Amount,
		&p.CommissionAmount,
		&p.Method,
		&p.Status,
		&p.TransactionRef,
		&p.TransactionID,
		&p.Description,
		&p.PaymentURL,
		&p.ProviderStatus,
		&p.Message,
		&p.PaidAt,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
