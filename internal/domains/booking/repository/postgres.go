package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/lib/pq"

	"petcare-backend/internal/domains/booking/model"
	"petcare-backend/internal/shared/utils"
	"petcare-backend/pkg/database"
)

// =====================================================
// BOOKING REPOSITORY IMPLEMENTATION
// =====================================================
type postgresRepository struct {
	db database.Querier
}

// NewPostgresRepository binds the repository to a pool or an open transaction.
func NewPostgresRepository(db database.Querier) Repository {
	return &postgresRepository{db: db}
}

const bookingColumns = `
	b.id, b.customer_id, b.freelancer_id, b.booking_date, b.pick_up_time,
	b.status, b.pick_up_status, b.total_price, b.is_paid, b.created_at, b.updated_at,
	COALESCE((SELECT array_agg(bs.service_id ORDER BY bs.position) FROM booking_services bs WHERE bs.booking_id = b.id), '{}'),
	COALESCE((SELECT array_agg(bp.pet_id ORDER BY bp.position) FROM booking_pets bp WHERE bp.booking_id = b.id), '{}')
`

func (r *postgresRepository) Create(ctx context.Context, booking *model.Booking) error {
	query := `
		INSERT INTO bookings (
			id, customer_id, freelancer_id, booking_date, pick_up_time,
			status, pick_up_status, total_price, is_paid, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.db.Exec(ctx, query,
		booking.ID,
		booking.CustomerID,
		booking.FreelancerID,
		booking.BookingDate.Time(),
		toPgTime(booking.PickUpTime),
		booking.Status,
		booking.PickUpStatus,
		booking.TotalPrice,
		booking.IsPaid,
		booking.CreatedAt,
		booking.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}

	// unnest WITH ORDINALITY keeps the request order of the ids
	_, err = r.db.Exec(ctx, `
		INSERT INTO booking_services (booking_id, service_id, position)
		SELECT $1, s.id, s.position FROM unnest($2::uuid[]) WITH ORDINALITY AS s(id, position)
	`, booking.ID, pq.Array(booking.ServiceIDs))
	if err != nil {
		return fmt.Errorf("failed to link booking services: %w", err)
	}

	_, err = r.db.Exec(ctx, `
		INSERT INTO booking_pets (booking_id, pet_id, position)
		SELECT $1, p.id, p.position FROM unnest($2::uuid[]) WITH ORDINALITY AS p(id, position)
	`, booking.ID, pq.Array(booking.PetIDs))
	if err != nil {
		return fmt.Errorf("failed to link booking pets: %w", err)
	}

	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings b WHERE b.id = $1`
	return r.getOne(ctx, query, id)
}

func (r *postgresRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings b WHERE b.id = $1 FOR UPDATE OF b`
	return r.getOne(ctx, query, id)
}

func (r *postgresRepository) getOne(ctx context.Context, query string, id uuid.UUID) (*model.Booking, error) {
	booking, err := scanBooking(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return booking, nil
}

func (r *postgresRepository) Update(ctx context.Context, booking *model.Booking) error {
	query := `
		UPDATE bookings
		SET status = $2,
			pick_up_status = $3,
			pick_up_time = $4,
			is_paid = $5,
			updated_at = $6
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		booking.ID,
		booking.Status,
		booking.PickUpStatus,
		toPgTime(booking.PickUpTime),
		booking.IsPaid,
		booking.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update booking: %w", err)
	}
	if result.RowsAffected() == 0 {
		return model.ErrBookingNotFound
	}

	return nil
}

func (r *postgresRepository) List(ctx context.Context, filter model.ListFilter) ([]*model.Booking, int, error) {
	var where utils.WhereBuilder
	if filter.CustomerID != nil {
		where.Add("b.customer_id = ?", *filter.CustomerID)
	}
	if filter.FreelancerID != nil {
		where.Add("b.freelancer_id = ?", *filter.FreelancerID)
	}
	if filter.Status != nil {
		where.Add("b.status = ?", *filter.Status)
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM bookings b ` + where.SQL()
	if err := r.db.QueryRow(ctx, countQuery, where.Args()...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	limit := where.Arg(filter.Limit)
	offset := where.Arg(filter.Offset)
	query := fmt.Sprintf(`
		SELECT %s FROM bookings b
		%s
		ORDER BY b.booking_date DESC, b.created_at DESC
		LIMIT %s OFFSET %s
	`, bookingColumns, where.SQL(), limit, offset)

	rows, err := r.db.Query(ctx, query, where.Args()...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer rows.Close()

	bookings := make([]*model.Booking, 0, filter.Limit)
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, booking)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate bookings: %w", err)
	}

	return bookings, total, nil
}

func (r *postgresRepository) LockSlot(ctx context.Context, freelancerID uuid.UUID, date model.Date) error {
	key := freelancerID.String() + "|" + date.String()
	if _, err := r.db.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, key); err != nil {
		return fmt.Errorf("failed to lock booking slot: %w", err)
	}
	return nil
}

func (r *postgresRepository) HasSlotConflict(
	ctx context.Context,
	freelancerID uuid.UUID,
	date model.Date,
	serviceIDs []uuid.UUID,
) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM bookings b
			JOIN booking_services bs ON bs.booking_id = b.id
			WHERE b.freelancer_id = $1
			  AND b.booking_date = $2
			  AND b.status <> $3
			  AND bs.service_id = ANY($4::uuid[])
		)
	`

	var exists bool
	err := r.db.QueryRow(ctx, query,
		freelancerID,
		date.Time(),
		model.BookingStatusCancelled,
		pq.Array(serviceIDs),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check booking slot: %w", err)
	}

	return exists, nil
}

// =====================================================
// SCAN HELPERS
// =====================================================

func scanBooking(row pgx.Row) (*model.Booking, error) {
	var (
		b           model.Booking
		bookingDate time.Time
		pickUpTime  pgtype.Time
	)

	err := row.Scan(
		&b.ID,
		&b.CustomerID,
		&b.FreelancerID,
		&bookingDate,
		&pickUpTime,
		&b.Status,
		&b.PickUpStatus,
		&b.TotalPrice,
		&b.IsPaid,
		&b.CreatedAt,
		&b.UpdatedAt,
		// pgx returns uuid[] in binary format, which pq.Array cannot parse
		&b.ServiceIDs,
		&b.PetIDs,
	)
	if err != nil {
		return nil, err
	}

	b.BookingDate = model.DateFromTime(bookingDate)
	if pickUpTime.Valid {
		b.PickUpTime, err = model.TimeOfDayFromMinutes(int(pickUpTime.Microseconds / int64(time.Minute/time.Microsecond)))
		if err != nil {
			return nil, err
		}
	}

	return &b, nil
}

func toPgTime(t model.TimeOfDay) pgtype.Time {
	if t.IsZero() {
		return pgtype.Time{}
	}
	return pgtype.Time{
		Microseconds: int64(t.Minutes()) * int64(time.Minute/time.Microsecond),
		Valid:        true,
	}
}
