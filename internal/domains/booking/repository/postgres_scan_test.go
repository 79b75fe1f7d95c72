package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"petcare-backend/internal/domains/booking/model"
)

// binaryRow encodes each column in the binary result format pgx requests
// from Postgres and scans it through the same type map.
type binaryRow struct {
	m    *pgtype.Map
	oids []uint32
	vals []any
}

func (r *binaryRow) add(oid uint32, value any) *binaryRow {
	r.oids = append(r.oids, oid)
	r.vals = append(r.vals, value)
	return r
}

func (r *binaryRow) Scan(dest ...any) error {
	if len(dest) != len(r.oids) {
		return fmt.Errorf("%d destinations for %d columns", len(dest), len(r.oids))
	}
	for i, oid := range r.oids {
		src, err := r.m.Encode(oid, pgtype.BinaryFormatCode, r.vals[i], nil)
		if err != nil {
			return fmt.Errorf("encode column %d: %w", i, err)
		}
		if err := r.m.Scan(oid, pgtype.BinaryFormatCode, src, dest[i]); err != nil {
			return fmt.Errorf("scan column %d: %w", i, err)
		}
	}
	return nil
}

func pgUUID(id uuid.UUID) pgtype.UUID {
	return pgtype.UUID{Bytes: id, Valid: true}
}

func bookingRow(b *model.Booking, pickUp pgtype.Time) *binaryRow {
	row := &binaryRow{m: pgtype.NewMap()}
	return row.
		add(pgtype.UUIDOID, pgUUID(b.ID)).
		add(pgtype.UUIDOID, pgUUID(b.CustomerID)).
		add(pgtype.UUIDOID, pgUUID(b.FreelancerID)).
		add(pgtype.DateOID, b.BookingDate.Time()).
		add(pgtype.TimeOID, pickUp).
		add(pgtype.TextOID, string(b.Status)).
		add(pgtype.TextOID, string(b.PickUpStatus)).
		add(pgtype.NumericOID, pgtype.Numeric{Int: b.TotalPrice.Coefficient(), Exp: b.TotalPrice.Exponent(), Valid: true}).
		add(pgtype.BoolOID, b.IsPaid).
		add(pgtype.TimestamptzOID, b.CreatedAt).
		add(pgtype.TimestamptzOID, b.UpdatedAt).
		add(pgtype.UUIDArrayOID, b.ServiceIDs).
		add(pgtype.UUIDArrayOID, b.PetIDs)
}

func TestScanBooking_BinaryColumns(t *testing.T) {
	pickUp, err := model.NewTimeOfDay(9, 30)
	require.NoError(t, err)
	created := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	want := &model.Booking{
		ID:           uuid.New(),
		CustomerID:   uuid.New(),
		FreelancerID: uuid.New(),
		BookingDate:  model.NewDate(2026, 3, 15),
		PickUpTime:   pickUp,
		Status:       model.BookingStatusConfirmed,
		PickUpStatus: model.PickUpStatusPickedUp,
		TotalPrice:   decimal.RequireFromString("240000.50"),
		IsPaid:       true,
		ServiceIDs:   []uuid.UUID{uuid.New(), uuid.New()},
		PetIDs:       []uuid.UUID{uuid.New()},
		CreatedAt:    created,
		UpdatedAt:    created.Add(time.Hour),
	}

	got, err := scanBooking(bookingRow(want, toPgTime(pickUp)))

	require.NoError(t, err)
	assert.Equal(t, want.ID, got.ID)
	assert.Equal(t, want.CustomerID, got.CustomerID)
	assert.Equal(t, want.FreelancerID, got.FreelancerID)
	assert.Equal(t, "2026-03-15", got.BookingDate.String())
	assert.Equal(t, "09:30", got.PickUpTime.String())
	assert.Equal(t, want.Status, got.Status)
	assert.Equal(t, want.PickUpStatus, got.PickUpStatus)
	assert.True(t, want.TotalPrice.Equal(got.TotalPrice), got.TotalPrice.String())
	assert.True(t, got.IsPaid)
	assert.Equal(t, want.ServiceIDs, got.ServiceIDs)
	assert.Equal(t, want.PetIDs, got.PetIDs)
	assert.True(t, want.CreatedAt.Equal(got.CreatedAt))
	assert.True(t, want.UpdatedAt.Equal(got.UpdatedAt))
}

func TestScanBooking_EmptyLinksAndNullTime(t *testing.T) {
	b := &model.Booking{
		ID:           uuid.New(),
		CustomerID:   uuid.New(),
		FreelancerID: uuid.New(),
		BookingDate:  model.NewDate(2026, 12, 31),
		Status:       model.BookingStatusPending,
		PickUpStatus: model.PickUpStatusNotPickedUp,
		TotalPrice:   decimal.Zero,
		ServiceIDs:   []uuid.UUID{},
		PetIDs:       []uuid.UUID{},
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}

	got, err := scanBooking(bookingRow(b, pgtype.Time{}))

	require.NoError(t, err)
	assert.Empty(t, got.ServiceIDs)
	assert.Empty(t, got.PetIDs)
	assert.True(t, got.PickUpTime.IsZero())
	assert.Equal(t, "2026-12-31", got.BookingDate.String())
}

func TestToPgTime(t *testing.T) {
	tests := []struct {
		name   string
		hour   int
		minute int
	}{
		{"midnight", 0, 0},
		{"morning", 9, 30},
		{"last minute", 23, 59},
	}

	m := pgtype.NewMap()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tod, err := model.NewTimeOfDay(tt.hour, tt.minute)
			require.NoError(t, err)

			encoded, err := m.Encode(pgtype.TimeOID, pgtype.BinaryFormatCode, toPgTime(tod), nil)
			require.NoError(t, err)
			var decoded pgtype.Time
			require.NoError(t, m.Scan(pgtype.TimeOID, pgtype.BinaryFormatCode, encoded, &decoded))

			require.True(t, decoded.Valid)
			back, err := model.TimeOfDayFromMinutes(int(decoded.Microseconds / int64(time.Minute/time.Microsecond)))
			require.NoError(t, err)
			assert.Equal(t, tod, back)
		})
	}

	assert.False(t, toPgTime(model.TimeOfDay{}).Valid)
}
