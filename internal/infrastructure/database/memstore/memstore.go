// Package memstore is an in-memory UnitOfWork for tests. Units of work are
// serialized by one mutex, and a failed unit restores the snapshot taken
// when it began.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	bookingModel "petcare-backend/internal/domains/booking/model"
	paymentModel "petcare-backend/internal/domains/payment/model"
	"petcare-backend/internal/infrastructure/database"
)

// Operation names accepted by FailOn.
const (
	OpBookingCreate = "bookings.Create"
	OpBookingUpdate = "bookings.Update"
	OpPaymentCreate = "payments.Create"
	OpPaymentUpdate = "payments.Update"
)

type state struct {
	bookings map[uuid.UUID]*bookingModel.Booking
	payments map[uuid.UUID]*paymentModel.Payment
}

func (s state) clone() state {
	c := state{
		bookings: make(map[uuid.UUID]*bookingModel.Booking, len(s.bookings)),
		payments: make(map[uuid.UUID]*paymentModel.Payment, len(s.payments)),
	}
	for id, b := range s.bookings {
		c.bookings[id] = b.Clone()
	}
	for id, p := range s.payments {
		c.payments[id] = p.Clone()
	}
	return c
}

type Store struct {
	mu       sync.Mutex
	data     state
	services map[uuid.UUID]bookingModel.Service
	pets     map[uuid.UUID]bookingModel.Pet
	failures map[string]error
}

func New() *Store {
	return &Store{
		data: state{
			bookings: make(map[uuid.UUID]*bookingModel.Booking),
			payments: make(map[uuid.UUID]*paymentModel.Payment),
		},
		services: make(map[uuid.UUID]bookingModel.Service),
		pets:     make(map[uuid.UUID]bookingModel.Pet),
		failures: make(map[string]error),
	}
}

var _ database.UnitOfWork = (*Store)(nil)

func (s *Store) Do(ctx context.Context, fn func(repos database.Repositories) error) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	snapshot := s.data.clone()
	defer func() {
		if p := recover(); p != nil {
			s.data = snapshot
			panic(p)
		}
		if err != nil {
			s.data = snapshot
		}
	}()

	return fn(database.Repositories{
		Bookings: &bookingRepo{s},
		Catalog:  &catalogRepo{s},
		Payments: &paymentRepo{s},
	})
}

// =====================================================
// TEST HELPERS
// =====================================================

func (s *Store) AddService(svc bookingModel.Service) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.services[svc.ID] = svc
}

func (s *Store) AddPet(pet bookingModel.Pet) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pets[pet.ID] = pet
}

// PutBooking stores a booking directly, bypassing any business rule.
func (s *Store) PutBooking(b *bookingModel.Booking) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.bookings[b.ID] = b.Clone()
}

// PutPayment stores a payment directly, bypassing any business rule.
func (s *Store) PutPayment(p *paymentModel.Payment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.payments[p.ID] = p.Clone()
}

// FailOn makes the named operation return err until cleared with a nil err.
func (s *Store) FailOn(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.failures, op)
		return
	}
	s.failures[op] = err
}

func (s *Store) Booking(id uuid.UUID) (*bookingModel.Booking, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.data.bookings[id]
	if !ok {
		return nil, false
	}
	return b.Clone(), true
}

func (s *Store) Payment(id uuid.UUID) (*paymentModel.Payment, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.data.payments[id]
	if !ok {
		return nil, false
	}
	return p.Clone(), true
}

func (s *Store) BookingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data.bookings)
}

// PaymentsFor returns the payments of a booking, oldest first.
func (s *Store) PaymentsFor(bookingID uuid.UUID) []*paymentModel.Payment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.paymentsFor(bookingID)
}

func (s *Store) paymentsFor(bookingID uuid.UUID) []*paymentModel.Payment {
	var out []*paymentModel.Payment
	for _, p := range s.data.payments {
		if p.BookingID == bookingID {
			out = append(out, p.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func (s *Store) fail(op string) error {
	if err, ok := s.failures[op]; ok {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// =====================================================
// BOOKINGS
// =====================================================

type bookingRepo struct{ s *Store }

func (r *bookingRepo) Create(ctx context.Context, b *bookingModel.Booking) error {
	if err := r.s.fail(OpBookingCreate); err != nil {
		return err
	}
	if _, exists := r.s.data.bookings[b.ID]; exists {
		return fmt.Errorf("booking %s already exists", b.ID)
	}
	r.s.data.bookings[b.ID] = b.Clone()
	return nil
}

func (r *bookingRepo) GetByID(ctx context.Context, id uuid.UUID) (*bookingModel.Booking, error) {
	b, ok := r.s.data.bookings[id]
	if !ok {
		return nil, bookingModel.ErrBookingNotFound
	}
	return b.Clone(), nil
}

func (r *bookingRepo) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*bookingModel.Booking, error) {
	return r.GetByID(ctx, id)
}

func (r *bookingRepo) Update(ctx context.Context, b *bookingModel.Booking) error {
	if err := r.s.fail(OpBookingUpdate); err != nil {
		return err
	}
	if _, ok := r.s.data.bookings[b.ID]; !ok {
		return bookingModel.ErrBookingNotFound
	}
	r.s.data.bookings[b.ID] = b.Clone()
	return nil
}

func (r *bookingRepo) List(ctx context.Context, filter bookingModel.ListFilter) ([]*bookingModel.Booking, int, error) {
	var matched []*bookingModel.Booking
	for _, b := range r.s.data.bookings {
		if filter.CustomerID != nil && b.CustomerID != *filter.CustomerID {
			continue
		}
		if filter.FreelancerID != nil && b.FreelancerID != *filter.FreelancerID {
			continue
		}
		if filter.Status != nil && b.Status != *filter.Status {
			continue
		}
		matched = append(matched, b.Clone())
	}

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].BookingDate.Time().Equal(matched[j].BookingDate.Time()) {
			return matched[j].BookingDate.Before(matched[i].BookingDate)
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := len(matched)
	if filter.Offset >= total {
		return []*bookingModel.Booking{}, total, nil
	}
	end := filter.Offset + filter.Limit
	if filter.Limit <= 0 || end > total {
		end = total
	}
	return matched[filter.Offset:end], total, nil
}

// LockSlot is a no-op: the store already serializes every unit of work.
func (r *bookingRepo) LockSlot(ctx context.Context, freelancerID uuid.UUID, date bookingModel.Date) error {
	return nil
}

func (r *bookingRepo) HasSlotConflict(
	ctx context.Context,
	freelancerID uuid.UUID,
	date bookingModel.Date,
	serviceIDs []uuid.UUID,
) (bool, error) {
	for _, b := range r.s.data.bookings {
		if b.FreelancerID != freelancerID || b.BookingDate != date || b.Status == bookingModel.BookingStatusCancelled {
			continue
		}
		if b.HasAnyService(serviceIDs) {
			return true, nil
		}
	}
	return false, nil
}

// =====================================================
// CATALOG
// =====================================================

type catalogRepo struct{ s *Store }

func (r *catalogRepo) FindServicesByIDs(ctx context.Context, ids []uuid.UUID) ([]bookingModel.Service, error) {
	out := make([]bookingModel.Service, 0, len(ids))
	for _, id := range ids {
		if svc, ok := r.s.services[id]; ok {
			out = append(out, svc)
		}
	}
	return out, nil
}

func (r *catalogRepo) FindPetsByIDs(ctx context.Context, ids []uuid.UUID) ([]bookingModel.Pet, error) {
	out := make([]bookingModel.Pet, 0, len(ids))
	for _, id := range ids {
		if pet, ok := r.s.pets[id]; ok {
			out = append(out, pet)
		}
	}
	return out, nil
}

// =====================================================
// PAYMENTS
// =====================================================

type paymentRepo struct{ s *Store }

func (r *paymentRepo) Create(ctx context.Context, p *paymentModel.Payment) error {
	if err := r.s.fail(OpPaymentCreate); err != nil {
		return err
	}
	if p.Status.IsActive() {
		for _, existing := range r.s.data.payments {
			if existing.BookingID == p.BookingID && existing.Status.IsActive() {
				return paymentModel.ErrActivePaymentExists
			}
		}
	}
	r.s.data.payments[p.ID] = p.Clone()
	return nil
}

func (r *paymentRepo) GetByID(ctx context.Context, id uuid.UUID) (*paymentModel.Payment, error) {
	p, ok := r.s.data.payments[id]
	if !ok {
		return nil, paymentModel.ErrPaymentNotFound
	}
	return p.Clone(), nil
}

func (r *paymentRepo) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*paymentModel.Payment, error) {
	return r.GetByID(ctx, id)
}

func (r *paymentRepo) GetByTransactionRef(ctx context.Context, ref string) (*paymentModel.Payment, error) {
	for _, p := range r.s.data.payments {
		if p.TransactionRef != nil && *p.TransactionRef == ref {
			return p.Clone(), nil
		}
	}
	return nil, paymentModel.ErrPaymentNotFound
}

func (r *paymentRepo) GetLatestByBookingID(ctx context.Context, bookingID uuid.UUID) (*paymentModel.Payment, error) {
	payments := r.s.paymentsFor(bookingID)
	if len(payments) == 0 {
		return nil, paymentModel.ErrPaymentNotFound
	}
	return payments[len(payments)-1], nil
}

func (r *paymentRepo) HasActivePayment(ctx context.Context, bookingID uuid.UUID) (bool, error) {
	for _, p := range r.s.data.payments {
		if p.BookingID == bookingID && p.Status.IsActive() {
			return true, nil
		}
	}
	return false, nil
}

func (r *paymentRepo) Update(ctx context.Context, p *paymentModel.Payment) error {
	if err := r.s.fail(OpPaymentUpdate); err != nil {
		return err
	}
	if _, ok := r.s.data.payments[p.ID]; !ok {
		return paymentModel.ErrPaymentNotFound
	}
	r.s.data.payments[p.ID] = p.Clone()
	return nil
}

func (r *paymentRepo) CancelPendingByBookingID(
	ctx context.Context,
	bookingID uuid.UUID,
	reason string,
	now time.Time,
) (int, error) {
	count := 0
	for _, p := range r.s.data.payments {
		if p.BookingID != bookingID || p.Status != paymentModel.PaymentStatusPending {
			continue
		}
		p.Status = paymentModel.PaymentStatusCancelled
		msg := reason
		p.Message = &msg
		p.UpdatedAt = now
		count++
	}
	return count, nil
}

func (r *paymentRepo) ListPendingCreatedBefore(ctx context.Context, cutoff time.Time, limit int) ([]*paymentModel.Payment, error) {
	var out []*paymentModel.Payment
	for _, p := range r.s.data.payments {
		if p.Status == paymentModel.PaymentStatusPending && p.CreatedAt.Before(cutoff) {
			out = append(out, p.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
