package model

// =====================================================
// BOOKING STATUS
// =====================================================

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

var allowedStatusTransitions = map[BookingStatus][]BookingStatus{
	BookingStatusPending:   {BookingStatusConfirmed, BookingStatusCancelled},
	BookingStatusConfirmed: {BookingStatusCompleted, BookingStatusCancelled},
	BookingStatusCompleted: {},
	BookingStatusCancelled: {},
}

func (s BookingStatus) IsValid() bool {
	_, ok := allowedStatusTransitions[s]
	return ok
}

func (s BookingStatus) IsTerminal() bool {
	return s == BookingStatusCompleted || s == BookingStatusCancelled
}

// CanTransitionTo reports whether next is reachable from s in one step.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range allowedStatusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// AllBookingStatuses is used by request validation.
func AllBookingStatuses() []interface{} {
	return []interface{}{
		BookingStatusPending,
		BookingStatusConfirmed,
		BookingStatusCompleted,
		BookingStatusCancelled,
	}
}

// =====================================================
// PICK-UP STATUS
// =====================================================

type PickUpStatus string

const (
	PickUpStatusNotPickedUp PickUpStatus = "not_picked_up"
	PickUpStatusPickedUp    PickUpStatus = "picked_up"
	PickUpStatusReturned    PickUpStatus = "returned"
)

var pickUpOrder = map[PickUpStatus]int{
	PickUpStatusNotPickedUp: 0,
	PickUpStatusPickedUp:    1,
	PickUpStatusReturned:    2,
}

func (s PickUpStatus) IsValid() bool {
	_, ok := pickUpOrder[s]
	return ok
}

// CanAdvanceTo allows forward-only movement: a pet cannot be "un-returned".
func (s PickUpStatus) CanAdvanceTo(next PickUpStatus) bool {
	from, okFrom := pickUpOrder[s]
	to, okTo := pickUpOrder[next]
	return okFrom && okTo && to > from
}

func AllPickUpStatuses() []interface{} {
	return []interface{}{PickUpStatusNotPickedUp, PickUpStatusPickedUp, PickUpStatusReturned}
}

// =====================================================
// BUSINESS CONSTANTS
// =====================================================
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)
