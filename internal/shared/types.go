package shared

import "github.com/google/uuid"

// Role is the caller's role as asserted by the auth layer.
type Role string

const (
	RoleCustomer   Role = "customer"
	RoleFreelancer Role = "freelancer"
	RoleStaff      Role = "staff"
	RoleAdmin      Role = "admin"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleCustomer, RoleFreelancer, RoleStaff, RoleAdmin:
		return true
	}
	return false
}

// IsBackOffice reports whether the role may act on any booking.
func (r Role) IsBackOffice() bool {
	return r == RoleStaff || r == RoleAdmin
}

// Actor identifies who performs an operation. The boundary layer builds it
// from the authenticated request and passes it explicitly to every service call.
type Actor struct {
	ID   uuid.UUID
	Role Role
}

// System is used by background jobs reconciling payments.
var System = Actor{ID: uuid.Nil, Role: RoleAdmin}

// Task types and queues of the asynq worker.
const (
	TypeExpirePayment       = "payment:expire"
	TypeSweepExpiredPayment = "payment:sweep_expired"

	QueueCritical = "critical"
	QueueDefault  = "default"
	QueueLow      = "low"
)

// ExpirePaymentPayload is the payload of TypeExpirePayment.
type ExpirePaymentPayload struct {
	PaymentID string `json:"payment_id"`
}

// SweepExpiredPaymentsPayload is the payload of TypeSweepExpiredPayment.
type SweepExpiredPaymentsPayload struct {
	Limit int `json:"limit"`
}
