package gateway

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"petcare-backend/internal/domains/payment/model"
)

// =====================================================
// GATEWAY CONTRACT
// =====================================================

// Gateway is implemented once per payment provider.
//
// Errors returned from these methods are transport failures (network,
// timeouts, unreadable responses) and may be retried. Business outcomes
// such as a rejected order or a forged callback are reported through the
// result structs with a nil error.
type Gateway interface {
	Method() model.PaymentMethod

	// Matches reports whether a callback payload was produced by this provider.
	Matches(payload map[string]string) bool

	CreatePaymentURL(ctx context.Context, req PaymentURLRequest) (*PaymentURLResult, error)
	ProcessCallback(ctx context.Context, payload map[string]string) (*CallbackResult, error)
	QueryPayment(ctx context.Context, req QueryRequest) (*QueryResult, error)
}

// Canceller is implemented by providers that can void an issued checkout link.
type Canceller interface {
	CancelPayment(ctx context.Context, transactionRef, reason string) error
}

// =====================================================
// REQUEST/RESULT TYPES
// =====================================================

type PaymentURLRequest struct {
	PaymentID uuid.UUID
	BookingID uuid.UUID
	Amount    decimal.Decimal
	OrderInfo string
	ReturnURL string
	IPAddress string
}

type PaymentURLResult struct {
	Success      bool
	PaymentURL   string
	ErrorMessage string
	// TransactionRef is the merchant reference the provider will echo back
	// in callbacks and accepts in status queries.
	TransactionRef string
}

// CallbackResult is the parsed, signature-checked form of a callback payload.
// When Verified is false nothing else may be trusted.
type CallbackResult struct {
	Verified       bool
	TransactionRef string
	TransactionID  string
	Amount         decimal.Decimal
	Status         model.PaymentStatus
	ProviderStatus string
	Message        string
}

type QueryRequest struct {
	TransactionRef string
	CreatedAt      time.Time
	IPAddress      string
}

type QueryResult struct {
	Success        bool
	Status         model.PaymentStatus
	TransactionID  string
	Amount         decimal.Decimal
	ProviderStatus string
	Message        string
}

// Rejected builds the result for a payload that failed verification.
func Rejected(message string) *CallbackResult {
	return &CallbackResult{Verified: false, Status: model.PaymentStatusPending, Message: message}
}
