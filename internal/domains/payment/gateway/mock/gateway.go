package mock

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"petcare-backend/internal/domains/payment/gateway"
	"petcare-backend/internal/domains/payment/gateway/signing"
	"petcare-backend/internal/domains/payment/model"
)

// Secret signs mock callback payloads.
const Secret = "mock-secret"

// Callback payload keys.
const (
	KeyRef           = "mock_ref"
	KeyTransactionID = "mock_txn"
	KeyCode          = "mock_code"
	KeyAmount        = "mock_amount"
	KeySignature     = "mock_signature"
)

// =====================================================
// MOCK GATEWAY FOR TESTING
// =====================================================

// Gateway is a scriptable fake provider. Callbacks carry mock_* keys signed
// with Secret; the code "00" is a success, "24" a cancellation, "07" a
// pending hold and anything else a failure.
type Gateway struct {
	mu sync.Mutex

	method model.PaymentMethod

	// Scripted responses. A nil URLResult issues a link for the payment id.
	URLResult   *gateway.PaymentURLResult
	URLErr      error
	Query       *gateway.QueryResult
	QueryErr    error
	CallbackErr error
	CancelErr   error

	URLRequests []gateway.PaymentURLRequest
	Queries     []gateway.QueryRequest
	Cancelled   []string
}

func New(method model.PaymentMethod) *Gateway {
	return &Gateway{method: method}
}

var (
	_ gateway.Gateway   = (*Gateway)(nil)
	_ gateway.Canceller = (*Gateway)(nil)
)

func (g *Gateway) Method() model.PaymentMethod {
	return g.method
}

func (g *Gateway) Matches(payload map[string]string) bool {
	return payload[KeyRef] != "" && payload[KeySignature] != ""
}

func (g *Gateway) CreatePaymentURL(ctx context.Context, req gateway.PaymentURLRequest) (*gateway.PaymentURLResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.URLRequests = append(g.URLRequests, req)
	if g.URLErr != nil {
		return nil, g.URLErr
	}
	if g.URLResult != nil {
		result := *g.URLResult
		return &result, nil
	}

	ref := req.PaymentID.String()
	return &gateway.PaymentURLResult{
		Success:        true,
		PaymentURL:     fmt.Sprintf("https://mock-gateway.test/pay?ref=%s&amount=%s", ref, req.Amount.StringFixed(0)),
		TransactionRef: ref,
	}, nil
}

func (g *Gateway) ProcessCallback(ctx context.Context, payload map[string]string) (*gateway.CallbackResult, error) {
	if g.CallbackErr != nil {
		return nil, g.CallbackErr
	}

	if !signing.Equal(payload[KeySignature], Sign(payload)) {
		return gateway.Rejected("invalid signature"), nil
	}

	amount := decimal.Zero
	if raw := payload[KeyAmount]; raw != "" {
		parsed, err := decimal.NewFromString(raw)
		if err != nil {
			return gateway.Rejected("invalid amount"), nil
		}
		amount = parsed
	}

	code := payload[KeyCode]
	return &gateway.CallbackResult{
		Verified:       true,
		TransactionRef: payload[KeyRef],
		TransactionID:  payload[KeyTransactionID],
		Amount:         amount,
		Status:         mapCode(code),
		ProviderStatus: code,
		Message:        "mock " + code,
	}, nil
}

func (g *Gateway) QueryPayment(ctx context.Context, req gateway.QueryRequest) (*gateway.QueryResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.Queries = append(g.Queries, req)
	if g.QueryErr != nil {
		return nil, g.QueryErr
	}
	if g.Query != nil {
		result := *g.Query
		return &result, nil
	}
	return &gateway.QueryResult{Success: true, Status: model.PaymentStatusPending, ProviderStatus: "07"}, nil
}

func (g *Gateway) CancelPayment(ctx context.Context, transactionRef, reason string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.Cancelled = append(g.Cancelled, transactionRef)
	return g.CancelErr
}

// Sign computes the signature a genuine mock callback carries.
func Sign(payload map[string]string) string {
	return signing.HMACSHA256Hex(signing.CanonicalString(payload, KeySignature), Secret)
}

// Callback builds a signed callback payload.
func Callback(ref, transactionID, code string, amount decimal.Decimal) map[string]string {
	payload := map[string]string{
		KeyRef:           ref,
		KeyTransactionID: transactionID,
		KeyCode:          code,
	}
	if !amount.IsZero() {
		payload[KeyAmount] = amount.String()
	}
	payload[KeySignature] = Sign(payload)
	return payload
}

func mapCode(code string) model.PaymentStatus {
	switch code {
	case "00":
		return model.PaymentStatusSuccess
	case "24":
		return model.PaymentStatusCancelled
	case "07":
		return model.PaymentStatusPending
	default:
		return model.PaymentStatusFailed
	}
}
