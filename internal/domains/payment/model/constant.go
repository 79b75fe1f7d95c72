package model

// =====================================================
// PAYMENT METHODS
// =====================================================

// PaymentMethod selects the gateway adapter.
type PaymentMethod string

const (
	PaymentMethodVNPay PaymentMethod = "vnpay"
	PaymentMethodMomo  PaymentMethod = "momo"
	PaymentMethodPayOS PaymentMethod = "payos"
)

var ValidPaymentMethods = []interface{}{
	PaymentMethodVNPay,
	PaymentMethodMomo,
	PaymentMethodPayOS,
}

// =====================================================
// PAYMENT STATUS
// =====================================================

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusSuccess   PaymentStatus = "success"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusCancelled PaymentStatus = "cancelled"
)

// IsActive reports whether a payment in this status blocks a new attempt.
func (s PaymentStatus) IsActive() bool {
	return s == PaymentStatusPending || s == PaymentStatusSuccess
}

func (s PaymentStatus) IsTerminal() bool {
	return s == PaymentStatusSuccess || s == PaymentStatusFailed || s == PaymentStatusCancelled
}

// =====================================================
// VNPAY RESPONSE CODES
// =====================================================
var VNPayErrorCodeMap = map[string]string{
	"00": "Transaction successful",
	"07": "Transaction held for suspected fraud",
	"09": "Card or account not registered for internet banking",
	"10": "Card or account authentication failed more than 3 times",
	"11": "Payment window expired",
	"12": "Card or account is locked",
	"13": "Incorrect OTP",
	"24": "Customer cancelled the transaction",
	"51": "Insufficient balance",
	"65": "Daily transaction limit exceeded",
	"75": "Bank under maintenance",
	"79": "Wrong payment password too many times",
	"99": "Unknown error",
}

// =====================================================
// MOMO RESULT CODES
// =====================================================
var MomoErrorCodeMap = map[int]string{
	0:    "Successful",
	1000: "Transaction initiated, waiting for user confirmation",
	1001: "Insufficient funds",
	1002: "Transaction rejected by the issuer",
	1003: "Transaction cancelled after authorization",
	1004: "Amount exceeds payment limit",
	1005: "Payment URL or QR code expired",
	1006: "User declined the payment",
	1017: "Transaction cancelled by merchant",
	4001: "Invalid signature",
	9000: "Transaction authorized, awaiting capture",
}

// =====================================================
// BUSINESS CONSTANTS
// =====================================================
const (
	DefaultPaymentTimeoutMinutes = 15
	MaxDescriptionLength         = 255
)
