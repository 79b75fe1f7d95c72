package vnpay

import (
	"strings"

	"petcare-backend/internal/domains/payment/gateway/signing"
)

const (
	paramSecureHash     = "vnp_SecureHash"
	paramSecureHashType = "vnp_SecureHashType"
)

// =====================================================
// VNPAY SIGNATURE
// =====================================================

// GenerateSignature signs every vnp_* parameter except the hash fields:
// keys sorted ascending, raw key=value pairs joined with "&", HMAC-SHA512,
// lowercase hex.
func GenerateSignature(params map[string]string, secretKey string) string {
	data := signing.CanonicalString(vnpParams(params), paramSecureHash, paramSecureHashType)
	return signing.HMACSHA512Hex(data, secretKey)
}

// VerifySignature recomputes the signature of a callback and compares it
// with vnp_SecureHash, case-insensitively.
func VerifySignature(params map[string]string, secretKey string) bool {
	received := params[paramSecureHash]
	if received == "" {
		return false
	}
	return signing.Equal(received, GenerateSignature(params, secretKey))
}

// BuildPaymentURL appends the encoded parameters and their signature to baseURL.
func BuildPaymentURL(baseURL string, params map[string]string, secretKey string) string {
	signature := GenerateSignature(params, secretKey)
	return baseURL + "?" + signing.EncodedQuery(params) + "&" + paramSecureHash + "=" + signature
}

// pipeSignature signs the pipe-separated field list used by the merchant API.
func pipeSignature(secretKey string, fields ...string) string {
	return signing.HMACSHA512Hex(strings.Join(fields, "|"), secretKey)
}

func vnpParams(params map[string]string) map[string]string {
	out := make(map[string]string, len(params))
	for k, v := range params {
		if strings.HasPrefix(k, "vnp_") {
			out[k] = v
		}
	}
	return out
}
