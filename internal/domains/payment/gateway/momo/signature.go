package momo

import (
	"petcare-backend/internal/domains/payment/gateway/signing"
)

// Sign computes the HMAC-SHA256 signature over the sorted field set.
// accessKey is injected from config and never read from the payload.
func Sign(params map[string]string, fields []string, accessKey, secretKey string) string {
	withKey := make(map[string]string, len(params)+1)
	for k, v := range params {
		withKey[k] = v
	}
	withKey["accessKey"] = accessKey
	return signing.HMACSHA256Hex(signing.CanonicalFields(withKey, fields), secretKey)
}

// VerifyCallback checks the signature field of a redirect or IPN payload.
func VerifyCallback(payload map[string]string, accessKey, secretKey string) bool {
	return signing.Equal(payload["signature"], Sign(payload, callbackFields, accessKey, secretKey))
}
