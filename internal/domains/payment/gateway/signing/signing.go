// Package signing builds the canonical strings and HMAC digests shared by the
// query-string gateways.
package signing

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"hash"
	"net/url"
	"sort"
	"strings"
)

// CanonicalString sorts params by key and joins them as key=value with "&".
// Empty values and the excluded keys are skipped. Values are not URL-encoded.
func CanonicalString(params map[string]string, exclude ...string) string {
	skip := make(map[string]struct{}, len(exclude))
	for _, k := range exclude {
		skip[k] = struct{}{}
	}

	keys := make([]string, 0, len(params))
	for k, v := range params {
		if _, excluded := skip[k]; excluded || v == "" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(params[k])
	}
	return b.String()
}

// CanonicalFields joins exactly the listed keys, sorted, keeping empty values.
// Providers such as MoMo sign a fixed field set where "extraData=" may be empty.
func CanonicalFields(params map[string]string, keys []string) string {
	sorted := append([]string(nil), keys...)
	sort.Strings(sorted)

	parts := make([]string, 0, len(sorted))
	for _, k := range sorted {
		parts = append(parts, k+"="+params[k])
	}
	return strings.Join(parts, "&")
}

// EncodedQuery renders params as a URL query string in sorted key order.
func EncodedQuery(params map[string]string) string {
	values := url.Values{}
	for k, v := range params {
		if v != "" {
			values.Set(k, v)
		}
	}
	return values.Encode()
}

func HMACSHA512Hex(data, secret string) string {
	return hmacHex(sha512.New, data, secret)
}

func HMACSHA256Hex(data, secret string) string {
	return hmacHex(sha256.New, data, secret)
}

func hmacHex(h func() hash.Hash, data, secret string) string {
	mac := hmac.New(h, []byte(secret))
	mac.Write([]byte(data))
	return hex.EncodeToString(mac.Sum(nil))
}

// Equal compares two hex signatures case-insensitively in constant time.
func Equal(received, expected string) bool {
	if received == "" || expected == "" {
		return false
	}
	a := []byte(strings.ToLower(received))
	b := []byte(strings.ToLower(expected))
	return subtle.ConstantTimeCompare(a, b) == 1
}
