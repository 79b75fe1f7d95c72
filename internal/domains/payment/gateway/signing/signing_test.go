package signing

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalString(t *testing.T) {
	params := map[string]string{
		"vnp_TxnRef":     "abc",
		"vnp_Amount":     "7000",
		"vnp_OrderInfo":  "Thanh toan don hang",
		"vnp_BankCode":   "",
		"vnp_SecureHash": "deadbeef",
	}

	got := CanonicalString(params, "vnp_SecureHash")
	assert.Equal(t, "vnp_Amount=7000&vnp_OrderInfo=Thanh toan don hang&vnp_TxnRef=abc", got)
}

func TestCanonicalStringIsOrderIndependent(t *testing.T) {
	a := map[string]string{"b": "2", "a": "1", "c": "3"}
	b := map[string]string{"c": "3", "a": "1", "b": "2"}
	assert.Equal(t, CanonicalString(a), CanonicalString(b))
	assert.Equal(t, "a=1&b=2&c=3", CanonicalString(a))
}

func TestHMACDigests(t *testing.T) {
	// RFC 4231 test case 2.
	const data, key = "what do ya want for nothing?", "Jefe"

	assert.Equal(t,
		"5bdcc146bf60754e6a042426089575c75a003f089d2739839dec58b964ec3843",
		HMACSHA256Hex(data, key))
	assert.Equal(t,
		"164b7a7bfcf819e2e395fbe73b56e0a387bd64222e831fd610270cd7ea2505549758bf75c05a994a6d034f65f8f0e6fdcaeab1a34d4a6b4b636e070a38bce737",
		HMACSHA512Hex(data, key))
}

func TestEqual(t *testing.T) {
	sig := HMACSHA256Hex("a=1", "secret")

	assert.True(t, Equal(sig, sig))
	assert.True(t, Equal(strings.ToUpper(sig), sig))
	tampered := []byte(sig)
	if tampered[0] == 'a' {
		tampered[0] = 'b'
	} else {
		tampered[0] = 'a'
	}
	assert.False(t, Equal(string(tampered), sig))
	assert.False(t, Equal("", sig))
	assert.False(t, Equal(sig, ""))
	assert.False(t, Equal(HMACSHA256Hex("a=2", "secret"), sig))
}

func TestEncodedQuery(t *testing.T) {
	got := EncodedQuery(map[string]string{"b": "x y", "a": "1&2", "empty": ""})
	assert.Equal(t, "a=1%262&b=x+y", got)
}

func TestCanonicalFieldsKeepsEmptyValues(t *testing.T) {
	params := map[string]string{"orderId": "o1", "amount": "70", "extraData": "", "ignored": "x"}
	got := CanonicalFields(params, []string{"orderId", "extraData", "amount"})
	assert.Equal(t, "amount=70&extraData=&orderId=o1", got)
}
