package momo

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"petcare-backend/internal/domains/payment/gateway"
	"petcare-backend/internal/domains/payment/model"
)

const (
	testAccessKey = "F8BBA842ECF85"
	testSecretKey = "K951B6PE1waDMi640xX08PD3vg6EkVlz"
)

func newTestClient(t *testing.T, apiURL string) *Client {
	t.Helper()
	c, err := NewClient(NewConfig("MOMO", testAccessKey, testSecretKey, apiURL, "https://api.example.com/ipn"), &http.Client{Timeout: 2 * time.Second})
	require.NoError(t, err)
	c.newID = func() string { return "req-1" }
	return c
}

func signedCallback(overrides map[string]string) map[string]string {
	payload := map[string]string{
		"partnerCode":  "MOMO",
		"orderId":      "8d5b7b8e-0000-4000-8000-000000000001",
		"requestId":    "req-1",
		"amount":       "70000",
		"orderInfo":    "Booking payment",
		"orderType":    "momo_wallet",
		"transId":      "4088878653",
		"resultCode":   "0",
		"message":      "Successful.",
		"payType":      "qr",
		"responseTime": "1721720663942",
		"extraData":    "",
	}
	for k, v := range overrides {
		payload[k] = v
	}
	payload["signature"] = Sign(payload, callbackFields, testAccessKey, testSecretKey)
	return payload
}

func TestCreatePaymentURL(t *testing.T) {
	var received map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/gateway/api/create", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		_ = json.NewEncoder(w).Encode(createResponse{ResultCode: 0, PayURL: "https://test-payment.momo.vn/pay/abc"})
	}))
	defer srv.Close()

	paymentID := uuid.New()
	res, err := newTestClient(t, srv.URL).CreatePaymentURL(context.Background(), gateway.PaymentURLRequest{
		PaymentID: paymentID,
		Amount:    decimal.NewFromInt(70000),
		OrderInfo: "Booking payment",
		ReturnURL: "https://api.example.com/callback",
	})
	require.NoError(t, err)
	require.True(t, res.Success)
	assert.Equal(t, "https://test-payment.momo.vn/pay/abc", res.PaymentURL)
	assert.Equal(t, paymentID.String(), res.TransactionRef)

	assert.Equal(t, float64(70000), received["amount"])
	assert.Equal(t, "captureWallet", received["requestType"])

	wantSig := Sign(map[string]string{
		"amount":      "70000",
		"extraData":   "",
		"ipnUrl":      "https://api.example.com/ipn",
		"orderId":     paymentID.String(),
		"orderInfo":   "Booking payment",
		"partnerCode": "MOMO",
		"redirectUrl": "https://api.example.com/callback",
		"requestId":   "req-1",
		"requestType": "captureWallet",
	}, createFields, testAccessKey, testSecretKey)
	assert.Equal(t, wantSig, received["signature"])
}

func TestCreatePaymentURLBusinessFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(createResponse{ResultCode: 1001, Message: "Insufficient funds"})
	}))
	defer srv.Close()

	res, err := newTestClient(t, srv.URL).CreatePaymentURL(context.Background(), gateway.PaymentURLRequest{
		PaymentID: uuid.New(),
		Amount:    decimal.NewFromInt(1000),
	})
	require.NoError(t, err, "business failures are not transport errors")
	assert.False(t, res.Success)
	assert.Equal(t, "Insufficient funds", res.ErrorMessage)
}

func TestCreatePaymentURLTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv.URL).CreatePaymentURL(context.Background(), gateway.PaymentURLRequest{
		PaymentID: uuid.New(),
		Amount:    decimal.NewFromInt(1000),
	})
	assert.Error(t, err)
}

func TestProcessCallback(t *testing.T) {
	c := newTestClient(t, "http://unused")

	res, err := c.ProcessCallback(context.Background(), signedCallback(nil))
	require.NoError(t, err)
	require.True(t, res.Verified)
	assert.Equal(t, model.PaymentStatusSuccess, res.Status)
	assert.Equal(t, "4088878653", res.TransactionID)
	assert.True(t, decimal.NewFromInt(70000).Equal(res.Amount))

	tampered := signedCallback(nil)
	tampered["amount"] = "1"
	res, err = c.ProcessCallback(context.Background(), tampered)
	require.NoError(t, err)
	assert.False(t, res.Verified)

	forgedPartner := signedCallback(map[string]string{"partnerCode": "OTHER"})
	res, err = c.ProcessCallback(context.Background(), forgedPartner)
	require.NoError(t, err)
	assert.False(t, res.Verified)

	cancelled := signedCallback(map[string]string{"resultCode": "1006", "message": "User denied"})
	res, err = c.ProcessCallback(context.Background(), cancelled)
	require.NoError(t, err)
	require.True(t, res.Verified)
	assert.Equal(t, model.PaymentStatusCancelled, res.Status)
}

func TestMapResultCode(t *testing.T) {
	assert.Equal(t, model.PaymentStatusSuccess, mapResultCode(0))
	assert.Equal(t, model.PaymentStatusPending, mapResultCode(1000))
	assert.Equal(t, model.PaymentStatusPending, mapResultCode(9000))
	assert.Equal(t, model.PaymentStatusCancelled, mapResultCode(1017))
	assert.Equal(t, model.PaymentStatusFailed, mapResultCode(1001))
	assert.Equal(t, model.PaymentStatusFailed, mapResultCode(4001))
}

func TestQueryPayment(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "/v2/gateway/api/query", r.URL.Path)
		assert.Equal(t, Sign(body, queryFields, testAccessKey, testSecretKey), body["signature"])
		_ = json.NewEncoder(w).Encode(queryResponse{OrderID: body["orderId"], Amount: 70000, TransID: 99, ResultCode: 0})
	}))
	defer srv.Close()

	res, err := newTestClient(t, srv.URL).QueryPayment(context.Background(), gateway.QueryRequest{TransactionRef: "order-1"})
	require.NoError(t, err)
	require.True(t, res.Success)
	assert.Equal(t, model.PaymentStatusSuccess, res.Status)
	assert.Equal(t, "99", res.TransactionID)
}
