package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bookingModel "petcare-backend/internal/domains/booking/model"
	"petcare-backend/internal/domains/payment/gateway"
	"petcare-backend/internal/domains/payment/gateway/mock"
	"petcare-backend/internal/domains/payment/model"
	"petcare-backend/internal/domains/payment/service"
	"petcare-backend/internal/infrastructure/database/memstore"
	"petcare-backend/internal/shared"
	"petcare-backend/internal/shared/apperror"
	"petcare-backend/internal/shared/middleware"
	"petcare-backend/pkg/cache"
	"petcare-backend/pkg/jwt"
)

const (
	successURL = "https://app.test/payment/success"
	failureURL = "https://app.test/payment/failure"
	pendingURL = "https://app.test/payment/pending"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type testServer struct {
	router   *gin.Engine
	tokens   *jwt.Manager
	store    *memstore.Store
	gw       *mock.Gateway
	customer shared.Actor
	booking  *bookingModel.Booking
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	return newTestServerWithCache(t, nil)
}

func newTestServerWithCache(t *testing.T, locks cache.Cache) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	ts := &testServer{
		router:   gin.New(),
		tokens:   jwt.NewManager("test-secret", time.Hour),
		store:    memstore.New(),
		gw:       mock.New(model.PaymentMethodVNPay),
		customer: shared.Actor{ID: uuid.New(), Role: shared.RoleCustomer},
	}
	ts.booking = &bookingModel.Booking{
		ID:           uuid.New(),
		CustomerID:   ts.customer.ID,
		FreelancerID: uuid.New(),
		BookingDate:  bookingModel.NewDate(2026, 3, 15),
		Status:       bookingModel.BookingStatusPending,
		PickUpStatus: bookingModel.PickUpStatusNotPickedUp,
		TotalPrice:   decimal.NewFromInt(200000),
		ServiceIDs:   []uuid.UUID{uuid.New()},
		PetIDs:       []uuid.UUID{uuid.New()},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	ts.store.PutBooking(ts.booking)

	svc := service.NewPaymentService(
		ts.store,
		gateway.NewRegistry(ts.gw),
		locks,
		nil,
		service.Config{
			PaymentTimeout:   15 * time.Minute,
			ReturnURL:        "https://api.test/api/v1/payment/callback",
			CallbackLockWait: 20 * time.Millisecond,
		},
		func() time.Time { return now },
	)

	ts.router.Use(middleware.ClientIPMiddleware())
	h := NewPaymentHandler(svc, RedirectConfig{SuccessURL: successURL, FailureURL: failureURL, PendingURL: pendingURL})
	h.RegisterRoutes(ts.router.Group("/api/v1"), middleware.AuthMiddleware(ts.tokens))
	return ts
}

func (ts *testServer) authorized(t *testing.T, method, path string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	raw := []byte(nil)
	if body != nil {
		var err error
		raw, err = json.Marshal(body)
		require.NoError(t, err)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	token, err := ts.tokens.GenerateAccessToken(ts.customer.ID.String(), string(ts.customer.Role))
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w, env
}

func (ts *testServer) createPayment(t *testing.T) model.CreatePaymentResponse {
	t.Helper()
	w, env := ts.authorized(t, http.MethodPost, "/api/v1/payment", gin.H{
		"booking_id": ts.booking.ID,
		"method":     model.PaymentMethodVNPay,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp model.CreatePaymentResponse
	require.NoError(t, json.Unmarshal(env.Data, &resp))
	return resp
}

func redirectTarget(t *testing.T, w *httptest.ResponseRecorder) *url.URL {
	t.Helper()
	require.Equal(t, http.StatusFound, w.Code, w.Body.String())
	target, err := url.Parse(w.Header().Get("Location"))
	require.NoError(t, err)
	return target
}

func TestCreatePayment(t *testing.T) {
	ts := newTestServer(t)

	resp := ts.createPayment(t)

	assert.True(t, resp.Success)
	require.NotNil(t, resp.PaymentURL)
	assert.Contains(t, *resp.PaymentURL, "mock-gateway.test")
	require.Len(t, ts.gw.URLRequests, 1)
	assert.NotEmpty(t, ts.gw.URLRequests[0].IPAddress)
}

func TestCreatePayment_ProviderRejection(t *testing.T) {
	ts := newTestServer(t)
	ts.gw.URLResult = &gateway.PaymentURLResult{Success: false, ErrorMessage: "merchant disabled"}

	w, env := ts.authorized(t, http.MethodPost, "/api/v1/payment", gin.H{
		"booking_id": ts.booking.ID,
		"method":     model.PaymentMethodVNPay,
	})

	require.Equal(t, http.StatusOK, w.Code)
	var resp model.CreatePaymentResponse
	require.NoError(t, json.Unmarshal(env.Data, &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "merchant disabled", resp.Message)
}

func TestCreatePayment_SecondAttemptConflicts(t *testing.T) {
	ts := newTestServer(t)
	ts.createPayment(t)

	w, env := ts.authorized(t, http.MethodPost, "/api/v1/payment", gin.H{
		"booking_id": ts.booking.ID,
		"method":     model.PaymentMethodVNPay,
	})

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, model.ErrCodeActivePaymentExists, env.Error.Code)
}

func TestCreatePayment_GatewayOutage(t *testing.T) {
	ts := newTestServer(t)
	ts.gw.URLErr = assert.AnError

	w, env := ts.authorized(t, http.MethodPost, "/api/v1/payment", gin.H{
		"booking_id": ts.booking.ID,
		"method":     model.PaymentMethodVNPay,
	})

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, model.ErrCodeGatewayUnavailable, env.Error.Code)
	assert.NotContains(t, env.Error.Message, assert.AnError.Error())
}

func TestCallback_SuccessRedirect(t *testing.T) {
	ts := newTestServer(t)
	created := ts.createPayment(t)
	ref := created.PaymentID.String()

	query := url.Values{}
	for k, v := range mock.Callback(ref, "TXN-1", "00", decimal.NewFromInt(200000)) {
		query.Set(k, v)
	}
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/payment/callback?"+query.Encode(), nil))

	target := redirectTarget(t, w)
	assert.Equal(t, successURL, target.Scheme+"://"+target.Host+target.Path)
	assert.Equal(t, ts.booking.ID.String(), target.Query().Get("bookingId"))
	assert.Equal(t, "TXN-1", target.Query().Get("transactionId"))

	booking, ok := ts.store.Booking(ts.booking.ID)
	require.True(t, ok)
	assert.True(t, booking.IsPaid)
}

func TestCallback_FormPost(t *testing.T) {
	ts := newTestServer(t)
	created := ts.createPayment(t)

	form := url.Values{}
	for k, v := range mock.Callback(created.PaymentID.String(), "TXN-2", "24", decimal.Zero) {
		form.Set(k, v)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payment/callback", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)

	target := redirectTarget(t, w)
	assert.True(t, strings.HasPrefix(target.String(), failureURL))
	assert.Equal(t, ts.booking.ID.String(), target.Query().Get("bookingId"))

	payment, ok := ts.store.Payment(*created.PaymentID)
	require.True(t, ok)
	assert.Equal(t, model.PaymentStatusCancelled, payment.Status)
}

func postNotification(t *testing.T, ts *testServer, payload map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payment/callback", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

func TestCallback_NotificationAcknowledged(t *testing.T) {
	ts := newTestServer(t)
	created := ts.createPayment(t)

	w := postNotification(t, ts, mock.Callback(created.PaymentID.String(), "TXN-3", "00", decimal.NewFromInt(200000)))

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Header().Get("Location"))
	booking, ok := ts.store.Booking(ts.booking.ID)
	require.True(t, ok)
	assert.True(t, booking.IsPaid)
}

func TestCallback_NotificationOfFailedPaymentAcknowledged(t *testing.T) {
	ts := newTestServer(t)
	created := ts.createPayment(t)

	w := postNotification(t, ts, mock.Callback(created.PaymentID.String(), "TXN-3", "24", decimal.Zero))

	assert.Equal(t, http.StatusNoContent, w.Code)
	payment, ok := ts.store.Payment(*created.PaymentID)
	require.True(t, ok)
	assert.Equal(t, model.PaymentStatusCancelled, payment.Status)
}

func TestCallback_NotificationRejections(t *testing.T) {
	ts := newTestServer(t)
	created := ts.createPayment(t)

	forged := mock.Callback(created.PaymentID.String(), "TXN-4", "00", decimal.NewFromInt(200000))
	forged[mock.KeyAmount] = "1"
	w := postNotification(t, ts, forged)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = postNotification(t, ts, map[string]string{"foo": "bar"})
	assert.Equal(t, http.StatusBadGateway, w.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/payment/callback", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	payment, ok := ts.store.Payment(*created.PaymentID)
	require.True(t, ok)
	assert.Equal(t, model.PaymentStatusPending, payment.Status)
}

func TestCallback_ConcurrentCallback(t *testing.T) {
	locks := cache.NewMemory()
	ts := newTestServerWithCache(t, locks)
	created := ts.createPayment(t)
	ref := created.PaymentID.String()

	acquired, err := locks.SetNX(context.Background(), "payment:callback:"+ref, "1", time.Minute)
	require.NoError(t, err)
	require.True(t, acquired)

	// browser return lands on the pending page
	query := url.Values{}
	for k, v := range mock.Callback(ref, "TXN-5", "00", decimal.NewFromInt(200000)) {
		query.Set(k, v)
	}
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/payment/callback?"+query.Encode(), nil))

	target := redirectTarget(t, w)
	assert.Equal(t, pendingURL, target.Scheme+"://"+target.Host+target.Path)
	assert.Equal(t, ts.booking.ID.String(), target.Query().Get("bookingId"))
	assert.NotEmpty(t, target.Query().Get("message"))

	// notification is asked to retry
	w = postNotification(t, ts, mock.Callback(ref, "TXN-5", "00", decimal.NewFromInt(200000)))
	assert.Equal(t, http.StatusConflict, w.Code)
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	require.NotNil(t, env.Error)
	assert.Equal(t, model.ErrCodeCallbackInProgress, env.Error.Code)

	payment, ok := ts.store.Payment(*created.PaymentID)
	require.True(t, ok)
	assert.Equal(t, model.PaymentStatusPending, payment.Status)
}

func TestNewPaymentHandler_PendingDefaultsToSuccess(t *testing.T) {
	h := NewPaymentHandler(nil, RedirectConfig{SuccessURL: successURL, FailureURL: failureURL})
	assert.Equal(t, successURL, h.redirects.PendingURL)
}

func TestCallback_ForgedSignatureIsInert(t *testing.T) {
	ts := newTestServer(t)
	created := ts.createPayment(t)

	payload := mock.Callback(created.PaymentID.String(), "TXN-4", "00", decimal.NewFromInt(200000))
	payload[mock.KeyCode] = "00"
	payload[mock.KeyAmount] = "1"
	query := url.Values{}
	for k, v := range payload {
		query.Set(k, v)
	}
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/payment/callback?"+query.Encode(), nil))

	target := redirectTarget(t, w)
	assert.True(t, strings.HasPrefix(target.String(), failureURL))

	payment, ok := ts.store.Payment(*created.PaymentID)
	require.True(t, ok)
	assert.Equal(t, model.PaymentStatusPending, payment.Status)
	booking, _ := ts.store.Booking(ts.booking.ID)
	assert.False(t, booking.IsPaid)
}

func TestCallback_UnknownProvider(t *testing.T) {
	ts := newTestServer(t)

	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/payment/callback?foo=bar", nil))

	target := redirectTarget(t, w)
	assert.True(t, strings.HasPrefix(target.String(), failureURL))
	assert.NotEmpty(t, target.Query().Get("message"))
}

func TestGetPaymentStatus(t *testing.T) {
	ts := newTestServer(t)
	created := ts.createPayment(t)

	w, env := ts.authorized(t, http.MethodGet, "/api/v1/payment/"+ts.booking.ID.String()+"/status?refresh=true", nil)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var status model.PaymentStatusResponse
	require.NoError(t, json.Unmarshal(env.Data, &status))
	assert.False(t, status.IsPaid)
	require.NotNil(t, status.Payment)
	assert.Equal(t, *created.PaymentID, status.Payment.ID)
	assert.Len(t, ts.gw.Queries, 1)
}

func TestCancelPayment(t *testing.T) {
	ts := newTestServer(t)
	created := ts.createPayment(t)

	w, env := ts.authorized(t, http.MethodPost, "/api/v1/payment/"+created.PaymentID.String()+"/cancel", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"cancelled":true}`, string(env.Data))

	w, env = ts.authorized(t, http.MethodPost, "/api/v1/payment/"+created.PaymentID.String()+"/cancel", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"cancelled":false}`, string(env.Data))
}

func TestCallbackErrorMessage(t *testing.T) {
	assert.Equal(t, "Callback does not match any payment provider",
		callbackErrorMessage(model.NewMalformedCallbackError("Callback does not match any payment provider")))
	assert.Equal(t, "Payment provider vnpay is unavailable, please retry",
		callbackErrorMessage(model.NewGatewayUnavailableError(model.PaymentMethodVNPay, assert.AnError)))
	assert.Equal(t, callbackFailureMessage, callbackErrorMessage(assert.AnError))
	assert.Equal(t, "Slow down", callbackErrorMessage(apperror.New(apperror.KindConflict, "X", "Slow down", assert.AnError)))
}

func TestBuildRedirect(t *testing.T) {
	id := uuid.MustParse("7d9f1c55-3f0a-4a4e-9a53-0d7b1f6f2a11")

	assert.Equal(t,
		"https://app.test/done?bookingId=7d9f1c55-3f0a-4a4e-9a53-0d7b1f6f2a11&message=Paid+in+full&transactionId=T1",
		buildRedirect("https://app.test/done", id, "T1", "Paid in full"))
	assert.Equal(t, "https://app.test/done?lang=vi&message=x", buildRedirect("https://app.test/done?lang=vi", uuid.Nil, "", "x"))
	assert.Equal(t, "https://app.test/done", buildRedirect("https://app.test/done", uuid.Nil, "", ""))
}
