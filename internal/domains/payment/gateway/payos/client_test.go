package payos

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	payossdk "github.com/payOSHQ/payos-lib-golang"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"petcare-backend/internal/domains/payment/gateway"
	"petcare-backend/internal/domains/payment/model"
)

type fakeLinkAPI struct {
	mu        sync.Mutex
	created   []payossdk.CheckoutRequestType
	link      *CheckoutLink
	info      *LinkInfo
	err       error
	cancelled []string
	delay     time.Duration
}

func (f *fakeLinkAPI) CreateLink(req payossdk.CheckoutRequestType) (*CheckoutLink, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, req)
	if f.err != nil {
		return nil, f.err
	}
	return f.link, nil
}

func (f *fakeLinkAPI) GetLink(orderCode string) (*LinkInfo, error) {
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.info, nil
}

func (f *fakeLinkAPI) CancelLink(orderCode, reason string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cancelled = append(f.cancelled, orderCode)
	return f.err
}

func newTestClient(api LinkAPI) *Client {
	c := NewClient(api, time.Second)
	c.now = func() time.Time { return time.UnixMilli(1741600000000) }
	return c
}

func TestCreatePaymentURL(t *testing.T) {
	api := &fakeLinkAPI{link: &CheckoutLink{CheckoutURL: "https://pay.payos.vn/web/abc", PaymentLinkID: "abc"}}
	c := newTestClient(api)

	res, err := c.CreatePaymentURL(context.Background(), gateway.PaymentURLRequest{
		PaymentID: uuid.New(),
		BookingID: uuid.New(),
		Amount:    decimal.NewFromInt(150000),
		OrderInfo: "Thanh toan dich vu cham soc thu cung",
		ReturnURL: "https://api.test/api/v1/payment/callback",
	})

	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, "https://pay.payos.vn/web/abc", res.PaymentURL)
	assert.Equal(t, "1741600000000", res.TransactionRef)

	require.Len(t, api.created, 1)
	sent := api.created[0]
	assert.Equal(t, int64(1741600000000), sent.OrderCode)
	assert.Equal(t, 150000, sent.Amount)
	assert.LessOrEqual(t, utf8.RuneCountInString(sent.Description), maxDescriptionLength)
	assert.Equal(t, "https://api.test/api/v1/payment/callback", sent.ReturnUrl)
}

func TestCreatePaymentURL_TruncatesOnRuneBoundary(t *testing.T) {
	api := &fakeLinkAPI{link: &CheckoutLink{CheckoutURL: "https://pay.payos.vn/web/abc"}}
	c := newTestClient(api)

	_, err := c.CreatePaymentURL(context.Background(), gateway.PaymentURLRequest{
		Amount:    decimal.NewFromInt(1000),
		OrderInfo: "Thanh toán dịch vụ chăm sóc thú cưng",
	})
	require.NoError(t, err)

	require.Len(t, api.created, 1)
	sent := api.created[0].Description
	assert.True(t, utf8.ValidString(sent))
	assert.Equal(t, "Thanh toán dịch vụ chăm s", sent)
}

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "short", truncateRunes("short", 25))
	assert.Equal(t, "ăâ", truncateRunes("ăâđ", 2))
	assert.Equal(t, "", truncateRunes("", 3))
}

func TestCreatePaymentURL_OrderCodesAreUnique(t *testing.T) {
	api := &fakeLinkAPI{link: &CheckoutLink{CheckoutURL: "https://pay.payos.vn/web/abc"}}
	c := newTestClient(api)

	req := gateway.PaymentURLRequest{Amount: decimal.NewFromInt(1000)}
	first, err := c.CreatePaymentURL(context.Background(), req)
	require.NoError(t, err)
	second, err := c.CreatePaymentURL(context.Background(), req)
	require.NoError(t, err)

	assert.NotEqual(t, first.TransactionRef, second.TransactionRef)
}

func TestCreatePaymentURL_Failures(t *testing.T) {
	c := newTestClient(&fakeLinkAPI{})
	res, err := c.CreatePaymentURL(context.Background(), gateway.PaymentURLRequest{Amount: decimal.Zero})
	require.NoError(t, err)
	assert.False(t, res.Success)

	c = newTestClient(&fakeLinkAPI{err: errors.New("connection reset")})
	_, err = c.CreatePaymentURL(context.Background(), gateway.PaymentURLRequest{Amount: decimal.NewFromInt(1000)})
	assert.Error(t, err)
}

func TestProcessCallback_QueriesProvider(t *testing.T) {
	api := &fakeLinkAPI{info: &LinkInfo{OrderCode: 1741600000000, Amount: 150000, AmountPaid: 150000, Status: StatusPaid}}
	c := newTestClient(api)

	// Redirect parameters claim cancellation, the provider says paid.
	res, err := c.ProcessCallback(context.Background(), map[string]string{
		"orderCode": "1741600000000",
		"status":    "CANCELLED",
		"cancel":    "true",
	})

	require.NoError(t, err)
	assert.True(t, res.Verified)
	assert.Equal(t, model.PaymentStatusSuccess, res.Status)
	assert.True(t, decimal.NewFromInt(150000).Equal(res.Amount))
	assert.Equal(t, "1741600000000", res.TransactionRef)
}

func TestProcessCallback_Rejections(t *testing.T) {
	c := newTestClient(&fakeLinkAPI{info: &LinkInfo{OrderCode: 42, Status: StatusPaid}})

	res, err := c.ProcessCallback(context.Background(), map[string]string{"orderCode": "abc"})
	require.NoError(t, err)
	assert.False(t, res.Verified)

	res, err = c.ProcessCallback(context.Background(), map[string]string{"orderCode": "1741600000000"})
	require.NoError(t, err)
	assert.False(t, res.Verified, "order code mismatch must not verify")
}

func TestQueryPayment_Timeout(t *testing.T) {
	c := NewClient(&fakeLinkAPI{delay: 200 * time.Millisecond, info: &LinkInfo{OrderCode: 1}}, 20*time.Millisecond)

	_, err := c.QueryPayment(context.Background(), gateway.QueryRequest{TransactionRef: "1"})

	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestMapStatus(t *testing.T) {
	assert.Equal(t, model.PaymentStatusSuccess, mapStatus(StatusPaid))
	assert.Equal(t, model.PaymentStatusCancelled, mapStatus(StatusCancelled))
	assert.Equal(t, model.PaymentStatusCancelled, mapStatus(StatusExpired))
	assert.Equal(t, model.PaymentStatusPending, mapStatus(StatusPending))
	assert.Equal(t, model.PaymentStatusPending, mapStatus(StatusProcessing))
	assert.Equal(t, model.PaymentStatusFailed, mapStatus("UNKNOWN"))
}

func TestCancelPayment(t *testing.T) {
	api := &fakeLinkAPI{}
	c := newTestClient(api)

	require.NoError(t, c.CancelPayment(context.Background(), "42", "Payment expired"))
	assert.Equal(t, []string{"42"}, api.cancelled)
}
