package payos

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"
	"unicode/utf8"

	payossdk "github.com/payOSHQ/payos-lib-golang"
	"github.com/shopspring/decimal"

	"petcare-backend/internal/domains/payment/gateway"
	"petcare-backend/internal/domains/payment/model"
	"petcare-backend/pkg/logger"
)

// =====================================================
// PAYOS HOSTED CHECKOUT
// =====================================================

// Client never trusts redirect parameters: every callback is resolved by
// querying the link status from PayOS.
type Client struct {
	api     LinkAPI
	timeout time.Duration
	now     func() time.Time

	mu       sync.Mutex
	lastCode int64
}

func NewClient(api LinkAPI, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{api: api, timeout: timeout, now: time.Now}
}

func (c *Client) Method() model.PaymentMethod {
	return model.PaymentMethodPayOS
}

func (c *Client) Matches(payload map[string]string) bool {
	_, err := strconv.ParseInt(payload["orderCode"], 10, 64)
	return err == nil
}

func (c *Client) CreatePaymentURL(ctx context.Context, req gateway.PaymentURLRequest) (*gateway.PaymentURLResult, error) {
	amount := req.Amount.Round(0).IntPart()
	if amount <= 0 {
		return &gateway.PaymentURLResult{ErrorMessage: "amount must be positive"}, nil
	}

	orderCode := c.nextOrderCode()
	description := truncateRunes(req.OrderInfo, maxDescriptionLength)

	checkout := payossdk.CheckoutRequestType{
		OrderCode:   orderCode,
		Amount:      int(amount),
		Description: description,
		Items: []payossdk.Item{{
			Name:     "Booking " + req.BookingID.String(),
			Quantity: 1,
			Price:    int(amount),
		}},
		ReturnUrl: req.ReturnURL,
		CancelUrl: req.ReturnURL,
	}

	link, err := callWithTimeout(ctx, c.timeout, func() (*CheckoutLink, error) {
		return c.api.CreateLink(checkout)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create PayOS payment link: %w", err)
	}
	if link.CheckoutURL == "" {
		return &gateway.PaymentURLResult{ErrorMessage: "PayOS returned no checkout url"}, nil
	}

	logger.Debug("PayOS payment link created", map[string]interface{}{
		"order_code":      orderCode,
		"payment_link_id": link.PaymentLinkID,
	})

	return &gateway.PaymentURLResult{
		Success:        true,
		PaymentURL:     link.CheckoutURL,
		TransactionRef: strconv.FormatInt(orderCode, 10),
	}, nil
}

// nextOrderCode derives a unique order code from the current Unix time in
// milliseconds, bumped when two links are created within the same millisecond.
func (c *Client) nextOrderCode() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	code := c.now().UnixMilli()
	if code <= c.lastCode {
		code = c.lastCode + 1
	}
	c.lastCode = code
	return code
}

func (c *Client) ProcessCallback(ctx context.Context, payload map[string]string) (*gateway.CallbackResult, error) {
	ref := payload["orderCode"]
	if !c.Matches(payload) {
		return gateway.Rejected("missing or invalid orderCode"), nil
	}

	res, err := c.QueryPayment(ctx, gateway.QueryRequest{TransactionRef: ref})
	if err != nil {
		return nil, err
	}
	if !res.Success {
		return gateway.Rejected(res.Message), nil
	}

	return &gateway.CallbackResult{
		Verified:       true,
		TransactionRef: ref,
		TransactionID:  res.TransactionID,
		Amount:         res.Amount,
		Status:         res.Status,
		ProviderStatus: res.ProviderStatus,
		Message:        res.Message,
	}, nil
}

func (c *Client) QueryPayment(ctx context.Context, req gateway.QueryRequest) (*gateway.QueryResult, error) {
	if req.TransactionRef == "" {
		return &gateway.QueryResult{Message: "transaction ref is required"}, nil
	}

	info, err := callWithTimeout(ctx, c.timeout, func() (*LinkInfo, error) {
		return c.api.GetLink(req.TransactionRef)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get PayOS payment link: %w", err)
	}
	if strconv.FormatInt(info.OrderCode, 10) != req.TransactionRef {
		return &gateway.QueryResult{Message: "order code mismatch"}, nil
	}

	status := mapStatus(info.Status)
	amount := info.Amount
	if status == model.PaymentStatusSuccess {
		amount = info.AmountPaid
	}

	return &gateway.QueryResult{
		Success:        true,
		Status:         status,
		TransactionID:  req.TransactionRef,
		Amount:         decimal.NewFromInt(int64(amount)),
		ProviderStatus: info.Status,
		Message:        fmt.Sprintf("PayOS link status %s", info.Status),
	}, nil
}

func (c *Client) CancelPayment(ctx context.Context, transactionRef, reason string) error {
	_, err := callWithTimeout(ctx, c.timeout, func() (struct{}, error) {
		return struct{}{}, c.api.CancelLink(transactionRef, reason)
	})
	if err != nil {
		return fmt.Errorf("failed to cancel PayOS payment link: %w", err)
	}
	return nil
}

func mapStatus(status string) model.PaymentStatus {
	switch status {
	case StatusPaid:
		return model.PaymentStatusSuccess
	case StatusCancelled, StatusExpired:
		return model.PaymentStatusCancelled
	case StatusPending, StatusProcessing:
		return model.PaymentStatusPending
	default:
		return model.PaymentStatusFailed
	}
}

// callWithTimeout bounds an SDK call, which takes no context, by ctx and timeout.
// The SDK goroutine is left to finish on its own when the deadline wins.
func callWithTimeout[T any](ctx context.Context, timeout time.Duration, fn func() (T, error)) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type result struct {
		val T
		err error
	}
	done := make(chan result, 1)
	go func() {
		v, err := fn()
		done <- result{v, err}
	}()

	select {
	case r := <-done:
		return r.val, r.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// truncateRunes cuts s to at most n characters without splitting a rune.
func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
