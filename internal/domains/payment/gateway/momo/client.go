package momo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"petcare-backend/internal/domains/payment/gateway"
	"petcare-backend/internal/domains/payment/model"
	"petcare-backend/pkg/logger"
)

// =====================================================
// MOMO CLIENT IMPLEMENTATION
// =====================================================

type Client struct {
	config     *Config
	httpClient *http.Client
	newID      func() string
}

func NewClient(config *Config, httpClient *http.Client) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid MoMo config: %w", err)
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	return &Client{
		config:     config,
		httpClient: httpClient,
		newID:      uuid.NewString,
	}, nil
}

func (c *Client) Method() model.PaymentMethod {
	return model.PaymentMethodMomo
}

func (c *Client) Matches(payload map[string]string) bool {
	return payload["partnerCode"] != "" && payload["orderId"] != "" && payload["signature"] != ""
}

// =====================================================
// CREATE PAYMENT URL
// =====================================================

type createResponse struct {
	PartnerCode  string `json:"partnerCode"`
	OrderID      string `json:"orderId"`
	RequestID    string `json:"requestId"`
	Amount       int64  `json:"amount"`
	ResponseTime int64  `json:"responseTime"`
	Message      string `json:"message"`
	ResultCode   int    `json:"resultCode"`
	PayURL       string `json:"payUrl"`
}

func (c *Client) CreatePaymentURL(ctx context.Context, req gateway.PaymentURLRequest) (*gateway.PaymentURLResult, error) {
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return &gateway.PaymentURLResult{ErrorMessage: "amount must be positive"}, nil
	}

	orderID := req.PaymentID.String()
	amount := req.Amount.Round(0).IntPart()
	params := map[string]string{
		"amount":      strconv.FormatInt(amount, 10),
		"extraData":   "",
		"ipnUrl":      c.config.IPNURL,
		"orderId":     orderID,
		"orderInfo":   req.OrderInfo,
		"partnerCode": c.config.PartnerCode,
		"redirectUrl": req.ReturnURL,
		"requestId":   c.newID(),
		"requestType": c.config.RequestType,
	}

	body := map[string]interface{}{
		"partnerCode": params["partnerCode"],
		"requestId":   params["requestId"],
		"amount":      amount,
		"orderId":     orderID,
		"orderInfo":   params["orderInfo"],
		"redirectUrl": params["redirectUrl"],
		"ipnUrl":      params["ipnUrl"],
		"requestType": params["requestType"],
		"extraData":   params["extraData"],
		"lang":        c.config.Lang,
		"signature":   Sign(params, createFields, c.config.AccessKey, c.config.SecretKey),
	}

	var resp createResponse
	if err := c.postJSON(ctx, c.config.CreateURL(), body, &resp); err != nil {
		return nil, err
	}

	if resp.ResultCode != ResultCodeSuccess || resp.PayURL == "" {
		logger.Info("MoMo rejected payment creation", map[string]interface{}{
			"order_id":    orderID,
			"result_code": resp.ResultCode,
			"message":     resp.Message,
		})
		return &gateway.PaymentURLResult{ErrorMessage: describe(resp.ResultCode, resp.Message)}, nil
	}

	return &gateway.PaymentURLResult{
		Success:        true,
		PaymentURL:     resp.PayURL,
		TransactionRef: orderID,
	}, nil
}

// =====================================================
// PROCESS CALLBACK
// =====================================================

func (c *Client) ProcessCallback(ctx context.Context, payload map[string]string) (*gateway.CallbackResult, error) {
	for _, field := range []string{"orderId", "resultCode", "signature"} {
		if payload[field] == "" {
			return gateway.Rejected(fmt.Sprintf("missing required field: %s", field)), nil
		}
	}
	if payload["partnerCode"] != c.config.PartnerCode {
		return gateway.Rejected("partner code mismatch"), nil
	}

	if !VerifyCallback(payload, c.config.AccessKey, c.config.SecretKey) {
		logger.Warn("MoMo callback signature mismatch", map[string]interface{}{
			"order_id": payload["orderId"],
		})
		return gateway.Rejected("invalid signature"), nil
	}

	resultCode, err := strconv.Atoi(payload["resultCode"])
	if err != nil {
		return gateway.Rejected(fmt.Sprintf("invalid resultCode: %s", payload["resultCode"])), nil
	}

	amount := decimal.Zero
	if raw := payload["amount"]; raw != "" {
		if amount, err = decimal.NewFromString(raw); err != nil {
			return gateway.Rejected(fmt.Sprintf("invalid amount: %s", raw)), nil
		}
	}

	return &gateway.CallbackResult{
		Verified:       true,
		TransactionRef: payload["orderId"],
		TransactionID:  payload["transId"],
		Amount:         amount,
		Status:         mapResultCode(resultCode),
		ProviderStatus: payload["resultCode"],
		Message:        describe(resultCode, payload["message"]),
	}, nil
}

func mapResultCode(code int) model.PaymentStatus {
	switch code {
	case ResultCodeSuccess:
		return model.PaymentStatusSuccess
	case ResultCodeInitiated, ResultCodeAuthorized:
		return model.PaymentStatusPending
	case ResultCodeUserDeclined, ResultCodeMerchantCancelled, ResultCodeCancelledAfterAuth:
		return model.PaymentStatusCancelled
	default:
		return model.PaymentStatusFailed
	}
}

func describe(code int, fallback string) string {
	if msg, ok := model.MomoErrorCodeMap[code]; ok {
		return msg
	}
	if fallback != "" {
		return fallback
	}
	return fmt.Sprintf("MoMo result code %d", code)
}

// =====================================================
// QUERY PAYMENT
// =====================================================

type queryResponse struct {
	PartnerCode string `json:"partnerCode"`
	OrderID     string `json:"orderId"`
	RequestID   string `json:"requestId"`
	Amount      int64  `json:"amount"`
	TransID     int64  `json:"transId"`
	ResultCode  int    `json:"resultCode"`
	Message     string `json:"message"`
}

func (c *Client) QueryPayment(ctx context.Context, req gateway.QueryRequest) (*gateway.QueryResult, error) {
	if req.TransactionRef == "" {
		return &gateway.QueryResult{Message: "transaction ref is required"}, nil
	}

	params := map[string]string{
		"orderId":     req.TransactionRef,
		"partnerCode": c.config.PartnerCode,
		"requestId":   c.newID(),
	}
	body := map[string]interface{}{
		"partnerCode": params["partnerCode"],
		"requestId":   params["requestId"],
		"orderId":     params["orderId"],
		"lang":        c.config.Lang,
		"signature":   Sign(params, queryFields, c.config.AccessKey, c.config.SecretKey),
	}

	var resp queryResponse
	if err := c.postJSON(ctx, c.config.QueryURL(), body, &resp); err != nil {
		return nil, err
	}

	if resp.OrderID != "" && resp.OrderID != req.TransactionRef {
		return &gateway.QueryResult{Message: "query response order mismatch"}, nil
	}

	result := &gateway.QueryResult{
		Success:        true,
		Status:         mapResultCode(resp.ResultCode),
		Amount:         decimal.NewFromInt(resp.Amount),
		ProviderStatus: strconv.Itoa(resp.ResultCode),
		Message:        describe(resp.ResultCode, resp.Message),
	}
	if resp.TransID != 0 {
		result.TransactionID = strconv.FormatInt(resp.TransID, 10)
	}
	return result, nil
}

func (c *Client) postJSON(ctx context.Context, endpoint string, body interface{}, dest interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create HTTP request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to call MoMo API: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("MoMo API returned HTTP %d", resp.StatusCode)
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return nil
}
