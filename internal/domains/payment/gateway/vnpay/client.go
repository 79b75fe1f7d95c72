package vnpay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"petcare-backend/internal/domains/payment/gateway"
	"petcare-backend/internal/domains/payment/gateway/signing"
	"petcare-backend/internal/domains/payment/model"
	"petcare-backend/internal/shared/utils"
	"petcare-backend/pkg/logger"
)

// =====================================================
// VNPAY CLIENT
// =====================================================

type Client struct {
	config     *Config
	httpClient *http.Client
	now        func() time.Time
}

func NewClient(config *Config, httpClient *http.Client) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid VNPay config: %w", err)
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	return &Client{
		config:     config,
		httpClient: httpClient,
		now:        time.Now,
	}, nil
}

func (c *Client) Method() model.PaymentMethod {
	return model.PaymentMethodVNPay
}

func (c *Client) Matches(payload map[string]string) bool {
	return payload["vnp_TxnRef"] != "" && payload[paramSecureHash] != ""
}

// =====================================================
// CREATE PAYMENT URL
// =====================================================

func (c *Client) CreatePaymentURL(ctx context.Context, req gateway.PaymentURLRequest) (*gateway.PaymentURLResult, error) {
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return &gateway.PaymentURLResult{ErrorMessage: "amount must be positive"}, nil
	}
	if req.ReturnURL == "" {
		return &gateway.PaymentURLResult{ErrorMessage: "return url is required"}, nil
	}

	txnRef := TxnRefFor(req.PaymentID)
	now := c.now().In(vietnamTime)

	params := map[string]string{
		"vnp_Version":    c.config.Version,
		"vnp_Command":    c.config.Command,
		"vnp_TmnCode":    c.config.TmnCode,
		"vnp_Amount":     formatAmount(req.Amount),
		"vnp_CurrCode":   c.config.CurrCode,
		"vnp_TxnRef":     txnRef,
		"vnp_OrderInfo":  req.OrderInfo,
		"vnp_OrderType":  "other",
		"vnp_Locale":     c.config.Locale,
		"vnp_ReturnUrl":  req.ReturnURL,
		"vnp_IpAddr":     utils.NormalizeIPv4(req.IPAddress),
		"vnp_CreateDate": now.Format(dateLayout),
		"vnp_ExpireDate": now.Add(c.config.ExpireAfter).Format(dateLayout),
	}

	paymentURL := BuildPaymentURL(c.config.PaymentURL, params, c.config.HashSecret)

	logger.Debug("VNPay payment url built", map[string]interface{}{
		"txn_ref":    txnRef,
		"booking_id": req.BookingID.String(),
		"amount":     params["vnp_Amount"],
	})

	return &gateway.PaymentURLResult{
		Success:        true,
		PaymentURL:     paymentURL,
		TransactionRef: txnRef,
	}, nil
}

// TxnRefFor derives the merchant reference from the payment id.
// VNPay only accepts alphanumerics in vnp_TxnRef.
func TxnRefFor(paymentID uuid.UUID) string {
	return strings.ReplaceAll(paymentID.String(), "-", "")
}

// =====================================================
// PROCESS CALLBACK
// =====================================================

func (c *Client) ProcessCallback(ctx context.Context, payload map[string]string) (*gateway.CallbackResult, error) {
	for _, field := range []string{"vnp_TxnRef", "vnp_ResponseCode", paramSecureHash} {
		if payload[field] == "" {
			return gateway.Rejected(fmt.Sprintf("missing required field: %s", field)), nil
		}
	}

	if !VerifySignature(payload, c.config.HashSecret) {
		logger.Warn("VNPay callback signature mismatch", map[string]interface{}{
			"txn_ref": payload["vnp_TxnRef"],
		})
		return gateway.Rejected("invalid signature"), nil
	}

	amount, err := parseAmount(payload["vnp_Amount"])
	if err != nil {
		return gateway.Rejected(err.Error()), nil
	}

	code := payload["vnp_ResponseCode"]
	status := mapResponseCode(code, payload["vnp_TransactionStatus"])

	return &gateway.CallbackResult{
		Verified:       true,
		TransactionRef: payload["vnp_TxnRef"],
		TransactionID:  payload["vnp_TransactionNo"],
		Amount:         amount,
		Status:         status,
		ProviderStatus: code,
		Message:        describe(code),
	}, nil
}

// mapResponseCode turns vnp_ResponseCode (plus vnp_TransactionStatus when sent)
// into a payment status.
func mapResponseCode(responseCode, transactionStatus string) model.PaymentStatus {
	switch responseCode {
	case ResponseCodeSuccess:
		if transactionStatus != "" && transactionStatus != TransactionStatusSuccess {
			return model.PaymentStatusFailed
		}
		return model.PaymentStatusSuccess
	case ResponseCodeUserCancelled:
		return model.PaymentStatusCancelled
	case ResponseCodeSuspectedFraud:
		return model.PaymentStatusPending
	default:
		return model.PaymentStatusFailed
	}
}

func describe(code string) string {
	if msg, ok := model.VNPayErrorCodeMap[code]; ok {
		return msg
	}
	return fmt.Sprintf("VNPay response code %s", code)
}

// =====================================================
// QUERY PAYMENT
// =====================================================

type queryResponse struct {
	ResponseID        string `json:"vnp_ResponseId"`
	Command           string `json:"vnp_Command"`
	ResponseCode      string `json:"vnp_ResponseCode"`
	Message           string `json:"vnp_Message"`
	TmnCode           string `json:"vnp_TmnCode"`
	TxnRef            string `json:"vnp_TxnRef"`
	Amount            string `json:"vnp_Amount"`
	BankCode          string `json:"vnp_BankCode"`
	PayDate           string `json:"vnp_PayDate"`
	TransactionNo     string `json:"vnp_TransactionNo"`
	TransactionType   string `json:"vnp_TransactionType"`
	TransactionStatus string `json:"vnp_TransactionStatus"`
	OrderInfo         string `json:"vnp_OrderInfo"`
	PromotionCode     string `json:"vnp_PromotionCode"`
	PromotionAmount   string `json:"vnp_PromotionAmount"`
	SecureHash        string `json:"vnp_SecureHash"`
}

func (c *Client) QueryPayment(ctx context.Context, req gateway.QueryRequest) (*gateway.QueryResult, error) {
	if req.TransactionRef == "" {
		return &gateway.QueryResult{Message: "transaction ref is required"}, nil
	}

	now := c.now().In(vietnamTime)
	requestID := strings.ReplaceAll(uuid.NewString(), "-", "")
	createDate := now.Format(dateLayout)
	transactionDate := req.CreatedAt.In(vietnamTime).Format(dateLayout)
	ipAddr := utils.NormalizeIPv4(req.IPAddress)
	orderInfo := "Query transaction " + req.TransactionRef

	body := map[string]string{
		"vnp_RequestId":       requestID,
		"vnp_Version":         c.config.Version,
		"vnp_Command":         commandQuery,
		"vnp_TmnCode":         c.config.TmnCode,
		"vnp_TxnRef":          req.TransactionRef,
		"vnp_OrderInfo":       orderInfo,
		"vnp_TransactionDate": transactionDate,
		"vnp_CreateDate":      createDate,
		"vnp_IpAddr":          ipAddr,
	}
	body[paramSecureHash] = pipeSignature(c.config.HashSecret,
		requestID, c.config.Version, commandQuery, c.config.TmnCode,
		req.TransactionRef, transactionDate, createDate, ipAddr, orderInfo,
	)

	var resp queryResponse
	if err := c.postJSON(ctx, c.config.TransactionURL, body, &resp); err != nil {
		return nil, err
	}

	expected := pipeSignature(c.config.HashSecret,
		resp.ResponseID, resp.Command, resp.ResponseCode, resp.Message, resp.TmnCode,
		resp.TxnRef, resp.Amount, resp.BankCode, resp.PayDate, resp.TransactionNo,
		resp.TransactionType, resp.TransactionStatus, resp.OrderInfo,
		resp.PromotionCode, resp.PromotionAmount,
	)
	if !signing.Equal(resp.SecureHash, expected) {
		return &gateway.QueryResult{Message: "invalid query response signature"}, nil
	}

	if resp.ResponseCode != ResponseCodeSuccess {
		return &gateway.QueryResult{ProviderStatus: resp.ResponseCode, Message: resp.Message}, nil
	}

	amount, err := parseAmount(resp.Amount)
	if err != nil {
		return &gateway.QueryResult{Message: err.Error()}, nil
	}

	status := model.PaymentStatusFailed
	switch resp.TransactionStatus {
	case TransactionStatusSuccess:
		status = model.PaymentStatusSuccess
	case TransactionStatusIncomplete:
		status = model.PaymentStatusPending
	}

	return &gateway.QueryResult{
		Success:        true,
		Status:         status,
		TransactionID:  resp.TransactionNo,
		Amount:         amount,
		ProviderStatus: resp.TransactionStatus,
		Message:        resp.Message,
	}, nil
}

func (c *Client) postJSON(ctx context.Context, url string, body interface{}, dest interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to call VNPay API: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("VNPay API returned HTTP %d", resp.StatusCode)
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// =====================================================
// AMOUNT HELPERS
// =====================================================

// formatAmount renders amount in VNPay units (VND x 100, no decimals).
// Example: 100,000 VND -> "10000000"
func formatAmount(amount decimal.Decimal) string {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).StringFixed(0)
}

// parseAmount is the inverse of formatAmount. An absent amount parses as zero.
func parseAmount(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	v, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount: %s", s)
	}
	return v.Div(decimal.NewFromInt(100)), nil
}
