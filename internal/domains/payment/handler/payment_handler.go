package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"petcare-backend/internal/domains/payment/model"
	"petcare-backend/internal/domains/payment/service"
	"petcare-backend/internal/shared/apperror"
	"petcare-backend/internal/shared/middleware"
	res "petcare-backend/internal/shared/response"
	"petcare-backend/pkg/logger"
)

const callbackFailureMessage = "Payment could not be processed"

// RedirectConfig holds the front-end pages the browser lands on after checkout.
// PendingURL defaults to SuccessURL.
type RedirectConfig struct {
	SuccessURL string
	FailureURL string
	PendingURL string
}

type PaymentHandler struct {
	paymentService service.PaymentService
	redirects      RedirectConfig
}

// NewPaymentHandler creates new payment handler
func NewPaymentHandler(paymentService service.PaymentService, redirects RedirectConfig) *PaymentHandler {
	if redirects.PendingURL == "" {
		redirects.PendingURL = redirects.SuccessURL
	}
	return &PaymentHandler{
		paymentService: paymentService,
		redirects:      redirects,
	}
}

// RegisterRoutes mounts the authenticated payment endpoints plus the public
// provider callback.
func (h *PaymentHandler) RegisterRoutes(rg *gin.RouterGroup, auth gin.HandlerFunc) {
	payments := rg.Group("/payment")
	payments.GET("/callback", h.Callback)
	payments.POST("/callback", h.Callback)

	protected := payments.Group("", auth)
	protected.POST("", h.CreatePayment)
	protected.GET("/:id/status", h.GetPaymentStatus)
	protected.POST("/:id/cancel", h.CancelPayment)
}

// CreatePayment opens a checkout for a booking
// POST /api/v1/payment
func (h *PaymentHandler) CreatePayment(c *gin.Context) {
	// Step 1: Resolve caller
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		res.Unauthorized(c, "Unauthorized")
		return
	}

	// Step 2: Bind request body
	var req model.CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		res.ErrorResponse(c, http.StatusBadRequest, model.ErrCodeInvalidRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	// Step 3: Call service (validates the request)
	result, err := h.paymentService.CreatePayment(c.Request.Context(), actor, req, middleware.GetClientIP(c))
	if err != nil {
		res.FromError(c, err)
		return
	}

	// A provider rejection is still a well-formed answer
	if !result.Success {
		res.Success(c, http.StatusOK, result)
		return
	}
	res.Success(c, http.StatusCreated, result)
}

// GetPaymentStatus returns the latest payment attempt of a booking
// GET /api/v1/payment/:id/status?refresh=true
func (h *PaymentHandler) GetPaymentStatus(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		res.Unauthorized(c, "Unauthorized")
		return
	}

	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		res.ErrorResponse(c, http.StatusBadRequest, model.ErrCodeInvalidRequest, "Invalid booking ID")
		return
	}

	refresh, _ := strconv.ParseBool(c.DefaultQuery("refresh", "false"))

	status, err := h.paymentService.GetPaymentStatus(c.Request.Context(), actor, bookingID, refresh)
	if err != nil {
		res.FromError(c, err)
		return
	}

	res.Success(c, http.StatusOK, status)
}

// CancelPayment cancels a pending payment
// POST /api/v1/payment/:id/cancel
func (h *PaymentHandler) CancelPayment(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		res.Unauthorized(c, "Unauthorized")
		return
	}

	paymentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		res.ErrorResponse(c, http.StatusBadRequest, model.ErrCodeInvalidRequest, "Invalid payment ID")
		return
	}

	cancelled, err := h.paymentService.CancelPayment(c.Request.Context(), actor, paymentID)
	if err != nil {
		res.FromError(c, err)
		return
	}

	res.Success(c, http.StatusOK, gin.H{"cancelled": cancelled})
}

// Callback receives the provider's browser return or server notification.
// The browser is redirected to the front end; a JSON notification is
// answered with a status code, since providers retry anything outside 2xx.
// GET/POST /api/v1/payment/callback
func (h *PaymentHandler) Callback(c *gin.Context) {
	notification := isServerNotification(c)

	payload, err := callbackPayload(c)
	if err != nil {
		logger.Warn("Unreadable payment callback", map[string]interface{}{
			"request_id": c.GetString("request_id"),
			"error":      err.Error(),
		})
		if notification {
			res.ErrorResponse(c, http.StatusBadRequest, model.ErrCodeMalformedCallback, callbackFailureMessage)
			return
		}
		h.redirectFailure(c, uuid.Nil, "", callbackFailureMessage)
		return
	}

	outcome, err := h.paymentService.HandleCallback(c.Request.Context(), payload)
	if err != nil {
		logger.Error("Payment callback failed", err)
	}

	if notification {
		acknowledge(c, outcome, err)
		return
	}
	h.redirect(c, outcome, err)
}

func (h *PaymentHandler) redirect(c *gin.Context, outcome *model.CallbackOutcome, err error) {
	switch {
	case err != nil:
		h.redirectFailure(c, uuid.Nil, "", callbackErrorMessage(err))
	case outcome.Processing:
		c.Redirect(http.StatusFound, buildRedirect(h.redirects.PendingURL, outcome.BookingID, outcome.TransactionID, outcome.Message))
	case !outcome.Success:
		h.redirectFailure(c, outcome.BookingID, outcome.TransactionID, outcome.Message)
	default:
		c.Redirect(http.StatusFound, buildRedirect(h.redirects.SuccessURL, outcome.BookingID, outcome.TransactionID, outcome.Message))
	}
}

func (h *PaymentHandler) redirectFailure(c *gin.Context, bookingID uuid.UUID, transactionID, message string) {
	c.Redirect(http.StatusFound, buildRedirect(h.redirects.FailureURL, bookingID, transactionID, message))
}

// acknowledge answers a server notification. A recorded outcome, paid or
// not, is 204; a callback still held by another request is 409 so the
// provider retries it.
func acknowledge(c *gin.Context, outcome *model.CallbackOutcome, err error) {
	switch {
	case err != nil:
		res.FromError(c, err)
	case !outcome.Verified:
		message := outcome.Message
		if message == "" {
			message = "Invalid callback signature"
		}
		res.ErrorResponse(c, http.StatusBadRequest, model.ErrCodeInvalidSignature, message)
	case outcome.Processing:
		res.FromError(c, model.NewCallbackInProgressError(outcome.TransactionRef))
	default:
		c.Status(http.StatusNoContent)
	}
}

// =====================================================
// HELPER FUNCTIONS
// =====================================================

// callbackPayload flattens query string, form fields and a JSON body into
// one key/value map. Providers use all three.
func callbackPayload(c *gin.Context) (map[string]string, error) {
	payload := make(map[string]string)
	for key, values := range c.Request.URL.Query() {
		if len(values) > 0 {
			payload[key] = values[0]
		}
	}

	if c.Request.Method != http.MethodPost {
		return payload, nil
	}

	if isServerNotification(c) {
		var body map[string]interface{}
		decoder := json.NewDecoder(c.Request.Body)
		decoder.UseNumber()
		if err := decoder.Decode(&body); err != nil {
			return nil, fmt.Errorf("failed to decode callback body: %w", err)
		}
		for key, value := range body {
			payload[key] = stringify(value)
		}
		return payload, nil
	}

	if err := c.Request.ParseForm(); err != nil {
		return nil, fmt.Errorf("failed to parse callback form: %w", err)
	}
	for key, values := range c.Request.PostForm {
		if len(values) > 0 {
			payload[key] = values[0]
		}
	}
	return payload, nil
}

// isServerNotification reports a provider-to-server POST carrying JSON,
// as opposed to a browser return.
func isServerNotification(c *gin.Context) bool {
	return c.Request.Method == http.MethodPost && strings.HasPrefix(c.ContentType(), "application/json")
}

func stringify(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	default:
		raw, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return string(raw)
	}
}

// callbackErrorMessage exposes application messages only; wrapped causes
// stay in the logs.
func callbackErrorMessage(err error) string {
	if appErr, ok := apperror.As(err); ok {
		return appErr.Message
	}
	return callbackFailureMessage
}

func buildRedirect(base string, bookingID uuid.UUID, transactionID, message string) string {
	query := url.Values{}
	if bookingID != uuid.Nil {
		query.Set("bookingId", bookingID.String())
	}
	if transactionID != "" {
		query.Set("transactionId", transactionID)
	}
	if message != "" {
		query.Set("message", message)
	}

	encoded := query.Encode()
	if encoded == "" {
		return base
	}
	separator := "?"
	if strings.Contains(base, "?") {
		separator = "&"
	}
	return base + separator + encoded
}
