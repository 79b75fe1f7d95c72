package vnpay

import (
	"fmt"
	"time"
)

// =====================================================
// VNPAY CONFIGURATION
// =====================================================

type Config struct {
	TmnCode        string        // Merchant code issued by VNPay
	HashSecret     string        // Secret for HMAC-SHA512 signatures
	PaymentURL     string        // Hosted payment page, e.g. https://sandbox.vnpayment.vn/paymentv2/vpcpay.html
	TransactionURL string        // merchant_webapi endpoint for querydr
	Version        string        // default "2.1.0"
	Command        string        // default "pay"
	CurrCode       string        // default "VND"
	Locale         string        // default "vn"
	ExpireAfter    time.Duration // checkout window
}

func NewConfig(tmnCode, hashSecret, paymentURL, transactionURL string) *Config {
	return &Config{
		TmnCode:        tmnCode,
		HashSecret:     hashSecret,
		PaymentURL:     paymentURL,
		TransactionURL: transactionURL,
		Version:        "2.1.0",
		Command:        "pay",
		CurrCode:       "VND",
		Locale:         "vn",
		ExpireAfter:    15 * time.Minute,
	}
}

func (c *Config) Validate() error {
	if c.TmnCode == "" {
		return fmt.Errorf("VNPay TmnCode is required")
	}
	if c.HashSecret == "" {
		return fmt.Errorf("VNPay HashSecret is required")
	}
	if c.PaymentURL == "" {
		return fmt.Errorf("VNPay PaymentURL is required")
	}
	if c.TransactionURL == "" {
		return fmt.Errorf("VNPay TransactionURL is required")
	}
	return nil
}

// =====================================================
// VNPAY CONSTANTS
// =====================================================

const (
	ResponseCodeSuccess         = "00"
	ResponseCodeSuspectedFraud  = "07"
	ResponseCodeUserCancelled   = "24"
	ResponseCodeTxnNotFound     = "91"
	TransactionStatusSuccess    = "00"
	TransactionStatusIncomplete = "01"

	dateLayout   = "20060102150405"
	commandQuery = "querydr"
)

// VNPay timestamps are expressed in Vietnam time.
var vietnamTime = time.FixedZone("GMT+7", 7*60*60)
