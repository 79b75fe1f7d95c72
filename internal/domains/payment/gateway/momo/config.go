package momo

import "fmt"

// =====================================================
// MOMO CONFIGURATION
// =====================================================

type Config struct {
	PartnerCode string // Partner code issued by MoMo
	AccessKey   string
	SecretKey   string // Secret for HMAC-SHA256 signatures
	APIUrl      string // e.g. https://test-payment.momo.vn
	IPNURL      string // Server-to-server notification URL
	RequestType string // default "captureWallet"
	Lang        string // default "vi"
}

func NewConfig(partnerCode, accessKey, secretKey, apiURL, ipnURL string) *Config {
	return &Config{
		PartnerCode: partnerCode,
		AccessKey:   accessKey,
		SecretKey:   secretKey,
		APIUrl:      apiURL,
		IPNURL:      ipnURL,
		RequestType: "captureWallet",
		Lang:        "vi",
	}
}

func (c *Config) Validate() error {
	if c.PartnerCode == "" || c.AccessKey == "" || c.SecretKey == "" {
		return fmt.Errorf("MoMo partner code, access key and secret key are required")
	}
	if c.APIUrl == "" {
		return fmt.Errorf("MoMo APIUrl is required")
	}
	return nil
}

func (c *Config) CreateURL() string {
	return c.APIUrl + "/v2/gateway/api/create"
}

func (c *Config) QueryURL() string {
	return c.APIUrl + "/v2/gateway/api/query"
}

// =====================================================
// MOMO CONSTANTS
// =====================================================

const (
	ResultCodeSuccess            = 0
	ResultCodeInitiated          = 1000
	ResultCodeCancelledAfterAuth = 1003
	ResultCodeUserDeclined       = 1006
	ResultCodeMerchantCancelled  = 1017
	ResultCodeAuthorized         = 9000
)

// callbackFields is the field set MoMo signs on redirects and IPNs,
// in addition to accessKey.
var callbackFields = []string{
	"accessKey", "amount", "extraData", "message", "orderId", "orderInfo",
	"orderType", "partnerCode", "payType", "requestId", "responseTime",
	"resultCode", "transId",
}

var createFields = []string{
	"accessKey", "amount", "extraData", "ipnUrl", "orderId", "orderInfo",
	"partnerCode", "redirectUrl", "requestId", "requestType",
}

var queryFields = []string{"accessKey", "orderId", "partnerCode", "requestId"}
