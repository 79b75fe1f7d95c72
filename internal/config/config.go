package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"petcare-backend/internal/infrastructure/database"
	"petcare-backend/pkg/logger"
)

const defaultJWTSecret = "your-secret-key-change-in-production"

// Config is populated from environment variables.
type Config struct {
	App      AppConfig
	Database *database.DBConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Payment  PaymentConfig
	VNPay    VNPayConfig
	Momo     MomoConfig
	PayOS    PayOSConfig
	Worker   WorkerConfig
}

type AppConfig struct {
	Name           string
	Environment    string // development, staging, production
	Port           string
	Version        string
	LogLevel       string
	AllowedOrigins []string
}

type RedisConfig struct {
	Host     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret            string
	AccessTokenExpiry int // minutes
}

// =====================================================
// PAYMENT CONFIGURATION
// =====================================================

type PaymentConfig struct {
	CommissionRate decimal.Decimal
	TimeoutMinutes int
	GatewayTimeout time.Duration
	// CallbackURL is this API's callback endpoint handed to every provider.
	CallbackURL string
	// SuccessURL, FailureURL and PendingURL are the front-end pages the
	// callback redirects the browser to.
	SuccessURL string
	FailureURL string
	PendingURL string
	// CallbackLockWait bounds how long a browser return waits for a
	// concurrent notification of the same payment.
	CallbackLockWait time.Duration
}

func (c PaymentConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutMinutes) * time.Minute
}

type VNPayConfig struct {
	TmnCode        string // Merchant code
	HashSecret     string // Secret key for HMAC-SHA512
	PaymentURL     string // Hosted payment page
	TransactionURL string // merchant_webapi endpoint
}

func (c VNPayConfig) Enabled() bool {
	return c.TmnCode != "" && c.HashSecret != ""
}

type MomoConfig struct {
	PartnerCode string
	AccessKey   string
	SecretKey   string // Secret key for HMAC-SHA256
	APIURL      string
	IPNURL      string // Server-to-server notification URL
}

func (c MomoConfig) Enabled() bool {
	return c.PartnerCode != "" && c.AccessKey != "" && c.SecretKey != ""
}

type PayOSConfig struct {
	ClientID    string
	APIKey      string
	ChecksumKey string
	PartnerCode string
}

func (c PayOSConfig) Enabled() bool {
	return c.ClientID != "" && c.APIKey != "" && c.ChecksumKey != ""
}

type WorkerConfig struct {
	Concurrency     int
	SweepCron       string
	SweepBatchLimit int
	HealthPort      string
}

// Load reads the configuration from environment variables.
func Load() (*Config, error) {
	commissionRate, err := getEnvDecimal("COMMISSION_RATE", "0.10")
	if err != nil {
		return nil, err
	}
	gatewayTimeout, err := getEnvDuration("GATEWAY_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}
	callbackLockWait, err := getEnvDuration("PAYMENT_CALLBACK_LOCK_WAIT", 2*time.Second)
	if err != nil {
		return nil, err
	}
	dbConfig, err := LoadDatabaseConfig()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		App: AppConfig{
			Name:           getEnv("APP_NAME", "Petcare API"),
			Environment:    getEnv("APP_ENV", "development"),
			Port:           getEnv("APP_PORT", "8080"),
			Version:        getEnv("APP_VERSION", "1.0.0"),
			LogLevel:       getEnv("LOG_LEVEL", "info"),
			AllowedOrigins: []string{getEnv("FRONTEND_URL", "http://localhost:3000")},
		},
		Database: dbConfig,
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		JWT: JWTConfig{
			Secret:            getEnv("JWT_SECRET", defaultJWTSecret),
			AccessTokenExpiry: getEnvInt("JWT_ACCESS_EXPIRY", 60),
		},
		Payment: PaymentConfig{
			CommissionRate:   commissionRate,
			TimeoutMinutes:   getEnvInt("PAYMENT_TIMEOUT_MINUTES", 15),
			GatewayTimeout:   gatewayTimeout,
			CallbackURL:      getEnv("PAYMENT_CALLBACK_URL", "http://localhost:8080/api/v1/payment/callback"),
			SuccessURL:       getEnv("PAYMENT_SUCCESS_URL", "http://localhost:3000/payment/success"),
			FailureURL:       getEnv("PAYMENT_FAILURE_URL", "http://localhost:3000/payment/failure"),
			PendingURL:       getEnv("PAYMENT_PENDING_URL", "http://localhost:3000/payment/pending"),
			CallbackLockWait: callbackLockWait,
		},
		VNPay: VNPayConfig{
			TmnCode:        getEnv("VNPAY_TMN_CODE", ""),
			HashSecret:     getEnv("VNPAY_HASH_SECRET", ""),
			PaymentURL:     getEnv("VNPAY_PAYMENT_URL", "https://sandbox.vnpayment.vn/paymentv2/vpcpay.html"),
			TransactionURL: getEnv("VNPAY_TRANSACTION_URL", "https://sandbox.vnpayment.vn/merchant_webapi/api/transaction"),
		},
		Momo: MomoConfig{
			PartnerCode: getEnv("MOMO_PARTNER_CODE", ""),
			AccessKey:   getEnv("MOMO_ACCESS_KEY", ""),
			SecretKey:   getEnv("MOMO_SECRET_KEY", ""),
			APIURL:      getEnv("MOMO_API_URL", "https://test-payment.momo.vn"),
			IPNURL:      getEnv("MOMO_IPN_URL", "http://localhost:8080/api/v1/payment/callback"),
		},
		PayOS: PayOSConfig{
			ClientID:    getEnv("PAYOS_CLIENT_ID", ""),
			APIKey:      getEnv("PAYOS_API_KEY", ""),
			ChecksumKey: getEnv("PAYOS_CHECKSUM_KEY", ""),
			PartnerCode: getEnv("PAYOS_PARTNER_CODE", ""),
		},
		Worker: WorkerConfig{
			Concurrency:     getEnvInt("WORKER_CONCURRENCY", 10),
			SweepCron:       getEnv("PAYMENT_SWEEP_CRON", "*/10 * * * *"),
			SweepBatchLimit: getEnvInt("PAYMENT_SWEEP_LIMIT", 200),
			HealthPort:      getEnv("WORKER_HEALTH_PORT", "9999"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate fails fast on settings the service cannot run with.
func (c *Config) Validate() error {
	if c.Payment.CommissionRate.IsNegative() || c.Payment.CommissionRate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return fmt.Errorf("COMMISSION_RATE must be in [0, 1), got %s", c.Payment.CommissionRate)
	}
	if c.Payment.TimeoutMinutes <= 0 {
		return fmt.Errorf("PAYMENT_TIMEOUT_MINUTES must be positive")
	}
	if c.Payment.GatewayTimeout <= 0 {
		return fmt.Errorf("GATEWAY_TIMEOUT must be positive")
	}

	if c.App.Environment == "production" {
		if c.JWT.Secret == defaultJWTSecret {
			return fmt.Errorf("JWT_SECRET must be set in production")
		}
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD must be set in production")
		}
	}

	if !c.VNPay.Enabled() && !c.Momo.Enabled() && !c.PayOS.Enabled() {
		logger.Warn("No payment provider configured, payments are disabled", nil)
	}

	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue, nil
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return value, nil
}

func getEnvDecimal(key, defaultValue string) (decimal.Decimal, error) {
	value, err := decimal.NewFromString(getEnv(key, defaultValue))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s: %w", key, err)
	}
	return value, nil
}
