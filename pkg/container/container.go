package container

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/hibiken/asynq"

	"petcare-backend/internal/config"
	bookingHandler "petcare-backend/internal/domains/booking/handler"
	bookingService "petcare-backend/internal/domains/booking/service"
	"petcare-backend/internal/domains/payment/gateway"
	"petcare-backend/internal/domains/payment/gateway/momo"
	"petcare-backend/internal/domains/payment/gateway/payos"
	"petcare-backend/internal/domains/payment/gateway/vnpay"
	paymentHandler "petcare-backend/internal/domains/payment/handler"
	paymentService "petcare-backend/internal/domains/payment/service"
	infraCache "petcare-backend/internal/infrastructure/cache"
	"petcare-backend/internal/infrastructure/database"
	"petcare-backend/internal/infrastructure/queue"
	"petcare-backend/pkg/jwt"
	"petcare-backend/pkg/logger"
)

// ========================================
// CONTAINER STRUCT
// ========================================

// Container holds the dependency graph shared by the API and the worker.
type Container struct {
	// Infrastructure
	Config      *config.Config
	DB          *database.PostgresDB
	Redis       *infraCache.RedisClient
	UnitOfWork  database.UnitOfWork
	QueueClient *asynq.Client
	JWTManager  *jwt.Manager
	Gateways    *gateway.Registry

	// Services
	BookingService bookingService.ServiceInterface
	PaymentService paymentService.PaymentService

	// Handlers
	BookingHandler *bookingHandler.BookingHandler
	PaymentHandler *paymentHandler.PaymentHandler
}

// ========================================
// CONSTRUCTOR: BUILD CONTAINER
// ========================================

// NewContainer wires the application in dependency order:
// infrastructure, gateways, services, handlers.
func NewContainer(cfg *config.Config) (*Container, error) {
	logger.Info("Initializing container", map[string]interface{}{
		"environment": cfg.App.Environment,
	})

	c := &Container{Config: cfg}

	// ========================================
	// STEP 1: DATABASE
	// ========================================
	db := database.NewPostgresDB(cfg.Database)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	c.DB = db
	c.UnitOfWork = database.NewUnitOfWork(db.Pool)

	// ========================================
	// STEP 2: REDIS
	// ========================================
	// Redis only backs the callback lock, which is best effort.
	c.Redis = infraCache.NewRedisClient(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)
	if err := c.Redis.Connect(ctx); err != nil {
		logger.Warn("Redis connection failed (non-critical)", map[string]interface{}{
			"error": err.Error(),
		})
	}

	c.QueueClient = asynq.NewClient(RedisClientOpt(cfg.Redis))
	c.JWTManager = jwt.NewManager(cfg.JWT.Secret, time.Duration(cfg.JWT.AccessTokenExpiry)*time.Minute)

	// ========================================
	// STEP 3: PAYMENT GATEWAYS
	// ========================================
	gateways, err := NewGatewayRegistry(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to init payment gateways: %w", err)
	}
	c.Gateways = gateways

	// ========================================
	// STEP 4: SERVICES
	// ========================================
	c.BookingService = bookingService.NewBookingService(c.UnitOfWork, time.Now)
	c.PaymentService = paymentService.NewPaymentService(
		c.UnitOfWork,
		c.Gateways,
		c.Redis,
		queue.NewEnqueuer(c.QueueClient),
		paymentService.Config{
			CommissionRate:   cfg.Payment.CommissionRate,
			PaymentTimeout:   cfg.Payment.Timeout(),
			ReturnURL:        cfg.Payment.CallbackURL,
			CallbackLockWait: cfg.Payment.CallbackLockWait,
		},
		time.Now,
	)

	// ========================================
	// STEP 5: HANDLERS
	// ========================================
	c.BookingHandler = bookingHandler.NewBookingHandler(c.BookingService)
	c.PaymentHandler = paymentHandler.NewPaymentHandler(c.PaymentService, paymentHandler.RedirectConfig{
		SuccessURL: cfg.Payment.SuccessURL,
		FailureURL: cfg.Payment.FailureURL,
		PendingURL: cfg.Payment.PendingURL,
	})

	logger.Info("Container initialized", map[string]interface{}{
		"payment_methods": c.Gateways.Methods(),
	})
	return c, nil
}

// NewGatewayRegistry registers every provider that has credentials configured.
func NewGatewayRegistry(cfg *config.Config) (*gateway.Registry, error) {
	registry := gateway.NewRegistry()
	httpClient := &http.Client{Timeout: cfg.Payment.GatewayTimeout}

	if cfg.VNPay.Enabled() {
		vnpayConfig := vnpay.NewConfig(cfg.VNPay.TmnCode, cfg.VNPay.HashSecret, cfg.VNPay.PaymentURL, cfg.VNPay.TransactionURL)
		vnpayConfig.ExpireAfter = cfg.Payment.Timeout()

		client, err := vnpay.NewClient(vnpayConfig, httpClient)
		if err != nil {
			return nil, fmt.Errorf("vnpay: %w", err)
		}
		registry.Register(client)
	}

	if cfg.Momo.Enabled() {
		client, err := momo.NewClient(
			momo.NewConfig(cfg.Momo.PartnerCode, cfg.Momo.AccessKey, cfg.Momo.SecretKey, cfg.Momo.APIURL, cfg.Momo.IPNURL),
			httpClient,
		)
		if err != nil {
			return nil, fmt.Errorf("momo: %w", err)
		}
		registry.Register(client)
	}

	if cfg.PayOS.Enabled() {
		api, err := payos.NewSDK(&payos.Config{
			ClientID:    cfg.PayOS.ClientID,
			APIKey:      cfg.PayOS.APIKey,
			ChecksumKey: cfg.PayOS.ChecksumKey,
			PartnerCode: cfg.PayOS.PartnerCode,
		})
		if err != nil {
			return nil, fmt.Errorf("payos: %w", err)
		}
		registry.Register(payos.NewClient(api, cfg.Payment.GatewayTimeout))
	}

	return registry, nil
}

// RedisClientOpt builds the asynq connection options.
func RedisClientOpt(cfg config.RedisConfig) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.Host,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
}

// Cleanup releases connections on shutdown.
func (c *Container) Cleanup() {
	if c.QueueClient != nil {
		if err := c.QueueClient.Close(); err != nil {
			logger.Error("Failed to close queue client", err)
		}
	}

	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			logger.Error("Failed to close Redis", err)
		}
	}

	if c.DB != nil {
		c.DB.Close()
	}

	logger.Info("Container cleanup completed", nil)
}
