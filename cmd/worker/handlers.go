package main

import (
	"github.com/hibiken/asynq"

	paymentJob "petcare-backend/internal/domains/payment/job"
	"petcare-backend/internal/shared"
	"petcare-backend/pkg/container"
)

// HandlerRegistry holds all job handlers
type HandlerRegistry struct {
	expirePayment *paymentJob.ExpirePaymentHandler
	sweepExpired  *paymentJob.SweepExpiredHandler
}

func initializeHandlers(c *container.Container) *HandlerRegistry {
	return &HandlerRegistry{
		expirePayment: paymentJob.NewExpirePaymentHandler(c.PaymentService),
		sweepExpired:  paymentJob.NewSweepExpiredHandler(c.PaymentService),
	}
}

// RegisterHandlers registers all handlers with the mux
func (h *HandlerRegistry) RegisterHandlers(mux *asynq.ServeMux) {
	mux.HandleFunc(shared.TypeExpirePayment, h.expirePayment.ProcessTask)
	mux.HandleFunc(shared.TypeSweepExpiredPayment, h.sweepExpired.ProcessTask)
}
