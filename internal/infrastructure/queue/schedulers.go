package queue

import (
	"time"

	"github.com/hibiken/asynq"

	"petcare-backend/internal/config"
	"petcare-backend/internal/shared"
	"petcare-backend/internal/shared/utils"
	"petcare-backend/pkg/logger"
)

type Scheduler struct {
	scheduler *asynq.Scheduler
	config    config.WorkerConfig
}

func NewScheduler(redisOpt asynq.RedisClientOpt, workerConfig config.WorkerConfig) *Scheduler {
	scheduler := asynq.NewScheduler(
		redisOpt,
		&asynq.SchedulerOpts{
			Location: time.UTC,
			LogLevel: asynq.InfoLevel,
		},
	)

	return &Scheduler{
		scheduler: scheduler,
		config:    workerConfig,
	}
}

func (s *Scheduler) RegisterJobs() error {
	return s.registerSweepExpiredPaymentsJob()
}

// ================================================
// Sweep expired payments
// ================================================
// Catches payments whose scheduled expiry task was lost, e.g. enqueued while
// Redis was down.
func (s *Scheduler) registerSweepExpiredPaymentsJob() error {
	task, err := utils.NewTask(shared.TypeSweepExpiredPayment, shared.SweepExpiredPaymentsPayload{
		Limit: s.config.SweepBatchLimit,
	})
	if err != nil {
		return err
	}

	_, err = s.scheduler.Register(
		s.config.SweepCron,
		task,
		asynq.Queue(shared.QueueDefault),
		asynq.MaxRetry(1),
		asynq.Timeout(5*time.Minute),
		asynq.Unique(time.Minute),
	)
	if err != nil {
		logger.Error("Failed to register SweepExpiredPayments job", err)
		return err
	}

	logger.Info("Registered SweepExpiredPayments", map[string]interface{}{
		"cron":  s.config.SweepCron,
		"limit": s.config.SweepBatchLimit,
	})
	return nil
}

func (s *Scheduler) Start() error {
	return s.scheduler.Start()
}

func (s *Scheduler) Shutdown() {
	s.scheduler.Shutdown()
}
