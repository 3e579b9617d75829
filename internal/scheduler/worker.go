package scheduler

import (
	"context"
	"fmt"

	"repair_portal_backend/internal/repairs/escalation"
	"repair_portal_backend/platform/config"
	"repair_portal_backend/platform/logger"

	"github.com/hibiken/asynq"
)

// Escalator runs one escalation for an order.
type Escalator interface {
	Escalate(ctx context.Context, orderID string) (escalation.Outcome, error)
}

type Worker struct {
	server    *asynq.Server
	mux       *asynq.ServeMux
	escalator Escalator
	log       *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, escalator Escalator, log *logger.Logger) (*Worker, error) {
	opt, err := redisClientOpt(cfg.GetRedisURL(), cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
		Logger: &asynqLogger{log: log},
	})

	w := &Worker{
		server:    server,
		mux:       asynq.NewServeMux(),
		escalator: escalator,
		log:       log,
	}
	w.mux.HandleFunc(TaskRepairEscalation, w.handleRepairEscalation)

	return w, nil
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}

func (w *Worker) handleRepairEscalation(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseRepairEscalationPayload(task)
	if err != nil {
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}

	outcome, err := w.escalator.Escalate(ctx, payload.OrderID)
	if err != nil {
		w.log.DownstreamError("saleor", "escalate_order", err)
		return err
	}

	w.log.Info("repair escalation processed", "orderId", payload.OrderID, "outcome", string(outcome))
	return nil
}

// asynqLogger routes asynq's internal logging through the structured logger.
type asynqLogger struct {
	log *logger.Logger
}

func (l *asynqLogger) Debug(args ...interface{}) {
	l.log.Debug(fmt.Sprint(args...), "component", "asynq")
}

func (l *asynqLogger) Info(args ...interface{}) {
	l.log.Info(fmt.Sprint(args...), "component", "asynq")
}

func (l *asynqLogger) Warn(args ...interface{}) {
	l.log.Warn(fmt.Sprint(args...), "component", "asynq")
}

func (l *asynqLogger) Error(args ...interface{}) {
	l.log.Error(fmt.Sprint(args...), "component", "asynq")
}

func (l *asynqLogger) Fatal(args ...interface{}) {
	l.log.Error(fmt.Sprint(args...), "component", "asynq", "fatal", true)
}
