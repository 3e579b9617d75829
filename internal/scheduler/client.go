package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"repair_portal_backend/internal/repairs/ports"
	"repair_portal_backend/platform/config"

	"github.com/hibiken/asynq"
)

const escalationMaxRetry = 5

type enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
	Close() error
}

type Client struct {
	client enqueuer
	queue  string
}

func NewClient(cfg config.SchedulerConfig) (*Client, error) {
	opt, err := redisClientOpt(cfg.GetRedisURL(), cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	return &Client{
		client: asynq.NewClient(opt),
		queue:  queue,
	}, nil
}

func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// ScheduleEscalation enqueues one escalation per order. A second call for the
// same order is a no-op while the first task is still pending.
func (c *Client) ScheduleEscalation(ctx context.Context, orderID string, runAt time.Time) error {
	if c == nil || c.client == nil {
		return nil
	}

	task, err := NewRepairEscalationTask(RepairEscalationPayload{OrderID: orderID})
	if err != nil {
		return err
	}

	_, err = c.client.EnqueueContext(ctx, task,
		asynq.ProcessAt(runAt),
		asynq.Queue(c.queue),
		asynq.TaskID(escalationTaskID(orderID)),
		asynq.MaxRetry(escalationMaxRetry),
	)
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("enqueue escalation for %s: %w", orderID, err)
	}
	return nil
}

var _ ports.EscalationScheduler = (*Client)(nil)
