package scheduler

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

const TaskRepairEscalation = "repairs.escalate"

type RepairEscalationPayload struct {
	OrderID string `json:"orderId"`
}

func NewRepairEscalationTask(payload RepairEscalationPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskRepairEscalation, data), nil
}

func ParseRepairEscalationPayload(task *asynq.Task) (RepairEscalationPayload, error) {
	var payload RepairEscalationPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return RepairEscalationPayload{}, err
	}
	if payload.OrderID == "" {
		return RepairEscalationPayload{}, fmt.Errorf("escalation payload: missing orderId")
	}
	return payload, nil
}

// escalationTaskID makes enqueueing idempotent per order.
func escalationTaskID(orderID string) string {
	return "repairs:escalate:" + orderID
}
