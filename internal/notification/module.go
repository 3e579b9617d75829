// Package notification sends staff notifications in response to repair
// domain events. Repair services publish events and never talk to email
// providers directly.
package notification

import (
	"context"
	"fmt"

	"repair_portal_backend/internal/email"
	"repair_portal_backend/internal/events"
	"repair_portal_backend/platform/logger"
)

// Module handles notification-related event subscriptions.
type Module struct {
	sender email.Sender
	log    *logger.Logger
}

// New creates the notification module. A nil sender disables email.
func New(sender email.Sender, log *logger.Logger) *Module {
	if sender == nil {
		sender = email.NoopSender{}
	}
	return &Module{sender: sender, log: log}
}

// RegisterHandlers subscribes the module to repair events.
func (m *Module) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.RepairRequestCreated{}.EventName(), m)
	bus.Subscribe(events.RepairWorkerAssigned{}.EventName(), m)
	bus.Subscribe(events.RepairStageChanged{}.EventName(), m)
}

// Handle routes events to the appropriate handler method.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.RepairRequestCreated:
		return m.handleRepairRequestCreated(ctx, e)
	case events.RepairWorkerAssigned:
		return m.handleRepairWorkerAssigned(ctx, e)
	case events.RepairStageChanged:
		m.log.Info("repair stage changed",
			"orderId", e.OrderID,
			"from", e.FromStage,
			"to", e.ToStage,
			"changedBy", e.ChangedBy,
		)
		return nil
	default:
		m.log.Warn("unhandled event type", "event", event.EventName())
		return nil
	}
}

func (m *Module) handleRepairRequestCreated(ctx context.Context, e events.RepairRequestCreated) error {
	if e.Worker == nil {
		return nil
	}
	return m.sendAssigned(ctx, e.Worker.Email, e.OrderID, email.RepairAssignment{
		WorkerName:    e.Worker.Name,
		OrderNumber:   e.OrderNumber,
		ServiceName:   e.ServiceName,
		DeviceType:    e.DeviceType,
		CustomerName:  e.CustomerFullName,
		CustomerPhone: e.CustomerPhone,
		Urgent:        e.Urgent,
		NeedsPickup:   e.NeedsPickup,
	})
}

func (m *Module) handleRepairWorkerAssigned(ctx context.Context, e events.RepairWorkerAssigned) error {
	return m.sendAssigned(ctx, e.Worker.Email, e.OrderID, email.RepairAssignment{
		WorkerName:    e.Worker.Name,
		OrderNumber:   e.OrderNumber,
		ServiceName:   e.ServiceName,
		DeviceType:    e.DeviceType,
		CustomerName:  e.CustomerFullName,
		CustomerPhone: e.CustomerPhone,
		Urgent:        e.Urgent,
		NeedsPickup:   e.NeedsPickup,
		Escalated:     true,
	})
}

func (m *Module) sendAssigned(ctx context.Context, to, orderID string, data email.RepairAssignment) error {
	if to == "" {
		m.log.Warn("assigned worker has no email; skipping notification", "orderId", orderID)
		return nil
	}
	if err := m.sender.SendRepairAssignedEmail(ctx, to, data); err != nil {
		m.log.DownstreamError("smtp", "send_repair_assigned", err)
		return fmt.Errorf("send repair assigned email for order %s: %w", orderID, err)
	}
	m.log.Info("repair assignment email sent", "orderId", orderID, "worker", to)
	return nil
}
