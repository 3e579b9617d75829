// Package events holds the repair domain events. The bus itself lives in
// platform/events and is re-exported here so modules import one package.
package events

import (
	"time"

	"repair_portal_backend/platform/events"
	"repair_portal_backend/platform/logger"

	"github.com/google/uuid"
)

type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
	InMemoryBus = events.InMemoryBus
)

var NewBaseEvent = events.NewBaseEvent

// NewInMemoryBus creates the process-local bus.
func NewInMemoryBus(log *logger.Logger) *InMemoryBus {
	return events.NewInMemoryBus(log)
}

// =============================================================================
// Repair Domain Events
// =============================================================================

const (
	RepairRequestCreatedName = "repairs.request.created"
	RepairWorkerAssignedName = "repairs.worker.assigned"
	RepairStageChangedName   = "repairs.stage.changed"
)

// WorkerSnapshot is the assigned worker as written onto the order.
type WorkerSnapshot struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// RepairRequestCreated is published after intake created an order.
type RepairRequestCreated struct {
	BaseEvent
	EventID          uuid.UUID       `json:"eventId"`
	OrderID          string          `json:"orderId"`
	OrderNumber      string          `json:"orderNumber"`
	ServiceName      string          `json:"serviceName"`
	ServiceSlug      string          `json:"serviceSlug"`
	DeviceType       string          `json:"deviceType"`
	CustomerFullName string          `json:"customerFullName"`
	CustomerPhone    string          `json:"customerPhone"`
	Urgent           bool            `json:"urgent"`
	NeedsPickup      bool            `json:"needsPickup"`
	Worker           *WorkerSnapshot `json:"worker,omitempty"`
}

func (e RepairRequestCreated) EventName() string { return RepairRequestCreatedName }

// RepairWorkerAssigned is published when a pending order is assigned after intake.
type RepairWorkerAssigned struct {
	BaseEvent
	EventID          uuid.UUID      `json:"eventId"`
	OrderID          string         `json:"orderId"`
	OrderNumber      string         `json:"orderNumber"`
	ServiceName      string         `json:"serviceName"`
	DeviceType       string         `json:"deviceType"`
	CustomerFullName string         `json:"customerFullName"`
	CustomerPhone    string         `json:"customerPhone"`
	Urgent           bool           `json:"urgent"`
	NeedsPickup      bool           `json:"needsPickup"`
	Worker           WorkerSnapshot `json:"worker"`
}

func (e RepairWorkerAssigned) EventName() string { return RepairWorkerAssignedName }

// RepairStageChanged is published after a stage advance was stored.
type RepairStageChanged struct {
	BaseEvent
	EventID   uuid.UUID `json:"eventId"`
	OrderID   string    `json:"orderId"`
	FromStage string    `json:"fromStage"`
	ToStage   string    `json:"toStage"`
	ChangedBy string    `json:"changedBy,omitempty"`
	ChangedAt time.Time `json:"changedAt"`
}

func (e RepairStageChanged) EventName() string { return RepairStageChangedName }
