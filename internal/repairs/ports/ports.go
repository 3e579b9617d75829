// Package ports defines the interfaces the repairs domain requires from
// external systems: the service catalog, the commerce backend's orders and
// staff, the outbound webhook, and the delayed-job scheduler. Adapters in the
// composition root translate those systems into these shapes.
package ports

import (
	"context"
	"time"

	"repair_portal_backend/internal/repairs/domain"
)

// ServiceCatalog resolves a service definition by slug.
// Unknown slugs return domain.ErrServiceNotFound.
type ServiceCatalog interface {
	GetBySlug(ctx context.Context, slug string) (domain.ServiceDefinition, error)
}

// WorkerPool enumerates the repair worker pool with current task counts.
// Inactive members are included with Active=false. Order is stable across
// calls so the assignment tie-break is deterministic.
type WorkerPool interface {
	ListWorkers(ctx context.Context) ([]domain.Worker, error)
}

// OrderCreator persists a new repair order together with its metadata bag in
// a single backend write.
type OrderCreator interface {
	CreateOrder(ctx context.Context, customerEmail *string, metadata []domain.MetadataItem) (domain.OrderRef, error)
}

// OrderReader reads repair orders back from the backend.
type OrderReader interface {
	// GetOrder returns domain.ErrOrderNotFound for unknown ids.
	GetOrder(ctx context.Context, orderID string) (domain.OrderSnapshot, error)
	// ListByMetadata returns orders whose metadata has key == value, newest first.
	ListByMetadata(ctx context.Context, key, value string, first int) ([]domain.OrderSnapshot, error)
}

// MetadataWriter merges items into an order's metadata bag. Keys not listed
// are left untouched.
type MetadataWriter interface {
	UpdateMetadata(ctx context.Context, orderID string, items []domain.MetadataItem) error
}

// ServiceRequestNotice is the payload delivered to the outbound webhook.
type ServiceRequestNotice struct {
	ReceivedAt time.Time
	Request    domain.RepairServiceRequest
	Service    domain.ServiceDefinition
	Assignment *domain.Assignment
	Order      domain.OrderRef
	Stage      domain.Stage
}

// RequestNotifier delivers the best-effort intake notification.
type RequestNotifier interface {
	// Enabled is false when no destination is configured.
	Enabled() bool
	NotifyServiceRequest(ctx context.Context, notice ServiceRequestNotice) error
}

// EscalationScheduler enqueues a deferred assignment retry for an order.
type EscalationScheduler interface {
	ScheduleEscalation(ctx context.Context, orderID string, runAt time.Time) error
}
