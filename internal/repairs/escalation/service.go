// Package escalation retries worker assignment for urgent requests that were
// still unassigned when their priority window ran out.
package escalation

import (
	"context"
	"errors"
	"time"

	"repair_portal_backend/internal/events"
	"repair_portal_backend/internal/repairs/assignment"
	"repair_portal_backend/internal/repairs/domain"
	"repair_portal_backend/internal/repairs/metadata"
	"repair_portal_backend/internal/repairs/ports"
	"repair_portal_backend/platform/logger"

	"github.com/google/uuid"
)

// Outcome reports what an escalation run did.
type Outcome string

const (
	OutcomeAssigned      Outcome = "assigned"
	OutcomeAlreadyActive Outcome = "already_active"
	OutcomeNoWorker      Outcome = "no_worker"
	OutcomeOrderGone     Outcome = "order_gone"
)

type Service struct {
	orders  ports.OrderReader
	writer  ports.MetadataWriter
	workers ports.WorkerPool
	bus     events.Bus
	log     *logger.Logger
	now     func() time.Time
}

func New(orders ports.OrderReader, writer ports.MetadataWriter, workers ports.WorkerPool, bus events.Bus, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewNop()
	}
	return &Service{orders: orders, writer: writer, workers: workers, bus: bus, log: log, now: time.Now}
}

// Escalate assigns the order if it is still pending. Returned errors are
// transient backend failures that the job runner may retry.
func (s *Service) Escalate(ctx context.Context, orderID string) (Outcome, error) {
	log := s.log.WithContext(ctx).WithFields("orderId", orderID)

	snap, err := s.orders.GetOrder(ctx, orderID)
	if errors.Is(err, domain.ErrOrderNotFound) {
		log.Warn("escalation: order no longer exists")
		return OutcomeOrderGone, nil
	}
	if err != nil {
		return "", err
	}

	current := metadata.Decode(snap.Metadata)
	if current.Stage != domain.StagePendingAssignment {
		log.Info("escalation: order already picked up", "stage", string(current.Stage))
		return OutcomeAlreadyActive, nil
	}

	pool, err := s.workers.ListWorkers(ctx)
	if err != nil {
		return "", err
	}
	w, ok := assignment.SelectLeastLoaded(pool)
	if !ok {
		log.Warn("escalation: no worker available")
		return OutcomeNoWorker, nil
	}

	a := domain.AssignmentFor(w)
	if err := s.writer.UpdateMetadata(ctx, orderID, metadata.AssignmentUpdate(*a, s.now().UTC())); err != nil {
		return "", err
	}
	log.Info("escalation: worker assigned", "workerId", w.ID)

	if s.bus != nil {
		s.bus.Publish(ctx, events.RepairWorkerAssigned{
			BaseEvent:        events.NewBaseEvent(),
			EventID:          uuid.New(),
			OrderID:          snap.ID,
			OrderNumber:      snap.Number,
			ServiceName:      current.Service.Name,
			DeviceType:       current.DeviceType,
			CustomerFullName: current.Customer.FullName,
			CustomerPhone:    current.Customer.Phone,
			Urgent:           current.Urgent,
			NeedsPickup:      current.NeedsPickup,
			Worker:           events.WorkerSnapshot{ID: a.WorkerID, Email: a.WorkerEmail, Name: a.WorkerName},
		})
	}
	return OutcomeAssigned, nil
}
