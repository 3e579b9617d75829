// Package intake orchestrates a repair-service request: catalog lookup,
// worker selection, order creation and the best-effort webhook.
package intake

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"repair_portal_backend/internal/events"
	"repair_portal_backend/internal/repairs/assignment"
	"repair_portal_backend/internal/repairs/domain"
	"repair_portal_backend/internal/repairs/metadata"
	"repair_portal_backend/internal/repairs/ports"
	"repair_portal_backend/platform/apperr"
	"repair_portal_backend/platform/logger"

	"github.com/google/uuid"
)

// Stable error codes surfaced in the response body.
const (
	CodeServiceNotFound     = "SERVICE_NOT_FOUND"
	CodeServiceLookupFailed = "SERVICE_LOOKUP_FAILED"
	CodeTaskCreationFailed  = "TASK_CREATION_FAILED"
)

// Options are the configuration values the service needs.
type Options struct {
	WorkerGroup      string
	EscalationGroup  string
	EscalationWindow time.Duration
}

// Deps groups the collaborators. Notifier, Scheduler and Bus may be nil.
type Deps struct {
	Catalog   ports.ServiceCatalog
	Workers   ports.WorkerPool
	Orders    ports.OrderCreator
	Notifier  ports.RequestNotifier
	Scheduler ports.EscalationScheduler
	Bus       events.Bus
	Log       *logger.Logger
	Now       func() time.Time
}

// Result is what the caller learns about a created request.
type Result struct {
	OrderID        string
	OrderNumber    string
	AssignedWorker *domain.Assignment
	Stage          domain.Stage
	ReceivedAt     time.Time
}

type Service struct {
	catalog   ports.ServiceCatalog
	workers   ports.WorkerPool
	orders    ports.OrderCreator
	notifier  ports.RequestNotifier
	scheduler ports.EscalationScheduler
	bus       events.Bus
	log       *logger.Logger
	now       func() time.Time
	opts      Options
}

func New(deps Deps, opts Options) *Service {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	log := deps.Log
	if log == nil {
		log = logger.NewNop()
	}
	return &Service{
		catalog:   deps.Catalog,
		workers:   deps.Workers,
		orders:    deps.Orders,
		notifier:  deps.Notifier,
		scheduler: deps.Scheduler,
		bus:       deps.Bus,
		log:       log,
		now:       now,
		opts:      opts,
	}
}

// Create runs the intake steps in order. Only the catalog lookup and the
// order write can fail the request; every later step is logged and isolated.
func (s *Service) Create(ctx context.Context, req domain.RepairServiceRequest) (Result, error) {
	log := s.log.WithContext(ctx).WithFields(slog.String("serviceSlug", req.ServiceSlug))
	receivedAt := s.now().UTC()

	svc, err := s.catalog.GetBySlug(ctx, req.ServiceSlug)
	if err != nil {
		if errors.Is(err, domain.ErrServiceNotFound) {
			log.Warn("service lookup: not found")
			return Result{}, apperr.NotFound("service not found").WithCode(CodeServiceNotFound).WithOp("intake.Create")
		}
		log.Error("service lookup failed", "error", err)
		return Result{}, apperr.Upstream("service lookup failed", err).WithCode(CodeServiceLookupFailed).WithOp("intake.Create")
	}
	log.Info("service resolved", "serviceName", svc.Name)

	assigned := s.selectWorker(ctx, log)

	opts := metadata.EncodeOptions{WorkerGroup: s.opts.WorkerGroup}
	var escalateAt *time.Time
	if req.Urgent && s.opts.EscalationWindow > 0 {
		until := receivedAt.Add(s.opts.EscalationWindow)
		escalateAt = &until
		opts.LeadGroup = s.opts.EscalationGroup
		opts.LeadPriorityUntil = escalateAt
	}

	items := metadata.Encode(req, svc, assigned, opts, receivedAt)
	order, err := s.orders.CreateOrder(ctx, req.Email, items)
	if err != nil {
		log.Error("order creation failed", "error", err)
		return Result{}, apperr.Upstream("task creation failed", err).WithCode(CodeTaskCreationFailed).WithOp("intake.Create")
	}

	stage := domain.StagePendingAssignment
	if assigned != nil {
		stage = domain.StageAssigned
	}
	log = log.WithFields(slog.String("orderId", order.ID), slog.String("orderNumber", order.Number))
	log.Info("order created", "stage", string(stage))

	result := Result{
		OrderID:        order.ID,
		OrderNumber:    order.Number,
		AssignedWorker: assigned,
		Stage:          stage,
		ReceivedAt:     receivedAt,
	}

	s.notify(ctx, log, ports.ServiceRequestNotice{
		ReceivedAt: receivedAt,
		Request:    req,
		Service:    svc,
		Assignment: assigned,
		Order:      order,
		Stage:      stage,
	})

	if escalateAt != nil && assigned == nil {
		s.scheduleEscalation(ctx, log, order.ID, *escalateAt)
	}

	s.publishCreated(ctx, req, svc, result)

	return result, nil
}

// selectWorker never fails the request. A pool error leaves it unassigned.
func (s *Service) selectWorker(ctx context.Context, log *logger.Logger) *domain.Assignment {
	if s.workers == nil {
		return nil
	}
	pool, err := s.workers.ListWorkers(ctx)
	if err != nil {
		log.Warn("worker pool unavailable, continuing unassigned", "error", err)
		return nil
	}
	w, ok := assignment.SelectLeastLoaded(pool)
	if !ok {
		log.Info("no worker available", "poolSize", len(pool))
		return nil
	}
	log.Info("worker selected", "workerId", w.ID, "taskCount", w.TaskCount)
	return domain.AssignmentFor(w)
}

func (s *Service) notify(ctx context.Context, log *logger.Logger, notice ports.ServiceRequestNotice) {
	if s.notifier == nil || !s.notifier.Enabled() {
		log.Info("webhook not configured, skipping")
		return
	}
	if err := s.notifier.NotifyServiceRequest(ctx, notice); err != nil {
		log.Error("webhook delivery failed", "error", err)
		return
	}
	log.Info("webhook delivered")
}

func (s *Service) scheduleEscalation(ctx context.Context, log *logger.Logger, orderID string, runAt time.Time) {
	if s.scheduler == nil {
		return
	}
	if err := s.scheduler.ScheduleEscalation(ctx, orderID, runAt); err != nil {
		log.Error("escalation scheduling failed", "error", err)
		return
	}
	log.Info("escalation scheduled", "runAt", runAt)
}

func (s *Service) publishCreated(ctx context.Context, req domain.RepairServiceRequest, svc domain.ServiceDefinition, result Result) {
	if s.bus == nil {
		return
	}
	evt := events.RepairRequestCreated{
		BaseEvent:        events.NewBaseEvent(),
		EventID:          uuid.New(),
		OrderID:          result.OrderID,
		OrderNumber:      result.OrderNumber,
		ServiceName:      svc.Name,
		ServiceSlug:      svc.Slug,
		DeviceType:       req.DeviceType,
		CustomerFullName: req.FullName,
		CustomerPhone:    req.Phone,
		Urgent:           req.Urgent,
		NeedsPickup:      req.NeedsPickup,
	}
	if a := result.AssignedWorker; a != nil {
		evt.Worker = &events.WorkerSnapshot{ID: a.WorkerID, Email: a.WorkerEmail, Name: a.WorkerName}
	}
	s.bus.Publish(ctx, evt)
}
