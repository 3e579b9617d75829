// Package dashboard is the staff-facing read side of repair orders and the
// stage advancement write path.
package dashboard

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"repair_portal_backend/internal/events"
	"repair_portal_backend/internal/repairs/domain"
	"repair_portal_backend/internal/repairs/metadata"
	"repair_portal_backend/internal/repairs/ports"
	"repair_portal_backend/platform/apperr"
	"repair_portal_backend/platform/logger"

	"github.com/google/uuid"
)

const (
	CodeUnknownStage      = "UNKNOWN_STAGE"
	CodeOrderNotFound     = "ORDER_NOT_FOUND"
	CodeIllegalTransition = "ILLEGAL_STAGE_TRANSITION"
	CodeOrderLookupFailed = "ORDER_LOOKUP_FAILED"
	CodeStageUpdateFailed = "STAGE_UPDATE_FAILED"
	CodeWorkersFailed     = "WORKER_POOL_UNAVAILABLE"

	maxPageSize = 100
)

// Options are the configured defaults.
type Options struct {
	DefaultGroup    string
	DefaultPageSize int
}

type Service struct {
	orders  ports.OrderReader
	writer  ports.MetadataWriter
	workers ports.WorkerPool
	bus     events.Bus
	log     *logger.Logger
	now     func() time.Time
	opts    Options

	degraded atomic.Int64
}

func New(orders ports.OrderReader, writer ports.MetadataWriter, workers ports.WorkerPool, bus events.Bus, log *logger.Logger, opts Options) *Service {
	if opts.DefaultPageSize < 1 || opts.DefaultPageSize > maxPageSize {
		opts.DefaultPageSize = 50
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Service{
		orders:  orders,
		writer:  writer,
		workers: workers,
		bus:     bus,
		log:     log,
		now:     time.Now,
		opts:    opts,
	}
}

// SetClock replaces the time source. Tests only.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// StageChange describes a stored stage advance.
type StageChange struct {
	OrderID   string
	From      domain.Stage
	To        domain.Stage
	ChangedAt time.Time
}

// FetchOrders returns the worklist of a worker group, newest first. A failed
// query yields an empty list exactly like no matches; the failure is logged
// and counted in DegradedQueries.
func (s *Service) FetchOrders(ctx context.Context, workerGroup string, pageSize int) []domain.StaffRepairOrder {
	workerGroup = s.ResolveGroup(workerGroup)
	pageSize = s.clampPageSize(pageSize)

	snapshots, err := s.orders.ListByMetadata(ctx, metadata.KeyWorkerGroup, workerGroup, pageSize)
	if err != nil {
		total := s.degraded.Add(1)
		s.log.WithContext(ctx).Error("dashboard query failed, returning empty worklist",
			"workerGroup", workerGroup, "degradedQueries", total, "error", err)
		return []domain.StaffRepairOrder{}
	}

	out := make([]domain.StaffRepairOrder, 0, len(snapshots))
	for _, snap := range snapshots {
		out = append(out, decodeSnapshot(snap))
	}
	return out
}

// ResolveGroup returns group, or the configured worker group when empty.
func (s *Service) ResolveGroup(group string) string {
	if group == "" {
		return s.opts.DefaultGroup
	}
	return group
}

// DegradedQueries counts worklist queries that failed and were masked as empty.
func (s *Service) DegradedQueries() int64 {
	return s.degraded.Load()
}

// AdvanceStage moves an order forward in the lifecycle. Only stage and
// stageUpdatedAt are written; concurrent advances are last-write-wins.
func (s *Service) AdvanceStage(ctx context.Context, orderID, target, actorID string) (StageChange, error) {
	to, ok := domain.ParseStage(target)
	if !ok {
		return StageChange{}, apperr.Validation("unknown stage").WithCode(CodeUnknownStage)
	}

	snap, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			return StageChange{}, apperr.NotFound("order not found").WithCode(CodeOrderNotFound)
		}
		return StageChange{}, apperr.Upstream("order lookup failed", err).WithCode(CodeOrderLookupFailed)
	}

	from := metadata.Decode(snap.Metadata).Stage
	if !from.CanAdvanceTo(to) {
		return StageChange{}, apperr.Conflict("stage can only move forward").
			WithCode(CodeIllegalTransition).
			WithDetails(map[string]string{"from": string(from), "to": string(to)})
	}

	changedAt := s.now().UTC()
	if err := s.writer.UpdateMetadata(ctx, orderID, metadata.StageUpdate(to, changedAt)); err != nil {
		s.log.WithContext(ctx).Error("stage update failed", "orderId", orderID, "error", err)
		return StageChange{}, apperr.Upstream("stage update failed", err).WithCode(CodeStageUpdateFailed)
	}

	s.log.WithContext(ctx).Info("stage advanced", "orderId", orderID, "from", string(from), "to", string(to))

	if s.bus != nil {
		s.bus.Publish(ctx, events.RepairStageChanged{
			BaseEvent: events.NewBaseEvent(),
			EventID:   uuid.New(),
			OrderID:   orderID,
			FromStage: string(from),
			ToStage:   string(to),
			ChangedBy: actorID,
			ChangedAt: changedAt,
		})
	}

	return StageChange{OrderID: orderID, From: from, To: to, ChangedAt: changedAt}, nil
}

// Workers returns the worker pool roster with current task counts.
func (s *Service) Workers(ctx context.Context) ([]domain.Worker, error) {
	workers, err := s.workers.ListWorkers(ctx)
	if err != nil {
		return nil, apperr.Upstream("worker pool unavailable", err).WithCode(CodeWorkersFailed)
	}
	return workers, nil
}

func (s *Service) clampPageSize(n int) int {
	if n < 1 {
		return s.opts.DefaultPageSize
	}
	if n > maxPageSize {
		return maxPageSize
	}
	return n
}

func decodeSnapshot(snap domain.OrderSnapshot) domain.StaffRepairOrder {
	order := metadata.Decode(snap.Metadata)
	order.OrderID = snap.ID
	order.OrderNumber = snap.Number
	order.CreatedAt = snap.CreatedAt
	order.Total = snap.Total
	return order
}
