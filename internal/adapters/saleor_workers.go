package adapters

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"repair_portal_backend/internal/repairs/domain"
	"repair_portal_backend/internal/repairs/metadata"
	"repair_portal_backend/internal/repairs/ports"
	"repair_portal_backend/internal/saleor"
)

const defaultCountConcurrency = 4

// SaleorStaffAPI is the slice of the commerce client the worker pool uses.
type SaleorStaffAPI interface {
	PermissionGroupMembers(ctx context.Context, name string) ([]saleor.StaffUser, error)
	CountOrdersByMetadata(ctx context.Context, key, value string) (int, error)
}

// SaleorWorkerPool reads the worker pool from a permission group and derives
// each member's load by counting orders whose workerId points at them.
type SaleorWorkerPool struct {
	api         SaleorStaffAPI
	group       string
	concurrency int
}

// NewSaleorWorkerPool creates the worker pool adapter for the named group.
func NewSaleorWorkerPool(api SaleorStaffAPI, group string) *SaleorWorkerPool {
	return &SaleorWorkerPool{api: api, group: group, concurrency: defaultCountConcurrency}
}

// ListWorkers returns every group member in backend order. Task counts are
// fetched concurrently; any count failure fails the whole listing.
func (p *SaleorWorkerPool) ListWorkers(ctx context.Context) ([]domain.Worker, error) {
	members, err := p.api.PermissionGroupMembers(ctx, p.group)
	if err != nil {
		return nil, fmt.Errorf("worker pool %q: members: %w", p.group, err)
	}

	workers := make([]domain.Worker, len(members))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)

	for i, member := range members {
		workers[i] = domain.Worker{
			ID:     member.ID,
			Email:  member.Email,
			Name:   member.DisplayName(),
			Active: member.IsActive,
		}
		if !member.IsActive {
			continue
		}
		g.Go(func() error {
			count, err := p.api.CountOrdersByMetadata(gctx, metadata.KeyWorkerID, member.ID)
			if err != nil {
				return fmt.Errorf("count tasks for %s: %w", member.ID, err)
			}
			workers[i].TaskCount = count
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("worker pool %q: %w", p.group, err)
	}
	return workers, nil
}

var _ ports.WorkerPool = (*SaleorWorkerPool)(nil)
