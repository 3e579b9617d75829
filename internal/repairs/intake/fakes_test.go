package intake

import (
	"context"
	"errors"
	"sync"
	"time"

	"repair_portal_backend/internal/repairs/domain"
	"repair_portal_backend/internal/repairs/ports"
)

type fakeCatalog struct {
	services map[string]domain.ServiceDefinition
	err      error
}

func (f *fakeCatalog) GetBySlug(_ context.Context, slug string) (domain.ServiceDefinition, error) {
	if f.err != nil {
		return domain.ServiceDefinition{}, f.err
	}
	svc, ok := f.services[slug]
	if !ok {
		return domain.ServiceDefinition{}, domain.ErrServiceNotFound
	}
	return svc, nil
}

type fakeWorkers struct {
	workers []domain.Worker
	err     error
}

func (f *fakeWorkers) ListWorkers(context.Context) ([]domain.Worker, error) {
	return f.workers, f.err
}

type fakeOrders struct {
	mu    sync.Mutex
	calls int
	email *string
	items []domain.MetadataItem
	err   error
}

func (f *fakeOrders) CreateOrder(_ context.Context, email *string, items []domain.MetadataItem) (domain.OrderRef, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return domain.OrderRef{}, f.err
	}
	f.email = email
	f.items = items
	return domain.OrderRef{ID: "T3JkZXI6MQ==", Number: "1001"}, nil
}

type fakeNotifier struct {
	enabled bool
	calls   int
	last    ports.ServiceRequestNotice
	err     error
}

func (f *fakeNotifier) Enabled() bool { return f.enabled }

func (f *fakeNotifier) NotifyServiceRequest(_ context.Context, n ports.ServiceRequestNotice) error {
	f.calls++
	f.last = n
	return f.err
}

type fakeScheduler struct {
	orderID string
	runAt   time.Time
	calls   int
	err     error
}

func (f *fakeScheduler) ScheduleEscalation(_ context.Context, orderID string, runAt time.Time) error {
	f.calls++
	f.orderID = orderID
	f.runAt = runAt
	return f.err
}

var errBackend = errors.New("backend rejected mutation")
