package handler

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"repair_portal_backend/internal/repairs/domain"
	"repair_portal_backend/internal/repairs/metadata"
	"repair_portal_backend/internal/repairs/ports"
)

var errBackend = errors.New("backend unavailable")

type fakeCatalog struct {
	services map[string]domain.ServiceDefinition
}

func (f *fakeCatalog) GetBySlug(_ context.Context, slug string) (domain.ServiceDefinition, error) {
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

// memoryOrders keeps orders in memory, keyed by id, in creation order.
type memoryOrders struct {
	mu        sync.Mutex
	orders    []domain.OrderSnapshot
	createErr error
	listErr   error
	creates   int
}

func (m *memoryOrders) CreateOrder(_ context.Context, _ *string, items []domain.MetadataItem) (domain.OrderRef, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.creates++
	if m.createErr != nil {
		return domain.OrderRef{}, m.createErr
	}
	n := len(m.orders) + 1
	snap := domain.OrderSnapshot{
		ID:       fmt.Sprintf("order-%d", n),
		Number:   fmt.Sprintf("%d", 1000+n),
		Metadata: append([]domain.MetadataItem(nil), items...),
	}
	m.orders = append(m.orders, snap)
	return domain.OrderRef{ID: snap.ID, Number: snap.Number}, nil
}

func (m *memoryOrders) GetOrder(_ context.Context, orderID string) (domain.OrderSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.orders {
		if o.ID == orderID {
			return o, nil
		}
	}
	return domain.OrderSnapshot{}, domain.ErrOrderNotFound
}

func (m *memoryOrders) ListByMetadata(_ context.Context, key, value string, first int) ([]domain.OrderSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []domain.OrderSnapshot
	for i := len(m.orders) - 1; i >= 0 && len(out) < first; i-- {
		if v, ok := metadata.Lookup(m.orders[i].Metadata, key); ok && v == value {
			out = append(out, m.orders[i])
		}
	}
	return out, nil
}

func (m *memoryOrders) UpdateMetadata(_ context.Context, orderID string, items []domain.MetadataItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.orders {
		if m.orders[i].ID != orderID {
			continue
		}
		for _, item := range items {
			replaced := false
			for j := range m.orders[i].Metadata {
				if m.orders[i].Metadata[j].Key == item.Key {
					m.orders[i].Metadata[j].Value = item.Value
					replaced = true
				}
			}
			if !replaced {
				m.orders[i].Metadata = append(m.orders[i].Metadata, item)
			}
		}
		return nil
	}
	return domain.ErrOrderNotFound
}

func (m *memoryOrders) createCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.creates
}

type fakeNotifier struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (f *fakeNotifier) Enabled() bool { return true }

func (f *fakeNotifier) NotifyServiceRequest(context.Context, ports.ServiceRequestNotice) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.err
}

func (f *fakeNotifier) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}
