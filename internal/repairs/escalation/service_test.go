package escalation

import (
	"context"
	"errors"
	"testing"

	"repair_portal_backend/internal/repairs/domain"
	"repair_portal_backend/internal/repairs/metadata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubOrders struct {
	snap    domain.OrderSnapshot
	getErr  error
	written []domain.MetadataItem
}

func (s *stubOrders) GetOrder(context.Context, string) (domain.OrderSnapshot, error) {
	return s.snap, s.getErr
}

func (s *stubOrders) ListByMetadata(context.Context, string, string, int) ([]domain.OrderSnapshot, error) {
	return nil, nil
}

func (s *stubOrders) UpdateMetadata(_ context.Context, _ string, items []domain.MetadataItem) error {
	s.written = items
	return nil
}

type stubWorkers []domain.Worker

func (s stubWorkers) ListWorkers(context.Context) ([]domain.Worker, error) { return s, nil }

func pending() *stubOrders {
	return &stubOrders{snap: domain.OrderSnapshot{ID: "o1", Number: "7", Metadata: []domain.MetadataItem{
		{Key: "stage", Value: "pending_assignment"},
		{Key: "urgent", Value: "true"},
	}}}
}

func TestEscalateAssignsPendingOrder(t *testing.T) {
	orders := pending()
	svc := New(orders, orders, stubWorkers{{ID: "w9", Active: true, TaskCount: 3}, {ID: "w2", Active: true, TaskCount: 1}}, nil, nil)

	outcome, err := svc.Escalate(context.Background(), "o1")
	require.NoError(t, err)
	assert.Equal(t, OutcomeAssigned, outcome)

	got := metadata.Decode(orders.written)
	assert.Equal(t, domain.StageAssigned, got.Stage)
	require.NotNil(t, got.Worker)
	assert.Equal(t, "w2", got.Worker.WorkerID)
}

func TestEscalateSkipsActiveOrder(t *testing.T) {
	orders := pending()
	orders.snap.Metadata[0].Value = "in_progress"
	svc := New(orders, orders, stubWorkers{{ID: "w1", Active: true}}, nil, nil)

	outcome, err := svc.Escalate(context.Background(), "o1")
	require.NoError(t, err)
	assert.Equal(t, OutcomeAlreadyActive, outcome)
	assert.Nil(t, orders.written)
}

func TestEscalateNoWorker(t *testing.T) {
	orders := pending()
	svc := New(orders, orders, stubWorkers{}, nil, nil)

	outcome, err := svc.Escalate(context.Background(), "o1")
	require.NoError(t, err)
	assert.Equal(t, OutcomeNoWorker, outcome)
}

func TestEscalateOrderGoneAndOutage(t *testing.T) {
	orders := &stubOrders{getErr: domain.ErrOrderNotFound}
	svc := New(orders, orders, stubWorkers{}, nil, nil)
	outcome, err := svc.Escalate(context.Background(), "o1")
	require.NoError(t, err)
	assert.Equal(t, OutcomeOrderGone, outcome)

	orders.getErr = errors.New("timeout")
	_, err = svc.Escalate(context.Background(), "o1")
	assert.Error(t, err)
}
