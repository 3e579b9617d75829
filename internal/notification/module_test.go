package notification

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"repair_portal_backend/internal/email"
	"repair_portal_backend/internal/events"
	"repair_portal_backend/platform/logger"
)

type sentEmail struct {
	to   string
	data email.RepairAssignment
}

type testSender struct {
	mu   sync.Mutex
	sent []sentEmail
	err  error
}

func (s *testSender) SendRepairAssignedEmail(_ context.Context, to string, data email.RepairAssignment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, sentEmail{to: to, data: data})
	return s.err
}

func TestRequestCreatedWithWorkerSendsEmail(t *testing.T) {
	sender := &testSender{}
	bus := events.NewInMemoryBus(logger.NewNop())
	New(sender, logger.NewNop()).RegisterHandlers(bus)

	bus.Publish(context.Background(), events.RepairRequestCreated{
		BaseEvent:        events.NewBaseEvent(),
		OrderID:          "o1",
		OrderNumber:      "17",
		ServiceName:      "Screen repair",
		DeviceType:       "phone",
		CustomerFullName: "Айгуль Садыкова",
		CustomerPhone:    "+996555123456",
		NeedsPickup:      true,
		Worker:           &events.WorkerSnapshot{ID: "w1", Email: "w1@example.com", Name: "Nurlan"},
	})
	bus.Wait()

	require.Len(t, sender.sent, 1)
	assert.Equal(t, "w1@example.com", sender.sent[0].to)
	assert.Equal(t, email.RepairAssignment{
		WorkerName:    "Nurlan",
		OrderNumber:   "17",
		ServiceName:   "Screen repair",
		DeviceType:    "phone",
		CustomerName:  "Айгуль Садыкова",
		CustomerPhone: "+996555123456",
		NeedsPickup:   true,
	}, sender.sent[0].data)
}

func TestRequestCreatedWithoutWorkerIsSilent(t *testing.T) {
	sender := &testSender{}
	m := New(sender, logger.NewNop())

	require.NoError(t, m.Handle(context.Background(), events.RepairRequestCreated{OrderID: "o1"}))
	assert.Empty(t, sender.sent)
}

func TestWorkerAssignedMarksEscalation(t *testing.T) {
	sender := &testSender{}
	m := New(sender, logger.NewNop())

	require.NoError(t, m.Handle(context.Background(), events.RepairWorkerAssigned{
		OrderID:     "o2",
		OrderNumber: "18",
		Urgent:      true,
		Worker:      events.WorkerSnapshot{ID: "w2", Email: "w2@example.com", Name: "Aibek"},
	}))
	require.Len(t, sender.sent, 1)
	assert.True(t, sender.sent[0].data.Escalated)
	assert.True(t, sender.sent[0].data.Urgent)
}

func TestSendFailureIsReturnedToBus(t *testing.T) {
	sender := &testSender{err: errors.New("smtp down")}
	m := New(sender, logger.NewNop())

	err := m.Handle(context.Background(), events.RepairWorkerAssigned{
		OrderID: "o3",
		Worker:  events.WorkerSnapshot{Email: "w@example.com"},
	})
	assert.ErrorContains(t, err, "smtp down")
}

func TestWorkerWithoutEmailIsSkipped(t *testing.T) {
	sender := &testSender{}
	m := New(sender, logger.NewNop())

	require.NoError(t, m.Handle(context.Background(), events.RepairWorkerAssigned{OrderID: "o4"}))
	assert.Empty(t, sender.sent)
}

func TestStageChangedAndNilSender(t *testing.T) {
	m := New(nil, logger.NewNop())
	assert.NoError(t, m.Handle(context.Background(), events.RepairStageChanged{OrderID: "o5", FromStage: "assigned", ToStage: "in_progress"}))
	assert.NoError(t, m.Handle(context.Background(), events.RepairRequestCreated{
		OrderID: "o6",
		Worker:  &events.WorkerSnapshot{Email: "w@example.com"},
	}))
}
