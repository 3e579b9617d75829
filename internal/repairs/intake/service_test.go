package intake

import (
	"context"
	"testing"
	"time"

	"repair_portal_backend/internal/events"
	"repair_portal_backend/internal/repairs/domain"
	"repair_portal_backend/internal/repairs/metadata"
	"repair_portal_backend/platform/apperr"
	"repair_portal_backend/platform/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	catalog   *fakeCatalog
	workers   *fakeWorkers
	orders    *fakeOrders
	notifier  *fakeNotifier
	scheduler *fakeScheduler
	bus       *events.InMemoryBus
	svc       *Service
}

func newFixture(workers ...domain.Worker) *fixture {
	f := &fixture{
		catalog: &fakeCatalog{services: map[string]domain.ServiceDefinition{
			"screen-repair": {Name: "Screen repair", Category: "laptops", Group: "hardware", Slug: "screen-repair"},
		}},
		workers:   &fakeWorkers{workers: workers},
		orders:    &fakeOrders{},
		notifier:  &fakeNotifier{enabled: true},
		scheduler: &fakeScheduler{},
		bus:       events.NewInMemoryBus(logger.NewNop()),
	}
	f.svc = New(Deps{
		Catalog:   f.catalog,
		Workers:   f.workers,
		Orders:    f.orders,
		Notifier:  f.notifier,
		Scheduler: f.scheduler,
		Bus:       f.bus,
		Log:       logger.NewNop(),
		Now:       func() time.Time { return now },
	}, Options{WorkerGroup: "Repair Workers", EscalationGroup: "urgent", EscalationWindow: 15 * time.Minute})
	return f
}

func request() domain.RepairServiceRequest {
	return domain.RepairServiceRequest{
		FullName:    "Иван Иванов",
		Phone:       "+996555123456",
		DeviceType:  "laptop",
		ServiceSlug: "screen-repair",
		Consent:     true,
		Modifiers:   map[string]float64{},
	}
}

func TestCreateAssignsSingleIdleWorker(t *testing.T) {
	f := newFixture(domain.Worker{ID: "w1", Email: "w1@example.com", Name: "Aibek", Active: true})

	res, err := f.svc.Create(context.Background(), request())
	require.NoError(t, err)

	require.NotNil(t, res.AssignedWorker)
	assert.Equal(t, "w1", res.AssignedWorker.WorkerID)
	assert.Equal(t, domain.StageAssigned, res.Stage)
	assert.Equal(t, "T3JkZXI6MQ==", res.OrderID)
	assert.Equal(t, "1001", res.OrderNumber)

	decoded := metadata.Decode(f.orders.items)
	assert.Equal(t, domain.StageAssigned, decoded.Stage)
	assert.False(t, decoded.Urgent)
	assert.Equal(t, "Repair Workers", decoded.WorkerGroup)
	assert.Equal(t, "Screen repair", decoded.Service.Name)
	assert.Equal(t, 1, f.notifier.calls)
}

func TestCreatePicksLeastLoaded(t *testing.T) {
	f := newFixture(
		domain.Worker{ID: "busy", Active: true, TaskCount: 4},
		domain.Worker{ID: "light", Active: true, TaskCount: 1},
		domain.Worker{ID: "also-light", Active: true, TaskCount: 1},
	)

	res, err := f.svc.Create(context.Background(), request())
	require.NoError(t, err)
	require.NotNil(t, res.AssignedWorker)
	assert.Equal(t, "light", res.AssignedWorker.WorkerID)
}

func TestCreateEmptyPoolStaysPending(t *testing.T) {
	f := newFixture()

	res, err := f.svc.Create(context.Background(), request())
	require.NoError(t, err)

	assert.Nil(t, res.AssignedWorker)
	assert.Equal(t, domain.StagePendingAssignment, res.Stage)
	assert.Equal(t, 1, f.orders.calls)
	assert.Equal(t, domain.StagePendingAssignment, metadata.Decode(f.orders.items).Stage)
}

func TestCreateWorkerPoolErrorContinuesUnassigned(t *testing.T) {
	f := newFixture()
	f.workers.err = errBackend

	res, err := f.svc.Create(context.Background(), request())
	require.NoError(t, err)
	assert.Nil(t, res.AssignedWorker)
	assert.Equal(t, 1, f.orders.calls)
}

func TestCreateUnknownServiceCreatesNothing(t *testing.T) {
	f := newFixture(domain.Worker{ID: "w1", Active: true})
	req := request()
	req.ServiceSlug = "unknown-service"

	_, err := f.svc.Create(context.Background(), req)
	require.Error(t, err)

	assert.True(t, apperr.HasCode(err, CodeServiceNotFound))
	assert.Equal(t, apperr.KindNotFound, apperr.GetKind(err))
	assert.Equal(t, 0, f.orders.calls)
	assert.Equal(t, 0, f.notifier.calls)
}

func TestCreateCatalogOutageIsUpstream(t *testing.T) {
	f := newFixture()
	f.catalog.err = errBackend

	_, err := f.svc.Create(context.Background(), request())
	assert.True(t, apperr.HasCode(err, CodeServiceLookupFailed))
	assert.Equal(t, apperr.KindUpstream, apperr.GetKind(err))
	assert.Equal(t, 0, f.orders.calls)
}

func TestCreateOrderFailureSkipsWebhook(t *testing.T) {
	f := newFixture(domain.Worker{ID: "w1", Active: true})
	f.orders.err = errBackend

	_, err := f.svc.Create(context.Background(), request())
	require.Error(t, err)

	assert.True(t, apperr.HasCode(err, CodeTaskCreationFailed))
	assert.Equal(t, apperr.KindUpstream, apperr.GetKind(err))
	assert.ErrorIs(t, err, errBackend)
	assert.Equal(t, 0, f.notifier.calls)
	assert.Equal(t, 0, f.scheduler.calls)
}

func TestCreateWebhookFailureIsSwallowed(t *testing.T) {
	f := newFixture(domain.Worker{ID: "w1", Active: true})
	f.notifier.err = errBackend

	res, err := f.svc.Create(context.Background(), request())
	require.NoError(t, err)
	assert.Equal(t, "1001", res.OrderNumber)
	assert.Equal(t, 1, f.notifier.calls)
}

func TestCreateWebhookDisabledIsSkipped(t *testing.T) {
	f := newFixture()
	f.notifier.enabled = false

	_, err := f.svc.Create(context.Background(), request())
	require.NoError(t, err)
	assert.Equal(t, 0, f.notifier.calls)
}

func TestCreateWebhookNoticeCarriesRequestAndAssignment(t *testing.T) {
	f := newFixture(domain.Worker{ID: "w1", Email: "w1@example.com", Name: "Aibek", Active: true})

	_, err := f.svc.Create(context.Background(), request())
	require.NoError(t, err)

	notice := f.notifier.last
	assert.Equal(t, "Иван Иванов", notice.Request.FullName)
	assert.Equal(t, "screen-repair", notice.Service.Slug)
	require.NotNil(t, notice.Assignment)
	assert.Equal(t, "w1", notice.Assignment.WorkerID)
	assert.Equal(t, "1001", notice.Order.Number)
	assert.Equal(t, now, notice.ReceivedAt)
}

func TestCreateUrgentUnassignedSchedulesEscalation(t *testing.T) {
	f := newFixture()
	req := request()
	req.Urgent = true

	res, err := f.svc.Create(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, 1, f.scheduler.calls)
	assert.Equal(t, res.OrderID, f.scheduler.orderID)
	assert.Equal(t, now.Add(15*time.Minute), f.scheduler.runAt)

	decoded := metadata.Decode(f.orders.items)
	assert.True(t, decoded.Urgent)
	assert.Equal(t, "urgent", decoded.LeadGroup)
	require.NotNil(t, decoded.LeadPriorityUntil)
	assert.True(t, now.Add(15*time.Minute).Equal(*decoded.LeadPriorityUntil))
}

func TestCreateUrgentAssignedDoesNotEscalate(t *testing.T) {
	f := newFixture(domain.Worker{ID: "w1", Active: true})
	req := request()
	req.Urgent = true

	_, err := f.svc.Create(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 0, f.scheduler.calls)
}

func TestCreateSchedulerFailureDoesNotFailIntake(t *testing.T) {
	f := newFixture()
	f.scheduler.err = errBackend
	req := request()
	req.Urgent = true

	_, err := f.svc.Create(context.Background(), req)
	assert.NoError(t, err)
}

func TestCreatePublishesEvent(t *testing.T) {
	f := newFixture(domain.Worker{ID: "w1", Email: "w1@example.com", Active: true})
	received := make(chan events.RepairRequestCreated, 1)
	f.bus.Subscribe(events.RepairRequestCreatedName, events.HandlerFunc(func(_ context.Context, e events.Event) error {
		received <- e.(events.RepairRequestCreated)
		return nil
	}))

	_, err := f.svc.Create(context.Background(), request())
	require.NoError(t, err)
	f.bus.Wait()

	evt := <-received
	assert.Equal(t, "1001", evt.OrderNumber)
	require.NotNil(t, evt.Worker)
	assert.Equal(t, "w1@example.com", evt.Worker.Email)
}

func TestCreatePassesCustomerEmailToOrder(t *testing.T) {
	f := newFixture()
	req := request()
	email := "ivan@example.com"
	req.Email = &email

	_, err := f.svc.Create(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, f.orders.email)
	assert.Equal(t, email, *f.orders.email)
}
