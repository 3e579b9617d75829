package events

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"repair_portal_backend/platform/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingEvent struct {
	BaseEvent
}

func (pingEvent) EventName() string { return "test.ping" }

func TestInMemoryBusPublishRunsHandlers(t *testing.T) {
	bus := NewInMemoryBus(logger.NewNop())
	var calls atomic.Int32
	bus.Subscribe("test.ping", HandlerFunc(func(ctx context.Context, event Event) error {
		calls.Add(1)
		return nil
	}))
	bus.Subscribe("test.ping", HandlerFunc(func(ctx context.Context, event Event) error {
		calls.Add(1)
		return errors.New("ignored")
	}))

	bus.Publish(context.Background(), pingEvent{BaseEvent: NewBaseEvent()})
	bus.Wait()

	assert.Equal(t, int32(2), calls.Load())
}

func TestInMemoryBusPublishSyncJoinsErrors(t *testing.T) {
	bus := NewInMemoryBus(logger.NewNop())
	bus.Subscribe("test.ping", HandlerFunc(func(ctx context.Context, event Event) error {
		return errors.New("boom")
	}))

	err := bus.PublishSync(context.Background(), pingEvent{BaseEvent: NewBaseEvent()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestInMemoryBusNoHandlers(t *testing.T) {
	bus := NewInMemoryBus(logger.NewNop())
	bus.Publish(context.Background(), pingEvent{BaseEvent: NewBaseEvent()})
	bus.Wait()
	assert.NoError(t, bus.PublishSync(context.Background(), pingEvent{BaseEvent: NewBaseEvent()}))
}
