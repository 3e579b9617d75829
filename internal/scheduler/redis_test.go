package scheduler

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type redisURLConfig struct{ url string }

func (c redisURLConfig) GetRedisURL() string       { return c.url }
func (c redisURLConfig) GetRedisTLSInsecure() bool { return false }
func (c redisURLConfig) GetAsynqQueueName() string { return "repairs" }
func (c redisURLConfig) GetAsynqConcurrency() int  { return 1 }

func TestRedisHealth(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := NewRedisClient(redisURLConfig{url: "redis://" + mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	health := NewRedisHealth(client)
	assert.NoError(t, health.Ping(context.Background()))

	mr.Close()
	assert.Error(t, health.Ping(context.Background()))
}
