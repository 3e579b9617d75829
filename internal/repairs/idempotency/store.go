// Package idempotency stores successful intake responses under the client's
// Idempotency-Key so a retried submission replays instead of creating a
// second order.
package idempotency

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// HeaderName is the request header clients use to mark retries.
const HeaderName = "Idempotency-Key"

const (
	keyPrefix = "repairs:idempotency:"

	// DefaultPendingTTL bounds how long a crashed request can hold a key.
	DefaultPendingTTL = 2 * time.Minute
)

// Record is a stored response. A pending record marks a request that is
// still running and carries no response yet.
type Record struct {
	Fingerprint string          `json:"fingerprint"`
	Pending     bool            `json:"pending,omitempty"`
	Status      int             `json:"status,omitempty"`
	Body        json.RawMessage `json:"body,omitempty"`
	StoredAt    time.Time       `json:"storedAt"`
}

// Store persists records. Implementations must be safe for concurrent use.
type Store interface {
	Get(ctx context.Context, key string) (Record, bool, error)
	// Reserve writes a pending record unless key is taken. Only the caller
	// that gets true may run the request.
	Reserve(ctx context.Context, key, fingerprint string) (bool, error)
	// Put replaces the pending record with the final response.
	Put(ctx context.Context, key string, rec Record) error
	// Release drops a pending record so the client can retry.
	Release(ctx context.Context, key string) error
}

// Fingerprint hashes a request body so a key reused with a different body
// can be told apart from a genuine retry.
func Fingerprint(body []byte) string {
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:])
}

// RedisStore keeps records in Redis with a fixed TTL.
type RedisStore struct {
	client     redis.UniversalClient
	ttl        time.Duration
	pendingTTL time.Duration
}

// NewRedisStore returns a store using client. A non-positive ttl means 24h.
func NewRedisStore(client redis.UniversalClient, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisStore{client: client, ttl: ttl, pendingTTL: DefaultPendingTTL}
}

// Get returns the record for key. The boolean is false on a miss.
func (s *RedisStore) Get(ctx context.Context, key string) (Record, bool, error) {
	raw, err := s.client.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return Record{}, false, nil
	}
	if err != nil {
		return Record{}, false, err
	}
	var rec Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return Record{}, false, err
	}
	return rec, true, nil
}

// Reserve claims key with a short-lived pending record.
func (s *RedisStore) Reserve(ctx context.Context, key, fingerprint string) (bool, error) {
	raw, err := json.Marshal(Record{Fingerprint: fingerprint, Pending: true, StoredAt: time.Now().UTC()})
	if err != nil {
		return false, err
	}
	return s.client.SetNX(ctx, keyPrefix+key, raw, s.pendingTTL).Result()
}

// Put stores the final response for the full TTL. The caller holds the
// reservation, so nothing else writes key meanwhile.
func (s *RedisStore) Put(ctx context.Context, key string, rec Record) error {
	rec.Pending = false
	raw, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, keyPrefix+key, raw, s.ttl).Err()
}

// Release deletes key only while it still holds a pending record.
func (s *RedisStore) Release(ctx context.Context, key string) error {
	rec, found, err := s.Get(ctx, key)
	if err != nil || !found || !rec.Pending {
		return err
	}
	return s.client.Del(ctx, keyPrefix+key).Err()
}
