package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultIdempotencyTTL = 24 * time.Hour

// IdempotencyStore binds Idempotency-Key headers to the shipment they created.
// Key format: idempotency:shipment:<key>
type IdempotencyStore struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewIdempotencyStore creates an IdempotencyStore. Keys expire after ttl, or
// after 24h when ttl is not positive.
func NewIdempotencyStore(client redis.Cmdable, ttl time.Duration) *IdempotencyStore {
	if ttl <= 0 {
		ttl = defaultIdempotencyTTL
	}
	return &IdempotencyStore{client: client, ttl: ttl}
}

// Reserve binds key to id with SET NX. When the key is taken it returns the
// id already bound to it.
func (s *IdempotencyStore) Reserve(ctx context.Context, key, id string) (string, bool, error) {
	k := s.key(key)

	// The bound key can expire between SET NX and GET; retry once in that case.
	for attempt := 0; attempt < 2; attempt++ {
		ok, err := s.client.SetNX(ctx, k, id, s.ttl).Result()
		if err != nil {
			return "", false, fmt.Errorf("idempotency reserve: %w", err)
		}
		if ok {
			return id, true, nil
		}

		existing, err := s.client.Get(ctx, k).Result()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return "", false, fmt.Errorf("idempotency lookup: %w", err)
		}
		return existing, false, nil
	}
	return "", false, fmt.Errorf("idempotency reserve: key %q kept expiring", key)
}

func (s *IdempotencyStore) key(k string) string {
	return "idempotency:shipment:" + k
}
