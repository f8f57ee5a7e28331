// Package redisq implements the shipping notification queue on a Redis list.
package redisq

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/xenking/eshop-shipping/internal/domain/shipping"
)

var _ shipping.Queue = (*Queue)(nil)

// Queue carries shipping IDs through a Redis list. Send pushes to the head,
// Receive pops a batch from the tail, so delivery is roughly FIFO. Delivery
// guarantees are those of the transport: a consumer crash after a pop loses
// the popped IDs, and operational re-enqueueing can deliver an ID twice, so
// consumers must treat processing as idempotent.
type Queue struct {
	client *redis.Client
	key    string
}

// New connects to Redis at the given URL and returns a Queue using key as
// the list name.
func New(ctx context.Context, redisURL, key string) (*Queue, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, errors.Wrap(err, "parse redis URL")
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, errors.Wrap(err, "ping redis")
	}

	return &Queue{client: client, key: key}, nil
}

// Ping reports transport liveness; used by the readiness check.
func (q *Queue) Ping(ctx context.Context) error {
	return q.client.Ping(ctx).Err()
}

// Close releases the underlying client.
func (q *Queue) Close() error {
	return q.client.Close()
}

// Send enqueues a shipping ID and returns a generated message ID.
func (q *Queue) Send(ctx context.Context, shippingID string) (string, error) {
	if err := q.client.LPush(ctx, q.key, shippingID).Err(); err != nil {
		return "", errors.Wrap(err, "push shipping id")
	}
	return uuid.New().String(), nil
}

// Receive pops up to max shipping IDs. An empty queue returns an empty
// slice, not an error.
func (q *Queue) Receive(ctx context.Context, max int) ([]string, error) {
	ids, err := q.client.RPopCount(ctx, q.key, max).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "pop shipping ids")
	}
	return ids, nil
}
