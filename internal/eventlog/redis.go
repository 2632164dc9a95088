// Package eventlog remembers which provider webhook events were already applied,
// so a redelivered event is acknowledged without touching the database again.
package eventlog

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// Retention covers the provider's redelivery window (up to three days)
const Retention = 72 * time.Hour

const keyPrefix = "webhooks/stripe/"

// Redis claims event ids with SETNX.
// Inside docker can be inspected with:
//
//	docker exec -it redis redis-cli keys 'webhooks/stripe/*'
type Redis struct {
	client *redis.Client
}

// NewRedis connects to the server at redisURL and pings it before returning
func NewRedis(redisURL string) (*Redis, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse redis URL")
	}

	client := redis.NewClient(opts)
	if err := client.Ping(context.Background()).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Wrap(err, "failed to ping redis")
	}

	return &Redis{client: client}, nil
}

// Claim marks eventID as being processed. It returns false when the event was claimed before.
func (r *Redis) Claim(ctx context.Context, eventID string) (bool, error) {
	ok, err := r.client.SetNX(ctx, keyPrefix+eventID, time.Now().Unix(), Retention).Result()
	if err != nil {
		return false, errors.Wrapf(err, "failed to claim event %s", eventID)
	}
	return ok, nil
}

// Release forgets a claim so a redelivery of the event is processed again
func (r *Redis) Release(ctx context.Context, eventID string) error {
	if err := r.client.Del(ctx, keyPrefix+eventID).Err(); err != nil {
		return errors.Wrapf(err, "failed to release event %s", eventID)
	}
	return nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}

// Noop accepts every event. Used when no Redis is configured.
type Noop struct{}

func (Noop) Claim(context.Context, string) (bool, error) { return true, nil }

func (Noop) Release(context.Context, string) error { return nil }
