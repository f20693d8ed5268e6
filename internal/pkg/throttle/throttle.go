// Package throttle counts failed attempts per key in Redis within a fixed
// window. The window starts on the first failure and is not extended by later
// ones.
package throttle

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrEmptyKey is returned when an operation is called with a blank key.
var ErrEmptyKey = errors.New("throttle key is empty")

// Counter tracks failed attempts per key.
type Counter interface {
	Count(ctx context.Context, key string) (int, error)
	Hit(ctx context.Context, key string) (int, error)
	Reset(ctx context.Context, key string) error
}

// Redis implements Counter with INCR and EXPIRE.
type Redis struct {
	client redis.UniversalClient
	prefix string
	window time.Duration
}

// New returns a Redis counter. Keys are stored under prefix.
func New(client redis.UniversalClient, prefix string, window time.Duration) *Redis {
	if window <= 0 {
		window = time.Minute
	}

	return &Redis{
		client: client,
		prefix: prefix,
		window: window,
	}
}

// Count returns the attempts recorded for key in the current window.
func (r *Redis) Count(ctx context.Context, key string) (int, error) {
	if key == "" {
		return 0, ErrEmptyKey
	}

	val, err := r.client.Get(ctx, r.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	return strconv.Atoi(val)
}

// Hit records one attempt for key and returns the new count.
func (r *Redis) Hit(ctx context.Context, key string) (int, error) {
	if key == "" {
		return 0, ErrEmptyKey
	}

	fk := r.prefix + key

	pipe := r.client.TxPipeline()
	incr := pipe.Incr(ctx, fk)
	pipe.ExpireNX(ctx, fk, r.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}

	return int(incr.Val()), nil
}

// Reset forgets every attempt for key.
func (r *Redis) Reset(ctx context.Context, key string) error {
	if key == "" {
		return ErrEmptyKey
	}

	return r.client.Del(ctx, r.prefix+key).Err()
}
