package scrapestatus

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisTracker shares scrape status between processes. Each key holds the start time in
// Unix milliseconds and expires after twice the TTL.
type RedisTracker struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
	now    func() time.Time
}

// RedisOptions configures a RedisTracker.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
	Prefix   string
}

// NewRedisTracker connects to Redis. The connection is verified with PING.
func NewRedisTracker(ctx context.Context, opts RedisOptions) (*RedisTracker, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", opts.Addr, err)
	}
	return newRedisTracker(client, opts), nil
}

func newRedisTracker(client *redis.Client, opts RedisOptions) *RedisTracker {
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	prefix := opts.Prefix
	if prefix == "" {
		prefix = "scrapestatus:"
	}
	return &RedisTracker{client: client, ttl: ttl, prefix: prefix, now: time.Now}
}

func (r *RedisTracker) key(k string) string {
	return r.prefix + k
}

// Start implements Tracker.
func (r *RedisTracker) Start(ctx context.Context, key string) error {
	now := r.now()
	value := strconv.FormatInt(now.UnixMilli(), 10)

	ok, err := r.client.SetNX(ctx, r.key(key), value, 2*r.ttl).Result()
	if err != nil {
		return fmt.Errorf("failed to start scrape status: %w", err)
	}
	if ok {
		return nil
	}

	started, found, err := r.startedAt(ctx, key)
	if err != nil {
		return err
	}
	if found && statusAt(started, now, r.ttl) == Active {
		return ErrAlreadyActive
	}
	if err := r.client.Set(ctx, r.key(key), value, 2*r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to restart scrape status: %w", err)
	}
	return nil
}

// Status implements Tracker.
func (r *RedisTracker) Status(ctx context.Context, key string) (Status, error) {
	started, found, err := r.startedAt(ctx, key)
	if err != nil {
		return Inactive, err
	}
	if !found {
		return Inactive, nil
	}
	return statusAt(started, r.now(), r.ttl), nil
}

// Clear implements Tracker.
func (r *RedisTracker) Clear(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.key(key)).Err(); err != nil {
		return fmt.Errorf("failed to clear scrape status: %w", err)
	}
	return nil
}

// Close closes the Redis client.
func (r *RedisTracker) Close() error {
	return r.client.Close()
}

func (r *RedisTracker) startedAt(ctx context.Context, key string) (time.Time, bool, error) {
	val, err := r.client.Get(ctx, r.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("failed to read scrape status: %w", err)
	}
	ms, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("corrupt scrape status for %s: %w", key, err)
	}
	return time.UnixMilli(ms), true, nil
}
