// Package redis holds the Redis-backed lease that keeps a single outbox
// drainer running across replicas.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

const defaultLeaseTTL = 30 * time.Second

// releaseScript deletes KEYS[1] only while it holds ARGV[1]. The check and
// the delete run atomically on the server.
const releaseScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`

type cmdable interface {
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) *goredis.BoolCmd
	Eval(ctx context.Context, script string, keys []string, args ...any) *goredis.Cmd
}

// Lease is a SETNX + TTL lock. The TTL bounds how long a crashed holder can
// block others. A Lease is not safe for concurrent use.
type Lease struct {
	client cmdable
	key    string
	ttl    time.Duration
	owner  string
}

func NewLease(client cmdable, key string, ttl time.Duration) (*Lease, error) {
	if client == nil {
		return nil, errors.New("redis client required for lease")
	}
	if key == "" {
		return nil, errors.New("lease key is required")
	}
	if ttl <= 0 {
		ttl = defaultLeaseTTL
	}
	return &Lease{client: client, key: key, ttl: ttl}, nil
}

// Acquire reports whether this process now holds the lease.
func (l *Lease) Acquire(ctx context.Context) (bool, error) {
	owner := uuid.NewString()
	ok, err := l.client.SetNX(ctx, l.key, owner, l.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("setnx %s: %w", l.key, err)
	}
	if ok {
		l.owner = owner
	}
	return ok, nil
}

// Release deletes the key only while it still holds our owner token, so a
// lease that expired and was taken over is left alone.
func (l *Lease) Release(ctx context.Context) error {
	if l.owner == "" {
		return nil
	}
	owner := l.owner
	l.owner = ""

	if err := l.client.Eval(ctx, releaseScript, []string{l.key}, owner).Err(); err != nil {
		return fmt.Errorf("release lease %s: %w", l.key, err)
	}
	return nil
}

// NewClient parses a redis:// URL and checks connectivity.
func NewClient(ctx context.Context, url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := goredis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}
