package cache

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hivemindlabs/agent-relay/config"
)

// Cache is the key/value store shared by the market-data providers.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// ErrCircuitOpen is returned while the breaker is cooling down after
// repeated backend failures.
var ErrCircuitOpen = errors.New("cache: circuit open")

// Redis is a go-redis backed Cache with a key namespace prefix and an
// optional consecutive-failure circuit breaker.
type Redis struct {
	client  *redis.Client
	prefix  string
	breaker *breaker
}

// NewRedis connects to the configured redis instance.
func NewRedis(cfg *config.Redis) *Redis {
	c := &Redis{
		client: redis.NewClient(&redis.Options{
			Addr:     cfg.Addr(),
			Password: cfg.Password,
		}),
		prefix: cfg.KeyPrefix,
	}
	if cfg.CircuitBreaker {
		c.breaker = newBreaker(5, 30*time.Second)
	}
	return c
}

func (r *Redis) key(k string) string {
	if r.prefix == "" {
		return k
	}
	return r.prefix + ":" + k
}

func (r *Redis) Get(ctx context.Context, key string) (string, error) {
	if err := r.breaker.allow(); err != nil {
		return "", err
	}
	val, err := r.client.Get(ctx, r.key(key)).Result()
	r.breaker.record(err)
	return val, err
}

func (r *Redis) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := r.breaker.allow(); err != nil {
		return err
	}
	err := r.client.Set(ctx, r.key(key), value, ttl).Err()
	r.breaker.record(err)
	return err
}

func (r *Redis) Delete(ctx context.Context, key string) error {
	if err := r.breaker.allow(); err != nil {
		return err
	}
	err := r.client.Del(ctx, r.key(key)).Err()
	r.breaker.record(err)
	return err
}

func (r *Redis) Close() error {
	return r.client.Close()
}

// NoOp is the fallback cache used when no redis configuration is present.
// Gets always miss and writes are dropped.
type NoOp struct{}

func (NoOp) Get(ctx context.Context, key string) (string, error) { return "", redis.Nil }

func (NoOp) Set(ctx context.Context, key, value string, ttl time.Duration) error { return nil }

func (NoOp) Delete(ctx context.Context, key string) error { return nil }

func (NoOp) Close() error { return nil }

// IsMiss reports whether err is a cache miss rather than a backend failure.
func IsMiss(err error) bool {
	return err == redis.Nil
}

type breaker struct {
	mu        sync.Mutex
	failures  int
	threshold int
	cooldown  time.Duration
	openUntil time.Time
}

func newBreaker(threshold int, cooldown time.Duration) *breaker {
	return &breaker{threshold: threshold, cooldown: cooldown}
}

func (b *breaker) allow() error {
	if b == nil {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.openUntil.IsZero() && time.Now().Before(b.openUntil) {
		return ErrCircuitOpen
	}
	return nil
}

func (b *breaker) record(err error) {
	if b == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if err == nil || err == redis.Nil {
		b.failures = 0
		b.openUntil = time.Time{}
		return
	}
	b.failures++
	if b.failures >= b.threshold {
		b.openUntil = time.Now().Add(b.cooldown)
		b.failures = 0
	}
}
