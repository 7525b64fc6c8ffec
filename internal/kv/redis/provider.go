package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/cookbook/internal/kv"
)

// DefaultMaxUpdateAttempts bounds optimistic retries when another writer
// touches the key between WATCH and EXEC.
const DefaultMaxUpdateAttempts = 5

// Provider stores values as plain Redis strings without expiry.
type Provider struct {
	client      *redis.Client
	prefix      string
	maxAttempts int
}

// Option customizes a Provider.
type Option func(*Provider)

// WithKeyPrefix overrides DefaultKeyPrefix.
func WithKeyPrefix(prefix string) Option {
	return func(p *Provider) { p.prefix = prefix }
}

// WithMaxUpdateAttempts overrides DefaultMaxUpdateAttempts.
func WithMaxUpdateAttempts(n int) Option {
	return func(p *Provider) {
		if n > 0 {
			p.maxAttempts = n
		}
	}
}

// NewProvider creates a new Redis-backed provider
func NewProvider(client *redis.Client, opts ...Option) *Provider {
	p := &Provider{
		client:      client,
		prefix:      DefaultKeyPrefix,
		maxAttempts: DefaultMaxUpdateAttempts,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Get retrieves a value; redis.Nil is reported as not found.
func (p *Provider) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := p.client.Get(ctx, p.Key(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, kv.Unavailable("redis get", err)
	}
	return v, true, nil
}

// Set stores a value with no TTL.
func (p *Provider) Set(ctx context.Context, key, value string) error {
	if err := p.client.Set(ctx, p.Key(key), value, 0).Err(); err != nil {
		return kv.Unavailable("redis set", err)
	}
	return nil
}

// Update runs fn inside WATCH/MULTI/EXEC. If another client writes the
// key before EXEC the cycle is retried with the fresh value.
func (p *Provider) Update(ctx context.Context, key string, fn kv.UpdateFunc) error {
	rkey := p.Key(key)

	var fnErr error
	txf := func(tx *redis.Tx) error {
		cur, err := tx.Get(ctx, rkey).Result()
		found := true
		if err != nil {
			if !errors.Is(err, redis.Nil) {
				return err
			}
			found = false
		}

		next, err := fn(cur, found)
		if err != nil {
			fnErr = err
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, rkey, next, 0)
			return nil
		})
		return err
	}

	for attempt := 1; attempt <= p.maxAttempts; attempt++ {
		fnErr = nil
		err := p.client.Watch(ctx, txf, rkey)
		if err == nil {
			return nil
		}
		if fnErr != nil {
			return fnErr
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return kv.Unavailable("redis update", err)
	}

	return kv.Unavailable("redis update",
		fmt.Errorf("key %s still contended after %d attempts", rkey, p.maxAttempts))
}
