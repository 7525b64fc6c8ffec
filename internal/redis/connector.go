// Package redis dials the Redis server behind the redis store backend and
// waits for it to answer before the cookbook starts serving.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/cookbook/internal/config"
	kvredis "github.com/MrSnakeDoc/cookbook/internal/kv/redis"
	"github.com/MrSnakeDoc/cookbook/internal/logger"
)

// ConnectOptions describes the client and how long to wait for the server.
type ConnectOptions struct {
	Addr      string
	User      string
	Password  string
	DB        int
	KeyPrefix string // namespace for the cookbook keys

	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	PoolSize     int

	ConnectTimeout time.Duration // overall budget for the first successful ping
	RetryInterval  time.Duration // first backoff, doubled after each failure
	MaxWait        time.Duration // backoff ceiling
	PingTimeout    time.Duration
	WarnThreshold  int // failures logged as warnings before escalating to errors
}

// OptionsFromConfig maps the COOKBOOK_REDIS_* and REDIS_* settings.
func OptionsFromConfig(cfg *config.Config) ConnectOptions {
	return ConnectOptions{
		Addr:           cfg.RedisAddr,
		User:           cfg.RedisUser,
		Password:       cfg.RedisPassword,
		DB:             cfg.RedisDB,
		KeyPrefix:      cfg.RedisKeyPrefix,
		DialTimeout:    cfg.RedisDT,
		ReadTimeout:    cfg.RedisRT,
		WriteTimeout:   cfg.RedisWT,
		PoolSize:       cfg.RedisPoolSize,
		ConnectTimeout: cfg.RedisConnectTimeout,
		RetryInterval:  cfg.RedisRetryInterval,
		MaxWait:        cfg.RedisMaxWait,
		PingTimeout:    cfg.RedisPingTimeout,
		WarnThreshold:  cfg.RedisWarnThreshold,
	}
}

func (o ConnectOptions) validate() error {
	var errs []error
	if o.Addr == "" {
		errs = append(errs, errors.New("redis address is empty"))
	}
	for name, d := range map[string]time.Duration{
		"connect timeout": o.ConnectTimeout,
		"retry interval":  o.RetryInterval,
		"max wait":        o.MaxWait,
		"ping timeout":    o.PingTimeout,
	} {
		if d <= 0 {
			errs = append(errs, fmt.Errorf("redis %s must be > 0, got %v", name, d))
		}
	}
	if o.WarnThreshold < 0 {
		errs = append(errs, fmt.Errorf("redis warn threshold must be >= 0, got %d", o.WarnThreshold))
	}
	return errors.Join(errs...)
}

// NewProvider connects and wraps the client in the recipe store's kv
// provider. The client is returned too so the caller can report its health
// and close it.
func NewProvider(ctx context.Context, opts ConnectOptions, log logger.Logger) (*kvredis.Provider, *goredis.Client, error) {
	client, err := New(ctx, opts, log)
	if err != nil {
		return nil, nil, err
	}
	var kvOpts []kvredis.Option
	if opts.KeyPrefix != "" {
		kvOpts = append(kvOpts, kvredis.WithKeyPrefix(opts.KeyPrefix))
	}
	return kvredis.NewProvider(client, kvOpts...), client, nil
}

// New returns a client once the server answers PING. Failed pings are
// retried with capped exponential backoff until ConnectTimeout elapses or ctx
// is cancelled, in which case the client is closed and the last ping error
// is returned.
func New(ctx context.Context, opts ConnectOptions, log logger.Logger) (*goredis.Client, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	client := goredis.NewClient(&goredis.Options{
		Addr:         opts.Addr,
		Username:     opts.User,
		Password:     opts.Password,
		DB:           opts.DB,
		DialTimeout:  opts.DialTimeout,
		ReadTimeout:  opts.ReadTimeout,
		WriteTimeout: opts.WriteTimeout,
		PoolSize:     opts.PoolSize,
	})

	ctx, cancel := context.WithTimeout(ctx, opts.ConnectTimeout)
	defer cancel()

	log.Info("connecting to redis",
		logger.String("addr", opts.Addr),
		logger.Int("db", opts.DB),
		logger.Duration("timeout", opts.ConnectTimeout))

	start := time.Now()
	wait := opts.RetryInterval
	for attempt := 1; ; attempt++ {
		err := ping(ctx, client, opts.PingTimeout)
		if err == nil {
			log.Info("connected to redis",
				logger.String("addr", opts.Addr),
				logger.Int("attempts", attempt),
				logger.Duration("elapsed", time.Since(start)))
			return client, nil
		}

		fields := []logger.Field{
			logger.String("addr", opts.Addr),
			logger.Int("attempt", attempt),
			logger.Duration("next_retry_in", wait),
			logger.Error(err),
		}
		if attempt <= opts.WarnThreshold {
			log.Warn("redis not reachable yet", fields...)
		} else {
			log.Error("redis still unreachable", fields...)
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			_ = client.Close()
			return nil, fmt.Errorf("redis unavailable at %s after %d attempts in %v: %w",
				opts.Addr, attempt, time.Since(start).Round(time.Millisecond), err)
		case <-timer.C:
		}
		wait = nextBackoff(wait, opts.MaxWait)
	}
}

func ping(ctx context.Context, client *goredis.Client, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return client.Ping(ctx).Err()
}

func nextBackoff(cur, ceiling time.Duration) time.Duration {
	if cur >= ceiling/2 {
		return ceiling
	}
	return cur * 2
}
