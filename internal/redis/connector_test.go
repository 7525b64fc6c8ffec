package redis

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/MrSnakeDoc/cookbook/internal/config"
	"github.com/MrSnakeDoc/cookbook/internal/kv"
	"github.com/MrSnakeDoc/cookbook/internal/logger"
)

func testOptions(addr string) ConnectOptions {
	return ConnectOptions{
		Addr:           addr,
		DialTimeout:    100 * time.Millisecond,
		ReadTimeout:    100 * time.Millisecond,
		WriteTimeout:   100 * time.Millisecond,
		PoolSize:       2,
		ConnectTimeout: 500 * time.Millisecond,
		RetryInterval:  20 * time.Millisecond,
		MaxWait:        50 * time.Millisecond,
		PingTimeout:    100 * time.Millisecond,
		WarnThreshold:  1,
	}
}

func TestNewConnects(t *testing.T) {
	srv := miniredis.RunT(t)

	client, err := New(context.Background(), testOptions(srv.Addr()), logger.NewNop())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer func() { _ = client.Close() }()
}

func TestNewGivesUpAfterTimeout(t *testing.T) {
	srv := miniredis.RunT(t)
	addr := srv.Addr()
	srv.Close()

	start := time.Now()
	if _, err := New(context.Background(), testOptions(addr), logger.NewNop()); err == nil {
		t.Fatal("New() should fail when redis is down")
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("New() took %v, should stop near ConnectTimeout", elapsed)
	}
}

func TestNewStopsWhenContextIsCancelled(t *testing.T) {
	srv := miniredis.RunT(t)
	addr := srv.Addr()
	srv.Close()

	opts := testOptions(addr)
	opts.ConnectTimeout = time.Minute

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	if _, err := New(ctx, opts, logger.NewNop()); err == nil {
		t.Fatal("New() should fail once ctx is done")
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("New() took %v, should stop when ctx is cancelled", elapsed)
	}
}

func TestValidateOptions(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ConnectOptions)
	}{
		{"empty address", func(o *ConnectOptions) { o.Addr = "" }},
		{"zero connect timeout", func(o *ConnectOptions) { o.ConnectTimeout = 0 }},
		{"zero retry interval", func(o *ConnectOptions) { o.RetryInterval = 0 }},
		{"zero max wait", func(o *ConnectOptions) { o.MaxWait = 0 }},
		{"zero ping timeout", func(o *ConnectOptions) { o.PingTimeout = 0 }},
		{"negative warn threshold", func(o *ConnectOptions) { o.WarnThreshold = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := testOptions("localhost:0")
			tt.mutate(&opts)
			if _, err := New(context.Background(), opts, logger.NewNop()); err == nil {
				t.Errorf("New() should reject %s", tt.name)
			}
		})
	}
}

func TestValidateReportsEveryProblem(t *testing.T) {
	err := ConnectOptions{WarnThreshold: -1}.validate()
	if err == nil {
		t.Fatal("validate() should fail on zero options")
	}
	for _, want := range []string{"address", "connect timeout", "retry interval", "max wait", "ping timeout", "warn threshold"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %s", err, want)
		}
	}
}

func TestNextBackoff(t *testing.T) {
	tests := []struct {
		cur, ceiling, want time.Duration
	}{
		{time.Second, 10 * time.Second, 2 * time.Second},
		{4 * time.Second, 10 * time.Second, 8 * time.Second},
		{6 * time.Second, 10 * time.Second, 10 * time.Second},
		{10 * time.Second, 10 * time.Second, 10 * time.Second},
	}
	for _, tt := range tests {
		if got := nextBackoff(tt.cur, tt.ceiling); got != tt.want {
			t.Errorf("nextBackoff(%v, %v) = %v, want %v", tt.cur, tt.ceiling, got, tt.want)
		}
	}
}

func TestOptionsFromConfig(t *testing.T) {
	cfg := &config.Config{
		RedisAddr:           "redis:6379",
		RedisUser:           "default",
		RedisPassword:       "secret",
		RedisDB:             2,
		RedisKeyPrefix:      "test:",
		RedisConnectTimeout: 30 * time.Second,
		RedisWarnThreshold:  3,
	}

	opts := OptionsFromConfig(cfg)
	if opts.Addr != "redis:6379" || opts.DB != 2 || opts.KeyPrefix != "test:" {
		t.Errorf("OptionsFromConfig() = %+v", opts)
	}
	if opts.Password != "secret" || opts.ConnectTimeout != 30*time.Second || opts.WarnThreshold != 3 {
		t.Errorf("OptionsFromConfig() = %+v", opts)
	}
}

func TestNewProviderUsesKeyPrefix(t *testing.T) {
	srv := miniredis.RunT(t)
	ctx := context.Background()

	opts := testOptions(srv.Addr())
	opts.KeyPrefix = "kitchen:"
	p, client, err := NewProvider(ctx, opts, logger.NewNop())
	if err != nil {
		t.Fatalf("NewProvider() error = %v", err)
	}
	defer func() { _ = client.Close() }()

	if err := p.Set(ctx, kv.KeyMyRecipes, `[]`); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	raw, err := srv.Get("kitchen:" + kv.KeyMyRecipes)
	if err != nil || raw != `[]` {
		t.Errorf("stored value = %q, err = %v", raw, err)
	}

	got, found, err := p.Get(ctx, kv.KeyMyRecipes)
	if err != nil || !found || got != `[]` {
		t.Errorf("Get() = %q, %v, %v", got, found, err)
	}
}
