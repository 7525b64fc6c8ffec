package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Storage backends accepted by COOKBOOK_STORE_BACKEND.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendS3     = "s3"
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s
	RequestTimeout  time.Duration // per-request handler timeout (ex: 10s)

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	StoreBackend string // memory | file | redis | s3
	DataDir      string // directory used by the file backend

	SeedFile         string        // path to a seed catalog yaml (empty = built-in)
	ReloadInterval   time.Duration // interval to reload the seed catalog (0 = never)
	PersistFavorites bool          // true => favorites survive restarts

	// Redis (only when StoreBackend == redis)
	RedisAddr             string        // ex: "localhost:6379"
	RedisUser             string        // optional
	RedisPassword         string        // optional
	RedisPasswordRequired bool          // true => require password, false => allow empty password
	RedisDB               int           // Redis DB number
	RedisKeyPrefix        string        // namespace for cookbook keys (ex: "cookbook:")
	RedisDT               time.Duration // Redis dial timeout (ex: 5s)
	RedisRT               time.Duration // Redis read timeout (ex: 3s)
	RedisWT               time.Duration // Redis write timeout (ex: 3s)
	RedisMaxWait          time.Duration // max wait between retries (ex: 10s)
	RedisPingTimeout      time.Duration // timeout for each ping attempt (ex: 5s)
	RedisPoolSize         int           // Redis connection pool size
	RedisConnectTimeout   time.Duration // Total time to retry connecting (ex: 30s)
	RedisRetryInterval    time.Duration // Initial wait between retries (ex: 2s, grows exponentially)
	RedisWarnThreshold    int           // warn after this many attempts

	// S3 (only when StoreBackend == s3)
	S3Bucket string
	S3Prefix string // object key prefix (ex: "cookbook")
	S3Region string // empty = resolved by the aws default chain

	AllowedHosts []string // optional, restrict /reload to specific Host headers
	AllowedCIDRS []string // optional, restrict /infra and /reload to specific IPs
	TrustProxy   bool     // true => trust X-Forwarded-For headers (e.g. cloudflared)
	CORSOrigins  []string // allowed browser origins (empty = none)

	RateBurst      int // token bucket size for mutating routes
	RatePerMin     int // refill rate for mutating routes
	RateMaxClients int // tracked clients before idle buckets are swept early
}

func Load() *Config {
	cfg := &Config{
		// Server settings
		ListenPort:      getenv("COOKBOOK_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("COOKBOOK_SHUTDOWN_TIMEOUT", 5*time.Second),
		RequestTimeout:  mustDuration("COOKBOOK_REQUEST_TIMEOUT", 10*time.Second),

		// Logging
		LogLevel:  getenv("COOKBOOK_LOG_LEVEL", "info"),
		PrettyLog: mustBool("COOKBOOK_PRETTY_LOG", true),

		// Storage
		StoreBackend: strings.ToLower(getenv("COOKBOOK_STORE_BACKEND", BackendFile)),
		DataDir:      getenv("COOKBOOK_DATA_DIR", "/app/data"),

		// Catalog and favorites
		SeedFile:         getenv("COOKBOOK_SEED_FILE", ""),
		ReloadInterval:   mustDuration("COOKBOOK_RELOAD_INTERVAL", 24*time.Hour),
		PersistFavorites: mustBool("COOKBOOK_PERSIST_FAVORITES", false),

		// Redis timeouts (shared names with other services)
		RedisKeyPrefix:      getenv("COOKBOOK_REDIS_KEY_PREFIX", "cookbook:"),
		RedisDT:             mustDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:             mustDuration("REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:             mustDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisMaxWait:        mustDuration("REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:    mustDuration("REDIS_PING_TIMEOUT", 5*time.Second),
		RedisPoolSize:       getenvInt("REDIS_POOL_SIZE", 10),
		RedisConnectTimeout: mustDuration("REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:  mustDuration("REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisWarnThreshold:  getenvInt("REDIS_WARN_THRESHOLD", 3),

		// Access restrictions
		AllowedHosts: splitAndTrim(getenv("COOKBOOK_ALLOWED_HOSTS", "")),
		AllowedCIDRS: parseAllowedIPs(getenv("COOKBOOK_ALLOWED_CIDRS", "")),
		TrustProxy:   mustBool("COOKBOOK_TRUST_PROXY", true),
		CORSOrigins:  splitAndTrim(getenv("COOKBOOK_CORS_ORIGINS", "")),

		RateBurst:      getenvInt("COOKBOOK_RATE_BURST", 20),
		RatePerMin:     getenvInt("COOKBOOK_RATE_PER_MIN", 60),
		RateMaxClients: getenvInt("COOKBOOK_RATE_MAX_CLIENTS", 10000),
	}

	switch cfg.StoreBackend {
	case BackendMemory, BackendFile:
	case BackendRedis:
		cfg.RedisAddr = requireEnv("COOKBOOK_REDIS_ADDR")
		cfg.RedisUser = getenv("COOKBOOK_REDIS_USERNAME", "default")
		cfg.RedisPasswordRequired = mustBool("COOKBOOK_REDIS_PASSWORD_REQUIRED", true)
		cfg.RedisPassword = getenv("COOKBOOK_REDIS_PASSWORD", "")
		cfg.RedisDB = requireEnvInt("COOKBOOK_REDIS_DB")
	case BackendS3:
		cfg.S3Bucket = requireEnv("COOKBOOK_S3_BUCKET")
		cfg.S3Prefix = getenv("COOKBOOK_S3_PREFIX", "cookbook")
		cfg.S3Region = getenv("COOKBOOK_S3_REGION", "")
	default:
		panic(fmt.Sprintf("❌ FATAL: COOKBOOK_STORE_BACKEND must be one of memory, file, redis, s3 (got %q)", cfg.StoreBackend))
	}

	if err := cfg.Validate(); err != nil {
		panic("❌ FATAL: " + err.Error())
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		cfgCopy := *cfg
		cfgCopy.RedisPassword = "***REDACTED***"
		if cfg.RedisUser != "" {
			cfgCopy.RedisUser = "***REDACTED***"
		}
		log.Printf("[DEBUG] cfg: %+v\n", cfgCopy)
	}

	return cfg
}

// Validate checks the cross-field rules that single variables cannot express.
func (c *Config) Validate() error {
	if c.StoreBackend == BackendFile && strings.TrimSpace(c.DataDir) == "" {
		return fmt.Errorf("COOKBOOK_DATA_DIR is required when COOKBOOK_STORE_BACKEND=file")
	}
	if c.StoreBackend == BackendRedis && c.RedisPasswordRequired && c.RedisPassword == "" {
		return fmt.Errorf("COOKBOOK_REDIS_PASSWORD is required when COOKBOOK_REDIS_PASSWORD_REQUIRED=true")
	}
	if c.RateBurst <= 0 || c.RatePerMin <= 0 {
		return fmt.Errorf("COOKBOOK_RATE_BURST and COOKBOOK_RATE_PER_MIN must be > 0")
	}
	if c.RateMaxClients <= 0 {
		return fmt.Errorf("COOKBOOK_RATE_MAX_CLIENTS must be > 0")
	}
	return nil
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func requireEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	return v
}

func requireEnvInt(key string) int {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		panic(fmt.Sprintf("❌ FATAL: Invalid integer value for %s: %s", key, v))
	}
	return i
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func parseAllowedIPs(allowed string) []string {
	if allowed == "" {
		return nil
	}
	ips := make([]string, 0, 4)
	for _, ip := range splitAndTrim(allowed) {
		if ip != "" {
			ips = append(ips, ip)
		}
	}
	return ips
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
