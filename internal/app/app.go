package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/cookbook/internal/catalog"
	"github.com/MrSnakeDoc/cookbook/internal/config"
	"github.com/MrSnakeDoc/cookbook/internal/favorites"
	"github.com/MrSnakeDoc/cookbook/internal/httpserver"
	"github.com/MrSnakeDoc/cookbook/internal/httpserver/deps"
	"github.com/MrSnakeDoc/cookbook/internal/kv"
	"github.com/MrSnakeDoc/cookbook/internal/kv/file"
	"github.com/MrSnakeDoc/cookbook/internal/kv/memory"
	kvs3 "github.com/MrSnakeDoc/cookbook/internal/kv/s3"
	"github.com/MrSnakeDoc/cookbook/internal/logger"
	"github.com/MrSnakeDoc/cookbook/internal/recipes"
	"github.com/MrSnakeDoc/cookbook/internal/redis"
	"github.com/MrSnakeDoc/cookbook/internal/scheduler"
	"github.com/MrSnakeDoc/cookbook/internal/version"
)

type App struct {
	cfg           *config.Config
	logger        logger.Logger
	server        *httpserver.Server
	redisClient   *goredis.Client
	reloader      *scheduler.CatalogReloader
	favoritesSync *scheduler.FavoritesSync
}

func New() *App {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	// Storage backend - fail fast if unavailable
	provider, redisClient, err := newProvider(cfg, loggerClient)
	if err != nil {
		loggerClient.Errorf("Failed to initialize %s storage: %v", cfg.StoreBackend, err)
		os.Exit(1)
	}
	loggerClient.Info("storage initialized",
		logger.String("backend", cfg.StoreBackend))

	repo := recipes.NewRepository(provider, loggerClient)
	favoriteStore := favorites.NewStore()

	var favoritesSync *scheduler.FavoritesSync
	if cfg.PersistFavorites {
		favoritesSync = scheduler.NewFavoritesSync(provider, favoriteStore, loggerClient)
	} else {
		loggerClient.Info("favorites persistence disabled, favorites last for this process only")
	}

	// Create manual reload trigger channel
	reloadTrigger := make(chan struct{}, 1)

	cat := catalog.New()
	reloader := scheduler.NewCatalogReloader(
		cfg.SeedFile,
		cat,
		loggerClient,
		cfg.ReloadInterval,
		reloadTrigger,
	)

	d := deps.Deps{
		Logger:         loggerClient,
		StartTime:      time.Now(),
		Version:        version.Version,
		Commit:         version.Commit,
		BuildDate:      version.BuildDate,
		GoVersion:      version.GoVersion,
		AllowedHosts:   cfg.AllowedHosts,
		AllowedCIDRS:   cfg.AllowedCIDRS,
		TrustProxy:     cfg.TrustProxy,
		CORSOrigins:    cfg.CORSOrigins,
		RateBurst:      cfg.RateBurst,
		RatePerMin:     cfg.RatePerMin,
		RateMaxClients: cfg.RateMaxClients,
		StoreBackend:   cfg.StoreBackend,
		Recipes:        repo,
		Favorites:      favoriteStore,
		Catalog:        cat,
		RedisClient:    redisClient,
		ReloadTrigger:  reloadTrigger,
	}

	server := httpserver.New(cfg, loggerClient, d)

	return &App{
		cfg:           cfg,
		logger:        loggerClient,
		server:        server,
		redisClient:   redisClient,
		reloader:      reloader,
		favoritesSync: favoritesSync,
	}
}

// newProvider builds the kv provider selected by COOKBOOK_STORE_BACKEND.
// The redis client is returned so the app can check and close it.
func newProvider(cfg *config.Config, log logger.Logger) (kv.Provider, *goredis.Client, error) {
	switch cfg.StoreBackend {
	case config.BackendMemory:
		log.Warn("memory backend selected, saved recipes are lost on restart")
		return memory.New(), nil, nil

	case config.BackendFile:
		p, err := file.New(cfg.DataDir)
		if err != nil {
			return nil, nil, err
		}
		return p, nil, nil

	case config.BackendRedis:
		ctx, cancel := context.WithTimeout(context.Background(), cfg.RedisConnectTimeout+cfg.RedisPingTimeout)
		defer cancel()
		p, client, err := redis.NewProvider(ctx, redis.OptionsFromConfig(cfg), log)
		if err != nil {
			return nil, nil, err
		}
		return p, client, nil

	case config.BackendS3:
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		p, err := kvs3.NewFromEnv(ctx, cfg.S3Region, cfg.S3Bucket, cfg.S3Prefix)
		if err != nil {
			return nil, nil, err
		}
		log.Warn("s3 backend does not serialize concurrent writers, run a single instance",
			logger.String("bucket", cfg.S3Bucket))
		return p, nil, nil
	}

	return nil, nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting Cookbook v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("Cookbook %s (commit=%s, built=%s, go=%s)",
		version.Version, version.Commit, version.BuildDate, version.GoVersion)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load the seed catalog and start periodic refresh
	if err := a.reloader.Start(ctx); err != nil {
		return fmt.Errorf("failed to start catalog reloader: %w", err)
	}
	a.logger.Info("catalog reloader started",
		logger.Duration("interval", a.cfg.ReloadInterval))

	if a.favoritesSync != nil {
		if err := a.favoritesSync.Start(ctx); err != nil {
			return fmt.Errorf("failed to start favorites sync: %w", err)
		}
		a.logger.Info("favorites persistence enabled")
	}

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		return err
	}

	a.reloader.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	// After the server so in-flight toggles are still persisted
	if a.favoritesSync != nil {
		a.favoritesSync.Stop()
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warnf("failed to close redis: %v", err)
		} else {
			a.logger.Info("✅ Redis closed cleanly")
		}
	}

	a.logger.Info("✅ Cookbook stopped cleanly")
	_ = a.logger.Sync()
	return nil
}
