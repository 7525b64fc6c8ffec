package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/MrSnakeDoc/cookbook/internal/catalog"
	"github.com/MrSnakeDoc/cookbook/internal/logger"
	"github.com/MrSnakeDoc/cookbook/internal/sources/seed"
)

// CatalogReloader handles periodic reloading of the seed catalog
type CatalogReloader struct {
	loader        *seed.Loader
	mapper        *seed.Mapper
	catalog       *catalog.Catalog
	logger        logger.Logger
	interval      time.Duration
	stopCh        chan struct{}
	manualTrigger chan struct{}
}

// NewCatalogReloader creates a new catalog reloader. An interval <= 0
// disables periodic reloads; manual triggers still work.
func NewCatalogReloader(
	seedFile string,
	cat *catalog.Catalog,
	log logger.Logger,
	interval time.Duration,
	manualTrigger chan struct{},
) *CatalogReloader {
	return &CatalogReloader{
		loader:        seed.NewLoader(seedFile),
		mapper:        seed.NewMapper(),
		catalog:       cat,
		logger:        log,
		interval:      interval,
		stopCh:        make(chan struct{}),
		manualTrigger: manualTrigger,
	}
}

// Start loads the catalog once, then keeps reloading in the background
func (cr *CatalogReloader) Start(ctx context.Context) error {
	if err := cr.Reload(ctx); err != nil {
		return fmt.Errorf("initial catalog reload failed: %w", err)
	}

	var tick <-chan time.Time
	if cr.interval > 0 {
		ticker := time.NewTicker(cr.interval)
		tick = ticker.C
		go func() {
			<-cr.stopCh
			ticker.Stop()
		}()
	}

	go func() {
		for {
			select {
			case <-tick:
				if err := cr.Reload(ctx); err != nil {
					cr.logger.Error("failed to reload catalog",
						logger.Error(err))
				}
			case <-cr.manualTrigger:
				cr.logger.Info("manual catalog reload triggered")
				if err := cr.Reload(ctx); err != nil {
					cr.logger.Error("failed to reload catalog",
						logger.Error(err))
				}
			case <-cr.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the reloader
func (cr *CatalogReloader) Stop() {
	close(cr.stopCh)
}

// Reload reads the seed file and swaps the catalog contents. On failure the
// previous catalog stays in place.
func (cr *CatalogReloader) Reload(_ context.Context) error {
	cr.logger.Info("reloading catalog",
		logger.String("source", cr.loader.Source()))

	config, err := cr.loader.Load()
	if err != nil {
		return fmt.Errorf("failed to load seed: %w", err)
	}

	categories, recipes, err := cr.mapper.Map(config)
	if err != nil {
		return fmt.Errorf("failed to map seed: %w", err)
	}

	cr.catalog.Replace(categories, recipes)

	cr.logger.Info("catalog loaded",
		logger.Int("categories", len(categories)),
		logger.Int("recipes", len(recipes)))

	return nil
}
