package scheduler

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/MrSnakeDoc/cookbook/internal/domain"
	"github.com/MrSnakeDoc/cookbook/internal/favorites"
	"github.com/MrSnakeDoc/cookbook/internal/kv"
	"github.com/MrSnakeDoc/cookbook/internal/logger"
)

// DefaultFavoritesWriteTimeout bounds each snapshot write.
const DefaultFavoritesWriteTimeout = 3 * time.Second

// FavoritesSync mirrors the favorites store into the kv provider: it
// restores entries on startup and writes a snapshot after every change.
type FavoritesSync struct {
	provider     kv.Provider
	store        *favorites.Store
	logger       logger.Logger
	writeTimeout time.Duration
	unsubscribe  func()
}

// NewFavoritesSync creates a new favorites sync
func NewFavoritesSync(
	provider kv.Provider,
	store *favorites.Store,
	log logger.Logger,
) *FavoritesSync {
	return &FavoritesSync{
		provider:     provider,
		store:        store,
		logger:       log,
		writeTimeout: DefaultFavoritesWriteTimeout,
	}
}

// Start restores saved favorites and begins mirroring changes. A failed
// restore is logged and favorites start empty.
func (fs *FavoritesSync) Start(ctx context.Context) error {
	if err := fs.Restore(ctx); err != nil {
		fs.logger.Warn("failed to restore favorites, starting empty",
			logger.Error(err))
	}

	fs.unsubscribe = fs.store.Subscribe(fs.persist)
	return nil
}

// Stop detaches from the store
func (fs *FavoritesSync) Stop() {
	if fs.unsubscribe != nil {
		fs.unsubscribe()
	}
}

// Restore loads the saved snapshot into the store
func (fs *FavoritesSync) Restore(ctx context.Context) error {
	fs.logger.Info("restoring favorites from storage")

	raw, found, err := fs.provider.Get(ctx, kv.KeyFavorites)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrPersistenceUnavailable, err)
	}
	if !found || strings.TrimSpace(raw) == "" {
		fs.logger.Info("no saved favorites found")
		return nil
	}

	var entries []domain.Recipe
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrCorrupt, err)
	}

	fs.store.Restore(entries)

	fs.logger.Info("restored favorites",
		logger.Int("count", fs.store.Len()))

	return nil
}

// persist writes one snapshot (best effort)
func (fs *FavoritesSync) persist(entries []domain.Recipe) {
	for i := range entries {
		entries[i].Normalize()
	}
	data, err := json.Marshal(entries)
	if err != nil {
		fs.logger.Error("failed to marshal favorites", logger.Error(err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), fs.writeTimeout)
	defer cancel()

	if err := fs.provider.Set(ctx, kv.KeyFavorites, string(data)); err != nil {
		fs.logger.Warn("failed to save favorites",
			logger.Int("count", len(entries)),
			logger.Error(err))
		return
	}
	fs.logger.Debug("favorites saved", logger.Int("count", len(entries)))
}
