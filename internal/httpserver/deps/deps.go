package deps

import (
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/cookbook/internal/catalog"
	"github.com/MrSnakeDoc/cookbook/internal/favorites"
	"github.com/MrSnakeDoc/cookbook/internal/logger"
	"github.com/MrSnakeDoc/cookbook/internal/recipes"
)

type Deps struct {
	Logger         logger.Logger
	StartTime      time.Time
	Version        string
	Commit         string
	BuildDate      string
	GoVersion      string
	AllowedHosts   []string            // Host headers allowed to call /reload
	AllowedCIDRS   []string            // IPs allowed to access infra/reload endpoints
	TrustProxy     bool                // true if running behind a trusted reverse proxy (e.g., cloudflared)
	CORSOrigins    []string            // browser origins allowed by the CORS middleware
	RateBurst      int                 // token bucket size for mutating recipe routes
	RatePerMin     int                 // token refill per client per minute
	RateMaxClients int                 // tracked clients before idle buckets are swept early
	StoreBackend   string              // name of the active kv backend
	Recipes        *recipes.Repository // saved recipes
	Favorites      *favorites.Store    // session favorites
	Catalog        *catalog.Catalog    // seed categories and recipes
	RedisClient    *redis.Client       // nil unless the redis backend is active
	ReloadTrigger  chan struct{}       // Channel to trigger manual catalog reload
}
