package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/cookbook/internal/httpserver/deps"
)

type componentStatus struct {
	OK             bool   `json:"ok"`
	RecipesLoaded  *int   `json:"recipes_loaded,omitempty"`
	RecipesSaved   *int   `json:"recipes_saved,omitempty"`
	FavoritesCount *int   `json:"favorites_count,omitempty"`
	LastReload     string `json:"last_reload,omitempty"`
	Mode           string `json:"mode,omitempty"`
	Impact         string `json:"impact,omitempty"`
	Error          string `json:"error,omitempty"`
}

type infraResponse struct {
	Status     string                     `json:"status"`
	Components map[string]componentStatus `json:"components"`
}

func Infra(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		catalogCount := d.Catalog.Count()
		lastReload := d.Catalog.LastReload()
		lastReloadStr := "never"
		if !lastReload.IsZero() {
			lastReloadStr = lastReload.Format("2006-01-02 15:04:05")
		}

		favoritesCount := d.Favorites.Len()

		components := map[string]componentStatus{
			"catalog": {
				OK:            catalogCount > 0,
				RecipesLoaded: &catalogCount,
				LastReload:    lastReloadStr,
			},
			"store": checkStore(r.Context(), d),
			"favorites": {
				OK:             true,
				FavoritesCount: &favoritesCount,
			},
		}
		if d.RedisClient != nil {
			components["redis"] = checkRedis(d)
		}

		response := infraResponse{
			Status:     determineStatus(components),
			Components: components,
		}

		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(response)
	}
}

func determineStatus(components map[string]componentStatus) string {
	// Saved recipes are the core feature
	if store, exists := components["store"]; exists && !store.OK {
		return "critical"
	}

	// Catalog only feeds the browse screens
	if catalog, exists := components["catalog"]; exists && !catalog.OK {
		return "degraded"
	}

	return "ok"
}

func checkStore(ctx context.Context, d deps.Deps) componentStatus {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	saved, err := d.Recipes.Count(ctx)
	if err != nil {
		return componentStatus{
			OK:     false,
			Mode:   d.StoreBackend,
			Impact: "saved-recipes-unavailable",
			Error:  err.Error(),
		}
	}

	return componentStatus{
		OK:           true,
		Mode:         d.StoreBackend,
		RecipesSaved: &saved,
	}
}

func checkRedis(d deps.Deps) componentStatus {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	err := d.RedisClient.Ping(ctx).Err()
	if err != nil {
		return componentStatus{
			OK:     false,
			Mode:   "degraded",
			Impact: "saved-recipes-unavailable",
			Error:  "timeout",
		}
	}

	return componentStatus{
		OK:   true,
		Mode: "optimal",
	}
}
