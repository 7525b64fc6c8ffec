package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/cookbook/internal/domain"
	"github.com/MrSnakeDoc/cookbook/internal/httpserver/deps"
	"github.com/MrSnakeDoc/cookbook/internal/logger"
)

type favoriteResponse struct {
	Favorite bool `json:"favorite"`
}

func ListFavorites(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, d.Favorites.List())
	}
}

// ToggleFavorite flips membership of the posted recipe and reports the new state.
func ToggleFavorite(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec, ok := favoriteBody(w, r, d)
		if !ok {
			return
		}
		now := d.Favorites.Toggle(rec)
		d.Logger.Debug("favorite toggled",
			logger.String("id", rec.ID.String()),
			logger.Bool("favorite", now))
		writeJSON(w, http.StatusOK, favoriteResponse{Favorite: now})
	}
}

func CheckFavorite(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec, ok := favoriteBody(w, r, d)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, favoriteResponse{Favorite: d.Favorites.IsFavorite(rec)})
	}
}

// favoriteBody decodes the recipe and rejects one without an id, since
// Toggle treats that as a programming error.
func favoriteBody(w http.ResponseWriter, r *http.Request, d deps.Deps) (domain.Recipe, bool) {
	rec, err := decodeRecipe(w, r)
	if err != nil {
		writeError(w, d.Logger, err)
		return domain.Recipe{}, false
	}
	if rec.ID == "" {
		writeError(w, d.Logger, domain.ErrMissingID)
		return domain.Recipe{}, false
	}
	return rec, true
}
