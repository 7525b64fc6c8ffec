package handlers

import (
	"net/http"
	"strings"

	"github.com/MrSnakeDoc/cookbook/internal/httpserver/deps"
)

func Categories(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, d.Catalog.Categories())
	}
}

// CatalogRecipes lists seed recipes, optionally filtered by ?category=.
func CatalogRecipes(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		category := strings.TrimSpace(r.URL.Query().Get("category"))
		list, err := d.Catalog.Recipes(category)
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}
