package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/cookbook/internal/domain"
	"github.com/MrSnakeDoc/cookbook/internal/httpserver/deps"
)

// ListRecipes returns the saved recipes in stored order.
func ListRecipes(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := d.Recipes.List(r.Context())
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

// SaveRecipe stores the posted recipe under a fresh id.
func SaveRecipe(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		draft, err := decodeRecipe(w, r)
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		saved, err := d.Recipes.SaveNew(r.Context(), draft)
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		writeJSON(w, http.StatusCreated, saved)
	}
}

// UpdateRecipeAt replaces the recipe at {position}; the stored id is kept.
func UpdateRecipeAt(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		position, err := strconv.Atoi(chi.URLParam(r, "position"))
		if err != nil {
			writeError(w, d.Logger, fmt.Errorf("%w: position must be an integer", errBadRequest))
			return
		}
		updated, err := decodeRecipe(w, r)
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		stored, err := d.Recipes.UpdateAt(r.Context(), position, updated)
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		writeJSON(w, http.StatusOK, stored)
	}
}

// DeleteRecipe removes the recipe with {id}. Unknown ids succeed.
func DeleteRecipe(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(chi.URLParam(r, "id"))
		if id == "" {
			writeError(w, d.Logger, domain.ErrMissingID)
			return
		}
		if err := d.Recipes.DeleteByID(r.Context(), domain.ID(id)); err != nil {
			writeError(w, d.Logger, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
