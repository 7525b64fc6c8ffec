package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/cookbook/internal/httpserver/deps"
	"github.com/MrSnakeDoc/cookbook/internal/httpserver/handlers"
)

func init() { Register(registerCatalog) }

func registerCatalog(r chi.Router, d deps.Deps) {
	r.Get("/categories", handlers.Categories(d))
	r.Get("/catalog", handlers.CatalogRecipes(d))
}
