package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/cookbook/internal/httpserver/deps"
	"github.com/MrSnakeDoc/cookbook/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/cookbook/internal/httpserver/mw"
)

func init() { Register(registerRecipes) }

func registerRecipes(r chi.Router, d deps.Deps) {
	limit := mw.RateLimit(mw.RateLimitConfig{
		Burst:        d.RateBurst,
		RefillPerMin: d.RatePerMin,
		MaxEntries:   d.RateMaxClients,
		TrustProxy:   d.TrustProxy,
	})

	r.Route("/recipes", func(r chi.Router) {
		r.Get("/", handlers.ListRecipes(d))
		r.With(limit).Post("/", handlers.SaveRecipe(d))
		r.With(limit).Put("/at/{position}", handlers.UpdateRecipeAt(d))
		r.With(limit).Delete("/{id}", handlers.DeleteRecipe(d))
	})
}
