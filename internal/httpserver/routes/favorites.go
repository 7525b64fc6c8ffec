package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/cookbook/internal/httpserver/deps"
	"github.com/MrSnakeDoc/cookbook/internal/httpserver/handlers"
)

func init() { Register(registerFavorites) }

func registerFavorites(r chi.Router, d deps.Deps) {
	r.Route("/favorites", func(r chi.Router) {
		r.Get("/", handlers.ListFavorites(d))
		r.Post("/toggle", handlers.ToggleFavorite(d))
		r.Post("/check", handlers.CheckFavorite(d))
	})
}
