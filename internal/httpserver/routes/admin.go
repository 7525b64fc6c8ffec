package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/cookbook/internal/httpserver/deps"
	"github.com/MrSnakeDoc/cookbook/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/cookbook/internal/httpserver/mw"
)

func init() { Register(registerAdmin) }

// registerAdmin mounts the operator endpoints behind COOKBOOK_ALLOWED_CIDRS.
// Reload also checks the Host header.
func registerAdmin(r chi.Router, d deps.Deps) {
	r.Group(func(r chi.Router) {
		r.Use(mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger))
		r.Get("/infra", handlers.Infra(d))
		r.With(mw.EnforceHost(d.AllowedHosts, d.Logger)).Post("/reload", handlers.Reload(d))
	})
}
