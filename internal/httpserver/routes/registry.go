// Package routes holds one file per route group. Each file registers itself
// from init, and the server mounts them all with RegisterAll.
package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/cookbook/internal/httpserver/deps"
)

// Registrar mounts a route group on r.
type Registrar func(r chi.Router, d deps.Deps)

var registrars []Registrar

func Register(reg Registrar) {
	registrars = append(registrars, reg)
}

// RegisterAll is called once by the server after the global middlewares.
func RegisterAll(r chi.Router, d deps.Deps) {
	for _, reg := range registrars {
		reg(r, d)
	}
}
