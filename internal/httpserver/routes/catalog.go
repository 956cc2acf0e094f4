package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/kyuubik/internal/httpserver/deps"
	"github.com/MrSnakeDoc/kyuubik/internal/httpserver/handlers"
)

func init() { Register(registerCatalog) }

func registerCatalog(r chi.Router, d deps.Deps) {
	a := authed(r, d)
	a.Get("/api/tags", handlers.ListTags(d))
	a.Post("/api/tags/normalize", handlers.NormalizeTags(d))
	a.Get("/api/library", handlers.ListLibrary(d))
	a.Get("/api/og", handlers.Preview(d))
}
