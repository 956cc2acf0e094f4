package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/kyuubik/internal/httpserver/deps"
	"github.com/MrSnakeDoc/kyuubik/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/kyuubik/internal/httpserver/mw"
)

func init() { Register(registerHealth) }

func registerHealth(r chi.Router, d deps.Deps) {
	health := r.With(mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger))
	health.Get("/healthz", handlers.Healthz(d))
	health.Get("/readyz", handlers.Readyz(d))
	health.Get("/infra", handlers.Infra(d))
}
