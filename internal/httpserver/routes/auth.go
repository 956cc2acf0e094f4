package routes

import (
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/kyuubik/internal/httpserver/deps"
	"github.com/MrSnakeDoc/kyuubik/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/kyuubik/internal/httpserver/mw"
)

func init() { Register(registerAuth) }

func registerAuth(r chi.Router, d deps.Deps) {
	// One bucket per client IP shared by register and login.
	limited := r.With(mw.RateLimit(mw.RateLimitConfig{
		Burst:             d.AuthRateLimit,
		RefillPerIPPerMin: d.AuthRateLimit,
		MaxEntries:        10_000,
		IdleTTL:           15 * time.Minute,
		TrustProxy:        d.TrustProxy,
		Now:               d.TimeNow,
	}))
	limited.Post("/api/register", handlers.Register(d))
	limited.Post("/api/login", handlers.Login(d))

	r.Post("/api/logout", handlers.Logout(d))
	authed(r, d).Get("/api/me", handlers.Me(d))
}
