package mw

import (
	"net/http"

	"github.com/rs/cors"

	"github.com/MrSnakeDoc/kyuubik/internal/logger"
)

// CORS allows credentialed requests from the configured origins only.
// Requests without an Origin header (curl, the bot) are not affected.
func CORS(origins []string, log logger.Logger) func(http.Handler) http.Handler {
	log.Debugf("CORS: allowed origins=%v", origins)
	c := cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           86400,
	})
	return c.Handler
}
