package mw

import (
	"net/http"

	"github.com/MrSnakeDoc/kyuubik/internal/httpserver/httpx"
	"github.com/MrSnakeDoc/kyuubik/internal/logger"
	"github.com/MrSnakeDoc/kyuubik/internal/utils"
)

// AllowOnlyCIDRS gates the health endpoints to the configured IPs/CIDRs. An
// empty list lets everything through. trustProxy makes the client IP come
// from proxy headers (see utils.ClientIP).
func AllowOnlyCIDRS(allowed []string, trustProxy bool, log logger.Logger) func(http.Handler) http.Handler {
	m := utils.NewIPMatcher(allowed)
	if m.IsEmpty() {
		log.Debug("health allow-list empty, passthrough")
		return func(next http.Handler) http.Handler { return next }
	}

	log.Debug("health allow-list enabled",
		logger.Int("rules", len(allowed)), logger.Bool("trust_proxy", trustProxy))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := utils.ClientIP(r, trustProxy)
			if !m.Allow(ip) {
				log.Warn("health request from disallowed address",
					logger.String("client_ip", ip), logger.String("path", r.URL.Path))
				httpx.Error(w, http.StatusForbidden, httpx.CodeForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
