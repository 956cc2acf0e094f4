package handlers

import (
	"context"
	"net/http"

	"github.com/MrSnakeDoc/kyuubik/internal/httpserver/deps"
	"github.com/MrSnakeDoc/kyuubik/internal/httpserver/httpx"
	redisstore "github.com/MrSnakeDoc/kyuubik/internal/store/redis"
)

type componentStatus struct {
	OK             bool   `json:"ok"`
	Mode           string `json:"mode,omitempty"`
	PreviewsCached *int64 `json:"previews_cached,omitempty"`
	Impact         string `json:"impact,omitempty"`
	Error          string `json:"error,omitempty"`
}

type infraResponse struct {
	Status     string                     `json:"status"`
	Components map[string]componentStatus `json:"components"`
}

// Infra reports the state of the database, Redis and the preview cache.
func Infra(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
		defer cancel()

		components := map[string]componentStatus{
			"sqlite":        checkSQLite(ctx, d),
			"redis":         checkRedis(ctx, d),
			"preview_cache": checkPreviewCache(ctx, d),
		}

		httpx.JSON(w, http.StatusOK, infraResponse{
			Status:     overallStatus(components),
			Components: components,
		})
	}
}

func overallStatus(components map[string]componentStatus) string {
	if !components["sqlite"].OK {
		return "critical"
	}
	if !components["preview_cache"].OK {
		return "degraded"
	}
	return "ok"
}

func checkSQLite(ctx context.Context, d deps.Deps) componentStatus {
	if err := d.Store.Ping(ctx); err != nil {
		return componentStatus{OK: false, Impact: "all-requests-failing", Error: err.Error()}
	}
	return componentStatus{OK: true}
}

func checkRedis(ctx context.Context, d deps.Deps) componentStatus {
	if d.RedisClient == nil {
		return componentStatus{OK: true, Mode: "disabled"}
	}
	if err := d.RedisClient.Ping(ctx).Err(); err != nil {
		return componentStatus{OK: false, Mode: "unreachable", Impact: "previews-failing", Error: err.Error()}
	}
	return componentStatus{OK: true, Mode: "connected"}
}

func checkPreviewCache(ctx context.Context, d deps.Deps) componentStatus {
	var (
		n   int64
		err error
	)
	if d.PreviewCache == "redis" && d.RedisClient != nil {
		n, err = redisstore.NewStore(d.RedisClient).CountPreviews(ctx)
	} else {
		n, err = d.Store.CountPreviews(ctx)
	}
	if err != nil {
		return componentStatus{OK: false, Mode: d.PreviewCache, Error: err.Error()}
	}
	return componentStatus{OK: true, Mode: d.PreviewCache, PreviewsCached: &n}
}
