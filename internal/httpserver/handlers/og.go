package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/MrSnakeDoc/kyuubik/internal/domain"
	"github.com/MrSnakeDoc/kyuubik/internal/httpserver/deps"
	"github.com/MrSnakeDoc/kyuubik/internal/httpserver/httpx"
	"github.com/MrSnakeDoc/kyuubik/internal/logger"
)

// Preview resolves ?url= into an Open Graph summary. refresh=1 bypasses the cache.
func Preview(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		refresh, _ := strconv.ParseBool(q.Get("refresh"))

		p, err := d.Previews.GetPreview(r.Context(), q.Get("url"), refresh)
		switch {
		case err == nil:
			httpx.JSON(w, http.StatusOK, p)
		case errors.Is(err, domain.ErrInvalidURL):
			httpx.Error(w, http.StatusBadRequest, httpx.CodeInvalidURL)
		case errors.Is(err, domain.ErrForbiddenHost):
			d.Logger.Warn("preview refused", logger.String("url", q.Get("url")))
			httpx.Error(w, http.StatusForbidden, httpx.CodeForbiddenHost)
		case errors.Is(err, domain.ErrFetchTimeout):
			httpx.Error(w, http.StatusGatewayTimeout, httpx.CodeFetchTimeout)
		case errors.Is(err, domain.ErrFetchFailed):
			d.Logger.Debug("preview fetch failed", logger.String("url", q.Get("url")), logger.Error(err))
			httpx.Error(w, http.StatusBadGateway, httpx.CodeFetchFailed)
		default:
			internalError(d, w, r, "preview", err)
		}
	}
}
