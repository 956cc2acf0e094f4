package mw

import (
	"net/http"
	"strings"

	"github.com/MrSnakeDoc/kyuubik/internal/auth"
	"github.com/MrSnakeDoc/kyuubik/internal/httpserver/httpx"
	"github.com/MrSnakeDoc/kyuubik/internal/logger"
)

// SessionCookie is the cookie carrying the session token.
const SessionCookie = "token"

// RequireAuth rejects requests without a valid session token, taken from an
// "Authorization: Bearer" header or the session cookie. The identity is
// stored in the request context (see auth.FromContext).
func RequireAuth(tokens *auth.Tokens, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := bearerToken(r)
			if raw == "" {
				httpx.Error(w, http.StatusUnauthorized, httpx.CodeUnauthorized)
				return
			}
			id, err := tokens.Parse(raw)
			if err != nil {
				log.Debug("rejected session token", logger.Error(err))
				httpx.Error(w, http.StatusUnauthorized, httpx.CodeInvalidToken)
				return
			}
			recordUser(r.Context(), id.ID)
			next.ServeHTTP(w, r.WithContext(auth.WithIdentity(r.Context(), id)))
		})
	}
}

func bearerToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if v, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(v)
		}
	}
	if c, err := r.Cookie(SessionCookie); err == nil {
		return c.Value
	}
	return ""
}
