package mw

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/MrSnakeDoc/kyuubik/internal/logger"
	"github.com/MrSnakeDoc/kyuubik/internal/utils"
)

// statusWriter captures status code and bytes written.
type statusWriter struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

// accessUser is filled in by RequireAuth further down the chain so the
// access log line can name the account.
type accessUser struct{ id int64 }

type accessUserKey struct{}

func recordUser(ctx context.Context, id int64) {
	if u, ok := ctx.Value(accessUserKey{}).(*accessUser); ok {
		u.id = id
	}
}

// Log writes one "http_request" line per request with the chi request id,
// the resolved client IP and, on authenticated routes, the user id.
func Log(loggerClient logger.Logger, trustProxy bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := &statusWriter{ResponseWriter: w}
			user := &accessUser{}

			next.ServeHTTP(ww, r.WithContext(context.WithValue(r.Context(), accessUserKey{}, user)))

			fields := []logger.Field{
				logger.String("method", r.Method),
				logger.String("path", r.URL.Path),
				logger.Int("status", ww.status),
				logger.Int("bytes", ww.bytes),
				logger.Duration("duration", time.Since(start)),
				logger.String("client_ip", utils.ClientIP(r, trustProxy)),
				logger.String("user_agent", r.UserAgent()),
				logger.String("request_id", middleware.GetReqID(r.Context())),
			}
			if user.id != 0 {
				fields = append(fields, logger.Int64("user_id", user.id))
			}
			loggerClient.Info("http_request", fields...)
		})
	}
}
