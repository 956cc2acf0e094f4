package deps

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/kyuubik/internal/auth"
	"github.com/MrSnakeDoc/kyuubik/internal/domain"
	"github.com/MrSnakeDoc/kyuubik/internal/logger"
	"github.com/MrSnakeDoc/kyuubik/internal/store/sqlite"
)

// Previewer resolves link previews (see preview.Service).
type Previewer interface {
	GetPreview(ctx context.Context, url string, refresh bool) (*domain.Preview, error)
}

type Deps struct {
	Logger        logger.Logger
	StartTime     time.Time
	Version       string
	Commit        string
	BuildDate     string
	GoVersion     string
	TimeNow       func() time.Time // for testing, defaults to time.Now
	AllowedHosts  []string         // Host headers allowed to access the server
	AllowedCIDRS  []string         // IPs allowed to access healthz/readyz/infra endpoints
	TrustProxy    bool             // true if running behind a trusted reverse proxy
	Store         *sqlite.Store    // users, records and (by default) the preview cache
	Previews      Previewer        // link preview resolver
	PreviewCache  string           // "sqlite" or "redis", reported by /infra
	Tokens        *auth.Tokens     // session token issuer
	CookieSecure  bool             // Secure flag on the session cookie
	AuthRateLimit int              // login/register attempts per IP per minute
	RedisClient   *redis.Client    // nil when Redis is not configured
}

// Now returns d.TimeNow() or time.Now().
func (d Deps) Now() time.Time {
	if d.TimeNow != nil {
		return d.TimeNow()
	}
	return time.Now()
}
