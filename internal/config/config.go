package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	ListenAddr      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s
	RequestTimeout  time.Duration // per-request timeout, must exceed PreviewFetchTimeout

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	DBPath string // path to the SQLite database file

	// Auth
	JWTSecret     string        // HS256 signing secret
	TokenTTL      time.Duration // session lifetime (default: 168h)
	CookieSecure  bool          // set Secure on the session cookie
	AuthRateLimit int           // login/register attempts per client IP per minute

	// Link previews
	PreviewTTL              time.Duration // freshness window (default: 168h)
	PreviewFetchTimeout     time.Duration // outbound fetch bound (default: 6s)
	PreviewMaxBodyBytes     int           // HTML read cap (default: 200000)
	PreviewBlockPrivateDial bool          // also refuse private addresses after DNS resolution
	PreviewExtractor        string        // "html" | "regex"

	// Redis (optional preview cache backend, empty addr = SQLite only)
	RedisAddr             string        // ex: "localhost:6379"
	RedisUser             string        // optional
	RedisPassword         string        // optional
	RedisPasswordRequired bool          // true => require password, false => allow empty password
	RedisDB               int           // Redis DB number
	RedisDT               time.Duration // Redis dial timeout (ex: 5s)
	RedisRT               time.Duration // Redis read timeout (ex: 3s)
	RedisWT               time.Duration // Redis write timeout (ex: 3s)
	RedisMaxWait          time.Duration // max wait between retries (ex: 10s)
	RedisPingTimeout      time.Duration // timeout for each ping attempt (ex: 5s)
	RedisPoolSize         int           // Redis connection pool size
	RedisConnectTimeout   time.Duration // Total time to retry connecting (ex: 30s)
	RedisRetryInterval    time.Duration // Initial wait between retries (ex: 2s, grows exponentially)
	RedisWarnThreshold    int           // warn after this many attempts

	// Telegram bot
	TelegramToken string
	BotUserID     int64  // notes go to this user when set
	BotUsername   string // otherwise to this user, created on first start
	BotPassword   string // password for BotUsername (random when empty)

	// Homepage sync (disabled unless HomepageUser and a file are set)
	HomepageBookmarks    string        // path to a Homepage bookmarks.yaml
	HomepageServices     string        // path to a Homepage services.yaml
	HomepageUser         string        // owner of the synced files
	HomepageSyncInterval time.Duration // ex: 1h

	AllowedOrigins []string // CORS origins allowed to send credentials
	AllowedHosts   []string // optional, restrict access to specific Host headers
	AllowedCIDRS   []string // optional, restrict health endpoint access to specific IPs (e.g. "1.2.3.4, 10.0.0.0/8")
	TrustProxy     bool     // true => trust X-Forwarded-For headers
}

var defaultOrigins = []string{"http://127.0.0.1:5173", "http://localhost:5173"}

func Load() *Config {
	cfg := &Config{
		// Server settings
		ListenAddr:      getenv("KYUUBIK_LISTEN_ADDR", ":8080"),
		ShutdownTimeout: mustDuration("KYUUBIK_SHUTDOWN_TIMEOUT", 5*time.Second),
		RequestTimeout:  mustDuration("KYUUBIK_REQUEST_TIMEOUT", 15*time.Second),

		// Logging
		LogLevel:  getenv("KYUUBIK_LOG_LEVEL", "info"),
		PrettyLog: mustBool("KYUUBIK_PRETTY_LOG", true),

		DBPath: getenv("KYUUBIK_DB_PATH", "kyuubik.db"),

		// Auth
		JWTSecret:     getenv("KYUUBIK_JWT_SECRET", ""),
		TokenTTL:      mustDuration("KYUUBIK_TOKEN_TTL", 7*24*time.Hour),
		CookieSecure:  mustBool("KYUUBIK_COOKIE_SECURE", false),
		AuthRateLimit: getenvInt("KYUUBIK_AUTH_RATE_LIMIT", 10),

		// Link previews
		PreviewTTL:              mustDuration("KYUUBIK_PREVIEW_TTL", 7*24*time.Hour),
		PreviewFetchTimeout:     mustDuration("KYUUBIK_PREVIEW_FETCH_TIMEOUT", 6*time.Second),
		PreviewMaxBodyBytes:     getenvInt("KYUUBIK_PREVIEW_MAX_BODY_BYTES", 200_000),
		PreviewBlockPrivateDial: mustBool("KYUUBIK_PREVIEW_BLOCK_PRIVATE_DIAL", true),
		PreviewExtractor:        getenv("KYUUBIK_PREVIEW_EXTRACTOR", "html"),

		// Redis settings
		RedisAddr:             getenv("KYUUBIK_REDIS_ADDR", ""),
		RedisUser:             getenv("KYUUBIK_REDIS_USERNAME", "default"),
		RedisPasswordRequired: mustBool("KYUUBIK_REDIS_PASSWORD_REQUIRED", false),
		RedisPassword:         getenv("KYUUBIK_REDIS_PASSWORD", ""),
		RedisDB:               getenvInt("KYUUBIK_REDIS_DB", 0),
		RedisDT:               mustDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:               mustDuration("REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:               mustDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisMaxWait:          mustDuration("REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:      mustDuration("REDIS_PING_TIMEOUT", 5*time.Second),
		RedisPoolSize:         getenvInt("REDIS_POOL_SIZE", 10),
		RedisConnectTimeout:   mustDuration("REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:    mustDuration("REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisWarnThreshold:    getenvInt("REDIS_WARN_THRESHOLD", 3),

		// Telegram bot
		TelegramToken: getenv("KYUUBIK_TELEGRAM_TOKEN", ""),
		BotUserID:     int64(getenvInt("KYUUBIK_BOT_USER_ID", 0)),
		BotUsername:   getenv("KYUUBIK_BOT_USERNAME", "telegram"),
		BotPassword:   getenv("KYUUBIK_BOT_PASSWORD", ""),

		// Homepage sync
		HomepageBookmarks:    getenv("KYUUBIK_HOMEPAGE_BOOKMARKS", ""),
		HomepageServices:     getenv("KYUUBIK_HOMEPAGE_SERVICES", ""),
		HomepageUser:         getenv("KYUUBIK_HOMEPAGE_USER", ""),
		HomepageSyncInterval: mustDuration("KYUUBIK_HOMEPAGE_SYNC_INTERVAL", time.Hour),

		// Access restrictions
		AllowedOrigins: withDefault(splitAndTrim(getenv("KYUUBIK_ALLOWED_ORIGINS", "")), defaultOrigins),
		AllowedHosts:   splitAndTrim(getenv("KYUUBIK_ALLOWED_HOSTS", "")),
		AllowedCIDRS:   parseAllowedIPs(getenv("KYUUBIK_ALLOWED_CIDRS", "")),
		TrustProxy:     mustBool("KYUUBIK_TRUST_PROXY", false),
	}

	// Validate Redis password configuration
	if cfg.RedisAddr != "" && cfg.RedisPasswordRequired && cfg.RedisPassword == "" {
		panic("❌ FATAL: KYUUBIK_REDIS_PASSWORD is required when KYUUBIK_REDIS_PASSWORD_REQUIRED=true")
	}
	if cfg.RequestTimeout <= cfg.PreviewFetchTimeout {
		panic(fmt.Sprintf("❌ FATAL: KYUUBIK_REQUEST_TIMEOUT (%s) must be greater than KYUUBIK_PREVIEW_FETCH_TIMEOUT (%s)",
			cfg.RequestTimeout, cfg.PreviewFetchTimeout))
	}
	if cfg.HomepageSyncInterval <= 0 {
		panic("❌ FATAL: KYUUBIK_HOMEPAGE_SYNC_INTERVAL must be positive")
	}
	if cfg.PreviewExtractor != "html" && cfg.PreviewExtractor != "regex" {
		panic(fmt.Sprintf("❌ FATAL: KYUUBIK_PREVIEW_EXTRACTOR must be html or regex, got %q", cfg.PreviewExtractor))
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		cfgCopy := *cfg
		cfgCopy.RedisPassword = "***REDACTED***"
		cfgCopy.JWTSecret = "***REDACTED***"
		cfgCopy.TelegramToken = "***REDACTED***"
		cfgCopy.BotPassword = "***REDACTED***"
		if cfg.RedisUser != "" {
			cfgCopy.RedisUser = "***REDACTED***"
		}
		log.Printf("[DEBUG] cfg: %+v\n", cfgCopy)
	}

	return cfg
}

// LoadServer is Load plus the settings only the HTTP server needs.
func LoadServer() *Config {
	cfg := Load()
	cfg.JWTSecret = requireEnv("KYUUBIK_JWT_SECRET")
	return cfg
}

// LoadBot is Load plus the settings only the chat bot needs.
func LoadBot() *Config {
	cfg := Load()
	cfg.TelegramToken = requireEnv("KYUUBIK_TELEGRAM_TOKEN")
	return cfg
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func requireEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	return v
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func withDefault(vals, def []string) []string {
	if len(vals) == 0 {
		return def
	}
	return vals
}

func parseAllowedIPs(allowed string) []string {
	if allowed == "" {
		return nil
	}
	ips := make([]string, 0, 4)
	for _, ip := range splitAndTrim(allowed) {
		if ip != "" {
			ips = append(ips, ip)
		}
	}
	return ips
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
