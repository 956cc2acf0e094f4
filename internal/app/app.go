package app

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/kyuubik/internal/auth"
	"github.com/MrSnakeDoc/kyuubik/internal/config"
	"github.com/MrSnakeDoc/kyuubik/internal/httpserver"
	"github.com/MrSnakeDoc/kyuubik/internal/httpserver/deps"
	"github.com/MrSnakeDoc/kyuubik/internal/logger"
	"github.com/MrSnakeDoc/kyuubik/internal/preview"
	"github.com/MrSnakeDoc/kyuubik/internal/redis"
	"github.com/MrSnakeDoc/kyuubik/internal/scheduler"
	"github.com/MrSnakeDoc/kyuubik/internal/sources/homepage"
	redisstore "github.com/MrSnakeDoc/kyuubik/internal/store/redis"
	"github.com/MrSnakeDoc/kyuubik/internal/store/sqlite"
	"github.com/MrSnakeDoc/kyuubik/internal/version"
)

// Preview cache backends reported by /infra.
const (
	CacheSQLite = "sqlite"
	CacheRedis  = "redis"
)

type App struct {
	cfg         *config.Config
	logger      logger.Logger
	store       *sqlite.Store
	redisClient *goredis.Client
	server      *httpserver.Server
	sync        *scheduler.HomepageSync // nil when not configured
}

// New opens the database, connects Redis when configured and builds the
// HTTP server.
func New(ctx context.Context, cfg *config.Config, loggerClient logger.Logger) (*App, error) {
	store, err := OpenStore(cfg, loggerClient)
	if err != nil {
		return nil, err
	}

	var redisClient *goredis.Client
	if cfg.RedisAddr != "" {
		redisClient, err = redis.Connect(ctx, redisOptions(cfg), loggerClient)
		if err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("redis: %w", err)
		}
	}

	previews, backend := newPreviewService(cfg, store, redisClient, loggerClient)
	loggerClient.Info("link previews ready",
		logger.String("cache", backend),
		logger.String("extractor", cfg.PreviewExtractor),
		logger.Duration("ttl", cfg.PreviewTTL))

	d := deps.Deps{
		Logger:        loggerClient,
		StartTime:     time.Now(),
		Version:       version.Version,
		Commit:        version.Commit,
		BuildDate:     version.BuildDate,
		GoVersion:     version.GoVersion,
		TimeNow:       time.Now,
		AllowedHosts:  cfg.AllowedHosts,
		AllowedCIDRS:  cfg.AllowedCIDRS,
		TrustProxy:    cfg.TrustProxy,
		Store:         store,
		Previews:      previews,
		PreviewCache:  backend,
		Tokens:        auth.NewTokens(cfg.JWTSecret, cfg.TokenTTL),
		CookieSecure:  cfg.CookieSecure,
		AuthRateLimit: cfg.AuthRateLimit,
		RedisClient:   redisClient,
	}

	a := &App{
		cfg:         cfg,
		logger:      loggerClient,
		store:       store,
		redisClient: redisClient,
		server:      httpserver.New(cfg, loggerClient, d),
	}
	if a.sync, err = newHomepageSync(ctx, cfg, store, loggerClient); err != nil {
		a.close()
		return nil, err
	}
	return a, nil
}

// newHomepageSync returns nil when no Homepage file or owner is configured.
func newHomepageSync(ctx context.Context, cfg *config.Config, store *sqlite.Store, log logger.Logger) (*scheduler.HomepageSync, error) {
	var sources []scheduler.SyncSource
	if cfg.HomepageBookmarks != "" {
		sources = append(sources, scheduler.SyncSource{Kind: homepage.KindBookmarks, Path: cfg.HomepageBookmarks})
	}
	if cfg.HomepageServices != "" {
		sources = append(sources, scheduler.SyncSource{Kind: homepage.KindServices, Path: cfg.HomepageServices})
	}
	if len(sources) == 0 || cfg.HomepageUser == "" {
		if len(sources) > 0 {
			log.Warn("homepage files configured without KYUUBIK_HOMEPAGE_USER, sync disabled")
		}
		return nil, nil
	}

	u, err := store.UserByUsername(ctx, cfg.HomepageUser)
	if err != nil {
		return nil, fmt.Errorf("homepage sync user %q: %w", cfg.HomepageUser, err)
	}
	return scheduler.NewHomepageSync(sources, u.ID, homepage.NewImporter(store, log), log, cfg.HomepageSyncInterval), nil
}

// OpenStore opens the SQLite database named by cfg.DBPath.
func OpenStore(cfg *config.Config, log logger.Logger) (*sqlite.Store, error) {
	store, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", cfg.DBPath, err)
	}
	log.Info("database opened", logger.String("path", cfg.DBPath))
	return store, nil
}

func redisOptions(cfg *config.Config) redis.ConnectOptions {
	return redis.ConnectOptions{
		Addr:           cfg.RedisAddr,
		User:           cfg.RedisUser,
		Password:       cfg.RedisPassword,
		DB:             cfg.RedisDB,
		DialTimeout:    cfg.RedisDT,
		ReadTimeout:    cfg.RedisRT,
		WriteTimeout:   cfg.RedisWT,
		PoolSize:       cfg.RedisPoolSize,
		ConnectTimeout: cfg.RedisConnectTimeout,
		RetryInterval:  cfg.RedisRetryInterval,
		MaxWait:        cfg.RedisMaxWait,
		PingTimeout:    cfg.RedisPingTimeout,
		WarnThreshold:  cfg.RedisWarnThreshold,
	}
}

// newPreviewService picks the cache backend (Redis when connected, SQLite
// otherwise) and the extraction strategy.
func newPreviewService(cfg *config.Config, store *sqlite.Store, redisClient *goredis.Client, log logger.Logger) (*preview.Service, string) {
	var (
		cache   preview.Store = store
		backend               = CacheSQLite
	)
	if redisClient != nil {
		cache, backend = redisstore.NewStore(redisClient), CacheRedis
	}

	var extractor preview.Extractor = preview.HTMLExtractor{}
	if cfg.PreviewExtractor == "regex" {
		extractor = preview.RegexExtractor{}
	}

	fetcher := preview.NewHTTPFetcher(preview.FetcherOptions{
		MaxBodyBytes:     int64(cfg.PreviewMaxBodyBytes),
		BlockPrivateDial: cfg.PreviewBlockPrivateDial,
	})
	return preview.NewService(cache, fetcher, log, preview.Options{
		TTL:          cfg.PreviewTTL,
		FetchTimeout: cfg.PreviewFetchTimeout,
		Extractor:    extractor,
	}), backend
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	a.logger.Infof("🚀 Starting kyuubik v%s on %s", version.Version, a.cfg.ListenAddr)
	a.logger.Infof("kyuubik %s (commit=%s, built=%s, go=%s)",
		version.Version, version.Commit, version.BuildDate, version.GoVersion)

	if a.sync != nil {
		a.sync.Start(ctx)
		a.logger.Info("homepage sync started",
			logger.Duration("interval", a.cfg.HomepageSyncInterval))
	}

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		a.close()
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		a.close()
		return fmt.Errorf("failed to stop server: %w", err)
	}

	a.close()
	a.logger.Info("✅ kyuubik stopped cleanly")
	return nil
}

func (a *App) close() {
	if a.sync != nil {
		a.sync.Stop()
	}
	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warnf("failed to close redis: %v", err)
		} else {
			a.logger.Info("✅ Redis closed cleanly")
		}
	}
	if err := a.store.Close(); err != nil {
		a.logger.Warnf("failed to close database: %v", err)
	}
}
