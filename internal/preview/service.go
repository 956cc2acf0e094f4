// Package preview resolves URLs into cached Open Graph summaries.
package preview

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/MrSnakeDoc/kyuubik/internal/domain"
	"github.com/MrSnakeDoc/kyuubik/internal/logger"
)

const (
	DefaultTTL          = 7 * 24 * time.Hour
	DefaultFetchTimeout = 6 * time.Second
)

// Store is the preview cache backend. It is keyed by the literal URL and
// shared by all users.
type Store interface {
	// GetPreview returns found=false without error when the URL is not cached.
	GetPreview(ctx context.Context, url string) (p *domain.Preview, found bool, err error)
	// UpsertPreview inserts or fully overwrites the entry for p.URL.
	UpsertPreview(ctx context.Context, p *domain.Preview) error
}

// Freshness classifies a cache lookup.
type Freshness int

const (
	Miss Freshness = iota
	Stale
	Fresh
)

func (f Freshness) String() string {
	switch f {
	case Fresh:
		return "fresh"
	case Stale:
		return "stale"
	default:
		return "miss"
	}
}

type Options struct {
	TTL          time.Duration
	FetchTimeout time.Duration
	Extractor    Extractor
	Now          func() time.Time
}

type Service struct {
	store   Store
	fetcher Fetcher
	log     logger.Logger

	ttl          time.Duration
	fetchTimeout time.Duration
	extractor    Extractor
	now          func() time.Time
}

func NewService(store Store, fetcher Fetcher, log logger.Logger, opts Options) *Service {
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = DefaultFetchTimeout
	}
	if opts.Extractor == nil {
		opts.Extractor = HTMLExtractor{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Service{
		store:        store,
		fetcher:      fetcher,
		log:          log,
		ttl:          opts.TTL,
		fetchTimeout: opts.FetchTimeout,
		extractor:    opts.Extractor,
		now:          opts.Now,
	}
}

// Classify decides what to do with a cache lookup result.
func (s *Service) Classify(cached *domain.Preview, found, refresh bool) Freshness {
	switch {
	case !found || cached == nil:
		return Miss
	case refresh:
		return Stale
	case s.now().Sub(cached.FetchedAt) < s.ttl:
		return Fresh
	default:
		return Stale
	}
}

// GetPreview returns the preview for rawURL, fetching it when the cached entry
// is missing, expired or refresh is set.
func (s *Service) GetPreview(ctx context.Context, rawURL string, refresh bool) (*domain.Preview, error) {
	target, err := ParseTarget(rawURL)
	if err != nil {
		return nil, err
	}
	host := strings.ToLower(target.Hostname())
	if err := CheckHost(host); err != nil {
		return nil, err
	}

	key := strings.TrimSpace(rawURL)
	cached, found, err := s.store.GetPreview(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("preview lookup: %w", err)
	}

	state := s.Classify(cached, found, refresh)
	switch state {
	case Fresh:
		s.log.Debug("preview cache hit", logger.String("url", key))
		return cached, nil
	case Stale, Miss:
		s.log.Debug("preview fetch",
			logger.String("url", key),
			logger.String("state", state.String()))
	}

	p, err := s.fetch(ctx, key, host)
	if err != nil {
		return nil, err
	}
	if err := s.store.UpsertPreview(ctx, p); err != nil {
		return nil, fmt.Errorf("preview upsert: %w", err)
	}
	return p, nil
}

func (s *Service) fetch(ctx context.Context, url, host string) (*domain.Preview, error) {
	fctx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()

	res, err := s.fetcher.Fetch(fctx, url)
	if err != nil {
		return nil, classifyFetchError(fctx, err)
	}

	p := &domain.Preview{
		URL:       url,
		Title:     host,
		Domain:    host,
		FetchedAt: s.now().UTC(),
	}
	if !res.OK() || !res.IsHTML() {
		return p, nil
	}

	md := s.extractor.ExtractMetadata(string(res.Body))
	if md.Title != "" {
		p.Title = md.Title
	}
	p.Description = md.Description
	p.Image = md.Image
	return p, nil
}

func classifyFetchError(ctx context.Context, err error) error {
	if errors.Is(err, domain.ErrForbiddenHost) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", domain.ErrFetchTimeout, err)
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return fmt.Errorf("%w: %v", domain.ErrFetchTimeout, err)
	}
	return fmt.Errorf("%w: %v", domain.ErrFetchFailed, err)
}
