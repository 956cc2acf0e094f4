package preview

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net"
	"net/http"
	"strings"
	"syscall"
	"time"

	"github.com/MrSnakeDoc/kyuubik/internal/domain"
	"github.com/MrSnakeDoc/kyuubik/internal/utils"
)

const (
	DefaultMaxBodyBytes = 200_000
	DefaultUserAgent    = "kyuubik-preview/1.0"
)

// FetchResult is the part of an HTTP response the preview service needs.
// Body is only populated for successful HTML responses.
type FetchResult struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

// OK reports a 2xx status.
func (r *FetchResult) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// IsHTML reports whether the response declares an HTML content type.
func (r *FetchResult) IsHTML() bool {
	return isHTML(r.ContentType)
}

// Fetcher performs a single GET. The deadline comes from ctx.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*FetchResult, error)
}

type FetcherOptions struct {
	MaxBodyBytes int64
	UserAgent    string
	// BlockPrivateDial refuses connections to forbidden addresses after DNS
	// resolution, which also covers redirects.
	BlockPrivateDial bool
}

// HTTPFetcher is the net/http Fetcher.
type HTTPFetcher struct {
	client  *http.Client
	maxBody int64
	ua      string
}

func NewHTTPFetcher(opts FetcherOptions) *HTTPFetcher {
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}

	dialer := &net.Dialer{Timeout: 5 * time.Second, KeepAlive: 30 * time.Second}
	if opts.BlockPrivateDial {
		dialer.Control = guardDial
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DialContext = dialer.DialContext
	transport.Proxy = nil

	return &HTTPFetcher{
		client:  &http.Client{Transport: transport},
		maxBody: opts.MaxBodyBytes,
		ua:      opts.UserAgent,
	}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (*FetchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", f.ua)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.5")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer utils.Close(resp.Body)

	res := &FetchResult{
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
	}
	if !res.OK() || !res.IsHTML() {
		return res, nil
	}

	res.Body, err = io.ReadAll(io.LimitReader(resp.Body, f.maxBody))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return res, nil
}

func guardDial(_, address string, _ syscall.RawConn) error {
	host, _, err := net.SplitHostPort(address)
	if err != nil {
		host = address
	}
	if ip := net.ParseIP(host); ip != nil && IsForbiddenIP(ip) {
		return fmt.Errorf("dial %s: %w", address, domain.ErrForbiddenHost)
	}
	return nil
}

func isHTML(contentType string) bool {
	if contentType == "" {
		return false
	}
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mt = strings.ToLower(strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0]))
	}
	return mt == "text/html" || mt == "application/xhtml+xml"
}
