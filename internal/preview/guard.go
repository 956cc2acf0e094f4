package preview

import (
	"fmt"
	"net"
	"net/url"
	"regexp"
	"strings"

	"github.com/MrSnakeDoc/kyuubik/internal/domain"
	"github.com/MrSnakeDoc/kyuubik/internal/utils"
)

var schemeRe = regexp.MustCompile(`(?i)^https?://`)

// Loopback and RFC 1918 ranges a preview may never target.
var forbiddenNets = utils.NewIPMatcher([]string{
	"127.0.0.0/8",
	"::1",
	"10.0.0.0/8",
	"172.16.0.0/12",
	"192.168.0.0/16",
})

// ParseTarget trims raw and checks that it is an absolute http(s) URL with a host.
func ParseTarget(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if !schemeRe.MatchString(raw) {
		return nil, domain.ErrInvalidURL
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidURL, err)
	}
	if u.Hostname() == "" {
		return nil, domain.ErrInvalidURL
	}
	return u, nil
}

// CheckHost rejects localhost names and literal addresses in forbidden ranges.
// It looks at the host as written and performs no DNS lookup.
func CheckHost(host string) error {
	h := strings.TrimSuffix(strings.ToLower(strings.TrimSpace(host)), ".")
	if h == "localhost" || strings.HasSuffix(h, ".localhost") {
		return domain.ErrForbiddenHost
	}
	if ip := net.ParseIP(h); ip != nil && forbiddenNets.Contains(ip) {
		return domain.ErrForbiddenHost
	}
	return nil
}

// IsForbiddenIP reports whether ip falls inside a forbidden range.
func IsForbiddenIP(ip net.IP) bool {
	return forbiddenNets.Contains(ip)
}
