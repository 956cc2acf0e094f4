package mw

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/MrSnakeDoc/kyuubik/internal/auth"
	"github.com/MrSnakeDoc/kyuubik/internal/domain"
	"github.com/MrSnakeDoc/kyuubik/internal/logger"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestRateLimit(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	h := RateLimit(RateLimitConfig{
		Burst:             2,
		RefillPerIPPerMin: 2,
		Now:               func() time.Time { return now },
	})(okHandler)

	do := func(remote string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/login", nil)
		req.RemoteAddr = remote
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	for i := 0; i < 2; i++ {
		if rec := do("203.0.113.5:1234"); rec.Code != http.StatusOK {
			t.Fatalf("request %d: status %d", i, rec.Code)
		}
	}
	rec := do("203.0.113.5:1234")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("third request: status %d", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("missing Retry-After")
	}
	if !strings.Contains(rec.Body.String(), `"too_many_requests"`) {
		t.Errorf("body = %s", rec.Body.String())
	}

	// Other clients have their own bucket.
	if rec := do("198.51.100.7:1"); rec.Code != http.StatusOK {
		t.Errorf("other client: status %d", rec.Code)
	}

	// A minute refills the bucket.
	now = now.Add(time.Minute)
	if rec := do("203.0.113.5:1234"); rec.Code != http.StatusOK {
		t.Errorf("after refill: status %d", rec.Code)
	}
}

func TestRequireAuth(t *testing.T) {
	tokens := auth.NewTokens("secret", time.Hour)
	token, err := tokens.Sign(&domain.User{ID: 3, Username: "carol"})
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}

	var seen *auth.Identity
	h := RequireAuth(tokens, logger.New("error", false))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = auth.FromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name     string
		setup    func(r *http.Request)
		wantCode int
		wantBody string
	}{
		{"no credentials", func(*http.Request) {}, http.StatusUnauthorized, "unauthorized"},
		{"bearer", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) }, http.StatusOK, ""},
		{"cookie", func(r *http.Request) { r.AddCookie(&http.Cookie{Name: SessionCookie, Value: token}) }, http.StatusOK, ""},
		{"bad token", func(r *http.Request) { r.Header.Set("Authorization", "Bearer nope") }, http.StatusUnauthorized, "invalid_token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = nil
			req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
			tt.setup(req)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantCode)
			}
			if tt.wantBody != "" && !strings.Contains(rec.Body.String(), tt.wantBody) {
				t.Errorf("body = %s", rec.Body.String())
			}
			if tt.wantCode == http.StatusOK && (seen == nil || seen.ID != 3) {
				t.Errorf("identity = %+v", seen)
			}
		})
	}
}

func TestAllowOnlyCIDRS(t *testing.T) {
	log := logger.New("error", false)
	h := AllowOnlyCIDRS([]string{"10.0.0.0/8", "192.0.2.1"}, false, log)(okHandler)

	for remote, want := range map[string]int{
		"10.1.2.3:5000":  http.StatusOK,
		"192.0.2.1:80":   http.StatusOK,
		"203.0.113.9:80": http.StatusForbidden,
	} {
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		req.RemoteAddr = remote
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != want {
			t.Errorf("%s: status = %d, want %d", remote, rec.Code, want)
		}
		if want == http.StatusForbidden && !strings.Contains(rec.Body.String(), `"forbidden"`) {
			t.Errorf("%s: body = %s", remote, rec.Body.String())
		}
	}

	pass := AllowOnlyCIDRS(nil, false, log)(okHandler)
	rec := httptest.NewRecorder()
	pass.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("empty list should pass through, got %d", rec.Code)
	}
}

func TestEnforceHost(t *testing.T) {
	h := EnforceHost([]string{"notes.example.com", "*.example.org"}, logger.New("error", false))(okHandler)
	for host, want := range map[string]int{
		"notes.example.com":      http.StatusOK,
		"NOTES.Example.com:8443": http.StatusOK,
		"a.example.org":          http.StatusOK,
		"b.a.example.org:80":     http.StatusOK,
		"example.org":            http.StatusForbidden,
		"evil.example.net":       http.StatusForbidden,
		"notes.example.com.evil": http.StatusForbidden,
	} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Host = host
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != want {
			t.Errorf("%s: status = %d, want %d", host, rec.Code, want)
		}
	}
}

func TestCORS(t *testing.T) {
	h := CORS([]string{"https://app.example.com"}, logger.New("error", false))(okHandler)

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.Header.Set("Origin", "https://app.example.com")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Header().Get("Access-Control-Allow-Origin") != "https://app.example.com" {
		t.Errorf("allowed origin not echoed: %v", rec.Header())
	}
	if rec.Header().Get("Access-Control-Allow-Credentials") != "true" {
		t.Error("credentials not allowed")
	}

	req = httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Error("foreign origin allowed")
	}
}

func TestLog(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	log := logger.FromZap(zap.New(core))

	tokens := auth.NewTokens("secret", time.Hour)
	token, err := tokens.Sign(&domain.User{ID: 7, Username: "dave"})
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}

	h := middleware.RequestID(Log(log, true)(RequireAuth(tokens, log)(okHandler)))

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	h.ServeHTTP(httptest.NewRecorder(), req)

	req = httptest.NewRequest(http.MethodGet, "/api/me", nil)
	h.ServeHTTP(httptest.NewRecorder(), req)

	entries := logs.FilterMessage("http_request").All()
	if len(entries) != 2 {
		t.Fatalf("got %d access log lines, want 2", len(entries))
	}

	first := entries[0].ContextMap()
	if first["user_id"] != int64(7) {
		t.Errorf("user_id = %v", first["user_id"])
	}
	if first["client_ip"] != "203.0.113.7" {
		t.Errorf("client_ip = %v", first["client_ip"])
	}
	if first["status"] != int64(http.StatusOK) {
		t.Errorf("status = %v", first["status"])
	}
	if id, _ := first["request_id"].(string); id == "" {
		t.Error("request_id missing")
	}

	second := entries[1].ContextMap()
	if _, ok := second["user_id"]; ok {
		t.Errorf("anonymous request logged user_id %v", second["user_id"])
	}
	if second["status"] != int64(http.StatusUnauthorized) {
		t.Errorf("status = %v", second["status"])
	}
}
