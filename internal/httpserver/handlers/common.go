package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/MrSnakeDoc/kyuubik/internal/auth"
	"github.com/MrSnakeDoc/kyuubik/internal/httpserver/deps"
	"github.com/MrSnakeDoc/kyuubik/internal/httpserver/httpx"
	"github.com/MrSnakeDoc/kyuubik/internal/logger"
	"github.com/MrSnakeDoc/kyuubik/internal/taxonomy"
)

const maxBodyBytes = 1 << 20

// body is a decoded JSON object. Fields are inspected one by one so that a
// wrong type maps to the matching error code instead of a generic 400.
type body map[string]any

func decodeBody(w http.ResponseWriter, r *http.Request) (body, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var b body
	if err := json.NewDecoder(r.Body).Decode(&b); err != nil || b == nil {
		httpx.Error(w, http.StatusBadRequest, httpx.CodeInvalidBody)
		return nil, false
	}
	return b, true
}

// str returns the field as a string. present is false when the key is absent
// or null; ok is false when it is present with another type.
func (b body) str(key string) (val string, present, ok bool) {
	raw, exists := b[key]
	if !exists || raw == nil {
		return "", false, true
	}
	s, isStr := raw.(string)
	if !isStr {
		return "", true, false
	}
	return s, true, true
}

// tags returns the normalized tags field and whether it was sent at all.
func (b body) tags() (string, bool) {
	raw, exists := b["tags"]
	if !exists {
		return "", false
	}
	return taxonomy.Normalize(raw), true
}

func validDate(s string) bool {
	if len(s) != len("2006-01-02") {
		return false
	}
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

func validClock(s string) bool {
	if len(s) != len("15:04") {
		return false
	}
	_, err := time.Parse("15:04", s)
	return err == nil
}

// optDate reads an optional YYYY-MM-DD field. Empty means "no date".
func (b body) optDate(key string) (val string, present, ok bool) {
	s, present, ok := b.str(key)
	if !ok {
		return "", present, false
	}
	s = strings.TrimSpace(s)
	if s != "" && !validDate(s) {
		return "", present, false
	}
	return s, present, true
}

// optClock reads an optional HH:MM field.
func (b body) optClock(key string) (val string, present, ok bool) {
	s, present, ok := b.str(key)
	if !ok {
		return "", present, false
	}
	s = strings.TrimSpace(s)
	if s != "" && !validClock(s) {
		return "", present, false
	}
	return s, present, true
}

func identity(r *http.Request) *auth.Identity {
	id, _ := auth.FromContext(r.Context())
	return id
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.Error(w, http.StatusBadRequest, httpx.CodeInvalidID)
		return 0, false
	}
	return id, true
}

// internalError logs err and answers 500.
func internalError(d deps.Deps, w http.ResponseWriter, r *http.Request, op string, err error) {
	d.Logger.Error("request failed",
		logger.String("op", op),
		logger.String("path", r.URL.Path),
		logger.String("request_id", middleware.GetReqID(r.Context())),
		logger.Error(err))
	httpx.Error(w, http.StatusInternalServerError, httpx.CodeInternal)
}

type countResponse struct {
	Updated *int64 `json:"updated,omitempty"`
	Deleted *int64 `json:"deleted,omitempty"`
}

// NotFound answers unknown /api routes with a JSON 404 and everything else
// with the plain net/http 404.
func NotFound() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api" || strings.HasPrefix(r.URL.Path, "/api/") {
			httpx.Error(w, http.StatusNotFound, httpx.CodeNotFound)
			return
		}
		http.NotFound(w, r)
	}
}
