// Package httpx holds the JSON response helpers shared by handlers and middlewares.
package httpx

import (
	"encoding/json"
	"net/http"
)

// Error codes returned in {"error": "<code>"} bodies.
const (
	CodeNotFound         = "not_found"
	CodeInternal         = "internal_error"
	CodeUnauthorized     = "unauthorized"
	CodeForbidden        = "forbidden"
	CodeInvalidToken     = "invalid_token"
	CodeTooManyRequests  = "too_many_requests"
	CodeInvalidBody      = "invalid_body"
	CodeInvalidID        = "invalid_id"
	CodeInvalidName      = "invalid_name"
	CodeInvalidURL       = "invalid_url"
	CodeInvalidDate      = "invalid_date"
	CodeInvalidTime      = "invalid_time"
	CodeNothingToUpdate  = "nothing_to_update"
	CodeInvalidUsername  = "invalid_username"
	CodeInvalidPassword  = "invalid_password"
	CodeUserExists       = "user_exists"
	CodeWrongCredentials = "wrong_credentials"
	CodeForbiddenHost    = "forbidden_host"
	CodeFetchTimeout     = "fetch_timeout"
	CodeFetchFailed      = "fetch_failed"
)

type errorResponse struct {
	Error string `json:"error"`
}

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Error writes {"error": code}.
func Error(w http.ResponseWriter, status int, code string) {
	JSON(w, status, errorResponse{Error: code})
}
