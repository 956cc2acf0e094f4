package domain

import "errors"

// Preview errors.
var (
	ErrInvalidURL    = errors.New("invalid url")
	ErrForbiddenHost = errors.New("forbidden host")
	ErrFetchTimeout  = errors.New("fetch timeout")
	ErrFetchFailed   = errors.New("fetch failed")
)

// Record errors.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrInvalidInput = errors.New("invalid input")
)
