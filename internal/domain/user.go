package domain

import "time"

// User is an owning identity. Every note, file and event belongs to exactly
// one user; the preview cache does not.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
