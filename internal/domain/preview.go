package domain

import "time"

// Preview is the cached metadata summary of a URL.
//
// It is keyed by the literal URL string and shared by every user: two users
// asking for the same URL read and overwrite the same entry.
type Preview struct {
	URL         string    `json:"url"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Image       string    `json:"image"`
	Domain      string    `json:"domain"`
	FetchedAt   time.Time `json:"fetchedAt"`
}
