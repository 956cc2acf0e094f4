package domain

import "time"

// Library item kinds.
const (
	KindFile = "file"
	KindNote = "note"
)

// LocalDomain is the domain reported for internally hosted uploads.
const LocalDomain = "local"

// LibraryItem is a read-only view over a link-bearing note or file.
type LibraryItem struct {
	Kind      string    `json:"kind"`
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	URL       string    `json:"url"`
	Date      string    `json:"date"`
	Tags      string    `json:"tags"`
	Domain    string    `json:"domain"`
	CreatedAt time.Time `json:"created_at"`
}
