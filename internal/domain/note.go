package domain

import "time"

// Note is a short text record, optionally dated and optionally carrying a link.
type Note struct {
	// ─────────────────────────────
	// Identity
	// ─────────────────────────────

	ID     int64 `json:"id"`
	UserID int64 `json:"userId"`

	// ─────────────────────────────
	// Content
	// ─────────────────────────────

	// Title is required and stored trimmed.
	Title string `json:"title"`

	// Text is free-form markdown.
	Text string `json:"text"`

	// Date is a calendar day (YYYY-MM-DD) or empty.
	Date string `json:"date"`

	// URL is an optional link; notes with a link show up in the library.
	URL string `json:"url"`

	// Tags is the canonical comma-joined tag string.
	Tags string `json:"tags"`

	CreatedAt time.Time `json:"created_at"`
}

// NotePatch carries the fields of a partial note update. Nil means "leave as is".
type NotePatch struct {
	Title *string
	Text  *string
	Date  *string
	URL   *string
	Tags  *string
}

// Empty reports whether the patch changes nothing.
func (p NotePatch) Empty() bool {
	return p.Title == nil && p.Text == nil && p.Date == nil && p.URL == nil && p.Tags == nil
}
