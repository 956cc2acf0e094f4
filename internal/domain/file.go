package domain

import (
	"strings"
	"time"
)

// UploadPathPrefix marks links to internally hosted uploads.
const UploadPathPrefix = "/u/"

// File is a saved link. Uploads are stored elsewhere and referenced by an
// UploadPathPrefix link.
type File struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	Name      string    `json:"name"`
	URL       string    `json:"url"`
	Date      string    `json:"date"`
	Tags      string    `json:"tags"`
	CreatedAt time.Time `json:"created_at"`
}

// IsUpload reports whether the file points at an internally hosted upload.
func (f File) IsUpload() bool {
	return strings.HasPrefix(f.URL, UploadPathPrefix)
}

// FilePatch carries the fields of a partial file update.
type FilePatch struct {
	Name *string
	URL  *string
	Date *string
	Tags *string
}

// Empty reports whether the patch changes nothing.
func (p FilePatch) Empty() bool {
	return p.Name == nil && p.URL == nil && p.Date == nil && p.Tags == nil
}
