// Package library builds the link-centric view over notes and files.
package library

import (
	"cmp"
	"net/url"
	"slices"
	"strings"

	"github.com/MrSnakeDoc/kyuubik/internal/domain"
)

// MaxItems caps the size of one library listing.
const MaxItems = 500

// Build merges link-bearing files and notes into library items, ordered with
// dated items first (newest date, then highest id), undated items last.
func Build(files []domain.File, notes []domain.Note) []domain.LibraryItem {
	items := make([]domain.LibraryItem, 0, len(files)+len(notes))

	for _, f := range files {
		if f.URL == "" {
			continue
		}
		items = append(items, domain.LibraryItem{
			Kind:      domain.KindFile,
			ID:        f.ID,
			Name:      f.Name,
			URL:       f.URL,
			Date:      f.Date,
			Tags:      f.Tags,
			CreatedAt: f.CreatedAt,
		})
	}
	for _, n := range notes {
		if n.URL == "" {
			continue
		}
		items = append(items, domain.LibraryItem{
			Kind:      domain.KindNote,
			ID:        n.ID,
			Name:      n.Title,
			URL:       n.URL,
			Date:      n.Date,
			Tags:      n.Tags,
			CreatedAt: n.CreatedAt,
		})
	}

	slices.SortStableFunc(items, compareItems)

	if len(items) > MaxItems {
		items = items[:MaxItems]
	}
	for i := range items {
		items[i].Domain = Domain(items[i].URL)
	}
	return items
}

func compareItems(a, b domain.LibraryItem) int {
	aDated, bDated := a.Date != "", b.Date != ""
	if aDated != bDated {
		if aDated {
			return -1
		}
		return 1
	}
	// Descending: compare b to a.
	if c := cmp.Compare(b.Date, a.Date); c != 0 {
		return c
	}
	return cmp.Compare(b.ID, a.ID)
}

// Domain derives the display domain of a link: LocalDomain for uploads, the
// hostname for absolute URLs and "" for anything unparsable.
func Domain(link string) string {
	if strings.HasPrefix(link, domain.UploadPathPrefix) {
		return domain.LocalDomain
	}
	u, err := url.Parse(link)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}
