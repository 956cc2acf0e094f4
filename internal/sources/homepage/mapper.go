package homepage

import (
	"errors"
	"fmt"
	"maps"
	"net/url"
	"slices"
	"strings"

	"github.com/MrSnakeDoc/kyuubik/internal/domain"
	"github.com/MrSnakeDoc/kyuubik/internal/taxonomy"
)

// Tags added to every imported record, next to the category name.
const (
	TagBookmark = "bookmark"
	TagService  = "service"
)

var ErrNothingToImport = errors.New("no importable links found")

// ServicesToFiles maps every service with an http(s) href to a file owned
// by owner, tagged with its group name.
func ServicesToFiles(cfg ServicesConfig, owner int64) ([]domain.File, error) {
	var files []domain.File
	for _, group := range cfg {
		for _, groupName := range sortedKeys(group) {
			for _, entry := range group[groupName] {
				for _, name := range sortedKeys(entry) {
					props := entry[name]
					if !importable(props.Href) {
						continue
					}
					files = append(files, domain.File{
						UserID: owner,
						Name:   strings.TrimSpace(name),
						URL:    strings.TrimSpace(props.Href),
						Tags:   taxonomy.Normalize([]any{groupName, TagService}),
					})
				}
			}
		}
	}
	if len(files) == 0 {
		return nil, ErrNothingToImport
	}
	return files, nil
}

// BookmarksToFiles maps bookmarks to files tagged with their category name.
// The name is the bookmark key; abbr is only used when the key is blank.
func BookmarksToFiles(cfg BookmarksConfig, owner int64) ([]domain.File, error) {
	var files []domain.File
	for _, category := range cfg {
		for _, categoryName := range sortedKeys(category) {
			for _, entry := range category[categoryName] {
				for _, name := range sortedKeys(entry) {
					props := entry[name]
					if len(props) == 0 || !importable(props[0].Href) {
						continue
					}
					title := strings.TrimSpace(name)
					if title == "" {
						title = props[0].Abbr
					}
					files = append(files, domain.File{
						UserID: owner,
						Name:   title,
						URL:    strings.TrimSpace(props[0].Href),
						Tags:   taxonomy.Normalize([]any{categoryName, TagBookmark}),
					})
				}
			}
		}
	}
	if len(files) == 0 {
		return nil, ErrNothingToImport
	}
	return files, nil
}

func importable(href string) bool {
	u, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Hostname() != ""
}

// sortedKeys gives a stable order to the single-key maps YAML produces.
func sortedKeys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}

// Homepage file kinds.
const (
	KindBookmarks = "bookmarks"
	KindServices  = "services"
)

// LoadFiles reads a Homepage file of the given kind and maps it to files
// owned by owner.
func LoadFiles(kind, path string, owner int64) ([]domain.File, error) {
	switch kind {
	case KindBookmarks:
		cfg, err := LoadBookmarks(path)
		if err != nil {
			return nil, err
		}
		return BookmarksToFiles(cfg, owner)
	case KindServices:
		cfg, err := LoadServices(path)
		if err != nil {
			return nil, err
		}
		return ServicesToFiles(cfg, owner)
	default:
		return nil, fmt.Errorf("unknown homepage file kind %q", kind)
	}
}
