// Package homepage imports gethomepage.dev bookmarks.yaml and services.yaml
// files as saved links.
package homepage

// ServicesConfig is services.yaml: a list of groups, each a list of
// single-key maps from service name to its properties.
type ServicesConfig []map[string][]map[string]ServiceProps

// ServiceProps holds the service fields the import uses. Widgets, pings and
// monitors are ignored.
type ServiceProps struct {
	Href        string `yaml:"href"`
	Icon        string `yaml:"icon,omitempty"`
	Description string `yaml:"description,omitempty"`
}

// BookmarkEntry is the property list of one bookmark.
type BookmarkEntry struct {
	Icon string `yaml:"icon"`
	Abbr string `yaml:"abbr"`
	Href string `yaml:"href"`
}

// BookmarksConfig is bookmarks.yaml: - Category: [ - Name: [ {abbr, href} ] ]
type BookmarksConfig []map[string][]map[string][]BookmarkEntry
