package homepage

import (
	"errors"
	"testing"
)

func TestServicesToFiles(t *testing.T) {
	cfg := ServicesConfig{
		{
			"Media Center": []map[string]ServiceProps{
				{"Jellyfin": {Href: "https://jellyfin.domain.ext"}},
				{"Broken": {Href: "{{missing}}"}},
				{"No href": {Icon: "x.svg"}},
			},
		},
		{
			"Infrastructure": []map[string]ServiceProps{
				{"Traefik": {Href: " http://traefik.domain.ext/dashboard/ "}},
			},
		},
	}

	files, err := ServicesToFiles(cfg, 7)
	if err != nil {
		t.Fatalf("ServicesToFiles() error = %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("got %d files, want 2: %+v", len(files), files)
	}

	want := []struct{ name, url, tags string }{
		{"Jellyfin", "https://jellyfin.domain.ext", "media-center,service"},
		{"Traefik", "http://traefik.domain.ext/dashboard/", "infrastructure,service"},
	}
	for i, w := range want {
		f := files[i]
		if f.UserID != 7 || f.Name != w.name || f.URL != w.url || f.Tags != w.tags {
			t.Errorf("file %d = %+v, want %+v", i, f, w)
		}
	}
}

func TestBookmarksToFiles(t *testing.T) {
	cfg := BookmarksConfig{
		{
			"Developer": []map[string][]BookmarkEntry{
				{"Github": {{Abbr: "GH", Href: "https://github.com/"}}},
				{"Empty": {}},
				{"Local": {{Href: "file:///etc/hosts"}}},
			},
		},
	}

	files, err := BookmarksToFiles(cfg, 1)
	if err != nil {
		t.Fatalf("BookmarksToFiles() error = %v", err)
	}
	if len(files) != 1 {
		t.Fatalf("got %d files, want 1: %+v", len(files), files)
	}
	if files[0].Name != "Github" || files[0].Tags != "developer,bookmark" {
		t.Errorf("file = %+v", files[0])
	}
}

func TestMappersEmptyConfig(t *testing.T) {
	if _, err := ServicesToFiles(ServicesConfig{}, 1); !errors.Is(err, ErrNothingToImport) {
		t.Errorf("ServicesToFiles() err = %v, want ErrNothingToImport", err)
	}
	if _, err := BookmarksToFiles(BookmarksConfig{}, 1); !errors.Is(err, ErrNothingToImport) {
		t.Errorf("BookmarksToFiles() err = %v, want ErrNothingToImport", err)
	}
}
