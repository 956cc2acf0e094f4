package scheduler

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/kyuubik/internal/domain"
	"github.com/MrSnakeDoc/kyuubik/internal/logger"
	"github.com/MrSnakeDoc/kyuubik/internal/sources/homepage"
)

type memFiles struct {
	mu    sync.Mutex
	files []domain.File
}

func (m *memFiles) FileExists(_ context.Context, owner int64, url string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, f := range m.files {
		if f.UserID == owner && f.URL == url {
			return true, nil
		}
	}
	return false, nil
}

func (m *memFiles) CreateFile(_ context.Context, f *domain.File) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files = append(m.files, *f)
	return nil
}

func (m *memFiles) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.files)
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const servicesYAML = `---
- Media:
    - Jellyfin:
        href: https://jellyfin.domain.ext
    - Sonarr:
        href: https://sonarr.domain.ext
`

func TestSyncAll(t *testing.T) {
	store := &memFiles{}
	log := logger.New("error", false)
	sources := []SyncSource{
		{Kind: homepage.KindServices, Path: writeFile(t, "services.yaml", servicesYAML)},
		{Kind: homepage.KindBookmarks, Path: "/nonexistent/bookmarks.yaml"},
	}
	hs := NewHomepageSync(sources, 4, homepage.NewImporter(store, log), log, time.Hour)

	first := hs.SyncAll(context.Background())
	assert.Equal(t, homepage.Result{Added: 2}, first)

	second := hs.SyncAll(context.Background())
	assert.Equal(t, homepage.Result{Skipped: 2}, second, "known links are skipped")

	require.Len(t, store.files, 2)
	for _, f := range store.files {
		assert.Equal(t, int64(4), f.UserID)
		assert.Equal(t, "media,service", f.Tags)
	}
}

func TestStartStop(t *testing.T) {
	store := &memFiles{}
	log := logger.New("error", false)
	path := writeFile(t, "services.yaml", servicesYAML)
	hs := NewHomepageSync([]SyncSource{{Kind: homepage.KindServices, Path: path}}, 1,
		homepage.NewImporter(store, log), log, 10*time.Millisecond)

	hs.Start(context.Background())
	require.Equal(t, 2, store.count(), "initial sync runs before Start returns")

	more := servicesYAML + `    - Radarr:
        href: https://radarr.domain.ext
`
	require.NoError(t, os.WriteFile(path, []byte(more), 0o644))

	assert.Eventually(t, func() bool { return store.count() == 3 }, 2*time.Second, 5*time.Millisecond)
	hs.Stop()
	hs.Stop()
}

func TestStopWithoutStart(t *testing.T) {
	log := logger.New("error", false)
	hs := NewHomepageSync(nil, 1, homepage.NewImporter(&memFiles{}, log), log, time.Hour)

	done := make(chan struct{})
	go func() {
		hs.Stop()
		close(done)
	}()
	assert.Eventually(t, func() bool {
		select {
		case <-done:
			return true
		default:
			return false
		}
	}, time.Second, 5*time.Millisecond, "Stop blocked without Start")
}
