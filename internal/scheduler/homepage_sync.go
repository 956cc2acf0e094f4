// Package scheduler runs background jobs next to the HTTP server.
package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/MrSnakeDoc/kyuubik/internal/logger"
	"github.com/MrSnakeDoc/kyuubik/internal/sources/homepage"
)

// SyncSource is one Homepage file to mirror.
type SyncSource struct {
	Kind string // homepage.KindBookmarks or homepage.KindServices
	Path string
}

// HomepageSync periodically imports Homepage files into an owner's files.
// Links already saved are skipped, so removing a link from the YAML does
// not delete it.
type HomepageSync struct {
	sources  []SyncSource
	owner    int64
	importer *homepage.Importer
	logger   logger.Logger
	interval time.Duration

	started  atomic.Bool
	stopOnce sync.Once
	stopCh   chan struct{}
	doneCh   chan struct{}
}

func NewHomepageSync(sources []SyncSource, owner int64, importer *homepage.Importer, log logger.Logger, interval time.Duration) *HomepageSync {
	return &HomepageSync{
		sources:  sources,
		owner:    owner,
		importer: importer,
		logger:   log,
		interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start syncs once, then every interval until Stop or ctx is done. A failed
// first sync is logged, not fatal: the files may appear later.
func (hs *HomepageSync) Start(ctx context.Context) {
	hs.started.Store(true)
	hs.SyncAll(ctx)

	ticker := time.NewTicker(hs.interval)
	go func() {
		defer close(hs.doneCh)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				hs.SyncAll(ctx)
			case <-hs.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop ends the loop and waits for a running sync to finish.
func (hs *HomepageSync) Stop() {
	hs.stopOnce.Do(func() { close(hs.stopCh) })
	if hs.started.Load() {
		<-hs.doneCh
	}
}

// SyncAll imports every source and returns the summed result.
func (hs *HomepageSync) SyncAll(ctx context.Context) homepage.Result {
	var total homepage.Result
	for _, src := range hs.sources {
		res, err := hs.sync(ctx, src)
		total.Added += res.Added
		total.Skipped += res.Skipped
		if err != nil {
			hs.logger.Error("homepage sync failed",
				logger.String("kind", src.Kind),
				logger.String("path", src.Path),
				logger.Error(err))
		}
	}
	return total
}

func (hs *HomepageSync) sync(ctx context.Context, src SyncSource) (homepage.Result, error) {
	files, err := homepage.LoadFiles(src.Kind, src.Path, hs.owner)
	if err != nil {
		return homepage.Result{}, err
	}
	return hs.importer.Import(ctx, files)
}
