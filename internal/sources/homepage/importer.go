package homepage

import (
	"context"
	"fmt"

	"github.com/MrSnakeDoc/kyuubik/internal/domain"
	"github.com/MrSnakeDoc/kyuubik/internal/logger"
)

// FileStore is the part of the store the import writes to.
type FileStore interface {
	FileExists(ctx context.Context, owner int64, url string) (bool, error)
	CreateFile(ctx context.Context, f *domain.File) error
}

// Result counts what an import did.
type Result struct {
	Added   int
	Skipped int
}

// Importer saves mapped files, skipping links the owner already has.
type Importer struct {
	store FileStore
	log   logger.Logger
}

func NewImporter(store FileStore, log logger.Logger) *Importer {
	return &Importer{store: store, log: log}
}

// Import stores files in order. It stops at the first store error and
// returns the counts so far.
func (im *Importer) Import(ctx context.Context, files []domain.File) (Result, error) {
	var res Result
	for i := range files {
		f := files[i]
		exists, err := im.store.FileExists(ctx, f.UserID, f.URL)
		if err != nil {
			return res, fmt.Errorf("check %s: %w", f.URL, err)
		}
		if exists {
			im.log.Debug("link already saved", logger.String("url", f.URL))
			res.Skipped++
			continue
		}
		if err := im.store.CreateFile(ctx, &f); err != nil {
			return res, fmt.Errorf("save %s: %w", f.URL, err)
		}
		res.Added++
	}
	im.log.Info("homepage import done", logger.Int("added", res.Added), logger.Int("skipped", res.Skipped))
	return res, nil
}
