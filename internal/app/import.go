package app

import (
	"context"
	"fmt"

	"github.com/MrSnakeDoc/kyuubik/internal/sources/homepage"
	"github.com/MrSnakeDoc/kyuubik/internal/store/sqlite"
)

// ImportHomepage saves the links of a Homepage bookmarks.yaml or
// services.yaml as files of username.
func ImportHomepage(ctx context.Context, store *sqlite.Store, im *homepage.Importer, kind, path, username string) (homepage.Result, error) {
	u, err := store.UserByUsername(ctx, username)
	if err != nil {
		return homepage.Result{}, fmt.Errorf("user %q: %w", username, err)
	}
	files, err := homepage.LoadFiles(kind, path, u.ID)
	if err != nil {
		return homepage.Result{}, err
	}
	return im.Import(ctx, files)
}
