package sqlite

import (
	"context"
	"fmt"

	"github.com/MrSnakeDoc/kyuubik/internal/domain"
	"github.com/MrSnakeDoc/kyuubik/internal/library"
	"github.com/MrSnakeDoc/kyuubik/internal/taxonomy"
)

// TagStrings returns the raw tags column of every note, file and event of owner.
func (s *Store) TagStrings(ctx context.Context, owner int64) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT tags FROM notes WHERE user_id=?
		UNION ALL
		SELECT tags FROM files WHERE user_id=?
		UNION ALL
		SELECT tags FROM events WHERE user_id=?`, owner, owner, owner)
	if err != nil {
		return nil, fmt.Errorf("query tags: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var tags string
		if err := rows.Scan(&tags); err != nil {
			return nil, fmt.Errorf("scan tags: %w", err)
		}
		out = append(out, tags)
	}
	return out, rows.Err()
}

// ListTags returns the sorted tag vocabulary of owner.
func (s *Store) ListTags(ctx context.Context, owner int64) ([]string, error) {
	stored, err := s.TagStrings(ctx, owner)
	if err != nil {
		return nil, err
	}
	return taxonomy.Aggregate(stored), nil
}

// ListLibrary returns the link-bearing notes and files of owner.
func (s *Store) ListLibrary(ctx context.Context, owner int64) ([]domain.LibraryItem, error) {
	files, err := s.queryFiles(ctx,
		`SELECT `+fileColumns+` FROM files WHERE user_id=? AND url <> ''`, owner)
	if err != nil {
		return nil, err
	}
	notes, err := s.queryNotes(ctx,
		`SELECT `+noteColumns+` FROM notes WHERE user_id=? AND url <> ''`, owner)
	if err != nil {
		return nil, err
	}
	return library.Build(files, notes), nil
}
