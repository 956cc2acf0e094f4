package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MrSnakeDoc/kyuubik/internal/domain"
)

// GetPreview looks up the cached preview for url.
func (s *Store) GetPreview(ctx context.Context, url string) (*domain.Preview, bool, error) {
	var p domain.Preview
	err := s.db.QueryRowContext(ctx,
		`SELECT url, title, description, image, domain, fetched_at FROM link_previews WHERE url=?`, url).
		Scan(&p.URL, &p.Title, &p.Description, &p.Image, &p.Domain, &p.FetchedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("get preview: %w", err)
	}
	return &p, true, nil
}

// UpsertPreview inserts p or overwrites every field of the existing entry.
func (s *Store) UpsertPreview(ctx context.Context, p *domain.Preview) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO link_previews(url, title, description, image, domain, fetched_at)
		VALUES(?, ?, ?, ?, ?, ?)
		ON CONFLICT(url) DO UPDATE SET
			title=excluded.title,
			description=excluded.description,
			image=excluded.image,
			domain=excluded.domain,
			fetched_at=excluded.fetched_at`,
		p.URL, p.Title, p.Description, p.Image, p.Domain, p.FetchedAt.UTC())
	if err != nil {
		return fmt.Errorf("upsert preview: %w", err)
	}
	return nil
}

// CountPreviews returns the number of cached previews.
func (s *Store) CountPreviews(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM link_previews`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count previews: %w", err)
	}
	return n, nil
}
