package sqlite

import (
	"context"
	"fmt"

	"github.com/MrSnakeDoc/kyuubik/internal/domain"
)

const fileColumns = `id, user_id, name, url, date, tags, created_at`

// ListFiles returns the owner's files, newest date first.
func (s *Store) ListFiles(ctx context.Context, owner int64) ([]domain.File, error) {
	return s.queryFiles(ctx,
		`SELECT `+fileColumns+` FROM files WHERE user_id=? ORDER BY date DESC, id DESC`, owner)
}

// GetFile returns domain.ErrNotFound unless the file exists and belongs to owner.
func (s *Store) GetFile(ctx context.Context, owner, id int64) (*domain.File, error) {
	files, err := s.queryFiles(ctx,
		`SELECT `+fileColumns+` FROM files WHERE id=? AND user_id=?`, id, owner)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, domain.ErrNotFound
	}
	return &files[0], nil
}

// CreateFile inserts f and fills its ID and CreatedAt.
func (s *Store) CreateFile(ctx context.Context, f *domain.File) error {
	f.CreatedAt = s.now().UTC()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO files(user_id, name, url, date, tags, created_at) VALUES(?, ?, ?, ?, ?, ?)`,
		f.UserID, f.Name, f.URL, f.Date, f.Tags, f.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert file: %w", err)
	}
	if f.ID, err = res.LastInsertId(); err != nil {
		return fmt.Errorf("file id: %w", err)
	}
	return nil
}

// FileExists reports whether owner already has a file pointing at url.
func (s *Store) FileExists(ctx context.Context, owner int64, url string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM files WHERE user_id=? AND url=?`, owner, url).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("file exists: %w", err)
	}
	return n > 0, nil
}

// UpdateFile applies p and returns the number of rows changed (0 or 1).
func (s *Store) UpdateFile(ctx context.Context, owner, id int64, p domain.FilePatch) (int64, error) {
	var set setClause
	set.add("name", p.Name)
	set.add("url", p.URL)
	set.add("date", p.Date)
	set.add("tags", p.Tags)
	if set.empty() {
		return 0, domain.ErrInvalidInput
	}

	args := append(set.args, id, owner)
	res, err := s.db.ExecContext(ctx, `UPDATE files SET `+set.sql()+` WHERE id=? AND user_id=?`, args...)
	if err != nil {
		return 0, fmt.Errorf("update file: %w", err)
	}
	return res.RowsAffected()
}

// DeleteFile returns the number of rows removed (0 or 1).
func (s *Store) DeleteFile(ctx context.Context, owner, id int64) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM files WHERE id=? AND user_id=?`, id, owner)
	if err != nil {
		return 0, fmt.Errorf("delete file: %w", err)
	}
	return res.RowsAffected()
}

func (s *Store) queryFiles(ctx context.Context, query string, args ...any) ([]domain.File, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query files: %w", err)
	}
	defer rows.Close()

	files := []domain.File{}
	for rows.Next() {
		var f domain.File
		if err := rows.Scan(&f.ID, &f.UserID, &f.Name, &f.URL, &f.Date, &f.Tags, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan file: %w", err)
		}
		files = append(files, f)
	}
	return files, rows.Err()
}
