package sqlite

import (
	"context"
	"fmt"

	"github.com/MrSnakeDoc/kyuubik/internal/domain"
)

const noteColumns = `id, user_id, title, text, date, url, tags, created_at`

// ListNotes returns the owner's notes, newest date first.
func (s *Store) ListNotes(ctx context.Context, owner int64) ([]domain.Note, error) {
	return s.queryNotes(ctx,
		`SELECT `+noteColumns+` FROM notes WHERE user_id=? ORDER BY date DESC, id DESC`, owner)
}

// RecentNotes returns the last limit notes created by owner.
func (s *Store) RecentNotes(ctx context.Context, owner int64, limit int) ([]domain.Note, error) {
	return s.queryNotes(ctx,
		`SELECT `+noteColumns+` FROM notes WHERE user_id=? ORDER BY id DESC LIMIT ?`, owner, limit)
}

// GetNote returns domain.ErrNotFound unless the note exists and belongs to owner.
func (s *Store) GetNote(ctx context.Context, owner, id int64) (*domain.Note, error) {
	notes, err := s.queryNotes(ctx,
		`SELECT `+noteColumns+` FROM notes WHERE id=? AND user_id=?`, id, owner)
	if err != nil {
		return nil, err
	}
	if len(notes) == 0 {
		return nil, domain.ErrNotFound
	}
	return &notes[0], nil
}

// CreateNote inserts n and fills its ID and CreatedAt.
func (s *Store) CreateNote(ctx context.Context, n *domain.Note) error {
	n.CreatedAt = s.now().UTC()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO notes(user_id, title, text, date, url, tags, created_at) VALUES(?, ?, ?, ?, ?, ?, ?)`,
		n.UserID, n.Title, n.Text, n.Date, n.URL, n.Tags, n.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert note: %w", err)
	}
	if n.ID, err = res.LastInsertId(); err != nil {
		return fmt.Errorf("note id: %w", err)
	}
	return nil
}

// UpdateNote applies p and returns the number of rows changed (0 or 1).
func (s *Store) UpdateNote(ctx context.Context, owner, id int64, p domain.NotePatch) (int64, error) {
	var set setClause
	set.add("title", p.Title)
	set.add("text", p.Text)
	set.add("date", p.Date)
	set.add("url", p.URL)
	set.add("tags", p.Tags)
	if set.empty() {
		return 0, domain.ErrInvalidInput
	}

	args := append(set.args, id, owner)
	res, err := s.db.ExecContext(ctx, `UPDATE notes SET `+set.sql()+` WHERE id=? AND user_id=?`, args...)
	if err != nil {
		return 0, fmt.Errorf("update note: %w", err)
	}
	return res.RowsAffected()
}

// DeleteNote returns the number of rows removed (0 or 1).
func (s *Store) DeleteNote(ctx context.Context, owner, id int64) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM notes WHERE id=? AND user_id=?`, id, owner)
	if err != nil {
		return 0, fmt.Errorf("delete note: %w", err)
	}
	return res.RowsAffected()
}

func (s *Store) queryNotes(ctx context.Context, query string, args ...any) ([]domain.Note, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query notes: %w", err)
	}
	defer rows.Close()

	notes := []domain.Note{}
	for rows.Next() {
		var n domain.Note
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Text, &n.Date, &n.URL, &n.Tags, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}
