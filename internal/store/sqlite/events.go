package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/MrSnakeDoc/kyuubik/internal/domain"
)

const eventColumns = `id, user_id, uid, title, date, time_start, time_end, description, tags, created_at`

// ListEvents returns the owner's events with from <= date <= to, in calendar
// order. Empty bounds are open.
func (s *Store) ListEvents(ctx context.Context, owner int64, from, to string) ([]domain.Event, error) {
	var (
		where = []string{"user_id=?"}
		args  = []any{owner}
	)
	if from != "" {
		where = append(where, "date >= ?")
		args = append(args, from)
	}
	if to != "" {
		where = append(where, "date <= ?")
		args = append(args, to)
	}
	query := `SELECT ` + eventColumns + ` FROM events WHERE ` + strings.Join(where, " AND ") +
		` ORDER BY date ASC, time_start ASC, id ASC`
	return s.queryEvents(ctx, query, args...)
}

// GetEvent returns domain.ErrNotFound unless the event exists and belongs to owner.
func (s *Store) GetEvent(ctx context.Context, owner, id int64) (*domain.Event, error) {
	events, err := s.queryEvents(ctx,
		`SELECT `+eventColumns+` FROM events WHERE id=? AND user_id=?`, id, owner)
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, domain.ErrNotFound
	}
	return &events[0], nil
}

// CreateEvent inserts e, assigning a UID when it has none.
func (s *Store) CreateEvent(ctx context.Context, e *domain.Event) error {
	if e.UID == "" {
		e.UID = uuid.NewString()
	}
	e.CreatedAt = s.now().UTC()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO events(user_id, uid, title, date, time_start, time_end, description, tags, created_at)
		 VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.UserID, e.UID, e.Title, e.Date, e.TimeStart, e.TimeEnd, e.Description, e.Tags, e.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("insert event: %w", err)
	}
	if e.ID, err = res.LastInsertId(); err != nil {
		return fmt.Errorf("event id: %w", err)
	}
	return nil
}

// UpdateEvent applies p and returns the number of rows changed (0 or 1).
func (s *Store) UpdateEvent(ctx context.Context, owner, id int64, p domain.EventPatch) (int64, error) {
	var set setClause
	set.add("title", p.Title)
	set.add("date", p.Date)
	set.add("time_start", p.TimeStart)
	set.add("time_end", p.TimeEnd)
	set.add("description", p.Description)
	set.add("tags", p.Tags)
	if set.empty() {
		return 0, domain.ErrInvalidInput
	}

	args := append(set.args, id, owner)
	res, err := s.db.ExecContext(ctx, `UPDATE events SET `+set.sql()+` WHERE id=? AND user_id=?`, args...)
	if err != nil {
		return 0, fmt.Errorf("update event: %w", err)
	}
	return res.RowsAffected()
}

// DeleteEvent returns the number of rows removed (0 or 1).
func (s *Store) DeleteEvent(ctx context.Context, owner, id int64) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM events WHERE id=? AND user_id=?`, id, owner)
	if err != nil {
		return 0, fmt.Errorf("delete event: %w", err)
	}
	return res.RowsAffected()
}

func (s *Store) queryEvents(ctx context.Context, query string, args ...any) ([]domain.Event, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	events := []domain.Event{}
	for rows.Next() {
		var e domain.Event
		if err := rows.Scan(&e.ID, &e.UserID, &e.UID, &e.Title, &e.Date, &e.TimeStart, &e.TimeEnd,
			&e.Description, &e.Tags, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
