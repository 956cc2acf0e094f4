package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MrSnakeDoc/kyuubik/internal/domain"
)

// CreateUser inserts a user. Returns domain.ErrConflict when the username is taken.
func (s *Store) CreateUser(ctx context.Context, username, passwordHash string) (*domain.User, error) {
	u := &domain.User{
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    s.now().UTC(),
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO users(username, password, created_at) VALUES(?, ?, ?)`,
		u.Username, u.PasswordHash, u.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrConflict
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	u.ID, err = res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("user id: %w", err)
	}
	return u, nil
}

// UserByUsername returns domain.ErrNotFound when no such user exists.
func (s *Store) UserByUsername(ctx context.Context, username string) (*domain.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, username, password, created_at FROM users WHERE username=?`, username)
	return scanUser(row)
}

// UserByID returns domain.ErrNotFound when no such user exists.
func (s *Store) UserByID(ctx context.Context, id int64) (*domain.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, username, password, created_at FROM users WHERE id=?`, id)
	return scanUser(row)
}

func scanUser(row scanner) (*domain.User, error) {
	var u domain.User
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &u, nil
}
