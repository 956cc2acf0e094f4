package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/MrSnakeDoc/kyuubik/internal/auth"
	"github.com/MrSnakeDoc/kyuubik/internal/domain"
	"github.com/MrSnakeDoc/kyuubik/internal/store/sqlite"
)

// AddUser provisions an account from the command line.
func AddUser(ctx context.Context, store *sqlite.Store, username, password string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	if len([]rune(username)) < auth.MinUsernameLength {
		return nil, fmt.Errorf("username must have at least %d characters", auth.MinUsernameLength)
	}
	if len(password) < auth.MinPasswordLength {
		return nil, fmt.Errorf("password must have at least %d characters", auth.MinPasswordLength)
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}
	return store.CreateUser(ctx, username, hash)
}
