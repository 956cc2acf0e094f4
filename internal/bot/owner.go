package bot

import (
	"context"
	"errors"
	"fmt"

	"github.com/MrSnakeDoc/kyuubik/internal/auth"
	"github.com/MrSnakeDoc/kyuubik/internal/domain"
	"github.com/MrSnakeDoc/kyuubik/internal/logger"
)

// UserStore is the part of the store used to find or create the bot's user.
type UserStore interface {
	UserByID(ctx context.Context, id int64) (*domain.User, error)
	UserByUsername(ctx context.Context, username string) (*domain.User, error)
	CreateUser(ctx context.Context, username, passwordHash string) (*domain.User, error)
}

// OwnerOptions selects the account notes are saved to.
type OwnerOptions struct {
	UserID   int64  // used as is when > 0
	Username string // otherwise this account, created when missing
	Password string // password for a created account, random when empty
}

// ResolveOwner returns the id of the account the bot writes to.
func ResolveOwner(ctx context.Context, users UserStore, opts OwnerOptions, log logger.Logger) (int64, error) {
	if opts.UserID > 0 {
		if _, err := users.UserByID(ctx, opts.UserID); err != nil {
			return 0, fmt.Errorf("bot user %d: %w", opts.UserID, err)
		}
		return opts.UserID, nil
	}

	u, err := users.UserByUsername(ctx, opts.Username)
	if err == nil {
		return u.ID, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return 0, fmt.Errorf("look up bot user: %w", err)
	}

	password := opts.Password
	if password == "" {
		if password, err = auth.RandomPassword(12); err != nil {
			return 0, err
		}
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return 0, err
	}
	u, err = users.CreateUser(ctx, opts.Username, hash)
	if err != nil {
		return 0, fmt.Errorf("create bot user: %w", err)
	}
	if opts.Password == "" {
		log.Warn("created bot user with a random password, set KYUUBIK_BOT_PASSWORD to control it",
			logger.String("username", u.Username))
	}
	return u.ID, nil
}
