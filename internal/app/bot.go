package app

import (
	"context"

	"github.com/MrSnakeDoc/kyuubik/internal/bot"
	"github.com/MrSnakeDoc/kyuubik/internal/config"
	"github.com/MrSnakeDoc/kyuubik/internal/logger"
	"github.com/MrSnakeDoc/kyuubik/internal/utils"
)

// RunBot runs the Telegram bot against the configured database until ctx
// is cancelled.
func RunBot(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	store, err := OpenStore(cfg, log)
	if err != nil {
		return err
	}
	defer utils.Close(store)

	owner, err := bot.ResolveOwner(ctx, store, bot.OwnerOptions{
		UserID:   cfg.BotUserID,
		Username: cfg.BotUsername,
		Password: cfg.BotPassword,
	}, log)
	if err != nil {
		return err
	}
	log.Info("bot notes go to user", logger.Int64("user_id", owner))

	tg, err := bot.NewTelegram(cfg.TelegramToken, bot.NewCommands(store, owner, log), log)
	if err != nil {
		return err
	}
	return tg.Run(ctx)
}
