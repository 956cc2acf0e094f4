package bot

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/MrSnakeDoc/kyuubik/internal/logger"
)

// Sender is the outgoing half of the Telegram API.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Telegram feeds Telegram updates to Commands.
type Telegram struct {
	api      *tgbotapi.BotAPI
	commands *Commands
	log      logger.Logger
}

// NewTelegram authenticates against the Bot API with token.
func NewTelegram(token string, commands *Commands, log logger.Logger) (*Telegram, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	log.Info("telegram bot authorized", logger.String("account", api.Self.UserName))
	return &Telegram{api: api, commands: commands, log: log}, nil
}

// Run long-polls for updates until ctx is done.
func (t *Telegram) Run(ctx context.Context) error {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = 30
	updates := t.api.GetUpdatesChan(cfg)
	defer t.api.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			t.log.Info("telegram bot stopping")
			return nil
		case u, ok := <-updates:
			if !ok {
				return nil
			}
			dispatch(ctx, t.api, t.commands, u, t.log)
		}
	}
}

// dispatch answers a single update. Non-command messages are ignored.
func dispatch(ctx context.Context, out Sender, commands *Commands, u tgbotapi.Update, log logger.Logger) {
	msg := u.Message
	if msg == nil || !msg.IsCommand() {
		return
	}
	text, ok := commands.Handle(ctx, msg.Command(), msg.CommandArguments())
	if !ok {
		return
	}
	reply := tgbotapi.NewMessage(msg.Chat.ID, text)
	reply.ReplyToMessageID = msg.MessageID
	if _, err := out.Send(reply); err != nil {
		log.Warn("telegram send failed", logger.Int64("chat_id", msg.Chat.ID), logger.Error(err))
	}
}
