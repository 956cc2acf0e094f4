package main

import (
	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/kyuubik/internal/app"
	"github.com/MrSnakeDoc/kyuubik/internal/config"
	"github.com/MrSnakeDoc/kyuubik/internal/logger"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Long: `Start the HTTP API.

Configuration comes from KYUUBIK_* environment variables;
KYUUBIK_JWT_SECRET is required.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadServer()
			log := logger.New(cfg.LogLevel, cfg.PrettyLog)
			defer func() { _ = log.Sync() }()

			a, err := app.New(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			return a.Run(cmd.Context())
		},
	}
}

func botCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bot",
		Short: "Run the Telegram note bot",
		Long: `Run the Telegram note bot.

Requires KYUUBIK_TELEGRAM_TOKEN. Notes are saved for KYUUBIK_BOT_USER_ID,
or for KYUUBIK_BOT_USERNAME (default "telegram"), created when missing.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadBot()
			log := logger.New(cfg.LogLevel, cfg.PrettyLog)
			defer func() { _ = log.Sync() }()

			return app.RunBot(cmd.Context(), cfg, log)
		},
	}
}
