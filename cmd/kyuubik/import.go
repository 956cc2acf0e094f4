package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/kyuubik/internal/app"
	"github.com/MrSnakeDoc/kyuubik/internal/config"
	"github.com/MrSnakeDoc/kyuubik/internal/logger"
	"github.com/MrSnakeDoc/kyuubik/internal/sources/homepage"
	"github.com/MrSnakeDoc/kyuubik/internal/utils"
)

func importCmd() *cobra.Command {
	var username string

	cmd := &cobra.Command{
		Use:   "import <bookmarks|services> <file.yaml>",
		Short: "Import Homepage bookmarks or services as files",
		Long: `Import a gethomepage.dev bookmarks.yaml or services.yaml. Every link
becomes a file tagged with its category; links the user already saved
are skipped.`,
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{homepage.KindBookmarks, homepage.KindServices},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			log := logger.New(cfg.LogLevel, cfg.PrettyLog)
			defer func() { _ = log.Sync() }()

			store, err := app.OpenStore(cfg, log)
			if err != nil {
				return err
			}
			defer utils.Close(store)

			res, err := app.ImportHomepage(cmd.Context(), store, homepage.NewImporter(store, log), args[0], args[1], username)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✅ %d added, %d already saved\n", res.Added, res.Skipped)
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "user", "u", "", "owner of the imported files")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
