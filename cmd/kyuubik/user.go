package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/MrSnakeDoc/kyuubik/internal/app"
	"github.com/MrSnakeDoc/kyuubik/internal/config"
	"github.com/MrSnakeDoc/kyuubik/internal/logger"
	"github.com/MrSnakeDoc/kyuubik/internal/utils"
)

func userCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage accounts",
	}
	cmd.AddCommand(userAddCmd())
	return cmd
}

func userAddCmd() *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "add <username>",
		Short: "Create an account",
		Long: `Create an account. The password is prompted for unless --password
or KYUUBIK_USER_PASSWORD is set.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			log := logger.New(cfg.LogLevel, cfg.PrettyLog)

			if password == "" {
				password = os.Getenv("KYUUBIK_USER_PASSWORD")
			}
			if password == "" {
				var err error
				if password, err = promptNewPassword(); err != nil {
					return err
				}
			}

			store, err := app.OpenStore(cfg, log)
			if err != nil {
				return err
			}
			defer utils.Close(store)

			u, err := app.AddUser(cmd.Context(), store, args[0], password)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✅ created user %s (id %d)\n", u.Username, u.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&password, "password", "p", "", "password (prompted when empty)")
	return cmd
}

func promptNewPassword() (string, error) {
	first, err := promptPassword("Password: ")
	if err != nil {
		return "", err
	}
	second, err := promptPassword("Repeat password: ")
	if err != nil {
		return "", err
	}
	if first != second {
		return "", errors.New("passwords do not match")
	}
	return first, nil
}

func promptPassword(prompt string) (string, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return "", errors.New("stdin is not a terminal, use --password")
	}
	fmt.Fprint(os.Stderr, prompt)
	pass, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimSpace(string(pass)), nil
}
