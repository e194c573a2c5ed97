package cmd

import (
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/abhisek/protoquiz/internal/sessions"
	"github.com/abhisek/protoquiz/internal/telegram"
)

var botCmd = &cobra.Command{
	Use:   "bot",
	Short: "Run the Telegram bot (long polling)",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Telegram.Token == "" {
			return errors.New("PROTOQUIZ_TELEGRAM_TOKEN is required")
		}
		log := consoleLogger()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		reg, err := loadBanks()
		if err != nil {
			return err
		}
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		api, err := telegram.Connect(cfg.Telegram.Token, cfg.Telegram.Debug)
		if err != nil {
			return err
		}
		log.Info().Str("bot", api.Self.UserName).Msg("connected to telegram")

		bot := telegram.New(api, reg, sessions.New(cfg.Telegram.SessionTTL), st.EventRepo(), log)
		return bot.Run(ctx)
	},
}
