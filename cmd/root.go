package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/abhisek/protoquiz/internal/bank"
	"github.com/abhisek/protoquiz/internal/config"
	"github.com/abhisek/protoquiz/internal/llm"
	"github.com/abhisek/protoquiz/internal/logging"
	"github.com/abhisek/protoquiz/internal/store"
	"github.com/abhisek/protoquiz/internal/tutor"
)

// cfg is filled by the root PersistentPreRunE before any command runs.
var cfg *config.App

var rootCmd = &cobra.Command{
	Use:   "protoquiz",
	Short: "Quizzes on industrial protocols",
	Long: `protoquiz runs multiple-choice quizzes on Modbus RTU and Modbus TCP.

The same quiz engine is served in the terminal, over HTTP and as a Telegram bot.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI(cmd, "")
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Database path or postgres:// URL (overrides PROTOQUIZ_DB)")
	rootCmd.PersistentFlags().String("bank-dir", "", "Directory with extra bank files (overrides PROTOQUIZ_BANK_DIR)")
	rootCmd.PersistentFlags().String("env-file", ".env", "dotenv file to load before reading the environment")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(botCmd)
	rootCmd.AddCommand(banksCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(updateCmd)
}

// loadConfig reads .env and the environment, then applies flag overrides.
func loadConfig(cmd *cobra.Command, args []string) error {
	envFile, _ := cmd.Flags().GetString("env-file")
	c, err := config.Load(envFile)
	if err != nil {
		return err
	}
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		c.DB = p
	}
	if d, _ := cmd.Flags().GetString("bank-dir"); d != "" {
		c.BankDir = d
	}
	cfg = c
	return nil
}

// consoleLogger logs to stderr for the non-interactive commands.
func consoleLogger() zerolog.Logger {
	return logging.New(os.Stderr, cfg.Env, cfg.LogLevel)
}

// openStore opens the configured database, falling back to the XDG data
// path when none is set.
func openStore() (*store.Store, error) {
	dsn := cfg.DB
	if dsn == "" {
		p, err := store.DefaultDBPath()
		if err != nil {
			return nil, fmt.Errorf("resolve DB path: %w", err)
		}
		dsn = p
	} else if !strings.HasPrefix(dsn, "postgres://") && !strings.HasPrefix(dsn, "postgresql://") &&
		!strings.HasPrefix(dsn, "file:") {
		if err := os.MkdirAll(filepath.Dir(dsn), 0o755); err != nil {
			return nil, fmt.Errorf("create DB dir: %w", err)
		}
	}
	st, err := store.Open(dsn)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return st, nil
}

func loadBanks() (*bank.Registry, error) {
	reg, err := bank.Load(cfg.BankDir)
	if err != nil {
		return nil, fmt.Errorf("load banks: %w", err)
	}
	return reg, nil
}

// buildTutor returns a tutor for the configured provider. A missing or
// broken provider yields a disabled tutor rather than an error.
func buildTutor(ctx context.Context, repo store.EventRepo, log zerolog.Logger) *tutor.Tutor {
	provider, err := llm.NewProvider(ctx, cfg.LLM, repo, log)
	switch {
	case errors.Is(err, llm.ErrDisabled):
		log.Debug().Msg("tutor disabled: no LLM provider configured")
		return tutor.New(nil, tutor.Config{})
	case err != nil:
		log.Warn().Err(err).Msg("tutor disabled")
		return tutor.New(nil, tutor.Config{})
	}
	log.Info().Str("provider", provider.Name()).Str("model", provider.ModelID()).Msg("tutor enabled")
	return tutor.New(provider, tutor.ConfigFrom(cfg.LLM))
}
