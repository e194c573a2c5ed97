// Package config loads protoquiz settings from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"

	"github.com/abhisek/protoquiz/internal/llm"
)

// Prefix is prepended to every variable name.
const Prefix = "PROTOQUIZ_"

// App holds runtime configuration shared by every host.
type App struct {
	Env      string `env:"ENV" envDefault:"development"`
	DB       string `env:"DB"`
	BankDir  string `env:"BANK_DIR"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	// LogFile receives TUI logs; empty discards them.
	LogFile string `env:"LOG_FILE"`

	HTTP     HTTP       `envPrefix:"HTTP_"`
	Telegram Telegram   `envPrefix:"TELEGRAM_"`
	LLM      llm.Config `envPrefix:"LLM_"`
}

// HTTP configures the web host.
type HTTP struct {
	Addr            string        `env:"ADDR" envDefault:"127.0.0.1:8080"`
	SessionTTL      time.Duration `env:"SESSION_TTL" envDefault:"30m"`
	RateLimit       int           `env:"RATE_LIMIT" envDefault:"60"`
	RateWindow      time.Duration `env:"RATE_WINDOW" envDefault:"1m"`
	RedisURL        string        `env:"REDIS_URL"`
	SecureCookies   bool          `env:"SECURE_COOKIES" envDefault:"false"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// Telegram configures the bot host.
type Telegram struct {
	Token      string        `env:"TOKEN"`
	Debug      bool          `env:"DEBUG" envDefault:"false"`
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"2h"`
}

// Production reports whether Env is "production".
func (a *App) Production() bool { return a.Env == "production" }

// Load reads dotenv files (missing ones are ignored) and then parses the
// environment. Variables already set win over dotenv values.
func Load(dotenv ...string) (*App, error) {
	if len(dotenv) == 0 {
		dotenv = []string{".env"}
	}
	for _, f := range dotenv {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}
	return Parse()
}

// Parse reads configuration from the process environment only.
func Parse() (*App, error) {
	cfg := &App{}
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: Prefix}); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.HTTP.RateLimit > 0 && cfg.HTTP.RateWindow <= 0 {
		return nil, fmt.Errorf("%sHTTP_RATE_WINDOW must be positive when rate limiting is on, got %s",
			Prefix, cfg.HTTP.RateWindow)
	}
	if !cfg.LLM.Enabled() {
		cfg.LLM.Discover()
	}
	if err := cfg.LLM.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
