package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/abhisek/protoquiz/internal/sessions"
	"github.com/abhisek/protoquiz/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the quiz over HTTP (HTML pages and a JSON API)",
	RunE: func(cmd *cobra.Command, args []string) error {
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.HTTP.Addr = addr
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

		limiter, closeLimiter, err := newLimiter(ctx)
		if err != nil {
			return err
		}
		defer closeLimiter()

		srv, err := web.New(reg, sessions.New(cfg.HTTP.SessionTTL), st.EventRepo(), limiter, log, web.Options{
			Addr:            cfg.HTTP.Addr,
			SecureCookies:   cfg.HTTP.SecureCookies || cfg.Production(),
			ShutdownTimeout: cfg.HTTP.ShutdownTimeout,
		})
		if err != nil {
			return err
		}
		log.Info().Int("banks", reg.Len()).Str("store", st.Dialect()).Msg("starting web host")
		return srv.Run(ctx)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides PROTOQUIZ_HTTP_ADDR)")
}

// newLimiter picks Redis when PROTOQUIZ_HTTP_REDIS_URL is set so several
// instances share one budget, and an in-process limiter otherwise.
func newLimiter(ctx context.Context) (web.Limiter, func(), error) {
	if cfg.HTTP.RateLimit <= 0 {
		return nil, func() {}, nil
	}
	if cfg.HTTP.RedisURL != "" {
		l, err := web.NewRedisLimiter(ctx, cfg.HTTP.RedisURL, cfg.HTTP.RateLimit, cfg.HTTP.RateWindow)
		if err != nil {
			return nil, nil, err
		}
		return l, func() { _ = l.Close() }, nil
	}
	l := web.NewMemoryLimiter(cfg.HTTP.RateLimit, cfg.HTTP.RateWindow)
	go l.Cleanup(ctx)
	return l, func() {}, nil
}
