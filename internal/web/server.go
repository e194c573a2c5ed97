// Package web serves quizzes over HTTP as server-rendered pages and as a
// JSON API. Both surfaces drive the same per-visitor engines.
package web

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/abhisek/protoquiz/internal/bank"
	"github.com/abhisek/protoquiz/internal/sessions"
	"github.com/abhisek/protoquiz/internal/store"
)

// Options configures a Server.
type Options struct {
	Addr            string
	SecureCookies   bool
	ShutdownTimeout time.Duration
	SweepInterval   time.Duration
}

// Server is the web host.
type Server struct {
	banks    *bank.Registry
	sessions *sessions.Manager
	repo     store.EventRepo
	limiter  Limiter
	metrics  *Metrics
	log      zerolog.Logger
	opts     Options
	tmpl     *template.Template
	now      func() time.Time
}

// New builds a Server. repo and limiter may be nil; without a limiter POST
// routes are not throttled.
func New(banks *bank.Registry, sess *sessions.Manager, repo store.EventRepo, limiter Limiter, log zerolog.Logger, opts Options) (*Server, error) {
	tmpl, err := parseTemplates()
	if err != nil {
		return nil, err
	}
	return &Server{
		banks:    banks,
		sessions: sess,
		repo:     repo,
		limiter:  limiter,
		metrics:  NewMetrics(func() float64 { return float64(sess.Len()) }),
		log:      log.With().Str("component", "web").Logger(),
		opts:     opts,
		tmpl:     tmpl,
		now:      time.Now,
	}, nil
}

// Metrics exposes the server's collectors.
func (s *Server) Metrics() *Metrics { return s.metrics }

// Routes returns the HTTP handler.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(accessLog(s.log))
	r.Use(chimiddleware.Recoverer)
	r.Use(s.metrics.Instrument)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	throttle := func(h http.Handler) http.Handler { return h }
	if s.limiter != nil {
		throttle = rateLimit(s.limiter, s.log)
	}

	r.Get("/", s.handleIndex)
	r.Get("/quiz/{bank}", s.handleQuizPage)
	r.With(throttle).Post("/quiz/{bank}/{action}", s.handleQuizAction)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/banks", s.handleListBanks)
		r.Get("/quiz/{bank}", s.handleGetQuiz)
		r.With(throttle).Post("/quiz/{bank}/actions", s.handlePostAction)
	})
	return r
}

// Run serves on opts.Addr until ctx is cancelled, then shuts down
// gracefully. It also sweeps idle sessions.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	go s.sessions.Run(sweepCtx, s.opts.SweepInterval, func(n int) {
		if n > 0 {
			s.log.Debug().Int("removed", n).Msg("swept idle sessions")
		}
	})

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", s.opts.Addr).Msg("web host listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	timeout := s.opts.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	s.log.Info().Msg("web host shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
