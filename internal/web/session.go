package web

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/abhisek/protoquiz/internal/logging"
	"github.com/abhisek/protoquiz/internal/quiz"
	"github.com/abhisek/protoquiz/internal/sessions"
	"github.com/abhisek/protoquiz/internal/store"
)

const sessionCookie = "protoquiz_session"

// visitorID returns the visitor's session id, issuing a cookie on first
// contact.
func (s *Server) visitorID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(sessionCookie); err == nil {
		if _, err := uuid.Parse(c.Value); err == nil {
			return c.Value
		}
	}
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.opts.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

func sessionKey(visitor, bankID string) string { return visitor + "/" + bankID }

// view returns the visitor's current view for b, starting a quiz if needed.
func (s *Server) view(visitor string, b quiz.Bank) (quiz.View, error) {
	var v quiz.View
	err := s.sessions.With(sessionKey(visitor, b.ID), b, func(sess *sessions.Session) error {
		v = sess.Engine.View()
		return nil
	})
	return v, err
}

// apply runs one action and returns the resulting view. Rejected actions
// leave the engine untouched and still return the current view.
func (s *Server) apply(ctx context.Context, visitor string, b quiz.Bank, a quiz.Action) (quiz.View, error) {
	var v quiz.View
	err := s.sessions.With(sessionKey(visitor, b.ID), b, func(sess *sessions.Session) error {
		defer func() { v = sess.Engine.View() }()
		switch a.Kind {
		case quiz.ActionRetake:
			sess.Restart(s.now())
			return nil
		case quiz.ActionSubmit:
			res, err := sess.Engine.Submit()
			if err != nil {
				return err
			}
			s.record(ctx, res, sess)
			return nil
		default:
			return sess.Engine.Apply(a)
		}
	})

	outcome := "ok"
	if err != nil {
		_, outcome = classify(err)
	}
	s.metrics.ObserveAction(b.ID, a.Kind, outcome)
	return v, err
}

func (s *Server) record(ctx context.Context, res quiz.Result, sess *sessions.Session) {
	s.metrics.ObserveAttempt(res)
	if s.repo == nil {
		return
	}
	log := logging.FromContext(ctx)
	rec, err := s.repo.AppendAttempt(ctx, store.AttemptFromResult(res, store.HostWeb, sess.Started, s.now()))
	if err != nil {
		log.Error().Err(err).Str("bank", res.BankID).Msg("record attempt")
		return
	}
	log.Info().Str("attempt", rec.AttemptID).Str("bank", res.BankID).
		Int("score", res.Score).Int("total", res.Total).Msg("attempt recorded")
}
