// Package play holds the screens of a running quiz: the question screen and
// the results screen that replaces it on submission.
package play

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/abhisek/protoquiz/internal/quiz"
	"github.com/abhisek/protoquiz/internal/store"
	"github.com/abhisek/protoquiz/internal/tutor"
)

// Deps are the collaborators shared by the play screens. Every field may be
// left zero: a nil Repo skips recording and a nil Tutor disables
// explanations.
type Deps struct {
	Repo  store.EventRepo
	Tutor *tutor.Tutor
	Log   zerolog.Logger
	Now   func() time.Time
}

func (d Deps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

// attemptRecordedMsg reports the outcome of storing a finished attempt.
type attemptRecordedMsg struct {
	AttemptID string
	Err       error
}

// record stores res in the event log. It runs inside a tea.Cmd.
func (d Deps) record(res quiz.Result, started, finished time.Time) attemptRecordedMsg {
	if d.Repo == nil {
		return attemptRecordedMsg{}
	}
	rec, err := d.Repo.AppendAttempt(context.Background(),
		store.AttemptFromResult(res, store.HostTUI, started, finished))
	if err != nil {
		d.Log.Error().Err(err).Str("bank", res.BankID).Msg("record attempt")
		return attemptRecordedMsg{Err: err}
	}
	d.Log.Info().
		Str("attempt", rec.AttemptID).
		Str("bank", res.BankID).
		Int("score", res.Score).
		Int("total", res.Total).
		Msg("attempt recorded")
	return attemptRecordedMsg{AttemptID: rec.AttemptID}
}
