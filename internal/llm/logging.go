package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/abhisek/protoquiz/internal/store"
)

type loggingProvider struct {
	inner Provider
	repo  store.EventRepo
	log   zerolog.Logger
}

// WithLogging records each request in repo and emits one structured log
// line per call. A failure to record is logged and never fails the call.
// repo may be nil.
func WithLogging(p Provider, repo store.EventRepo, log zerolog.Logger) Provider {
	return &loggingProvider{inner: p, repo: repo, log: log}
}

func (l *loggingProvider) Name() string    { return l.inner.Name() }
func (l *loggingProvider) ModelID() string { return l.inner.ModelID() }

func (l *loggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := l.inner.Generate(ctx, req)
	latency := time.Since(start)

	ev := store.LLMRequestEventData{
		Provider:    l.inner.Name(),
		Model:       l.inner.ModelID(),
		Purpose:     PurposeFrom(ctx),
		LatencyMs:   latency.Milliseconds(),
		Success:     err == nil,
		RequestBody: transcript(req),
	}
	if resp != nil {
		ev.Model = resp.Model
		ev.InputTokens = resp.Usage.InputTokens
		ev.OutputTokens = resp.Usage.OutputTokens
		ev.ResponseBody = string(resp.Content)
	}
	if err != nil {
		ev.ErrorMessage = err.Error()
	}

	e := l.log.Debug()
	if err != nil {
		e = l.log.Warn().Err(err)
	}
	e.Str("provider", ev.Provider).
		Str("model", ev.Model).
		Str("purpose", ev.Purpose).
		Int("input_tokens", ev.InputTokens).
		Int("output_tokens", ev.OutputTokens).
		Dur("latency", latency).
		Msg("llm request")

	if l.repo != nil {
		if rerr := l.repo.AppendLLMRequest(ctx, ev); rerr != nil {
			l.log.Warn().Err(rerr).Msg("record llm request")
		}
	}
	return resp, err
}

// transcript renders the request as readable text for the event log.
func transcript(req Request) string {
	var b strings.Builder
	if req.System != "" {
		fmt.Fprintf(&b, "[system]\n%s\n\n", req.System)
	}
	for _, m := range req.Messages {
		fmt.Fprintf(&b, "[%s]\n%s\n\n", m.Role, m.Content)
	}
	if req.Schema != nil {
		if def, err := json.Marshal(req.Schema.Definition); err == nil {
			fmt.Fprintf(&b, "[schema: %s]\n%s\n", req.Schema.Name, def)
		}
	}
	return b.String()
}
