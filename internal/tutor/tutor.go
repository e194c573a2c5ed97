// Package tutor asks an LLM to explain missed quiz questions.
package tutor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/abhisek/protoquiz/internal/llm"
	"github.com/abhisek/protoquiz/internal/quiz"
)

// ErrDisabled is returned by Explain when no provider is configured.
var ErrDisabled = errors.New("tutor is not configured")

// Request describes one missed question.
type Request struct {
	Topic        string
	Question     string
	Options      []string
	ChosenIndex  int // quiz.Unanswered when skipped
	CorrectIndex int
	Reference    string
}

// Explanation is the tutor's answer.
type Explanation struct {
	Summary       string   `json:"summary"`
	KeyPoints     []string `json:"key_points"`
	Misconception string   `json:"misconception"`
}

// Config tunes the generation request.
type Config struct {
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
}

// ConfigFrom picks the tutor settings out of the provider config.
func ConfigFrom(c llm.Config) Config {
	return Config{MaxTokens: c.MaxTokens, Temperature: c.Temperature, Timeout: c.Timeout}
}

// Tutor explains answers using an llm.Provider. The zero value and a Tutor
// built with a nil provider are disabled.
type Tutor struct {
	provider llm.Provider
	cfg      Config
}

// New returns a Tutor backed by provider, which may be nil.
func New(provider llm.Provider, cfg Config) *Tutor {
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 600
	}
	return &Tutor{provider: provider, cfg: cfg}
}

// Enabled reports whether Explain can reach a model.
func (t *Tutor) Enabled() bool { return t != nil && t.provider != nil }

// Explain asks the model why req's correct option is right.
func (t *Tutor) Explain(ctx context.Context, req Request) (*Explanation, error) {
	if !t.Enabled() {
		return nil, ErrDisabled
	}
	if req.CorrectIndex < 0 || req.CorrectIndex >= len(req.Options) {
		return nil, fmt.Errorf("tutor: correct index %d out of range", req.CorrectIndex)
	}

	ctx = llm.WithPurpose(ctx, "explain")
	if t.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.cfg.Timeout)
		defer cancel()
	}

	resp, err := t.provider.Generate(ctx, llm.Request{
		System:      systemPrompt,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: userMessage(req)}},
		Schema:      ExplanationSchema,
		MaxTokens:   t.cfg.MaxTokens,
		Temperature: t.cfg.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("explain: %w", err)
	}

	var out Explanation
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, fmt.Errorf("parse explanation: %w", err)
	}
	return &out, nil
}

// ForReview builds a Request for one graded question of bank.
func ForReview(bank quiz.Bank, item quiz.ReviewItem) Request {
	q := bank.Questions[item.Number-1]
	return Request{
		Topic:        bank.Topic,
		Question:     q.Text,
		Options:      q.Options,
		ChosenIndex:  item.ChosenIndex,
		CorrectIndex: q.CorrectIndex,
		Reference:    q.Explanation,
	}
}
