package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit   int       // max results (0 = unlimited)
	BankID  string    // only attempts on this bank
	Host    string    // only attempts from this host
	Purpose string    // only LLM events with this purpose
	From    time.Time // timestamp >= From
}

// AnswerData is the recorded outcome of one question in an attempt.
type AnswerData struct {
	QuestionIndex int
	QuestionText  string
	ChosenIndex   int // -1 when unanswered
	ChosenText    string
	CorrectIndex  int
	Correct       bool
}

// AttemptData captures a completed quiz attempt.
type AttemptData struct {
	AttemptID  string // generated when empty
	Timestamp  time.Time
	BankID     string
	Host       string
	Score      int
	Total      int
	Percentage int
	Tier       string
	Duration   time.Duration
	Answers    []AnswerData
}

// AttemptRecord is a stored attempt, without its answers.
type AttemptRecord struct {
	AttemptID  string
	Sequence   int64
	Timestamp  time.Time
	BankID     string
	Host       string
	Score      int
	Total      int
	Percentage int
	Tier       string
	DurationMs int64
}

// BankStat aggregates all attempts on one bank.
type BankStat struct {
	BankID         string
	Attempts       int
	AvgPercentage  float64
	BestPercentage int
	TotalScore     int
	TotalQuestions int
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMEventRecord is a stored LLM request event.
type LLMEventRecord struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// LLMPurposeUsage aggregates LLM calls by purpose.
type LLMPurposeUsage struct {
	Purpose      string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// LLMModelUsage aggregates LLM calls by model.
type LLMModelUsage struct {
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
}

// EventRepo provides append and query access to recorded events.
type EventRepo interface {
	// AppendAttempt records a completed attempt and its answers atomically.
	AppendAttempt(ctx context.Context, data AttemptData) (*AttemptRecord, error)

	// RecentAttempts returns attempts newest first.
	RecentAttempts(ctx context.Context, opts QueryOpts) ([]AttemptRecord, error)

	// AttemptAnswers returns the answers of one attempt in question order.
	AttemptAnswers(ctx context.Context, attemptID string) ([]AnswerData, error)

	// BankStats aggregates attempts per bank, ordered by bank id.
	BankStats(ctx context.Context) ([]BankStat, error)

	// ClearAttempts deletes every attempt and answer. It returns the number
	// of attempts removed.
	ClearAttempts(ctx context.Context) (int, error)

	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns LLM events newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEventRecord, error)

	// GetLLMEvent returns one event, or nil if it does not exist.
	GetLLMEvent(ctx context.Context, id int) (*LLMEventRecord, error)

	// LLMUsageByPurpose aggregates token usage per purpose.
	LLMUsageByPurpose(ctx context.Context) ([]LLMPurposeUsage, error)

	// LLMUsageByModel aggregates token usage per model.
	LLMUsageByModel(ctx context.Context) ([]LLMModelUsage, error)
}

// eventRepo implements EventRepo with ent's SQL builders and the global
// sequence counter.
type eventRepo struct {
	store *Store
}
