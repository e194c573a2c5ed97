package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/abhisek/protoquiz/internal/quiz"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	// A named in-memory database per test keeps tests isolated while still
	// letting pooled connections share one database.
	s, err := Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenClose(t *testing.T) {
	s := openTestStore(t)
	if s.Dialect() != "sqlite3" {
		t.Errorf("Dialect = %q, want sqlite3", s.Dialect())
	}
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		// journal_mode reports "memory" for in-memory databases.
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestSequenceCounter(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	var seqs []int64
	for i := 0; i < 5; i++ {
		seq, err := s.seq.Next(ctx)
		if err != nil {
			t.Fatalf("next %d: %v", i, err)
		}
		seqs = append(seqs, seq)
	}

	for i, seq := range seqs {
		expected := int64(i + 1)
		if seq != expected {
			t.Errorf("seq[%d] = %d, want %d", i, seq, expected)
		}
	}
}

func TestAutoMigrationCreatesTables(t *testing.T) {
	s := openTestStore(t)
	for _, table := range []string{"attempts", "attempt_answers", "llm_request_events", "global_sequence"} {
		var name string
		err := s.DB().QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %s: %v", table, err)
		}
	}
}

func sampleResult(t *testing.T, bankID string, answers []int) quiz.Result {
	t.Helper()
	b := quiz.Bank{
		ID:    bankID,
		Title: bankID,
		Questions: []quiz.Question{
			{Text: "Q1", Options: []string{"a", "b"}, CorrectIndex: 0, Explanation: "E1"},
			{Text: "Q2", Options: []string{"a", "b"}, CorrectIndex: 1, Explanation: "E2"},
		},
	}
	return quiz.Grade(b, answers)
}

func TestAppendAttemptAndQuery(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	start := time.Now().Add(-90 * time.Second)
	data := AttemptFromResult(sampleResult(t, "modbus-tcp", []int{0, 0}), HostTUI, start, time.Now())

	rec, err := repo.AppendAttempt(ctx, data)
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if rec.AttemptID == "" {
		t.Fatal("expected generated attempt id")
	}
	if rec.DurationMs < 89_000 {
		t.Errorf("DurationMs = %d, want about 90000", rec.DurationMs)
	}

	got, err := repo.RecentAttempts(ctx, QueryOpts{Limit: 10})
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d attempts, want 1", len(got))
	}
	a := got[0]
	if a.BankID != "modbus-tcp" || a.Host != HostTUI {
		t.Errorf("BankID/Host = %s/%s", a.BankID, a.Host)
	}
	if a.Score != 1 || a.Total != 2 || a.Percentage != 50 || a.Tier != "marginal" {
		t.Errorf("score fields = %d/%d %d%% %s", a.Score, a.Total, a.Percentage, a.Tier)
	}
	if a.Timestamp.IsZero() {
		t.Error("timestamp not round-tripped")
	}

	answers, err := repo.AttemptAnswers(ctx, a.AttemptID)
	if err != nil {
		t.Fatalf("answers: %v", err)
	}
	if len(answers) != 2 {
		t.Fatalf("got %d answers, want 2", len(answers))
	}
	if !answers[0].Correct || answers[1].Correct {
		t.Errorf("Correct flags = %v,%v, want true,false", answers[0].Correct, answers[1].Correct)
	}
	if answers[1].ChosenText != "a" || answers[1].CorrectIndex != 1 {
		t.Errorf("answer[1] = %+v", answers[1])
	}
}

func TestRecentAttemptsFilters(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	for _, bank := range []string{"modbus-tcp", "modbus-rtu", "modbus-tcp"} {
		data := AttemptFromResult(sampleResult(t, bank, []int{0, 1}), HostWeb, time.Time{}, time.Now())
		if _, err := repo.AppendAttempt(ctx, data); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	tcp, err := repo.RecentAttempts(ctx, QueryOpts{BankID: "modbus-tcp"})
	if err != nil {
		t.Fatal(err)
	}
	if len(tcp) != 2 {
		t.Errorf("modbus-tcp attempts = %d, want 2", len(tcp))
	}
	if len(tcp) == 2 && tcp[0].Sequence < tcp[1].Sequence {
		t.Error("attempts not newest first")
	}

	limited, err := repo.RecentAttempts(ctx, QueryOpts{Limit: 1})
	if err != nil {
		t.Fatal(err)
	}
	if len(limited) != 1 || limited[0].BankID != "modbus-tcp" {
		t.Errorf("limited = %+v", limited)
	}
}

func TestBankStats(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	results := []quiz.Result{
		sampleResult(t, "modbus-rtu", []int{0, 1}), // 100
		sampleResult(t, "modbus-rtu", []int{1, 0}), // 0
		sampleResult(t, "modbus-tcp", []int{0, 0}), // 50
	}
	for _, r := range results {
		if _, err := repo.AppendAttempt(ctx, AttemptFromResult(r, HostTUI, time.Time{}, time.Now())); err != nil {
			t.Fatal(err)
		}
	}

	stats, err := repo.BankStats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if len(stats) != 2 {
		t.Fatalf("got %d rows, want 2", len(stats))
	}
	rtu := stats[0]
	if rtu.BankID != "modbus-rtu" || rtu.Attempts != 2 || rtu.BestPercentage != 100 {
		t.Errorf("rtu = %+v", rtu)
	}
	if rtu.AvgPercentage != 50 {
		t.Errorf("rtu avg = %v, want 50", rtu.AvgPercentage)
	}
	if rtu.TotalScore != 2 || rtu.TotalQuestions != 4 {
		t.Errorf("rtu totals = %d/%d, want 2/4", rtu.TotalScore, rtu.TotalQuestions)
	}
}

func TestClearAttempts(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := repo.AppendAttempt(ctx, AttemptFromResult(sampleResult(t, "b", []int{0, 1}), HostTUI, time.Time{}, time.Now())); err != nil {
			t.Fatal(err)
		}
	}
	n, err := repo.ClearAttempts(ctx)
	if err != nil {
		t.Fatalf("clear: %v", err)
	}
	if n != 3 {
		t.Errorf("cleared %d, want 3", n)
	}
	left, err := repo.RecentAttempts(ctx, QueryOpts{})
	if err != nil {
		t.Fatal(err)
	}
	if len(left) != 0 {
		t.Errorf("%d attempts left after clear", len(left))
	}
	var answers int
	if err := s.DB().QueryRow("SELECT COUNT(*) FROM attempt_answers").Scan(&answers); err != nil {
		t.Fatal(err)
	}
	if answers != 0 {
		t.Errorf("%d answers left after clear", answers)
	}
}

func TestLLMEvents(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	events := []LLMRequestEventData{
		{Provider: "anthropic", Model: "claude-haiku-4-5", Purpose: "tutor", InputTokens: 100, OutputTokens: 50, LatencyMs: 200, Success: true},
		{Provider: "anthropic", Model: "claude-haiku-4-5", Purpose: "tutor", InputTokens: 300, OutputTokens: 70, LatencyMs: 400, Success: true},
		{Provider: "openai", Model: "gpt-4o-mini", Purpose: "tutor", LatencyMs: 30, Success: false, ErrorMessage: "rate limited"},
	}
	for _, e := range events {
		if err := repo.AppendLLMRequest(ctx, e); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	list, err := repo.QueryLLMEvents(ctx, QueryOpts{Limit: 2, Purpose: "tutor"})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("got %d events, want 2", len(list))
	}
	if list[0].Model != "gpt-4o-mini" || list[0].Success {
		t.Errorf("newest event = %+v", list[0])
	}
	other, err := repo.QueryLLMEvents(ctx, QueryOpts{Purpose: "check"})
	if err != nil || len(other) != 0 {
		t.Errorf("purpose filter = %d events, %v; want none", len(other), err)
	}

	got, err := repo.GetLLMEvent(ctx, list[0].ID)
	if err != nil || got == nil {
		t.Fatalf("get: %v, %v", got, err)
	}
	if got.ErrorMessage != "rate limited" {
		t.Errorf("ErrorMessage = %q", got.ErrorMessage)
	}
	missing, err := repo.GetLLMEvent(ctx, 9999)
	if err != nil || missing != nil {
		t.Errorf("missing event = %v, %v; want nil, nil", missing, err)
	}

	byPurpose, err := repo.LLMUsageByPurpose(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(byPurpose) != 1 || byPurpose[0].Calls != 3 || byPurpose[0].InputTokens != 400 {
		t.Errorf("by purpose = %+v", byPurpose)
	}

	byModel, err := repo.LLMUsageByModel(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(byModel) != 1 || byModel[0].Model != "claude-haiku-4-5" || byModel[0].OutputTokens != 120 {
		t.Errorf("by model = %+v", byModel)
	}
}
