package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func fastRetry() RetryConfig {
	return RetryConfig{MaxAttempts: 3, InitialWait: time.Millisecond, MaxWait: 5 * time.Millisecond, Multiplier: 2}
}

func TestRetry(t *testing.T) {
	ok := MockResponse{Content: json.RawMessage(`{"ok":true}`)}
	down := MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("down")}}
	invalid := MockResponse{Err: &ErrInvalidResponse{Err: errors.New("bad")}}
	truncated := MockResponse{Err: &ErrMaxTokensExceeded{}}

	tests := []struct {
		name      string
		responses []MockResponse
		wantErr   bool
		wantCalls int
	}{
		{"first attempt", []MockResponse{ok}, false, 1},
		{"transient then ok", []MockResponse{down, ok}, false, 2},
		{"exhausted", []MockResponse{down, down, down, ok}, true, 3},
		{"invalid retried once", []MockResponse{invalid, ok}, false, 2},
		{"invalid twice gives up", []MockResponse{invalid, invalid, ok}, true, 2},
		{"max tokens not retried", []MockResponse{truncated, ok}, true, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := NewMockProvider(tt.responses...)
			_, err := WithRetry(mock, fastRetry()).Generate(context.Background(), Request{})
			if (err != nil) != tt.wantErr {
				t.Errorf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if mock.CallCount() != tt.wantCalls {
				t.Errorf("calls = %d, want %d", mock.CallCount(), tt.wantCalls)
			}
		})
	}
}

func TestRetry_ContextCancelled(t *testing.T) {
	mock := NewMockProvider(MockResponse{Err: &ErrRateLimit{RetryAfter: time.Hour}})
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	_, err := WithRetry(mock, fastRetry()).Generate(ctx, Request{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestRetry_DelayBounds(t *testing.T) {
	r := &retryProvider{cfg: RetryConfig{InitialWait: 100 * time.Millisecond, MaxWait: time.Second, Multiplier: 2}}
	for attempt := 0; attempt < 8; attempt++ {
		d := r.delay(attempt, errors.New("x"))
		if d < 0 || d > 1200*time.Millisecond {
			t.Errorf("attempt %d: delay %s out of bounds", attempt, d)
		}
	}
	if d := r.delay(0, &ErrRateLimit{RetryAfter: 7 * time.Second}); d != 7*time.Second {
		t.Errorf("RetryAfter ignored: %s", d)
	}
}

func TestRetry_PassesThroughIdentity(t *testing.T) {
	p := WithRetry(NewMockProvider(), fastRetry())
	if p.Name() != "mock" || p.ModelID() != "mock" {
		t.Errorf("identity = %s/%s", p.Name(), p.ModelID())
	}
}
