package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func openAIServer(t *testing.T, status int, content, finish string) (*httptest.Server, *string) {
	t.Helper()
	var path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		if status != http.StatusOK {
			w.WriteHeader(status)
			w.Write([]byte(`{"error":{"message":"nope","type":"server_error"}}`))
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"id":    "chatcmpl-1",
			"model": "gpt-4o-mini",
			"choices": []map[string]any{{
				"index":         0,
				"message":       map[string]any{"role": "assistant", "content": content},
				"finish_reason": finish,
			}},
			"usage": map[string]any{"prompt_tokens": 20, "completion_tokens": 8, "total_tokens": 28},
		})
	}))
	t.Cleanup(srv.Close)
	return srv, &path
}

func TestOpenAI_HappyPath(t *testing.T) {
	srv, _ := openAIServer(t, http.StatusOK, `{"name":"rtu","age":2}`, "stop")
	p, err := NewOpenAIProvider(OpenAIConfig{APIKey: "k", Model: "gpt-4o-mini", BaseURL: srv.URL})
	if err != nil {
		t.Fatal(err)
	}

	resp, err := p.Generate(context.Background(), Request{
		System:   "sys",
		Messages: []Message{{Role: RoleUser, Content: "hi"}},
		Schema:   testSchema(),
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if resp.Usage.TotalTokens != 28 || resp.Model != "gpt-4o-mini" {
		t.Errorf("resp = %+v", resp)
	}
	if p.Name() != "openai" {
		t.Errorf("Name = %q", p.Name())
	}
}

func TestOpenAI_Truncated(t *testing.T) {
	srv, _ := openAIServer(t, http.StatusOK, `{"name":`, "length")
	p, _ := NewOpenAIProvider(OpenAIConfig{APIKey: "k", Model: "gpt-4o-mini", BaseURL: srv.URL})
	_, err := p.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "hi"}}})
	var mt *ErrMaxTokensExceeded
	if !errors.As(err, &mt) {
		t.Fatalf("err = %v, want ErrMaxTokensExceeded", err)
	}
}

func TestOpenAI_RateLimit(t *testing.T) {
	srv, _ := openAIServer(t, http.StatusTooManyRequests, "", "")
	p, _ := NewOpenAIProvider(OpenAIConfig{APIKey: "k", Model: "gpt-4o-mini", BaseURL: srv.URL})
	_, err := p.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "hi"}}})
	var rl *ErrRateLimit
	if !errors.As(err, &rl) {
		t.Fatalf("err = %T (%v), want ErrRateLimit", err, err)
	}
}

func TestOpenRouter_UsesCompatibleEndpoint(t *testing.T) {
	srv, path := openAIServer(t, http.StatusOK, `plain text`, "stop")
	p, err := NewOpenRouterProvider(OpenRouterConfig{APIKey: "k", Model: "google/gemini-2.0-flash-001", BaseURL: srv.URL})
	if err != nil {
		t.Fatal(err)
	}
	if p.Name() != "openrouter" {
		t.Errorf("Name = %q", p.Name())
	}
	resp, err := p.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "hi"}}})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if string(resp.Content) != "plain text" {
		t.Errorf("content = %s", resp.Content)
	}
	if *path != "/chat/completions" {
		t.Errorf("path = %q", *path)
	}
}

func TestOpenRouter_RequiresKey(t *testing.T) {
	if _, err := NewOpenRouterProvider(OpenRouterConfig{}); err == nil {
		t.Fatal("expected error without API key")
	}
}
