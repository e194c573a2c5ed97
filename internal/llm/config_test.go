package llm

import (
	"strings"
	"testing"
	"time"
)

func clearVendorKeys(t *testing.T) {
	for _, k := range []string{"GEMINI_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "OPENROUTER_API_KEY", "PROTOQUIZ_LLM_PROVIDER"} {
		t.Setenv(k, "")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Enabled() {
		t.Error("default config is enabled")
	}
	if cfg.MaxTokens != 600 || cfg.Timeout != 30*time.Second {
		t.Errorf("defaults = %d, %s", cfg.MaxTokens, cfg.Timeout)
	}
	if cfg.Retry.MaxAttempts != 3 || cfg.Anthropic.Model != "claude-haiku" {
		t.Errorf("nested defaults = %+v", cfg)
	}
}

func TestConfigFromEnv(t *testing.T) {
	clearVendorKeys(t)
	t.Setenv("PROTOQUIZ_LLM_PROVIDER", "openai")
	t.Setenv("PROTOQUIZ_LLM_OPENAI_API_KEY", "sk-test")
	t.Setenv("PROTOQUIZ_LLM_OPENAI_MODEL", "gpt-4.1-mini")
	t.Setenv("PROTOQUIZ_LLM_RETRY_MAX_ATTEMPTS", "5")

	cfg, err := ConfigFromEnv()
	if err != nil {
		t.Fatalf("ConfigFromEnv: %v", err)
	}
	if cfg.Provider != "openai" || cfg.OpenAI.APIKey != "sk-test" || cfg.OpenAI.Model != "gpt-4.1-mini" {
		t.Errorf("cfg = %+v", cfg.OpenAI)
	}
	if cfg.Retry.MaxAttempts != 5 {
		t.Errorf("retry attempts = %d", cfg.Retry.MaxAttempts)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestConfigFromEnv_Discovers(t *testing.T) {
	clearVendorKeys(t)
	t.Setenv("ANTHROPIC_API_KEY", "ant-key")

	cfg, err := ConfigFromEnv()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Provider != "anthropic" || cfg.Anthropic.APIKey != "ant-key" {
		t.Errorf("discovered = %q %q", cfg.Provider, cfg.Anthropic.APIKey)
	}
}

func TestConfigValidate(t *testing.T) {
	err := Config{Provider: "gemini"}.Validate()
	if err == nil || !strings.Contains(err.Error(), "PROTOQUIZ_LLM_GEMINI_API_KEY") {
		t.Errorf("err = %v", err)
	}
	if err := (Config{Provider: "bogus"}).Validate(); err == nil {
		t.Error("unknown provider accepted")
	}
	if err := (Config{}).Validate(); err != nil {
		t.Errorf("disabled config rejected: %v", err)
	}
}
