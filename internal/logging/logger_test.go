package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNew_ProductionJSON(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "production", "warn")
	log.Info().Msg("hidden")
	log.Warn().Str("bank", "modbus-tcp").Msg("shown")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1: %q", len(lines), buf.String())
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("not JSON: %v", err)
	}
	if entry["app"] != "protoquiz" || entry["env"] != "production" || entry["bank"] != "modbus-tcp" {
		t.Errorf("entry = %v", entry)
	}
}

func TestNew_DevelopmentConsole(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "development", "bogus")
	log.Info().Msg("hello")
	out := buf.String()
	if !strings.Contains(out, "hello") || strings.HasPrefix(out, "{") {
		t.Errorf("console output = %q", out)
	}
}

func TestNewFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "tui.log")
	log, closer, err := NewFile(path, "development", "debug")
	if err != nil {
		t.Fatalf("NewFile: %v", err)
	}
	log.Debug().Msg("to file")
	closer.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"message":"to file"`) {
		t.Errorf("file = %q", data)
	}
}

func TestNewFile_Empty(t *testing.T) {
	_, closer, err := NewFile("", "development", "info")
	if err != nil || closer == nil {
		t.Fatalf("NewFile(\"\") = %v, %v", closer, err)
	}
}

func TestContext(t *testing.T) {
	var buf bytes.Buffer
	ctx := IntoContext(context.Background(), New(&buf, "production", "info"))
	log := FromContext(ctx)
	log.Info().Msg("via ctx")
	if !strings.Contains(buf.String(), "via ctx") {
		t.Errorf("logger not carried by context")
	}
	dropped := FromContext(context.Background())
	dropped.Info().Msg("dropped")
}
