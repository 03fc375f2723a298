package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestNewJSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger, err := New(Config{Level: "debug", Format: "json", Writer: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Debug("condition skipped", "question", "q2", "token", "secret")

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("decode record: %v\n%s", err, buf.String())
	}
	if record["msg"] != "condition skipped" || record["question"] != "q2" {
		t.Fatalf("unexpected record: %v", record)
	}
	if record["token"] != Redacted {
		t.Fatalf("token not redacted: %v", record["token"])
	}
}

func TestNewLevelFilters(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger, err := New(Config{Level: "warn", Writer: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Info("dropped")
	logger.Warn("kept")

	out := buf.String()
	if strings.Contains(out, "dropped") || !strings.Contains(out, "kept") {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestParseErrors(t *testing.T) {
	t.Parallel()

	if _, err := New(Config{Level: "loud"}); err == nil {
		t.Fatal("expected level error")
	}
	if _, err := New(Config{Format: "xml"}); err == nil {
		t.Fatal("expected format error")
	}
	if lvl, _ := ParseLevel("WARNING"); lvl != slog.LevelWarn {
		t.Fatalf("level = %v", lvl)
	}
}
