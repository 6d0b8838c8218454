package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestSlogJSONWritesFields(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "debug", Format: "json", Output: &buf})

	log.With(String("well", "A-1")).Debug(context.Background(), "interpolated",
		Float64("md", 10.5),
		Err(errors.New("boom")),
	)

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("decode log line %q: %v", buf.String(), err)
	}
	if rec["msg"] != "interpolated" || rec["well"] != "A-1" || rec["md"] != 10.5 || rec["error"] != "boom" {
		t.Fatalf("unexpected record: %v", rec)
	}
}

func TestSlogLevelFilters(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "warn", Output: &buf})
	log.Info(context.Background(), "hidden")
	if buf.Len() != 0 {
		t.Fatalf("info logged at warn level: %q", buf.String())
	}
	log.Warn(context.Background(), "shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Fatalf("warn not logged: %q", buf.String())
	}
}

func TestZapBackend(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Backend: "zap", Format: "json", Level: "info", Output: &buf})

	log.Debug(context.Background(), "hidden")
	log.With(Int("stations", 3)).Info(context.Background(), "loaded survey", String("path", "w.csv"))

	line := strings.TrimSpace(buf.String())
	if strings.Contains(line, "hidden") {
		t.Fatalf("debug logged at info level: %q", line)
	}
	var rec map[string]any
	if err := json.Unmarshal([]byte(line), &rec); err != nil {
		t.Fatalf("decode zap line %q: %v", line, err)
	}
	if rec["msg"] != "loaded survey" || rec["stations"] != float64(3) || rec["path"] != "w.csv" {
		t.Fatalf("unexpected zap record: %v", rec)
	}
}

func TestRunIDHelpers(t *testing.T) {
	ctx, id := EnsureRunID(context.Background())
	if id == "" {
		t.Fatalf("EnsureRunID returned empty id")
	}
	if got := RunIDFromContext(ctx); got != id {
		t.Fatalf("RunIDFromContext = %q, want %q", got, id)
	}
	if _, again := EnsureRunID(ctx); again != id {
		t.Fatalf("EnsureRunID replaced existing id %q with %q", id, again)
	}

	var buf bytes.Buffer
	ctx, log := WithRunLogger(ContextWithRunID(context.Background(), "run-1"), New(Config{Format: "json", Output: &buf}))
	log.Info(ctx, "hello")
	if !strings.Contains(buf.String(), `"run_id":"run-1"`) {
		t.Fatalf("run_id missing from %q", buf.String())
	}
}
