package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"":      zerolog.InfoLevel,
		"debug": zerolog.DebugLevel,
		"WARN":  zerolog.WarnLevel,
		"error": zerolog.ErrorLevel,
		"off":   zerolog.Disabled,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		if err != nil || got != want {
			t.Fatalf("%q: got %v err=%v", in, got, err)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

func TestJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	l, c, err := build(Options{Level: "info"}, &buf)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	defer c.Close()
	l.Debug().Msg("hidden")
	l.Info().Str("k", "v").Msg("shown")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected one line, got %q", buf.String())
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &m); err != nil {
		t.Fatalf("not json: %v", err)
	}
	if m["message"] != "shown" || m["k"] != "v" || m["service"] != "irisd" {
		t.Fatalf("unexpected entry: %v", m)
	}
}

func TestConsoleOutput(t *testing.T) {
	var buf bytes.Buffer
	l, _, err := build(Options{Format: "console"}, &buf)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	l.Info().Msg("hello")
	if strings.HasPrefix(buf.String(), "{") || !strings.Contains(buf.String(), "hello") {
		t.Fatalf("expected console text, got %q", buf.String())
	}
}

func TestBadFormat(t *testing.T) {
	if _, _, err := build(Options{Format: "xml"}, &bytes.Buffer{}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestFileSink(t *testing.T) {
	p := filepath.Join(t.TempDir(), "logs", "irisd.log")
	var buf bytes.Buffer
	l, c, err := build(Options{Format: "console", File: p}, &buf)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	l.Warn().Msg("to file")
	if err := c.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	b, err := os.ReadFile(p)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(b), `"message":"to file"`) {
		t.Fatalf("file missing json entry: %q", b)
	}
}
