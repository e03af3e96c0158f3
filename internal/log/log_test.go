package log

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestNewWriter_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriter(&buf, "warn")

	l.Info("should not appear")
	l.Debug("nor this")
	if buf.Len() != 0 {
		t.Fatalf("expected no output below warn, got %q", buf.String())
	}

	l.Warn("extrapolating", "x", 1.5)
	if !strings.Contains(buf.String(), "extrapolating") {
		t.Fatalf("expected warning in output, got %q", buf.String())
	}

	var rec map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &rec); err != nil {
		t.Fatalf("output is not a JSON record: %v", err)
	}
	if rec["level"] != "WARN" {
		t.Errorf("level = %v, want WARN", rec["level"])
	}
	if rec["x"] != 1.5 {
		t.Errorf("x = %v, want 1.5", rec["x"])
	}
	if _, ok := rec["callstack"]; !ok {
		t.Errorf("expected callstack attribute")
	}
}

func TestNilLogger(t *testing.T) {
	var l *Logger
	// None of these may panic.
	l.Debug("debug")
	l.Infof("info %d", 1)
	l.Warn("warn")
	l.Errorf("error %s", "x")
	if l.With("k", "v") != nil {
		t.Errorf("With on nil logger should return nil")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"debug", "DEBUG"},
		{"INFO", "INFO"},
		{"", "INFO"},
		{"warning", "WARN"},
		{"error", "ERROR"},
	}
	for _, tt := range tests {
		if got := parseLevel(tt.in).String(); got != tt.want {
			t.Errorf("parseLevel(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestWarnCallstack(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriter(&buf, "info").With("leg", "departure")
	l.Warn("figure unavailable")

	var rec struct {
		Leg       string  `json:"leg"`
		Callstack []Frame `json:"callstack"`
	}
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &rec); err != nil {
		t.Fatalf("output is not a JSON record: %v", err)
	}
	if rec.Leg != "departure" {
		t.Errorf("leg = %q, want departure", rec.Leg)
	}
	if len(rec.Callstack) == 0 {
		t.Fatalf("expected a callstack")
	}
	if top := rec.Callstack[0]; top.Function != "log.TestWarnCallstack" || top.File != "log_test.go" {
		t.Errorf("top frame = %v, want this test", top)
	}
	for _, f := range rec.Callstack {
		if strings.HasPrefix(f.Function, "testing.") || strings.HasPrefix(f.Function, "runtime.") {
			t.Errorf("frame outside the module: %v", f)
		}
	}
}

func TestModuleFunction(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"go.ngs.io/perf-worksheet/internal/usecase.(*WorksheetUseCase).Calculate", "usecase.(*WorksheetUseCase).Calculate", true},
		{"main.main", "main.main", true},
		{"github.com/gin-gonic/gin.(*Context).Next", "", false},
		{"runtime.goexit", "", false},
	}
	for _, tt := range tests {
		got, ok := moduleFunction(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("moduleFunction(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}
