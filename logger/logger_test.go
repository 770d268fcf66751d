package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"strings"
	"testing"
	"time"
)

func jsonLogger(buf *bytes.Buffer, level string) *Logger {
	return NewWithWriter(&Config{Level: level, Format: "json"}, "hubspot", buf)
}

func lastLine(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	var m map[string]interface{}
	if err := json.Unmarshal([]byte(lines[len(lines)-1]), &m); err != nil {
		t.Fatalf("invalid json log line %q: %v", lines[len(lines)-1], err)
	}
	return m
}

func TestNewDefault(t *testing.T) {
	l := NewDefault("test-svc")
	if l == nil {
		t.Fatal("expected non-nil logger")
	}
	if l.service != "test-svc" {
		t.Errorf("expected service 'test-svc', got %q", l.service)
	}
}

func TestNewInvalidLevel(t *testing.T) {
	var buf bytes.Buffer
	l := jsonLogger(&buf, "invalid-level")
	l.Debug("hidden")
	l.Info("shown")
	if strings.Contains(buf.String(), "hidden") {
		t.Error("invalid level should fall back to info")
	}
	if !strings.Contains(buf.String(), "shown") {
		t.Error("expected info line to be written")
	}
}

func TestNewFromEnv(t *testing.T) {
	os.Setenv("LOG_LEVEL", "debug")
	os.Setenv("LOG_FORMAT", "json")
	defer os.Unsetenv("LOG_LEVEL")
	defer os.Unsetenv("LOG_FORMAT")

	l := NewFromEnv("env-svc")
	if l == nil {
		t.Fatal("expected non-nil logger")
	}
}

func TestJSONServiceField(t *testing.T) {
	var buf bytes.Buffer
	jsonLogger(&buf, "info").Info("hello")
	m := lastLine(t, &buf)
	if m[FieldService] != "hubspot" {
		t.Errorf("service = %v, want hubspot", m[FieldService])
	}
	if m["message"] != "hello" {
		t.Errorf("message = %v", m["message"])
	}
}

func TestWithComponent(t *testing.T) {
	var buf bytes.Buffer
	cl := jsonLogger(&buf, "info").WithComponent("dispatcher")
	if cl.service != "hubspot" {
		t.Errorf("service should be preserved, got %q", cl.service)
	}
	cl.Warn("slow")
	m := lastLine(t, &buf)
	if m[FieldComponent] != "dispatcher" {
		t.Errorf("component = %v", m[FieldComponent])
	}
	if m["level"] != "warn" {
		t.Errorf("level = %v", m["level"])
	}
}

func TestWithContext(t *testing.T) {
	var buf bytes.Buffer
	l := jsonLogger(&buf, "info")

	if got := l.WithContext(context.Background()); got != l {
		t.Error("expected same logger when context carries no request id")
	}

	ctx := ContextWithRequestID(context.Background(), "req-1")
	l.WithContext(ctx).Info("sent")
	m := lastLine(t, &buf)
	if m[FieldRequestID] != "req-1" {
		t.Errorf("request_id = %v", m[FieldRequestID])
	}
}

func TestRequestIDFromContext_Empty(t *testing.T) {
	ctx := ContextWithRequestID(context.Background(), "")
	if _, ok := RequestIDFromContext(ctx); ok {
		t.Error("empty id should not be reported")
	}
}

func TestWithFieldsAndError(t *testing.T) {
	var buf bytes.Buffer
	l := jsonLogger(&buf, "debug")
	l.WithFields(map[string]interface{}{FieldURL: "contacts"}).
		WithError(errors.New("boom")).
		Debug("failed", Fields(FieldAttempt, 2))
	m := lastLine(t, &buf)
	if m[FieldURL] != "contacts" {
		t.Errorf("url = %v", m[FieldURL])
	}
	if m[FieldError] != "boom" {
		t.Errorf("error = %v", m[FieldError])
	}
	if m[FieldAttempt] != float64(2) {
		t.Errorf("attempt = %v", m[FieldAttempt])
	}
}

func TestNewNop(t *testing.T) {
	l := NewNop()
	l.Info("nothing")
	l.WithComponent("x").Error("still nothing")
}

func TestFields(t *testing.T) {
	f := Fields("a", 1, "b", "two", 3, "skipped")
	if len(f) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(f))
	}
	if f["a"] != 1 || f["b"] != "two" {
		t.Errorf("unexpected fields %v", f)
	}
}

func TestFields_OddCount(t *testing.T) {
	f := Fields("a", 1, "dangling")
	if len(f) != 1 {
		t.Errorf("expected 1 field, got %d", len(f))
	}
}

func TestErrorFields(t *testing.T) {
	f := ErrorFields("search", errors.New("bad"))
	if f[FieldOperation] != "search" || f[FieldError] != "bad" {
		t.Errorf("unexpected fields %v", f)
	}
}

func TestDurationFields(t *testing.T) {
	f := DurationFields("request", 1500*time.Millisecond)
	if f[FieldDuration] != int64(1500) {
		t.Errorf("duration = %v", f[FieldDuration])
	}
}

func TestMergeWithError_NilMap(t *testing.T) {
	f := MergeWithError(nil, errors.New("x"))
	if f[FieldError] != "x" {
		t.Errorf("unexpected fields %v", f)
	}
}

func TestMergeWithDuration(t *testing.T) {
	f := MergeWithDuration(map[string]interface{}{"k": "v"}, time.Second)
	if f[FieldDuration] != int64(1000) || f["k"] != "v" {
		t.Errorf("unexpected fields %v", f)
	}
}

func TestConfig_ApplyDefaults(t *testing.T) {
	var c Config
	c.ApplyDefaults()
	if c.Level != "info" || c.Format != FormatConsole || c.Output != "stdout" || !c.Timestamp {
		t.Errorf("unexpected defaults %+v", c)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"valid json", Config{Level: "debug", Format: "json"}, false},
		{"valid console", Config{Level: "info", Format: FormatConsole}, false},
		{"bad level", Config{Level: "loud", Format: "json"}, true},
		{"bad format", Config{Level: "info", Format: "xml"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestGet_CachesPerName(t *testing.T) {
	prev := globalLogger
	defer func() { SetGlobalLogger(prev) }()

	var buf bytes.Buffer
	SetGlobalLogger(jsonLogger(&buf, "info"))
	a := Get("crm-eu")
	if Get("crm-eu") != a {
		t.Error("same name should return the cached logger")
	}
	if Get("crm-us") == a {
		t.Error("different names should not share a logger")
	}

	a.Info("tagged")
	if m := lastLine(t, &buf); m["component"] != "crm-eu" {
		t.Errorf("component = %v, want crm-eu", m["component"])
	}
}

func TestGet_FollowsGlobalLogger(t *testing.T) {
	prev := globalLogger
	defer func() { SetGlobalLogger(prev) }()

	var first, second bytes.Buffer
	SetGlobalLogger(jsonLogger(&first, "info"))
	Get("crm").Info("one")

	SetGlobalLogger(jsonLogger(&second, "info"))
	Get("crm").Info("two")
	if strings.Contains(first.String(), "two") || !strings.Contains(second.String(), "two") {
		t.Errorf("cached logger outlived the global it was derived from: first=%q second=%q", first.String(), second.String())
	}
}

func TestGlobalLogger(t *testing.T) {
	prev := globalLogger
	defer func() { globalLogger = prev }()

	var buf bytes.Buffer
	SetGlobalLogger(jsonLogger(&buf, "info"))
	Info("global")
	WithComponent("c").Warn("tagged")
	if !strings.Contains(buf.String(), "global") || !strings.Contains(buf.String(), "tagged") {
		t.Errorf("global output missing lines: %s", buf.String())
	}
}
