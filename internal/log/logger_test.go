package log

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{" WARN ", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"info", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLogger_JSONTagsComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Output: &buf, Format: FormatJSON, Level: slog.LevelInfo, Component: ComponentStorage})

	logger.Info("opened", "path", "calendar.db")
	logger.Debug("hidden")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected one line, got %q", buf.String())
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if entry[FieldComponent] != ComponentStorage || entry["path"] != "calendar.db" {
		t.Errorf("unexpected entry %v", entry)
	}
}

func TestLogger_WithComponent(t *testing.T) {
	var buf bytes.Buffer
	base := New(Config{Output: &buf, Format: FormatText})
	worker := base.WithComponent(ComponentWorker)

	if worker.Component() != ComponentWorker || base.Component() != ComponentApp {
		t.Fatalf("components = %q, %q", worker.Component(), base.Component())
	}
	worker.Warn("resync failed")
	if !strings.Contains(buf.String(), "component=worker") {
		t.Errorf("missing component in %q", buf.String())
	}
}

func TestFromContext(t *testing.T) {
	if got := FromContext(context.Background()); got == nil || got.Component() != "unknown" {
		t.Fatalf("fallback logger = %+v", got)
	}

	logger := Discard().WithComponent(ComponentHTTP)
	ctx := NewContext(context.Background(), logger)
	if FromContext(ctx) != logger {
		t.Error("expected the stored logger")
	}
}

func TestMiddleware(t *testing.T) {
	logger := Discard().WithComponent(ComponentHTTP)
	var seen *Logger
	h := Middleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = FromContext(r.Context())
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	if seen != logger {
		t.Error("middleware did not attach the logger")
	}
}

func TestStructuredLogger_LogError(t *testing.T) {
	var buf bytes.Buffer
	sl := NewStructuredLogger(New(Config{Output: &buf, Format: FormatJSON}))

	sl.LogError(context.Background(), "Request failed", errors.New("disk full"),
		ComponentHTTP, OpCreate, NewFields().WithErrorType(ErrorTypeDatabase))

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if entry[FieldError] != "disk full" || entry[FieldErrorType] != ErrorTypeDatabase || entry[FieldOperation] != OpCreate {
		t.Errorf("unexpected entry %v", entry)
	}
}

func TestLogFields_WithRecord(t *testing.T) {
	f := NewFields().WithRecord(3, "Анна", "2024-02-29", true).WithPeriod(2024, 2)
	if f[FieldYear] != 2024 || f[FieldMonth] != 2 {
		t.Errorf("period fields = %v", f)
	}
	if len(f.ToSlice()) != 2*len(f) {
		t.Errorf("ToSlice length mismatch")
	}
}
