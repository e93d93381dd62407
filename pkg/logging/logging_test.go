package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	table := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{" WARN ", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"", zapcore.InfoLevel},
		{"loud", zapcore.InfoLevel},
	}

	for _, tc := range table {
		t.Run(tc.in, func(t *testing.T) {
			if got := ParseLevel(tc.in); got != tc.want {
				t.Errorf("got %s, want %s", got, tc.want)
			}
		})
	}
}

func TestNew(t *testing.T) {
	logger, err := New("warn", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if logger.Core().Enabled(zapcore.InfoLevel) {
		t.Error("info enabled on a warn logger")
	}
	if !logger.Core().Enabled(zapcore.WarnLevel) {
		t.Error("warn disabled on a warn logger")
	}

	debug, err := New("error", true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !debug.Core().Enabled(zapcore.DebugLevel) {
		t.Error("debug logger does not log at debug")
	}
}

func TestNewTo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "import.log")
	logger, err := NewTo(path, "info", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	logger.Info("imported stations", zap.Int("added", 3))
	logger.Sync()

	buf, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf), &entry); err != nil {
		t.Fatalf("log line %q is not json: %v", buf, err)
	}
	if entry["msg"] != "imported stations" || entry["added"] != float64(3) {
		t.Errorf("unexpected entry %v", entry)
	}
}

func TestRequests(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	h := Requests(zap.New(core), http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("nope"))
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/api/v1/tide", nil))

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("got %d log entries, want 1", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["status"] != int64(http.StatusNotFound) {
		t.Errorf("status field = %v", fields["status"])
	}
	if fields["size"] != int64(4) {
		t.Errorf("size field = %v", fields["size"])
	}
	if fields["path"] != "/api/v1/tide" {
		t.Errorf("path field = %v", fields["path"])
	}
}

func TestContext(t *testing.T) {
	fallback := zap.NewNop()
	if got := FromContext(context.Background(), fallback); got != fallback {
		t.Error("empty context did not return the fallback")
	}

	scoped := zap.NewExample().With(zap.String("request_id", "abc"))
	ctx := NewContext(context.Background(), scoped)
	if got := FromContext(ctx, fallback); got != scoped {
		t.Error("stored logger not returned")
	}
}
