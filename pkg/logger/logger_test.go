package logger

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestNewLogger(t *testing.T) {
	// Create a new logger without webhooks
	l := NewLogger("", "")
	if l == nil {
		t.Fatal("Expected logger to be created, got nil")
	}
	l.SetOutput(io.Discard)

	// Test that logger methods don't panic
	l.Info("Test info message", "TEST")
	l.Warn("Test warning message", "TEST")
	l.Debug("Test debug message", "TEST")
	l.System("Test system message", "TEST")
	l.Success("Test success message", "TEST")

	l.Close()
	// Closing twice must be harmless
	l.Close()
}

func TestLogLevelString(t *testing.T) {
	tests := []struct {
		level    LogLevel
		expected string
	}{
		{LevelCritical, "CRITICAL"},
		{LevelError, "ERROR"},
		{LevelWarn, "WARN"},
		{LevelSuccess, "SUCCESS"},
		{LevelInfo, "INFO"},
		{LevelDebug, "DEBUG"},
		{LevelSystem, "SYSTEM"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.level.String(); got != tt.expected {
				t.Errorf("LogLevel.String() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestLogLevelDiscordColor(t *testing.T) {
	tests := []struct {
		level LogLevel
		color int
	}{
		{LevelCritical, 0xFF0000},
		{LevelError, 0xFF0000},
		{LevelWarn, 0xFFFF00},
		{LevelSuccess, 0x00FF00},
		{LevelInfo, 0x0000FF},
		{LevelDebug, 0x800080},
		{LevelSystem, 0x808080},
	}

	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			if got := tt.level.DiscordColor(); got != tt.color {
				t.Errorf("LogLevel.DiscordColor() = %v, want %v", got, tt.color)
			}
		})
	}
}

func TestConsoleFormat(t *testing.T) {
	l := NewLogger("", "")
	defer l.Close()

	var buf bytes.Buffer
	l.SetOutput(&buf)
	l.SetColors(false)

	l.Warn("modulo sin nombre", "Loader")

	out := buf.String()
	if !strings.Contains(out, "[WARN] [Loader]: modulo sin nombre") {
		t.Errorf("unexpected console line: %q", out)
	}
}

func TestSetDebug(t *testing.T) {
	l := NewLogger("", "")
	defer l.Close()

	var buf bytes.Buffer
	l.SetOutput(&buf)
	l.SetDebug(false)

	l.Debug("hidden", "TEST")
	if buf.Len() != 0 {
		t.Errorf("debug output should be hidden, got %q", buf.String())
	}

	l.SetDebug(true)
	l.Debug("shown", "TEST")
	if !strings.Contains(buf.String(), "shown") {
		t.Errorf("debug output should be visible, got %q", buf.String())
	}
}

func TestLogFileCreation(t *testing.T) {
	// Clean up logs directory before test
	logsDir := filepath.Join(".", "logs")
	os.RemoveAll(logsDir)

	l := NewLogger("", "")
	l.SetOutput(io.Discard)
	l.Error("boom", "TEST")
	l.Close()

	// Check that log files were created
	combinedLog := filepath.Join(logsDir, "combined.log")
	errorLog := filepath.Join(logsDir, "error.log")

	if _, err := os.Stat(combinedLog); os.IsNotExist(err) {
		t.Error("Expected combined.log to be created")
	}

	data, err := os.ReadFile(errorLog)
	if err != nil {
		t.Fatalf("Expected error.log to be readable: %v", err)
	}
	if !strings.Contains(string(data), "[ERROR] [TEST]: boom") {
		t.Errorf("error.log missing entry, got %q", string(data))
	}
}

func TestWebhookRouting(t *testing.T) {
	var mu sync.Mutex
	hits := map[string]int{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		hits[r.URL.Path]++
		mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	h := newWebhookHook(srv.URL+"/errors", srv.URL+"/logs")
	if got := h.urlFor(LevelCritical); got != srv.URL+"/errors" {
		t.Errorf("urlFor(CRITICAL) = %v", got)
	}
	if got := h.urlFor(LevelInfo); got != srv.URL+"/logs" {
		t.Errorf("urlFor(INFO) = %v", got)
	}

	h.send(srv.URL+"/errors", LevelError, "fallo", "TEST")

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		mu.Lock()
		n := hits["/errors"]
		mu.Unlock()
		if n == 1 {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Error("Expected the error webhook to receive one request")
}

func TestGlobalLoggerInit(t *testing.T) {
	// Reset the global logger for this test
	logger = nil
	once = sync.Once{}

	l := Init("", "")
	if l == nil {
		t.Fatal("Expected Init to return a logger")
	}

	// Calling Init again should return the same logger
	l2 := Init("different", "different")
	if l != l2 {
		t.Error("Expected Init to return the same logger on subsequent calls")
	}

	// Get should return the same logger
	l3 := Get()
	if l != l3 {
		t.Error("Expected Get to return the same logger")
	}

	l.Close()
}
