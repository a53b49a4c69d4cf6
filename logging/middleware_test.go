package logging

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func captureLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewTextHandler(&buf, nil)), &buf
}

func TestLoggingMiddlewareLogsRequests(t *testing.T) {
	logger, buf := captureLogger()

	handler := LoggingMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("not found"))
	}))

	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	out := buf.String()
	if !strings.Contains(out, "HTTP request") {
		t.Errorf("Expected request log line, got %q", out)
	}
	if !strings.Contains(out, "status_code=404") {
		t.Errorf("Expected status code in log line, got %q", out)
	}
	if !strings.Contains(out, "path=/nope") {
		t.Errorf("Expected path in log line, got %q", out)
	}
}

func TestLoggingMiddlewareSkipsScrapeTraffic(t *testing.T) {
	logger, buf := captureLogger()

	handler := LoggingMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for _, path := range []string{"/metrics", "/health"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		handler.ServeHTTP(httptest.NewRecorder(), req)
	}

	if buf.Len() != 0 {
		t.Errorf("Expected no log output for scrape traffic, got %q", buf.String())
	}
}

func TestSetupLoggerFallsBackToConsole(t *testing.T) {
	// A file path where a directory cannot be created
	logger := SetupLogger("/dev/null/logs", "info")
	if logger == nil {
		t.Fatal("Expected a console fallback logger, got nil")
	}
}

func TestGlobalHelpersBeforeInit(t *testing.T) {
	// Must not panic before InitLogger runs
	prev := DefaultLoggingService
	DefaultLoggingService = nil
	defer func() { DefaultLoggingService = prev }()

	Info("info works before init")
	Warn("warn works before init")
	Error("error works before init")
	Debug("debug works before init")
}

func TestParseLevel(t *testing.T) {
	testCases := []struct {
		in       string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"bogus", slog.LevelInfo},
	}

	for _, tc := range testCases {
		if got := parseLevel(tc.in); got != tc.expected {
			t.Errorf("parseLevel(%q) = %v, expected %v", tc.in, got, tc.expected)
		}
	}
}
