package logger

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

func TestInitializeWithConfig_TUIMode(t *testing.T) {
	homeDir := t.TempDir()
	t.Setenv("HOME", homeDir)
	t.Setenv("DATEFIELD_DATA_DIR", "")

	cfg := Config{
		Level:   "DEBUG",
		Format:  "text",
		TUIMode: true,
	}

	if err := InitializeWithConfig(cfg); err != nil {
		t.Fatalf("Failed to initialize logger: %v", err)
	}
	defer Close()

	if GetLevel() != slog.LevelDebug {
		t.Errorf("Expected log level DEBUG, got %v", GetLevel())
	}

	expectedLogFile := filepath.Join(homeDir, ".datefield", "logs", "datefield.log")
	if GetLogFile() != expectedLogFile {
		t.Errorf("Expected log file %s, got %s", expectedLogFile, GetLogFile())
	}

	if !IsTUIMode() {
		t.Error("TUI mode should be true")
	}

	if _, err := os.Stat(filepath.Dir(expectedLogFile)); os.IsNotExist(err) {
		t.Errorf("Log directory should be created: %s", filepath.Dir(expectedLogFile))
	}
}

func TestInitializeWithConfig_StderrByDefault(t *testing.T) {
	cfg := Config{Level: "INFO", Format: "JSON"}

	if err := InitializeWithConfig(cfg); err != nil {
		t.Fatalf("Failed to initialize logger: %v", err)
	}

	if GetLogFile() != "" {
		t.Errorf("Log file should not be set in non-TUI mode, got %s", GetLogFile())
	}
	if IsTUIMode() {
		t.Error("TUI mode should be false")
	}
	if GetFormat() != "json" {
		t.Errorf("Expected log format json, got %s", GetFormat())
	}
}

func TestLogLevelParsing(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"DEBUG", slog.LevelDebug},
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"WARN", slog.LevelWarn},
		{"WARNING", slog.LevelWarn},
		{"ERROR", slog.LevelError},
		{"bogus", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if err := InitializeWithConfig(Config{Level: tt.input}); err != nil {
				t.Fatalf("Failed to initialize logger: %v", err)
			}
			if GetLevel() != tt.expected {
				t.Errorf("level %q: expected %v, got %v", tt.input, tt.expected, GetLevel())
			}
		})
	}
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("DATEFIELD_DEBUG", "1")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("LOG_FILE", "/tmp/datefield-test.log")

	cfg := ConfigFromEnv()
	if cfg.Level != "DEBUG" {
		t.Errorf("Expected DEBUG from DATEFIELD_DEBUG, got %s", cfg.Level)
	}
	if cfg.Format != "json" || cfg.File != "/tmp/datefield-test.log" {
		t.Errorf("Unexpected config %+v", cfg)
	}

	t.Setenv("LOG_LEVEL", "warn")
	if got := ConfigFromEnv().Level; got != "warn" {
		t.Errorf("LOG_LEVEL should win over DATEFIELD_DEBUG, got %s", got)
	}
}

func TestLoggingFunctions(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "functions.log")
	if err := InitializeWithConfig(Config{Level: "DEBUG", File: logFile}); err != nil {
		t.Fatalf("Failed to initialize logger: %v", err)
	}
	defer Close()

	Debug("test debug", "key", "value")
	Info("test info", "key", "value")
	Warn("test warn", "key", "value")
	Error("test error", "key", "value")

	content, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	for _, want := range []string{"test debug", "test info", "test warn", "test error"} {
		if !strings.Contains(string(content), want) {
			t.Errorf("Log file should contain %q", want)
		}
	}
}

func TestConcurrentAccess(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "concurrent.log")
	if err := InitializeWithConfig(Config{Level: "DEBUG", File: logFile}); err != nil {
		t.Fatalf("Failed to initialize logger: %v", err)
	}
	defer Close()

	const numGoroutines = 20
	const numLogsPerGoroutine = 50

	var wg sync.WaitGroup
	wg.Add(numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		go func(id int) {
			defer wg.Done()
			for j := 0; j < numLogsPerGoroutine; j++ {
				Info("concurrent info", "goroutine", id, "iteration", j)
				_ = GetLevel()
				_ = IsTUIMode()
			}
		}(i)
	}
	wg.Wait()

	content, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	lines := strings.Count(string(content), "\n")
	if lines != numGoroutines*numLogsPerGoroutine {
		t.Errorf("Expected %d log lines, got %d", numGoroutines*numLogsPerGoroutine, lines)
	}
}

func TestConcurrentInitialization(t *testing.T) {
	tmpDir := t.TempDir()
	const numGoroutines = 20

	var wg sync.WaitGroup
	wg.Add(numGoroutines)
	errs := make(chan error, numGoroutines)

	for i := 0; i < numGoroutines; i++ {
		go func(id int) {
			defer wg.Done()
			cfg := Config{Level: "INFO", File: filepath.Join(tmpDir, fmt.Sprintf("init-%d.log", id))}
			if err := InitializeWithConfig(cfg); err != nil {
				errs <- fmt.Errorf("goroutine %d: %v", id, err)
			}
			Info("test from goroutine", "id", id)
		}(i)
	}
	wg.Wait()
	close(errs)
	Close()

	for err := range errs {
		t.Error(err)
	}
}

func TestTUIModeFailure(t *testing.T) {
	cfg := Config{
		Level:   "INFO",
		File:    "/proc/invalid/path/that/cannot/be/created.log",
		TUIMode: true,
	}

	err := InitializeWithConfig(cfg)
	if err == nil {
		t.Fatal("Expected error for TUI mode with invalid log file path, got nil")
	}
	if !strings.Contains(err.Error(), "TUI mode requires file-based logging") {
		t.Errorf("Expected error message about TUI mode requirement, got: %v", err)
	}
}

func TestClose(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "close-test.log")
	if err := InitializeWithConfig(Config{Level: "INFO", File: logFile}); err != nil {
		t.Fatalf("Failed to initialize logger: %v", err)
	}

	Info("test log before close")

	if err := Close(); err != nil {
		t.Errorf("Close() returned error: %v", err)
	}
	if _, err := os.Stat(logFile); os.IsNotExist(err) {
		t.Error("Log file should exist after Close()")
	}
	if err := Close(); err != nil {
		t.Errorf("Second Close() returned error: %v", err)
	}
}
