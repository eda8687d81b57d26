package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/MikeBiancalana/datefield/internal/config"
)

// Config controls where and how much the process logs. In TUI mode logs
// must not reach the terminal, so a file is required.
type Config struct {
	Level   string
	Format  string
	File    string
	TUIMode bool
}

var (
	mu         sync.RWMutex
	logger     *slog.Logger
	logLevel   slog.Level
	logFormat  string
	logFile    string
	tuiMode    bool
	fileWriter *lumberjack.Logger
	once       sync.Once
)

func init() {
	Initialize()
}

// Initialize configures the logger from LOG_LEVEL, LOG_FORMAT, LOG_FILE and
// DATEFIELD_DEBUG. Only the first call has an effect.
func Initialize() {
	once.Do(func() {
		if err := InitializeWithConfig(ConfigFromEnv()); err != nil {
			fallback := slog.New(slog.NewTextHandler(os.Stderr, nil))
			fallback.Warn("Initialize", "error", err)
			mu.Lock()
			logger = fallback
			logLevel = slog.LevelInfo
			logFormat = "text"
			mu.Unlock()
		}
	})
}

// ConfigFromEnv reads logger settings from the environment
func ConfigFromEnv() Config {
	levelStr := os.Getenv("LOG_LEVEL")
	if levelStr == "" {
		levelStr = os.Getenv("DATEFIELD_DEBUG")
		if levelStr == "1" || levelStr == "true" {
			levelStr = "DEBUG"
		} else {
			levelStr = "INFO"
		}
	}
	return Config{
		Level:  levelStr,
		Format: os.Getenv("LOG_FORMAT"),
		File:   os.Getenv("LOG_FILE"),
	}
}

// InitializeWithConfig replaces the process logger. It may be called again,
// for example when the TUI starts and logging has to move to a file.
func InitializeWithConfig(cfg Config) error {
	level := parseLevel(cfg.Level)
	format := strings.ToLower(cfg.Format)
	if format == "" {
		format = "text"
	}

	file := cfg.File
	if file == "" && cfg.TUIMode {
		logDir, err := config.LogDir()
		if err != nil {
			return fmt.Errorf("TUI mode requires file-based logging: %w", err)
		}
		file = filepath.Join(logDir, config.AppName+".log")
	}

	var out io.Writer = os.Stderr
	var writer *lumberjack.Logger
	if file != "" {
		if err := os.MkdirAll(filepath.Dir(file), 0755); err != nil {
			if cfg.TUIMode {
				return fmt.Errorf("TUI mode requires file-based logging: %w", err)
			}
			return fmt.Errorf("failed to create log directory: %w", err)
		}
		writer = &lumberjack.Logger{
			Filename:   file,
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     28,
		}
		out = writer
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}

	mu.Lock()
	defer mu.Unlock()
	if fileWriter != nil {
		fileWriter.Close()
	}
	logger = slog.New(handler)
	logLevel = level
	logFormat = format
	logFile = file
	tuiMode = cfg.TUIMode
	fileWriter = writer
	return nil
}

func parseLevel(s string) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// Close flushes and closes the log file, if any. It is safe to call more
// than once.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if fileWriter == nil {
		return nil
	}
	err := fileWriter.Close()
	fileWriter = nil
	return err
}

func GetLogger() *slog.Logger {
	mu.RLock()
	l := logger
	mu.RUnlock()
	if l == nil {
		Initialize()
		mu.RLock()
		l = logger
		mu.RUnlock()
	}
	return l
}

func GetLevel() slog.Level {
	mu.RLock()
	defer mu.RUnlock()
	return logLevel
}

func GetFormat() string {
	mu.RLock()
	defer mu.RUnlock()
	return logFormat
}

func GetLogFile() string {
	mu.RLock()
	defer mu.RUnlock()
	return logFile
}

func IsTUIMode() bool {
	mu.RLock()
	defer mu.RUnlock()
	return tuiMode
}

func Debug(msg string, args ...any) {
	GetLogger().Debug(msg, args...)
}

func Info(msg string, args ...any) {
	GetLogger().Info(msg, args...)
}

func Warn(msg string, args ...any) {
	GetLogger().Warn(msg, args...)
}

func Error(msg string, args ...any) {
	GetLogger().Error(msg, args...)
}
