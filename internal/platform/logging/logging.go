package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Config captures logging configuration options.
type Config struct {
	Level    string
	Dir      string
	Filename string
}

// Logger writes leveled, tagged log lines to the console and an optional
// log file. A slog handle is exposed for structured integrations.
type Logger struct {
	slogger *slog.Logger
	level   slog.Level
	file    *os.File
}

var (
	colorReset = "\x1b[0m"
	colorTime  = "\x1b[90m"
	colorDebug = "\x1b[36m"
	colorInfo  = "\x1b[32m"
	colorWarn  = "\x1b[33m"
	colorError = "\x1b[31m"
)

type textHandler struct {
	writer io.Writer
	file   io.Writer
	level  slog.Level
	mu     sync.Mutex
}

func (h *textHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *textHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	timeStr := r.Time.Format("2006-01-02 15:04:05.000")

	var levelStr, levelColor string
	switch r.Level {
	case slog.LevelDebug:
		levelStr, levelColor = "DEBUG", colorDebug
	case slog.LevelWarn:
		levelStr, levelColor = "WARN", colorWarn
	case slog.LevelError:
		levelStr, levelColor = "ERROR", colorError
	default:
		levelStr, levelColor = "INFO", colorInfo
	}

	fmt.Fprintf(h.writer, "%s[%s]%s %s[%s]%s %s\n",
		colorTime, timeStr, colorReset,
		levelColor, levelStr, colorReset,
		r.Message,
	)
	if h.file != nil {
		fmt.Fprintf(h.file, "[%s] [%s] %s\n", timeStr, levelStr, r.Message)
	}
	return nil
}

func (h *textHandler) WithAttrs(_ []slog.Attr) slog.Handler { return h }
func (h *textHandler) WithGroup(_ string) slog.Handler      { return h }

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// New creates a Logger writing to stdout and, when cfg.Dir is set, to a
// dated file under that directory.
func New(cfg Config) (*Logger, error) {
	level := parseLevel(cfg.Level)

	var file *os.File
	if cfg.Dir != "" {
		if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
			return nil, fmt.Errorf("create log dir: %w", err)
		}
		name := cfg.Filename
		if name == "" {
			name = "server.log"
		}
		name = time.Now().Format("20060102") + "_" + name
		f, err := os.OpenFile(filepath.Join(cfg.Dir, name), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		file = f
	}

	handler := &textHandler{
		writer: os.Stdout,
		level:  level,
	}
	if file != nil {
		handler.file = file
	}

	return &Logger{
		slogger: slog.New(handler),
		level:   level,
		file:    file,
	}, nil
}

// Slog exposes the structured logger for integrations that prefer slog.
func (l *Logger) Slog() *slog.Logger {
	return l.slogger
}

// Close releases the underlying log file, if any.
func (l *Logger) Close() error {
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

func (l *Logger) Debug(format string, args ...any) {
	l.slogger.Debug(fmt.Sprintf(format, args...))
}

func (l *Logger) Info(format string, args ...any) {
	l.slogger.Info(fmt.Sprintf(format, args...))
}

func (l *Logger) Warn(format string, args ...any) {
	l.slogger.Warn(fmt.Sprintf(format, args...))
}

func (l *Logger) Error(format string, args ...any) {
	l.slogger.Error(fmt.Sprintf(format, args...))
}

// InfoTag logs with a bracketed component tag, e.g. "[HTTP] ...".
func (l *Logger) InfoTag(tag, format string, args ...any) {
	l.slogger.Info(fmt.Sprintf("[%s] %s", tag, fmt.Sprintf(format, args...)))
}

func (l *Logger) WarnTag(tag, format string, args ...any) {
	l.slogger.Warn(fmt.Sprintf("[%s] %s", tag, fmt.Sprintf(format, args...)))
}

func (l *Logger) ErrorTag(tag, format string, args ...any) {
	l.slogger.Error(fmt.Sprintf("[%s] %s", tag, fmt.Sprintf(format, args...)))
}
