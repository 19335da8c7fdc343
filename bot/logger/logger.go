package logger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/liuran001/LinkCleanBot/bot"
)

// Logger wraps slog.Logger to satisfy bot.Logger.
type Logger struct {
	logger  *slog.Logger
	logFile *os.File // closed on shutdown
}

// Options configures New.
type Options struct {
	Level     string
	Format    string
	Dir       string
	AddSource bool
}

// New creates a Logger writing to stdout and, when Dir is set, to a daily file.
func New(opts Options) (*Logger, error) {
	logFile, output, err := logOutput(opts.Dir)
	if err != nil {
		return nil, err
	}
	return &Logger{logger: slog.New(newHandler(output, opts)), logFile: logFile}, nil
}

// NewWithWriter creates a Logger that writes only to w.
func NewWithWriter(w io.Writer, opts Options) *Logger {
	return &Logger{logger: slog.New(newHandler(w, opts))}
}

func newHandler(w io.Writer, opts Options) slog.Handler {
	options := &slog.HandlerOptions{
		Level:     parseLevel(opts.Level),
		AddSource: opts.AddSource,
	}
	if strings.EqualFold(strings.TrimSpace(opts.Format), "json") {
		return slog.NewJSONHandler(w, options)
	}
	return slog.NewTextHandler(w, options)
}

// With returns a child logger with additional fields.
func (l *Logger) With(args ...any) bot.Logger {
	return &Logger{logger: l.logger.With(args...)}
}

func (l *Logger) Debug(msg string, args ...any) { l.logger.Debug(msg, args...) }
func (l *Logger) Info(msg string, args ...any)  { l.logger.Info(msg, args...) }
func (l *Logger) Warn(msg string, args ...any)  { l.logger.Warn(msg, args...) }
func (l *Logger) Error(msg string, args ...any) { l.logger.Error(msg, args...) }

// Slog returns the underlying slog.Logger.
func (l *Logger) Slog() *slog.Logger {
	return l.logger
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	case "info":
		fallthrough
	default:
		return slog.LevelInfo
	}
}

func logOutput(dir string) (*os.File, io.Writer, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, os.Stdout, nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, nil, err
	}

	fileName := time.Now().Local().Format("2006-01-02") + ".log"
	file, err := os.OpenFile(filepath.Join(dir, fileName), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}

	return file, io.MultiWriter(os.Stdout, file), nil
}

// Close closes the log file handle.
func (l *Logger) Close() error {
	if l == nil || l.logFile == nil {
		return nil
	}
	return l.logFile.Close()
}
