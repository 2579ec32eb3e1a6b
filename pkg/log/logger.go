package log

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Format selects the slog handler used by SlogLogger.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

type SlogLogger struct {
	logger *slog.Logger
}

func NewSlogLogger(level slog.Level, out io.Writer) *SlogLogger {
	return NewSlogLoggerWithFormat(level, FormatText, out)
}

func NewSlogLoggerWithFormat(level slog.Level, format Format, out io.Writer) *SlogLogger {
	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if format == FormatJSON {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}
	return &SlogLogger{logger: slog.New(handler)}
}

// Discard returns a logger that drops every record.
func Discard() *SlogLogger {
	return NewSlogLogger(slog.LevelError, io.Discard)
}

// With returns a logger that adds args to every record.
func (l *SlogLogger) With(args ...any) *SlogLogger {
	return &SlogLogger{logger: l.logger.With(args...)}
}

func (l *SlogLogger) Debug(msg string, args ...any) {
	l.logger.Debug(msg, args...)
}

func (l *SlogLogger) Info(msg string, args ...any) {
	l.logger.Info(msg, args...)
}

func (l *SlogLogger) Warn(msg string, args ...any) {
	l.logger.Warn(msg, args...)
}

func (l *SlogLogger) Error(msg string, args ...any) {
	l.logger.Error(msg, args...)
}

func ParseLevel(levelStr string) (slog.Level, error) {
	switch strings.ToLower(levelStr) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid log level: %s", levelStr)
	}
}

func ParseFormat(formatStr string) (Format, error) {
	switch strings.ToLower(formatStr) {
	case "", "text":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	default:
		return FormatText, fmt.Errorf("invalid log format: %s", formatStr)
	}
}
