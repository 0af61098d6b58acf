package jsonschema

import (
	"context"
	"log/slog"
	"os"
)

// Logger is the structured logging interface used throughout the compiler
// and registry. It is intentionally small so that callers can adapt any
// existing logging setup (slog, zap, zerolog) without pulling in another
// dependency.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	WithField(key string, value any) Logger
}

// NoopLogger discards everything. It is the logger installed by
// SetLogger(nil) and SetDefaultLogger(nil).
type NoopLogger struct{}

func (NoopLogger) Debug(string, ...any)       {}
func (NoopLogger) Info(string, ...any)        {}
func (NoopLogger) Warn(string, ...any)        {}
func (NoopLogger) Error(string, ...any)       {}
func (n NoopLogger) WithField(string, any) Logger { return n }

// slogLogger adapts log/slog to the Logger interface. It is the default
// logger installed on a Compiler created with NewCompiler.
type slogLogger struct {
	handler *slog.Logger
}

// NewSlogLogger builds a Logger backed by log/slog, writing text-formatted
// records to stderr at info level by default.
func NewSlogLogger(handler *slog.Logger) Logger {
	if handler == nil {
		handler = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}
	return &slogLogger{handler: handler}
}

func (l *slogLogger) Debug(msg string, args ...any) { l.handler.Debug(msg, args...) }
func (l *slogLogger) Info(msg string, args ...any)  { l.handler.Info(msg, args...) }
func (l *slogLogger) Warn(msg string, args ...any)  { l.handler.Warn(msg, args...) }
func (l *slogLogger) Error(msg string, args ...any) { l.handler.Error(msg, args...) }

func (l *slogLogger) WithField(key string, value any) Logger {
	return &slogLogger{handler: l.handler.With(key, value)}
}

// defaultLogger is used by any Compiler that never calls SetLogger.
var defaultLogger Logger = NewSlogLogger(nil)

// SetDefaultLogger replaces the package-level default logger, affecting any
// Compiler created afterward without an explicit SetLogger call.
func SetDefaultLogger(logger Logger) {
	if logger == nil {
		logger = NoopLogger{}
	}
	defaultLogger = logger
}

// loggerFromContext extracts a Logger previously attached with
// contextWithLogger, falling back to the default logger.
func loggerFromContext(ctx context.Context) Logger {
	if ctx == nil {
		return defaultLogger
	}
	if l, ok := ctx.Value(loggerContextKey{}).(Logger); ok && l != nil {
		return l
	}
	return defaultLogger
}

type loggerContextKey struct{}

// contextWithLogger attaches a Logger to ctx for loggerFromContext to read
// back. CompileAsync does not call it: loadSchema receives the caller's ctx
// unchanged.
func contextWithLogger(ctx context.Context, logger Logger) context.Context {
	return context.WithValue(ctx, loggerContextKey{}, logger)
}
