// Package logger provides the structured, multi-sink logger used by every
// stage of the request lifecycle. A single instance is constructed at process
// start and passed by reference; there is no package-level state.
package logger

import (
	"os"
	"path/filepath"
	"sort"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/taskvault/go/internal/redact"
)

// Level orders the five emission levels from most to least verbose.
type Level int8

const (
	LevelDebug Level = iota
	LevelHTTP
	LevelInfo
	LevelWarn
	LevelError
)

// Logger writes structured records to a console sink and two append-only file
// sinks: combined.log receives every enabled level, error.log only errors.
// Metadata is redacted before emission except for info/http records in
// development mode, which pass through verbatim for local debugging.
//
// Logging is best-effort: a sink that cannot be opened degrades to the
// remaining sinks, and write failures never propagate to callers.
type Logger struct {
	zl          *zap.Logger
	min         Level
	development bool
}

// New builds a Logger for the given environment. In development the minimum
// enabled level is debug; otherwise it is warn. Log files are created under
// dir; an empty dir or an unwritable path leaves the logger console-only.
func New(env, dir string) *Logger {
	development := env == "development"

	encoder := zapcore.NewJSONEncoder(zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "logger",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "message",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.MillisDurationEncoder,
	})

	// Min-level gating happens in emit; the cores themselves accept anything
	// except the error file, which only ever sees error records.
	cores := []zapcore.Core{
		zapcore.NewCore(encoder, zapcore.Lock(os.Stdout), zapcore.DebugLevel),
	}
	if dir != "" {
		if combined := openSink(filepath.Join(dir, "combined.log")); combined != nil {
			cores = append(cores, zapcore.NewCore(encoder, combined, zapcore.DebugLevel))
		}
		if errOnly := openSink(filepath.Join(dir, "error.log")); errOnly != nil {
			cores = append(cores, zapcore.NewCore(encoder, errOnly, zapcore.ErrorLevel))
		}
	}

	min := LevelWarn
	if development {
		min = LevelDebug
	}

	return &Logger{
		zl:          zap.New(zapcore.NewTee(cores...)),
		min:         min,
		development: development,
	}
}

func openSink(path string) zapcore.WriteSyncer {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil
	}
	return zapcore.Lock(zapcore.AddSync(f))
}

// Sync flushes any buffered log entries.
func (l *Logger) Sync() {
	_ = l.zl.Sync()
}

// Error logs an error message. Metadata is always redacted.
func (l *Logger) Error(msg string, metadata map[string]any) {
	l.emit(LevelError, msg, metadata)
}

// Warn logs a warning message. Metadata is always redacted.
func (l *Logger) Warn(msg string, metadata map[string]any) {
	l.emit(LevelWarn, msg, metadata)
}

// Info logs an info message. Metadata is redacted outside development.
func (l *Logger) Info(msg string, metadata map[string]any) {
	l.emit(LevelInfo, msg, metadata)
}

// Http logs a request-level access record. Metadata is redacted outside
// development.
func (l *Logger) Http(msg string, metadata map[string]any) {
	l.emit(LevelHTTP, msg, metadata)
}

// Debug logs a debug message. No-op outside development.
func (l *Logger) Debug(msg string, metadata map[string]any) {
	l.emit(LevelDebug, msg, metadata)
}

// Fatal logs at error level and exits the process. Used only from main during
// startup, before the server accepts traffic.
func (l *Logger) Fatal(msg string, metadata map[string]any) {
	l.zl.Fatal(msg, l.fields(LevelError, metadata)...)
}

func (l *Logger) emit(level Level, msg string, metadata map[string]any) {
	if level < l.min {
		return
	}
	l.zl.Log(zapLevel(level), msg, l.fields(level, metadata)...)
}

func (l *Logger) fields(level Level, metadata map[string]any) []zap.Field {
	if len(metadata) == 0 {
		return nil
	}
	if l.redactFor(level) {
		metadata = redact.Redact(metadata).(map[string]any)
	}
	keys := make([]string, 0, len(metadata))
	for k := range metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	fields := make([]zap.Field, 0, len(keys))
	for _, k := range keys {
		fields = append(fields, zap.Any(k, metadata[k]))
	}
	return fields
}

// redactFor decides whether metadata must be masked before emission.
// Error and warn records always are; info and http only outside development.
// Debug records never reach a sink outside development in the first place.
func (l *Logger) redactFor(level Level) bool {
	switch level {
	case LevelError, LevelWarn:
		return true
	case LevelInfo, LevelHTTP:
		return !l.development
	default:
		return false
	}
}

// zap has no distinct http level; access records ride on info. The Level enum
// above still gates them independently.
func zapLevel(level Level) zapcore.Level {
	switch level {
	case LevelDebug:
		return zapcore.DebugLevel
	case LevelWarn:
		return zapcore.WarnLevel
	case LevelError:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
