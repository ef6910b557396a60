// Copyright (C) 2025 Louis Goodnews
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package logging provides structured logging for tooling built on the
// record containers.
//
// The package wraps the standard library slog package with the six levels
// used throughout this project and a colorised console handler. The record
// core itself emits no log calls; this logger exists for the surrounding
// tooling (the demo CLI, applications embedding the containers).
//
// # Basic Usage
//
//	logger := logging.GetLogger("main")
//	logger.Info("record constructed", "fields", rec.Len())
//	logger.Error("construction failed", "error", err)
//
// # Log Levels
//
// Six levels are supported, ordered by severity:
//
//   - Silent: chatter that should only surface when everything is requested
//   - Debug: development troubleshooting, verbose output
//   - Info: normal operations
//   - Warning: recoverable issues
//   - Error: operation failures (but the program continues)
//   - Critical: failures the program cannot recover from
//
// Setting Config.Level filters out everything below it. Silent is a real
// level, not an off switch: use Config.Quiet to discard all output.
//
// # Thread Safety
//
// Logger is safe for concurrent use. The console handler serializes writes
// with a mutex; the underlying slog.Logger is thread-safe.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"
)

// =============================================================================
// Log Levels
// =============================================================================

// Level represents log severity.
//
// Levels are ordered Silent < Debug < Info < Warning < Error < Critical.
// Setting a minimum level filters out all logs below that level.
type Level int

const (
	// LevelSilent is the lowest severity, below Debug. Use for chatter
	// that should only surface when everything is requested.
	LevelSilent Level = iota

	// LevelDebug is for development troubleshooting.
	LevelDebug

	// LevelInfo is for normal operational messages.
	LevelInfo

	// LevelWarning is for unexpected but recoverable situations.
	LevelWarning

	// LevelError is for failed operations the program survives.
	LevelError

	// LevelCritical is for failures the program cannot recover from.
	LevelCritical
)

// String returns the human-readable name of the level.
func (l Level) String() string {
	switch l {
	case LevelSilent:
		return "SILENT"
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarning:
		return "WARNING"
	case LevelError:
		return "ERROR"
	case LevelCritical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

// toSlogLevel bridges Level onto the slog numeric scale. Silent and
// Critical sit outside the four standard slog levels.
func (l Level) toSlogLevel() slog.Level {
	switch l {
	case LevelSilent:
		return slog.LevelDebug - 4
	case LevelDebug:
		return slog.LevelDebug
	case LevelInfo:
		return slog.LevelInfo
	case LevelWarning:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	case LevelCritical:
		return slog.LevelError + 4
	default:
		return slog.LevelInfo
	}
}

// levelFromSlog maps a slog.Level back onto the project scale for display.
func levelFromSlog(l slog.Level) Level {
	switch {
	case l < slog.LevelDebug:
		return LevelSilent
	case l < slog.LevelInfo:
		return LevelDebug
	case l < slog.LevelWarn:
		return LevelInfo
	case l < slog.LevelError:
		return LevelWarning
	case l < slog.LevelError+4:
		return LevelError
	default:
		return LevelCritical
	}
}

// ANSI color codes per level, one color per severity.
const colorReset = "\033[0m"

var levelColors = map[Level]string{
	LevelCritical: "\033[91m", // bright red
	LevelDebug:    "\033[94m", // bright blue
	LevelError:    "\033[93m", // bright yellow
	LevelInfo:     "\033[92m", // bright green
	LevelSilent:   "\033[90m", // grey
	LevelWarning:  "\033[95m", // bright magenta
}

// =============================================================================
// Configuration
// =============================================================================

// Config configures the Logger. The zero value logs everything (Silent and
// up) to stderr as colorised text with no logger name.
type Config struct {
	// Level sets the minimum log level. Messages below it are discarded.
	Level Level

	// Name identifies the logger. It appears in every console line and is
	// attached as the "logger" attribute in JSON mode.
	Name string

	// JSON switches output to slog's JSON handler. JSON output is never
	// colorised.
	JSON bool

	// NoColor disables ANSI colors on the console handler.
	NoColor bool

	// Quiet discards all output. Useful in tests.
	Quiet bool

	// Output overrides the destination. Default: os.Stderr.
	Output io.Writer
}

// =============================================================================
// Logger
// =============================================================================

// Logger is a named, leveled structured logger.
type Logger struct {
	slog  *slog.Logger
	level *slog.LevelVar
	cfg   Config
}

// New creates a Logger from the configuration.
func New(cfg Config) *Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	if cfg.Quiet {
		out = io.Discard
	}

	level := new(slog.LevelVar)
	level.Set(cfg.Level.toSlogLevel())

	var handler slog.Handler
	if cfg.JSON {
		handler = slog.NewJSONHandler(out, &slog.HandlerOptions{
			Level: level,
			ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
				if a.Key == slog.LevelKey {
					if lv, ok := a.Value.Any().(slog.Level); ok {
						a.Value = slog.StringValue(levelFromSlog(lv).String())
					}
				}
				return a
			},
		})
		if cfg.Name != "" {
			handler = handler.WithAttrs([]slog.Attr{slog.String("logger", cfg.Name)})
		}
	} else {
		handler = &consoleHandler{
			w:       out,
			level:   level,
			name:    cfg.Name,
			noColor: cfg.NoColor,
			mu:      &sync.Mutex{},
		}
	}

	return &Logger{
		slog:  slog.New(handler),
		level: level,
		cfg:   cfg,
	}
}

// GetLogger returns a named logger with default settings: Info level,
// colorised output on stderr.
func GetLogger(name string) *Logger {
	return New(Config{Level: LevelInfo, Name: name})
}

// Default returns an unnamed logger with default settings.
func Default() *Logger {
	return New(Config{Level: LevelInfo})
}

// SetLevel changes the minimum level at runtime. Child loggers created with
// With share the level and see the change too.
func (l *Logger) SetLevel(level Level) {
	l.level.Set(level.toSlogLevel())
}

// Level returns the current minimum level.
func (l *Logger) Level() Level {
	return levelFromSlog(l.level.Level())
}

// Name returns the logger's name.
func (l *Logger) Name() string { return l.cfg.Name }

// Silent logs a message at Silent level.
func (l *Logger) Silent(msg string, args ...any) {
	l.log(LevelSilent, msg, args...)
}

// Debug logs a message at Debug level.
func (l *Logger) Debug(msg string, args ...any) {
	l.log(LevelDebug, msg, args...)
}

// Info logs a message at Info level.
func (l *Logger) Info(msg string, args ...any) {
	l.log(LevelInfo, msg, args...)
}

// Warning logs a message at Warning level.
func (l *Logger) Warning(msg string, args ...any) {
	l.log(LevelWarning, msg, args...)
}

// Error logs a message at Error level.
func (l *Logger) Error(msg string, args ...any) {
	l.log(LevelError, msg, args...)
}

// Critical logs a message at Critical level.
func (l *Logger) Critical(msg string, args ...any) {
	l.log(LevelCritical, msg, args...)
}

// With returns a child logger carrying additional attributes. The child
// shares the parent's level variable.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{
		slog:  l.slog.With(args...),
		level: l.level,
		cfg:   l.cfg,
	}
}

// Slog returns the underlying slog.Logger for direct use.
func (l *Logger) Slog() *slog.Logger { return l.slog }

func (l *Logger) log(level Level, msg string, args ...any) {
	l.slog.Log(context.Background(), level.toSlogLevel(), msg, args...)
}

// =============================================================================
// Console Handler
// =============================================================================

// consoleHandler renders records as single colorised lines:
//
//	[2025-01-02 15:04:05] - [INFO] - [main] - message key=value
type consoleHandler struct {
	w       io.Writer
	level   *slog.LevelVar
	name    string
	noColor bool
	attrs   []slog.Attr
	mu      *sync.Mutex
}

// Enabled reports whether the handler accepts the level.
func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle writes one formatted line.
func (h *consoleHandler) Handle(_ context.Context, r slog.Record) error {
	level := levelFromSlog(r.Level)

	var line []byte
	if !h.noColor {
		line = append(line, levelColors[level]...)
	}
	line = fmt.Appendf(line, "[%s] - [%s]", r.Time.Format(time.DateTime), level)
	if h.name != "" {
		line = fmt.Appendf(line, " - [%s]", h.name)
	}
	line = fmt.Appendf(line, " - %s", r.Message)
	for _, attr := range h.attrs {
		line = fmt.Appendf(line, " %s=%v", attr.Key, attr.Value.Any())
	}
	r.Attrs(func(attr slog.Attr) bool {
		line = fmt.Appendf(line, " %s=%v", attr.Key, attr.Value.Any())
		return true
	})
	if !h.noColor {
		line = append(line, colorReset...)
	}
	line = append(line, '\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.w.Write(line)
	return err
}

// WithAttrs returns a handler carrying additional attributes.
func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &clone
}

// WithGroup returns the handler unchanged; groups are flattened on the
// console.
func (h *consoleHandler) WithGroup(string) slog.Handler {
	return h
}
