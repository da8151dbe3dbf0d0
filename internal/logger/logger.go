// Package logger provides leveled logging with support for debug, info, warn, and error levels.
// Messages are printf-formatted. The text format writes std-log style lines with a
// level prefix; the json format writes one slog JSON record per line.
package logger

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// Level represents a logging level
type Level int

const (
	// DebugLevel logs are typically voluminous, and are usually disabled in production.
	DebugLevel Level = iota
	// InfoLevel is the default logging priority.
	InfoLevel
	// WarnLevel logs are more important than Info, but don't need individual human review.
	WarnLevel
	// ErrorLevel logs are high-priority. If an application is running smoothly, it shouldn't generate any error-level logs.
	ErrorLevel
)

var levelNames = map[Level]string{
	DebugLevel: "DEBUG",
	InfoLevel:  "INFO",
	WarnLevel:  "WARN",
	ErrorLevel: "ERROR",
}

var slogLevels = map[Level]slog.Level{
	DebugLevel: slog.LevelDebug,
	InfoLevel:  slog.LevelInfo,
	WarnLevel:  slog.LevelWarn,
	ErrorLevel: slog.LevelError,
}

// Logger provides leveled logging
type Logger struct {
	level Level
	text  *log.Logger  // text format
	json  *slog.Logger // json format
}

var (
	mu sync.RWMutex
	// Global logger instance
	defaultLogger *Logger
)

// ParseLevel maps a level name to a Level. Unknown names map to InfoLevel.
func ParseLevel(level string) Level {
	switch strings.ToLower(level) {
	case "debug":
		return DebugLevel
	case "info":
		return InfoLevel
	case "warn":
		return WarnLevel
	case "error":
		return ErrorLevel
	default:
		return InfoLevel
	}
}

// New creates a logger writing to w in the given format ("text" or "json").
func New(w io.Writer, level string, format string) *Logger {
	l := &Logger{level: ParseLevel(level)}
	if strings.ToLower(format) == "json" {
		l.json = slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slogLevels[l.level]}))
	} else {
		l.text = log.New(w, "", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	}
	return l
}

// Init initializes the default logger with the specified level and format
func Init(level string, format string) {
	SetDefault(New(os.Stderr, level, format))
}

// SetDefault replaces the default logger.
func SetDefault(l *Logger) {
	mu.Lock()
	defer mu.Unlock()
	defaultLogger = l
}

func (l *Logger) output(level Level, format string, args ...interface{}) {
	if l == nil || level < l.level {
		return
	}
	msg := fmt.Sprintf(format, args...)
	if l.json != nil {
		l.json.Log(context.Background(), slogLevels[level], msg)
		return
	}
	// depth 3: output <- package func <- caller
	_ = l.text.Output(3, "["+levelNames[level]+"] "+msg)
}

func current() *Logger {
	mu.RLock()
	defer mu.RUnlock()
	return defaultLogger
}

// Debug logs a message at DebugLevel
func Debug(format string, args ...interface{}) {
	current().output(DebugLevel, format, args...)
}

// Info logs a message at InfoLevel
func Info(format string, args ...interface{}) {
	current().output(InfoLevel, format, args...)
}

// Warn logs a message at WarnLevel
func Warn(format string, args ...interface{}) {
	current().output(WarnLevel, format, args...)
}

// Error logs a message at ErrorLevel
func Error(format string, args ...interface{}) {
	current().output(ErrorLevel, format, args...)
}

// Fatal logs a message at ErrorLevel and exits
func Fatal(format string, args ...interface{}) {
	l := current()
	if l == nil {
		log.Fatalf("[FATAL] "+format, args...)
	}
	msg := fmt.Sprintf(format, args...)
	if l.json != nil {
		l.json.Error(msg, "fatal", true)
	} else {
		_ = l.text.Output(2, "[FATAL] "+msg)
	}
	os.Exit(1)
}
