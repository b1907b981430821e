package main

import (
	"log"
	"os"
	"strings"
)

// LogLevel orders the leveled logging thresholds.
type LogLevel int

const (
	LogLevelDebug LogLevel = iota
	LogLevelInfo
	LogLevelWarn
	LogLevelError
)

var levelTags = map[LogLevel]string{
	LogLevelDebug: "[DEBUG]",
	LogLevelInfo:  "[INFO]",
	LogLevelWarn:  "[WARN]",
	LogLevelError: "[ERROR]",
}

// parseLogLevel maps a config string (case-insensitive) onto a level,
// defaulting to info.
func parseLogLevel(level string) LogLevel {
	switch strings.ToLower(level) {
	case "debug":
		return LogLevelDebug
	case "info":
		return LogLevelInfo
	case "warn", "warning":
		return LogLevelWarn
	case "error":
		return LogLevelError
	default:
		return LogLevelInfo
	}
}

// Logger filters leveled messages against a minimum threshold and writes
// the survivors through one underlying log.Logger.
type Logger struct {
	min LogLevel
	out *log.Logger
}

// NewLogger creates a logger writing to stderr at the given level.
func NewLogger(level string) *Logger {
	return &Logger{
		min: parseLogLevel(level),
		out: log.New(os.Stderr, "", log.LstdFlags),
	}
}

func (l *Logger) logf(level LogLevel, format string, v ...any) {
	if level < l.min {
		return
	}
	l.out.Printf(levelTags[level]+" "+format, v...)
}

func (l *Logger) Debugf(format string, v ...any) { l.logf(LogLevelDebug, format, v...) }
func (l *Logger) Infof(format string, v ...any)  { l.logf(LogLevelInfo, format, v...) }
func (l *Logger) Warnf(format string, v ...any)  { l.logf(LogLevelWarn, format, v...) }
func (l *Logger) Errorf(format string, v ...any) { l.logf(LogLevelError, format, v...) }

// Fatalf logs unconditionally and exits.
func (l *Logger) Fatalf(format string, v ...any) {
	l.out.Fatalf("[FATAL] "+format, v...)
}
