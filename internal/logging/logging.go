// Package logging provides the structured, leveled logger shared by the
// editor components. Output goes through commonlog, so the editor and the
// protocol library write to the same sink.
package logging

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
)

// LogLevel represents the severity level of a log message.
type LogLevel int

const (
	// LogLevelDebug is for detailed debugging information.
	LogLevelDebug LogLevel = iota
	// LogLevelInfo is for general informational messages.
	LogLevelInfo
	// LogLevelWarn is for warning messages.
	LogLevelWarn
	// LogLevelError is for error messages.
	LogLevelError
)

// String returns the string representation of the log level.
func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "DEBUG"
	case LogLevelInfo:
		return "INFO"
	case LogLevelWarn:
		return "WARN"
	case LogLevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// verbosity maps the level to a commonlog verbosity.
func (l LogLevel) verbosity() int {
	switch l {
	case LogLevelDebug:
		return 2
	case LogLevelWarn:
		return -1
	case LogLevelError:
		return -2
	default:
		return 1
	}
}

// ParseLogLevel parses a string into a LogLevel. Unknown names yield
// LogLevelInfo.
func ParseLogLevel(s string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LogLevelDebug
	case "warn", "warning":
		return LogLevelWarn
	case "error":
		return LogLevelError
	default:
		return LogLevelInfo
	}
}

// Configure sets up the commonlog backend. An empty path logs to stderr.
func Configure(level LogLevel, path string) {
	if path == "" {
		commonlog.Configure(level.verbosity(), nil)
		return
	}
	commonlog.Configure(level.verbosity(), &path)
}

// Logger writes leveled messages with attached fields.
// A Logger is immutable; WithField and WithComponent return copies.
type Logger struct {
	name     string
	backend  commonlog.Logger
	fields   map[string]any
	disabled bool
}

// New creates a logger under the given commonlog name.
func New(name string) *Logger {
	return &Logger{
		name:    name,
		backend: commonlog.GetLogger(name),
		fields:  make(map[string]any),
	}
}

// Null returns a logger that discards everything.
func Null() *Logger {
	return &Logger{disabled: true}
}

// Name returns the commonlog name of the logger.
func (l *Logger) Name() string {
	return l.name
}

// WithField returns a new logger with the given field added.
func (l *Logger) WithField(key string, value any) *Logger {
	fields := make(map[string]any, len(l.fields)+1)
	for k, v := range l.fields {
		fields[k] = v
	}
	fields[key] = value

	return &Logger{
		name:     l.name,
		backend:  l.backend,
		fields:   fields,
		disabled: l.disabled,
	}
}

// WithComponent returns a new logger with the component field set.
func (l *Logger) WithComponent(component string) *Logger {
	return l.WithField("component", component)
}

// Fields returns a copy of the attached fields.
func (l *Logger) Fields() map[string]any {
	fields := make(map[string]any, len(l.fields))
	for k, v := range l.fields {
		fields[k] = v
	}
	return fields
}

// Debug logs a debug message.
func (l *Logger) Debug(msg string, args ...any) {
	l.log(LogLevelDebug, msg, args...)
}

// Info logs an info message.
func (l *Logger) Info(msg string, args ...any) {
	l.log(LogLevelInfo, msg, args...)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string, args ...any) {
	l.log(LogLevelWarn, msg, args...)
}

// Error logs an error message.
func (l *Logger) Error(msg string, args ...any) {
	l.log(LogLevelError, msg, args...)
}

func (l *Logger) log(level LogLevel, msg string, args ...any) {
	if l == nil || l.disabled || l.backend == nil {
		return
	}
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}

	kv := l.keysAndValues()
	switch level {
	case LogLevelDebug:
		l.backend.Debug(msg, kv...)
	case LogLevelInfo:
		l.backend.Info(msg, kv...)
	case LogLevelWarn:
		l.backend.Warning(msg, kv...)
	default:
		l.backend.Error(msg, kv...)
	}
}

// keysAndValues flattens the fields in key order.
func (l *Logger) keysAndValues() []any {
	if len(l.fields) == 0 {
		return nil
	}
	keys := make([]string, 0, len(l.fields))
	for k := range l.fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	kv := make([]any, 0, 2*len(keys))
	for _, k := range keys {
		kv = append(kv, k, l.fields[k])
	}
	return kv
}

var (
	defaultLogger     *Logger
	defaultLoggerOnce sync.Once
	defaultMu         sync.RWMutex
)

// Default returns the process logger, created on first use.
func Default() *Logger {
	defaultLoggerOnce.Do(func() {
		defaultMu.Lock()
		if defaultLogger == nil {
			defaultLogger = New("nimble")
		}
		defaultMu.Unlock()
	})
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLogger
}

// SetDefault replaces the process logger.
// Should be called early in program startup.
func SetDefault(l *Logger) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultLogger = l
}
