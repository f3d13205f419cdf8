// Package logger writes blink's debug log. All invocations append to a
// single blink.log in the config directory; because the ctrl-x binding
// re-invokes the binary while the parent session is still running, every
// line carries a short per-invocation session ID so interleaved output from
// two processes stays attributable.
package logger

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Log levels in increasing severity.
const (
	levelDebug = iota
	levelInfo
	levelWarn
	levelError
)

// Logger is a leveled append-mode file logger. It is safe for concurrent use
// within one process; cross-process interleaving is tolerated because every
// line is self-contained.
type Logger struct {
	mu      sync.Mutex
	file    *os.File
	level   int
	session string
}

// New opens (or creates) the log file at path in append mode. Level is one
// of debug, info, warn, error; unknown values fall back to info.
func New(path, level string) (*Logger, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", path, err)
	}

	return &Logger{
		file:    file,
		level:   parseLevel(level),
		session: uuid.NewString()[:8],
	}, nil
}

// Discard returns a logger that drops everything. Used when the log file
// cannot be opened and in tests.
func Discard() *Logger {
	return &Logger{level: levelError + 1, session: "--------"}
}

// Session returns the per-invocation session ID.
func (l *Logger) Session() string {
	return l.session
}

// Close closes the underlying file.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

// Debugf logs at debug level.
func (l *Logger) Debugf(format string, args ...interface{}) {
	l.write(levelDebug, "DEBUG", format, args...)
}

// Infof logs at info level.
func (l *Logger) Infof(format string, args ...interface{}) {
	l.write(levelInfo, "INFO", format, args...)
}

// Warnf logs at warn level.
func (l *Logger) Warnf(format string, args ...interface{}) {
	l.write(levelWarn, "WARN", format, args...)
}

// Errorf logs at error level.
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.write(levelError, "ERROR", format, args...)
}

func (l *Logger) write(level int, tag, format string, args ...interface{}) {
	if level < l.level {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return
	}

	timestamp := time.Now().Format("2006-01-02 15:04:05")
	fmt.Fprintf(l.file, "%s [%s] %-5s %s\n", timestamp, l.session, tag, fmt.Sprintf(format, args...))
}

func parseLevel(level string) int {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return levelDebug
	case "info":
		return levelInfo
	case "warn", "warning":
		return levelWarn
	case "error":
		return levelError
	default:
		return levelInfo
	}
}
