package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Level is the severity of a log entry.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// String returns the upper-case label used in log lines.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return fmt.Sprintf("LEVEL(%d)", int(l))
	}
}

// ParseLevel converts a config value such as "debug" or "WARN" into a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "", "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, fmt.Errorf("unknown log level %q (must be debug, info, warn or error)", s)
	}
}

// Options configures the process-wide log sink.
type Options struct {
	// Level is the console threshold. Entries below it are dropped from the console
	// but still reach the run log file.
	Level Level

	// Dir enables the per-run log file <Dir>/<run-id>-waprobe.log when non-empty.
	Dir string
}

// Logger writes leveled entries for a single component.
//
// DEBUG and INFO go to stdout, WARN and ERROR to stderr. When a run log file is
// configured every entry is also appended there regardless of the console level.
type Logger struct {
	component string
}

var (
	runID     string
	runIDOnce sync.Once

	// mu guards the shared sink below.
	mu        sync.Mutex
	threshold = LevelInfo
	stdout    io.Writer = os.Stdout
	stderr    io.Writer = os.Stderr
	file      *os.File
	logPath   string
)

// getRunID returns or creates the id of this process run.
func getRunID() string {
	runIDOnce.Do(func() {
		runID = uuid.New().String()
	})
	return runID
}

// Configure sets the console threshold and, optionally, opens the run log file.
//
// If the log directory cannot be created or the file cannot be opened, console
// logging keeps working and the error is returned so the caller can warn.
func Configure(opts Options) error {
	mu.Lock()
	defer mu.Unlock()

	threshold = opts.Level
	if opts.Dir == "" {
		return nil
	}

	if err := os.MkdirAll(opts.Dir, 0750); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	path := filepath.Join(opts.Dir, fmt.Sprintf("%s-waprobe.log", getRunID()))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	if file != nil {
		_ = file.Close()
	}
	file = f
	logPath = path
	return nil
}

// SetOutput redirects console output. Passing nil keeps the current writer.
func SetOutput(out, errOut io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	if out != nil {
		stdout = out
	}
	if errOut != nil {
		stderr = errOut
	}
}

// NewLogger creates a logger for a specific component.
func NewLogger(component string) *Logger {
	return &Logger{component: component}
}

// formatLogEntry creates a log line with timestamp, component, and level
func (l *Logger) formatLogEntry(level Level, message string) string {
	timestamp := time.Now().Format("2006-01-02 15:04:05.000")
	return fmt.Sprintf("[%s] [%s] [%s] %s", timestamp, l.component, level, message)
}

func (l *Logger) write(level Level, format string, v ...interface{}) {
	entry := l.formatLogEntry(level, fmt.Sprintf(format, v...))

	mu.Lock()
	defer mu.Unlock()

	if file != nil {
		fmt.Fprintln(file, entry)
	}
	if level < threshold {
		return
	}
	if level >= LevelWarn {
		fmt.Fprintln(stderr, entry)
		return
	}
	fmt.Fprintln(stdout, entry)
}

// Printf logs a formatted message at INFO
func (l *Logger) Printf(format string, v ...interface{}) {
	l.write(LevelInfo, format, v...)
}

// Debugf logs a debug-level message
func (l *Logger) Debugf(format string, v ...interface{}) {
	l.write(LevelDebug, format, v...)
}

// Infof logs an info-level message
func (l *Logger) Infof(format string, v ...interface{}) {
	l.write(LevelInfo, format, v...)
}

// Warnf logs a warning-level message
func (l *Logger) Warnf(format string, v ...interface{}) {
	l.write(LevelWarn, format, v...)
}

// Errorf logs an error-level message
func (l *Logger) Errorf(format string, v ...interface{}) {
	l.write(LevelError, format, v...)
}

// Component returns the component name this logger tags entries with.
func (l *Logger) Component() string {
	return l.component
}

// GetRunID returns the id of the current process run
func GetRunID() string {
	return getRunID()
}

// LogPath returns the run log file path, or "" when file logging is off.
func LogPath() string {
	mu.Lock()
	defer mu.Unlock()
	return logPath
}

// Close closes the run log file. Safe to call multiple times.
func Close() error {
	mu.Lock()
	defer mu.Unlock()

	if file == nil {
		return nil
	}
	err := file.Close()
	file = nil
	logPath = ""
	return err
}
