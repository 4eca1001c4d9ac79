package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Logger provides structured per-component logging for an autopilot run.
// Every component of one run appends to the same file in
// ~/.autopilot/logs/, named by the run ID, so a single file tells the
// whole story of a run.
type Logger struct {
	runID     string
	component string
	out       *log.Logger
	file      *os.File
	logPath   string
	mu        sync.Mutex
	closeOnce sync.Once
}

var (
	runID     string
	runIDOnce sync.Once
)

// RunID returns the identifier shared by all loggers of this process.
func RunID() string {
	runIDOnce.Do(func() {
		runID = uuid.New().String()
	})
	return runID
}

// NewLogger creates a logger for one component. If the log directory or
// file cannot be set up, it returns a stderr-backed logger together with
// the error so the caller can warn about the degraded mode.
func NewLogger(component string) (*Logger, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fallback(component), fmt.Errorf("resolving home directory: %w", err)
	}
	dir := filepath.Join(homeDir, ".autopilot", "logs")
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fallback(component), fmt.Errorf("creating log directory: %w", err)
	}

	logPath := filepath.Join(dir, RunID()+".log")
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return fallback(component), fmt.Errorf("opening log file: %w", err)
	}

	return &Logger{
		runID:     RunID(),
		component: component,
		out:       log.New(file, "", 0),
		file:      file,
		logPath:   logPath,
	}, nil
}

// Discard returns a logger that drops everything. Used by tests.
func Discard(component string) *Logger {
	return &Logger{
		runID:     RunID(),
		component: component,
		out:       log.New(io.Discard, "", 0),
	}
}

func fallback(component string) *Logger {
	return &Logger{
		runID:     RunID(),
		component: component,
		out:       log.New(os.Stderr, "", 0),
	}
}

func (l *Logger) emit(level, format string, v ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	ts := time.Now().Format("2006-01-02 15:04:05.000")
	l.out.Printf("[%s] [%s] [%s] %s", ts, l.component, level, fmt.Sprintf(format, v...))
}

// Debugf logs a debug-level message.
func (l *Logger) Debugf(format string, v ...any) { l.emit("DEBUG", format, v...) }

// Infof logs an info-level message.
func (l *Logger) Infof(format string, v ...any) { l.emit("INFO", format, v...) }

// Warnf logs a warning-level message.
func (l *Logger) Warnf(format string, v ...any) { l.emit("WARN", format, v...) }

// Errorf logs an error-level message.
func (l *Logger) Errorf(format string, v ...any) { l.emit("ERROR", format, v...) }

// LogPath returns the path of the log file, or "" in fallback mode.
func (l *Logger) LogPath() string { return l.logPath }

// Close closes the log file. Safe to call more than once.
func (l *Logger) Close() error {
	var err error
	l.closeOnce.Do(func() {
		if l.file != nil {
			err = l.file.Close()
		}
	})
	return err
}
