package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

const (
	defaultLogFile = "treectl.log"
	maxHeld        = 32
)

var (
	mu           sync.Mutex
	traceEnabled bool
	logPath      = defaultLogFile

	stderr  io.Writer = os.Stderr
	holding bool
	held    []string
	dropped int
)

// Error appends err to the log file. The terminal is owned by the screen while
// the dashboard runs, so nothing is written to stderr unless the file fails.
func Error(err error) {
	if err == nil {
		return
	}
	Printf("error: %v", err)
}

// Printf appends a formatted line to the log file.
func Printf(format string, args ...interface{}) {
	mu.Lock()
	defer mu.Unlock()

	f, ferr := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if ferr != nil {
		fallback("logging failed: %v", ferr)
		return
	}
	defer f.Close()

	logger := log.New(f, "", log.LstdFlags)
	logger.Printf(format, args...)
}

// SetTraceEnabled toggles emission of structured trace entries.
func SetTraceEnabled(enabled bool) {
	mu.Lock()
	traceEnabled = enabled
	mu.Unlock()
}

// TraceEnabled reports whether Trace currently writes entries.
func TraceEnabled() bool {
	mu.Lock()
	defer mu.Unlock()
	return traceEnabled
}

// Trace appends a structured JSON entry to the shared log when tracing is enabled.
func Trace(event string, payload interface{}) {
	mu.Lock()
	defer mu.Unlock()
	if !traceEnabled {
		return
	}

	entry := struct {
		Time    time.Time   `json:"time"`
		Event   string      `json:"event"`
		Payload interface{} `json:"payload,omitempty"`
	}{
		Time:    time.Now().UTC(),
		Event:   event,
		Payload: payload,
	}

	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		fallback("trace logging failed: %v", err)
		return
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	if err := enc.Encode(entry); err != nil {
		fallback("trace encoding failed: %v", err)
	}
}

// Configure sets the log destination. Empty values fall back to the default
// path. Directories are created automatically when missing.
func Configure(path string) {
	mu.Lock()
	defer mu.Unlock()
	if strings.TrimSpace(path) == "" {
		logPath = defaultLogFile
		return
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		fallback("unable to create log directory: %v", err)
		logPath = defaultLogFile
		return
	}
	logPath = path
}

// Path returns the current log destination.
func Path() string {
	mu.Lock()
	defer mu.Unlock()
	return logPath
}

// HoldFallback queues messages about the log file itself instead of writing
// them to stderr, for while a full-screen UI owns the terminal.
func HoldFallback() {
	mu.Lock()
	holding = true
	mu.Unlock()
}

// ReleaseFallback writes the queued messages to stderr and stops queueing.
func ReleaseFallback() {
	mu.Lock()
	defer mu.Unlock()
	holding = false
	for _, line := range held {
		fmt.Fprintln(stderr, line)
	}
	if dropped > 0 {
		fmt.Fprintf(stderr, "logging: %d more failures not shown\n", dropped)
	}
	held, dropped = nil, 0
}

// fallback reports a failure to log. Callers hold mu.
func fallback(format string, args ...interface{}) {
	line := fmt.Sprintf(format, args...)
	if !holding {
		fmt.Fprintln(stderr, line)
		return
	}
	if len(held) >= maxHeld {
		dropped++
		return
	}
	held = append(held, line)
}
