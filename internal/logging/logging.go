package logging

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

const defaultLogFile = "funddeck.log"

var (
	mu           sync.Mutex
	traceEnabled bool
	logPath      = defaultLogFile
)

// Configure points the shared log at a file, creating parent directories as
// needed. Empty paths keep the default file in the working directory.
func Configure(path string) {
	mu.Lock()
	defer mu.Unlock()
	if strings.TrimSpace(path) == "" {
		logPath = defaultLogFile
		return
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "unable to create log directory: %v\n", err)
		logPath = defaultLogFile
		return
	}
	logPath = path
}

// SetTraceEnabled toggles emission of structured trace entries.
func SetTraceEnabled(enabled bool) {
	mu.Lock()
	traceEnabled = enabled
	mu.Unlock()
}

// Error appends a timestamped error line to the shared log. The terminal is
// owned by the TUI, so errors never go to the screen directly.
func Error(err error) {
	if err == nil {
		return
	}
	appendToLog(func(f *os.File) error {
		_, werr := fmt.Fprintf(f, "%s %v\n", time.Now().Format("2006/01/02 15:04:05"), err)
		return werr
	})
}

type traceEntry struct {
	Time    time.Time   `json:"time"`
	Event   string      `json:"event"`
	Payload interface{} `json:"payload,omitempty"`
}

// Trace appends one JSON line per event when tracing is enabled. Timestamps
// are UTC so logs collected from different sessions sort cleanly.
func Trace(event string, payload interface{}) {
	mu.Lock()
	enabled := traceEnabled
	mu.Unlock()
	if !enabled {
		return
	}
	appendToLog(func(f *os.File) error {
		return json.NewEncoder(f).Encode(traceEntry{
			Time:    time.Now().UTC(),
			Event:   event,
			Payload: payload,
		})
	})
}

// appendToLog opens the shared log for append and runs the writer. Failures
// surface on stderr rather than interrupting the UI.
func appendToLog(write func(*os.File) error) {
	mu.Lock()
	path := logPath
	mu.Unlock()
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging failed: %v\n", err)
		return
	}
	defer f.Close()
	if err := write(f); err != nil {
		fmt.Fprintf(os.Stderr, "logging failed: %v\n", err)
	}
}
