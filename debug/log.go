package debug

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

var (
	out      io.Writer
	closer   io.Closer
	mu       sync.Mutex
	counters = make(map[string]int)
)

// Enable starts debug logging to path, truncating any previous log.
// An empty path logs to ~/.config/go-padlight/debug.log
func Enable(path string) error {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("debug log: %w", err)
		}
		path = filepath.Join(home, ".config", "go-padlight", "debug.log")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("debug log: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("debug log: %w", err)
	}

	SetOutput(f)
	mu.Lock()
	closer = f
	mu.Unlock()

	Log("debug", "=== Debug logging started ===")
	return nil
}

// SetOutput routes log lines to w. A nil writer disables logging
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	if closer != nil {
		closer.Close()
		closer = nil
	}
	out = w
}

// Disable stops debug logging
func Disable() {
	SetOutput(nil)
}

// Enabled reports whether log lines are being written
func Enabled() bool {
	mu.Lock()
	defer mu.Unlock()
	return out != nil
}

// Log writes a message to the debug log
func Log(category, format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()

	if out == nil {
		return
	}

	ts := time.Now().Format("15:04:05.000")
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintf(out, "[%s] %-10s %s\n", ts, category, msg)
	if f, ok := out.(*os.File); ok {
		f.Sync() // flush immediately so we see logs even on crash
	}
}

// LogEvery logs only every N calls (use for per-tick events)
func LogEvery(n int, category, format string, args ...any) {
	mu.Lock()
	if out == nil {
		mu.Unlock()
		return
	}
	key := category + format
	counters[key]++
	count := counters[key]
	mu.Unlock()

	if n > 0 && count%n == 0 {
		Log(category, format+" (every %d, count=%d)", append(args, n, count)...)
	}
}
