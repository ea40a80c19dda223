package debug

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// EnvVar names the environment variable holding the log file path.
const EnvVar = "HAMLFMT_DEBUG"

var (
	out    io.Writer
	closer io.Closer
	mu     sync.Mutex
	now    = time.Now
)

// InitFromEnv enables logging when EnvVar is set. It is a no-op otherwise.
func InitFromEnv() error {
	path := os.Getenv(EnvVar)
	if path == "" {
		return nil
	}
	return Init(path)
}

// Init opens path for appending and directs debug output to it.
func Init(path string) error {
	mu.Lock()
	defer mu.Unlock()

	// Ensure directory exists
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open debug log: %w", err)
	}

	closeLocked()
	out, closer = f, f
	return nil
}

// SetOutput directs debug output to w. Pass nil to disable logging.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	closeLocked()
	out = w
}

// Close closes the debug log file, if one was opened by Init.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	return closeLocked()
}

// closeLocked closes the current output. Caller must hold mu.
func closeLocked() error {
	var err error
	if closer != nil {
		err = closer.Close()
	}
	out, closer = nil, nil
	return err
}

// Enabled returns true if logging is enabled.
func Enabled() bool {
	mu.Lock()
	defer mu.Unlock()
	return out != nil
}

// Log writes a message to the debug log with a timestamp.
func Log(format string, args ...any) {
	write("", format, args...)
}

// Render writes a render-prefixed log message.
func Render(format string, args ...any) {
	write("[render] ", format, args...)
}

// LSP writes an lsp-prefixed log message.
func LSP(format string, args ...any) {
	write("[lsp] ", format, args...)
}

// CLI writes a cli-prefixed log message.
func CLI(format string, args ...any) {
	write("[cli] ", format, args...)
}

func write(prefix, format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	if out == nil {
		return
	}

	timestamp := now().Format("15:04:05.000")
	fmt.Fprintf(out, "[%s] %s%s\n", timestamp, prefix, fmt.Sprintf(format, args...))
}
