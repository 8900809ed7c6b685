// Package diaglog appends timestamped diagnostic lines to a file.
package diaglog

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"
	"time"
)

// Logger writes "[RFC3339 time] message" lines.
type Logger struct {
	mu     sync.Mutex
	out    *log.Logger
	closer io.Closer
	now    func() time.Time
}

// Open appends to the file at path, creating it when missing.
func Open(path string) (*Logger, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open diagnostic log: %w", err)
	}
	l := New(f)
	l.closer = f
	return l, nil
}

// New writes to w. Discard() is used when no file is configured.
func New(w io.Writer) *Logger {
	return &Logger{out: log.New(w, "", 0), now: time.Now}
}

func Discard() *Logger { return New(io.Discard) }

// Printf formats and appends a single line.
func (l *Logger) Printf(format string, args ...any) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.out.Printf("[%s] %s", l.now().UTC().Format(time.RFC3339), fmt.Sprintf(format, args...))
}

// Error records a failure raised by the named surface.
func (l *Logger) Error(surface string, err error) {
	l.Printf("%s Error: %v", surface, err)
}

func (l *Logger) Close() error {
	if l == nil || l.closer == nil {
		return nil
	}
	return l.closer.Close()
}
