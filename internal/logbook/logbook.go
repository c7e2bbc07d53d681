package logbook

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Level represents the severity of a log entry.
type Level string

const (
	LevelInfo  Level = "INFO"
	LevelWarn  Level = "WARN"
	LevelError Level = "ERROR"
)

// Logbook persists client activity to a plain text file so users can
// inspect what a session did after the TUI closes. The most recent lines
// also feed the log panel at the bottom of the screen via Tail.
type Logbook struct {
	path string

	mu   sync.Mutex
	file *os.File
}

// New opens (or creates) a logbook writing to the provided path.
func New(path string) (*Logbook, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("logbook: ensure log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("logbook: open %s: %w", path, err)
	}
	return &Logbook{path: path, file: f}, nil
}

// Path returns the file backing this logbook.
func (l *Logbook) Path() string {
	if l == nil {
		return ""
	}
	return l.path
}

// Close releases the underlying file handle. Entries appended after Close
// are dropped.
func (l *Logbook) Close() error {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

// Append writes a single entry to the logbook.
func (l *Logbook) Append(level Level, message string) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return
	}
	fmt.Fprintf(l.file, "%s %-5s %s\n",
		time.Now().UTC().Format(time.RFC3339),
		string(level),
		strings.TrimSpace(message),
	)
}

// Tail returns up to maxLines of the most recent log entries.
func (l *Logbook) Tail(maxLines int) []string {
	if l == nil || maxLines <= 0 {
		return nil
	}
	file, err := os.Open(l.path)
	if err != nil {
		return nil
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if len(lines) > maxLines {
		lines = lines[len(lines)-maxLines:]
	}
	return lines
}

// Info appends an informational entry.
func (l *Logbook) Info(format string, args ...any) {
	l.Append(LevelInfo, fmt.Sprintf(format, args...))
}

// Warn appends a warning entry.
func (l *Logbook) Warn(format string, args ...any) {
	l.Append(LevelWarn, fmt.Sprintf(format, args...))
}

// Error appends an error entry.
func (l *Logbook) Error(format string, args ...any) {
	l.Append(LevelError, fmt.Sprintf(format, args...))
}

// Scope returns a logger that prefixes every entry with a view name, so
// the shared session log stays readable when several screens write to it.
func (l *Logbook) Scope(name string) *Scoped {
	return &Scoped{book: l, prefix: strings.TrimSpace(name)}
}

// Scoped is a Logbook facade that tags entries with the originating view.
type Scoped struct {
	book   *Logbook
	prefix string
}

func (s *Scoped) log(level Level, format string, args ...any) {
	if s == nil || s.book == nil {
		return
	}
	msg := fmt.Sprintf(format, args...)
	if s.prefix != "" {
		msg = s.prefix + " · " + msg
	}
	s.book.Append(level, msg)
}

// Info appends an informational entry under this scope.
func (s *Scoped) Info(format string, args ...any) { s.log(LevelInfo, format, args...) }

// Warn appends a warning entry under this scope.
func (s *Scoped) Warn(format string, args ...any) { s.log(LevelWarn, format, args...) }

// Error appends an error entry under this scope.
func (s *Scoped) Error(format string, args ...any) { s.log(LevelError, format, args...) }
