package logbook

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestTailReturnsRecentLines(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "session.log")
	book, err := New(path)
	if err != nil {
		t.Fatalf("new logbook: %v", err)
	}
	defer book.Close()
	for i := 0; i < 5; i++ {
		book.Info("entry-%d", i)
	}
	lines := book.Tail(3)
	if len(lines) != 3 {
		t.Fatalf("len(lines) = %d, want 3", len(lines))
	}
	for idx, want := range []string{"entry-2", "entry-3", "entry-4"} {
		if !strings.Contains(lines[idx], want) {
			t.Fatalf("line %d = %q, missing %s", idx, lines[idx], want)
		}
	}
}

func TestScopePrefixesEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.log")
	book, err := New(path)
	if err != nil {
		t.Fatalf("new logbook: %v", err)
	}
	defer book.Close()
	chat := book.Scope("chat")
	chat.Warn("poll failed")
	lines := book.Tail(1)
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	if !strings.Contains(lines[0], "chat · poll failed") {
		t.Fatalf("missing scope prefix: %q", lines[0])
	}
	if !strings.Contains(lines[0], string(LevelWarn)) {
		t.Fatalf("missing level: %q", lines[0])
	}
}

func TestAppendAfterCloseIsDropped(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.log")
	book, err := New(path)
	if err != nil {
		t.Fatalf("new logbook: %v", err)
	}
	book.Info("before close")
	if err := book.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	book.Info("after close")
	lines := book.Tail(10)
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d: %v", len(lines), lines)
	}
}
