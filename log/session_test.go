package log

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

var sessionStart = time.Date(2025, 6, 1, 10, 30, 0, 0, time.UTC)

func TestNewSessionCreatesFile(t *testing.T) {
	tmp := t.TempDir()
	s, err := NewSession(tmp, sessionStart)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	want := filepath.Join(tmp, "session_2025-06-01_10-30-00.txt")
	if s.Path() != want {
		t.Errorf("path = %q, want %q", s.Path(), want)
	}
	if _, err := os.Stat(want); err != nil {
		t.Errorf("session file not created: %v", err)
	}
}

func TestSessionAppendFormat(t *testing.T) {
	tmp := t.TempDir()
	s, err := NewSession(tmp, sessionStart)
	if err != nil {
		t.Fatal(err)
	}

	at := time.Date(2025, 6, 1, 10, 31, 2, 0, time.UTC)
	if err := s.BeginRecording(1); err != nil {
		t.Fatal(err)
	}
	if err := s.Append("hello world", at); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(s.Path())
	if err != nil {
		t.Fatal(err)
	}
	text := string(data)
	if !strings.Contains(text, "[recording 1]") {
		t.Errorf("missing recording marker: %q", text)
	}
	if !strings.Contains(text, "2025-06-01 10:31:02\thello world") {
		t.Errorf("missing timestamped line: %q", text)
	}
}

func TestSessionAppendOnly(t *testing.T) {
	tmp := t.TempDir()
	s, err := NewSession(tmp, sessionStart)
	if err != nil {
		t.Fatal(err)
	}
	s.Append("first", sessionStart)
	s.Close()

	// Reopening the same run's file appends after the existing content.
	s2, err := NewSession(tmp, sessionStart)
	if err != nil {
		t.Fatal(err)
	}
	s2.Append("second", sessionStart)
	s2.Close()

	data, err := os.ReadFile(s2.Path())
	if err != nil {
		t.Fatal(err)
	}
	first := strings.Index(string(data), "first")
	second := strings.Index(string(data), "second")
	if first == -1 || second == -1 || second < first {
		t.Errorf("expected append-only ordering, got: %q", data)
	}
}

func TestSessionCloseIdempotent(t *testing.T) {
	s, err := NewSession(t.TempDir(), sessionStart)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
	// writes after close are silently dropped, not a panic
	if err := s.Append("late", sessionStart); err != nil {
		t.Errorf("Append after Close: %v", err)
	}
}
