package log

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const sessionTimeFormat = "2006-01-02_15-04-05"

// Session is the append-only transcript of one run: a header block,
// then a "[recording N]" marker per dictation toggle-on, then one
// timestamped line per finalized utterance. Entries are never rewritten.
type Session struct {
	mu   sync.Mutex
	f    *os.File
	path string
}

// NewSession creates logs-dir/session_<start-time>.txt and writes the
// header block.
func NewSession(dir string, start time.Time) (*Session, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating session log directory: %w", err)
	}
	path := filepath.Join(dir, "session_"+start.Format(sessionTimeFormat)+".txt")
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("opening session log: %w", err)
	}
	s := &Session{f: f, path: path}
	header := fmt.Sprintf("Session %s\n%s\n\n",
		start.Format("2006-01-02 15:04:05"),
		"============================================================")
	if _, err := f.WriteString(header); err != nil {
		f.Close()
		return nil, fmt.Errorf("writing session header: %w", err)
	}
	return s, nil
}

func (s *Session) Path() string {
	return s.path
}

// BeginRecording marks the start of one dictation toggle-on.
func (s *Session) BeginRecording(n int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.f == nil {
		return nil
	}
	_, err := fmt.Fprintf(s.f, "[recording %d] %s\n", n, time.Now().Format("2006-01-02 15:04:05"))
	return err
}

// Append records one finalized line with its timestamp.
func (s *Session) Append(text string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.f == nil {
		return nil
	}
	_, err := fmt.Fprintf(s.f, "%s\t%s\n", at.Format("2006-01-02 15:04:05"), text)
	return err
}

// Flush forces buffered writes to disk.
func (s *Session) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.f == nil {
		return nil
	}
	return s.f.Sync()
}

// Close flushes and closes the transcript. Safe to call twice.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.f == nil {
		return nil
	}
	err := s.f.Sync()
	if cerr := s.f.Close(); err == nil {
		err = cerr
	}
	s.f = nil
	return err
}
