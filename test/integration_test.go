//go:build integration

package test_test

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

var testBinary string

func TestMain(m *testing.M) {
	testBinary = os.Getenv("MURMUR_TEST_BIN")
	if testBinary == "" {
		fmt.Fprintln(os.Stderr, "MURMUR_TEST_BIN not set; run: make test-integration")
		os.Exit(1)
	}
	os.Exit(m.Run())
}

func cmds(parts ...string) string {
	return strings.Join(parts, "\n") + "\n"
}

// runMurmur runs the binary in headless fake mode and returns its
// event-stream output plus the log directory used for the run.
func runMurmur(t *testing.T, stdin string, args ...string) (out string, logDir string) {
	t.Helper()
	logDir = t.TempDir()
	cmdArgs := append([]string{"-logpath", logDir, "-fake", "-test"}, args...)

	cmd := exec.Command(testBinary, cmdArgs...)
	cmd.Stdin = strings.NewReader(stdin)
	cmd.Env = os.Environ()

	raw, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("murmur exited with error: %v\noutput: %s", err, raw)
	}
	return string(raw), logDir
}

func readLog(t *testing.T, logDir, filename string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(logDir, filename))
	if err != nil {
		if os.IsNotExist(err) {
			return ""
		}
		t.Fatalf("failed to read %s: %v", filename, err)
	}
	return string(data)
}

func readSessionLog(t *testing.T, logDir string) string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(logDir, "session_*.txt"))
	if err != nil || len(matches) == 0 {
		t.Fatalf("no session log found in %s", logDir)
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("failed to read session log: %v", err)
	}
	return string(data)
}

func TestFakeDictationRun(t *testing.T) {
	// The fake script finishes in under 3s; SLEEP covers it.
	out, logDir := runMurmur(t, cmds("DICTATE", "SLEEP 3000", "DICTATE", "SLEEP 200", "QUIT"))

	for _, want := range []string{
		"phase listening",
		"draft the quick",
		"final the quick brown fox",
		"final jumps over the lazy dog",
		"phase idle",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\noutput: %s", want, out)
		}
	}

	session := readSessionLog(t, logDir)
	if !strings.Contains(session, "the quick brown fox") {
		t.Errorf("session log missing finalized line:\n%s", session)
	}
	if !strings.Contains(session, "[recording 1]") {
		t.Errorf("session log missing recording marker:\n%s", session)
	}
}

func TestFinalizedOrderInStream(t *testing.T) {
	out, _ := runMurmur(t, cmds("DICTATE", "SLEEP 3000", "DICTATE", "SLEEP 200", "QUIT"))

	first := strings.Index(out, "final the quick brown fox")
	second := strings.Index(out, "final jumps over the lazy dog")
	idle := strings.Index(out, "phase idle")
	if first < 0 || second < 0 || idle < 0 {
		t.Fatalf("expected finals and idle transition in output:\n%s", out)
	}
	if !(first < second && second < idle) {
		t.Errorf("event order wrong: final1=%d final2=%d idle=%d", first, second, idle)
	}
}

func TestStragglersAfterStop(t *testing.T) {
	// Stop mid-script: steps still pending when dictation turns off
	// must not surface as drafts or finals after the idle transition.
	out, _ := runMurmur(t, cmds("DICTATE", "SLEEP 600", "DICTATE", "SLEEP 1000", "QUIT"))

	idle := strings.Index(out, "phase idle")
	if idle < 0 {
		t.Fatalf("no idle transition in output:\n%s", out)
	}
	tail := out[idle:]
	if strings.Contains(tail, "draft ") || strings.Contains(tail, "final ") {
		t.Errorf("events after idle transition:\n%s", tail)
	}
}

func TestVRAMSamplesEmitted(t *testing.T) {
	out, _ := runMurmur(t, cmds("SLEEP 1200", "DRAIN", "SLEEP 200", "QUIT"))
	if !strings.Contains(out, "vram ") {
		t.Errorf("no VRAM samples in output:\n%s", out)
	}
}

func TestDiagnosticsLogWritten(t *testing.T) {
	_, logDir := runMurmur(t, cmds("DICTATE", "SLEEP 3000", "DICTATE", "SLEEP 200", "QUIT"))
	diag := readLog(t, logDir, "diagnostics_log.txt")
	if !strings.Contains(diag, "session_start") {
		t.Errorf("diagnostics missing session_start:\n%s", diag)
	}
	if !strings.Contains(diag, "session_end") {
		t.Errorf("diagnostics missing session_end:\n%s", diag)
	}
}
