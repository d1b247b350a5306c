// Package doctor runs interactive system diagnostics: hotkey capture,
// log directory, audio source, streaming credentials, GPU query, and
// clipboard, each reported PASS/FAIL.
package doctor

import (
	"bufio"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/atotto/clipboard"

	"murmur/config"
	"murmur/gpu"
	"murmur/hotkey"
	"murmur/insert"
	"murmur/log"
)

// Run executes the checks and returns an exit code (0=all pass, 1=any fail).
func Run(cfg *config.Config) int {
	resetTerminal()
	setupInterruptHandler()

	fmt.Println("murmur doctor - interactive system diagnostics")
	fmt.Println("==============================================")

	allPass := true

	if !checkLogDir() {
		allPass = false
	}
	if !checkSourceCommand(cfg) {
		allPass = false
	}
	if !checkAPIKey() {
		allPass = false
	}
	checkGPU() // informational, never fails the run
	if !checkHotkey() {
		allPass = false
	}
	if !checkClipboard() {
		allPass = false
	}

	fmt.Println()
	if allPass {
		fmt.Println("All checks passed!")
	} else {
		fmt.Println("Some checks failed. See details above.")
	}

	if allPass {
		return 0
	}
	return 1
}

func checkLogDir() bool {
	fmt.Println()
	fmt.Println("[1/6] Log directory")

	if err := log.EnsureDir(); err != nil {
		fmt.Printf("  FAIL: cannot create %s: %v\n", log.Dir(), err)
		return false
	}
	probe := filepath.Join(log.Dir(), ".doctor-probe")
	if err := os.WriteFile(probe, []byte("ok"), 0644); err != nil {
		fmt.Printf("  FAIL: %s not writable: %v\n", log.Dir(), err)
		return false
	}
	os.Remove(probe)
	fmt.Printf("  PASS: %s writable\n", log.Dir())
	return true
}

func checkSourceCommand(cfg *config.Config) bool {
	fmt.Println()
	fmt.Println("[2/6] Audio source command")

	if len(cfg.Recognizer.SourceCommand) == 0 {
		fmt.Println("  FAIL: no source command configured")
		return false
	}
	name := cfg.Recognizer.SourceCommand[0]
	path, err := exec.LookPath(name)
	if err != nil {
		fmt.Printf("  FAIL: %q not found in PATH: %v\n", name, err)
		return false
	}
	fmt.Printf("  PASS: %s\n", path)
	return true
}

func checkAPIKey() bool {
	fmt.Println()
	fmt.Println("[3/6] Streaming API key")

	if config.APIKey() == "" {
		fmt.Println("  FAIL: MURMUR_API_KEY not set")
		return false
	}
	fmt.Println("  PASS: MURMUR_API_KEY present")
	return true
}

func checkGPU() {
	fmt.Println()
	fmt.Println("[4/6] GPU query (informational)")

	s := gpu.NewNvidiaSMI().Sample()
	if !s.Available {
		fmt.Println("  INFO: nvidia-smi unavailable; VRAM display will show n/a")
		return
	}
	fmt.Printf("  PASS: %s, %.1f/%.1f GiB used\n", s.Name,
		float64(s.UsedBytes)/(1<<30), float64(s.TotalBytes)/(1<<30))
}

func checkHotkey() bool {
	fmt.Println()
	fmt.Println("[5/6] Hotkey detection")
	fmt.Println("Press Ctrl+Alt+D...")

	hk := hotkey.New()
	if err := hk.Register(); err != nil {
		fmt.Printf("  FAIL: could not register hotkeys: %v\n", err)
		return false
	}
	defer hk.Unregister()

	select {
	case <-hk.Dictate():
		fmt.Println("  PASS: hotkey detected")
		// The hook may leave the terminal in raw mode
		resetTerminal()
		return true
	case <-time.After(10 * time.Second):
		fmt.Println("  FAIL: timeout waiting for hotkey")
		return false
	}
}

func checkClipboard() bool {
	fmt.Println()
	fmt.Println("[6/6] Clipboard roundtrip")

	prev, _ := clipboard.ReadAll()

	testStr := fmt.Sprintf("murmur-doctor-%d", time.Now().UnixNano())
	if err := clipboard.WriteAll(testStr); err != nil {
		fmt.Printf("  FAIL: clipboard write failed: %v\n", err)
		return false
	}
	got, err := clipboard.ReadAll()
	if err != nil {
		fmt.Printf("  FAIL: clipboard read failed: %v\n", err)
		return false
	}
	if got != testStr {
		fmt.Printf("  FAIL: clipboard mismatch: wrote %q, got %q\n", testStr, got)
		return false
	}
	if prev != "" {
		clipboard.WriteAll(prev)
	}
	fmt.Println("  PASS: clipboard write/read verified")

	resetTerminal()
	confirmReader := bufio.NewReader(os.Stdin)
	fmt.Print("Test keystroke typing into a focused window? [y/N]: ")
	confirm, _ := confirmReader.ReadString('\n')
	confirm = strings.TrimSpace(strings.ToLower(confirm))
	if confirm != "y" && confirm != "yes" {
		fmt.Println("  SKIP: typing check skipped")
		return true
	}

	fmt.Println("Focus on a text editor window...")
	for i := 3; i > 0; i-- {
		fmt.Printf("  %d...\n", i)
		time.Sleep(1 * time.Second)
	}
	typeProbe()

	resetTerminal()
	fmt.Print("Did the text \"murmur-doctor-test\" appear? [y/n]: ")
	confirm, _ = confirmReader.ReadString('\n')
	confirm = strings.TrimSpace(strings.ToLower(confirm))
	if confirm != "y" && confirm != "yes" {
		fmt.Println("  FAIL: typing not confirmed")
		return false
	}
	fmt.Println("  PASS: typing verified by user")
	return true
}

func typeProbe() {
	if err := insert.NewDesktop().Type("murmur-doctor-test"); err != nil {
		fmt.Printf("  typing error: %v\n", err)
	}
}
