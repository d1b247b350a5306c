package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"murmur/config"
	"murmur/doctor"
	"murmur/engine"
	"murmur/gpu"
	"murmur/hotkey"
	"murmur/insert"
	"murmur/log"
	"murmur/recognizer"
	"murmur/shutdown"
)

var version = "dev"

var (
	tuiProgram   *tea.Program
	tuiMu        sync.Mutex
	shutdownOnce sync.Once
)

func gracefulShutdown(eng *engine.Engine) {
	shutdownOnce.Do(func() {
		eng.Quit()
		if n := eng.Finalized(); n > 0 {
			log.SessionEnd(n)
		}
		log.Close()
		tuiMu.Lock()
		p := tuiProgram
		tuiMu.Unlock()
		if p != nil {
			p.Quit()
		}
		os.Exit(0)
	})
}

func main() {
	run()
}

func run() {
	configFlag := flag.String("config", "", "Config file path (default: ~/.config/murmur/config.yaml)")
	modelFlag := flag.String("model", "", "Override recognition model (tiny, base, small, medium, large-v3)")
	langFlag := flag.String("lang", "", "Override language code (e.g., en, es, fr)")
	debugFlag := flag.Bool("debug", false, "Enable debug logging")
	fakeFlag := flag.Bool("fake", false, "Run with scripted fake collaborators (no audio, no network)")
	versionFlag := flag.Bool("version", false, "Print version and exit")
	doctorFlag := flag.Bool("doctor", false, "Run system diagnostics and exit")
	crashFlag := flag.Bool("crash", false, "Trigger synthetic panic for testing crash logging")
	logPathFlag := flag.String("logpath", "", "log directory path (default: OS-specific location, use ./ for current dir)")
	testFlag := flag.Bool("test", false, "Test mode (headless, stdin-driven)")
	flag.Parse()

	if *versionFlag {
		fmt.Printf("murmur %s\n", version)
		os.Exit(0)
	}

	// Resolve log directory early
	logPath, err := log.ResolveDir(*logPathFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to resolve log directory: %v\n", err)
		os.Exit(1)
	}
	log.SetDir(logPath)

	if err := log.EnsureDir(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not create log directory: %v\n", err)
	}

	crashPath := filepath.Join(log.Dir(), "crash_log.txt")
	crashFile, err := os.OpenFile(crashPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err == nil {
		fmt.Fprintf(crashFile, "\n=== Session %s [pid=%d] ===\n", time.Now().Format("2006-01-02 15:04:05"), os.Getpid())
		debug.SetCrashOutput(crashFile, debug.CrashOptions{})
	}

	if *crashFlag {
		panic("TEST CRASH: synthetic panic to verify crash logging")
	}

	cfgPath := *configFlag
	if cfgPath == "" {
		cfgPath = config.DefaultPath()
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *modelFlag != "" {
		cfg.Model = *modelFlag
	}
	if *langFlag != "" {
		cfg.Language = *langFlag
	}
	if *debugFlag {
		cfg.Debug = true
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *doctorFlag {
		os.Exit(doctor.Run(cfg))
	}

	if err := log.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not init logging: %v\n", err)
	} else {
		log.SessionStart(cfg.Model, cfg.Language, cfg.Debug)
	}

	var rec recognizer.Recognizer
	var sampler gpu.Sampler
	var ins insert.Inserter = insert.NewDesktop()
	if *fakeFlag {
		fake := recognizer.NewFake()
		fake.SetScript(demoScript())
		rec = fake
		sampler = gpu.NewFake(gpu.Sample{
			Available:  true,
			Name:       "fake GPU",
			UsedBytes:  3 << 30,
			TotalBytes: 8 << 30,
		})
		ins = insert.NewFake()
	} else {
		rec = recognizer.NewStream(recognizer.Config{
			Model:           cfg.Model,
			Language:        cfg.Language,
			SilenceDuration: cfg.SilenceDuration,
			SampleRate:      cfg.Recognizer.SampleRate,
			Channels:        cfg.Recognizer.Channels,
			SourceCommand:   cfg.Recognizer.SourceCommand,
			Endpoint:        cfg.Recognizer.Endpoint,
			APIKey:          config.APIKey(),
		})
		sampler = gpu.NewNvidiaSMI()
	}

	var transcript engine.Transcript
	session, err := log.NewSession(log.Dir(), time.Now())
	if err != nil {
		log.Errorf("session log init: %v", err)
		fmt.Fprintf(os.Stderr, "Warning: session log unavailable: %v\n", err)
	} else {
		transcript = session
	}

	eng := engine.New(engine.Options{
		Recognizer:     rec,
		Inserter:       ins,
		Sampler:        sampler,
		Transcript:     transcript,
		SampleInterval: cfg.SampleInterval(),
	})
	eng.Start()

	if *testFlag {
		runTestMode(eng)
		return
	}

	tuiMu.Lock()
	tuiProgram = NewTUIProgram(eng)
	tuiMu.Unlock()

	go func() {
		if _, err := tuiProgram.Run(); err != nil {
			log.Errorf("TUI error: %v", err)
			os.Exit(1)
		}
		gracefulShutdown(eng)
	}()

	hk := hotkey.New()
	if err := hk.Register(); err != nil {
		log.Errorf("hotkey register error: %v", err)
		fmt.Fprintf(os.Stderr, "Error registering hotkeys: %v\n", err)
		os.Exit(1)
	}
	defer hk.Unregister()

	sigChan := make(chan os.Signal, 1)
	shutdown.Notify(sigChan)

	// Hotkey handlers only signal channels; the engine operations run
	// here, never on the capture thread.
	for {
		select {
		case <-hk.Dictate():
			log.Info("hotkey_dictate")
			eng.ToggleDictation()
		case <-hk.Clipboard():
			log.Info("hotkey_clipboard")
			eng.ToggleClipboardMode()
		case <-hk.Quit():
			log.Info("hotkey_quit")
			eng.Quit()
		case <-sigChan:
			eng.Quit()
		case <-eng.Done():
			gracefulShutdown(eng)
			return
		}
	}
}

// demoScript drives -fake runs with a canned dictation so the UI and
// delivery paths can be exercised without audio or network.
func demoScript() []recognizer.ScriptStep {
	return []recognizer.ScriptStep{
		{Delay: 400 * time.Millisecond, Draft: "the"},
		{Delay: 300 * time.Millisecond, Draft: "the quick"},
		{Delay: 300 * time.Millisecond, Draft: "the quick brown"},
		{Delay: 400 * time.Millisecond, Final: "the quick brown fox"},
		{Delay: 600 * time.Millisecond, Draft: "jumps"},
		{Delay: 300 * time.Millisecond, Draft: "jumps over the lazy"},
		{Delay: 400 * time.Millisecond, Final: "jumps over the lazy dog"},
	}
}
