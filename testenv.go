package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"murmur/engine"
	"murmur/hotkey"
	"murmur/log"
)

// runTestMode drives the engine from stdin commands with no terminal
// and no global hook. Commands go through a fake hotkey source and the
// same dispatch loop as a real run. DRAIN prints every queued event as
// one line on stdout so an external harness can assert on the stream.
func runTestMode(eng *engine.Engine) {
	hk := hotkey.NewFake()

	// Dispatch loop -- same pattern as run()
	go func() {
		for {
			select {
			case <-hk.Dictate():
				eng.ToggleDictation()
			case <-hk.Clipboard():
				eng.ToggleClipboardMode()
			case <-hk.Quit():
				eng.Quit()
			case <-eng.Done():
				return
			}
		}
	}()

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		cmd := strings.TrimSpace(scanner.Text())
		switch cmd {
		case "":
		case "DICTATE":
			hk.SimDictate()
		case "CLIPBOARD":
			hk.SimClipboard()
		case "DRAIN":
			drainEvents(eng)
		case "QUIT":
			hk.SimQuit()
			<-eng.Done()
			drainEvents(eng)
			log.SessionEnd(eng.Finalized())
			log.Close()
			return
		default:
			if strings.HasPrefix(cmd, "SLEEP ") {
				if ms, err := strconv.Atoi(cmd[6:]); err == nil {
					time.Sleep(time.Duration(ms) * time.Millisecond)
				}
			}
		}
	}
	eng.Quit()
	<-eng.Done()
	log.Close()
}

func drainEvents(eng *engine.Engine) {
	for _, ev := range eng.Events().Drain(0) {
		fmt.Println(formatEvent(ev))
	}
}

func formatEvent(ev engine.Event) string {
	switch ev := ev.(type) {
	case engine.PhaseEvent:
		return "phase " + ev.Phase.String()
	case engine.DraftEvent:
		return "draft " + ev.Text
	case engine.FinalEvent:
		return "final " + ev.Text
	case engine.VRAMEvent:
		return fmt.Sprintf("vram %d/%d", ev.Sample.UsedBytes, ev.Sample.TotalBytes)
	case engine.StatusEvent:
		return "status " + ev.Text
	case engine.ClearEvent:
		return "clear"
	default:
		return fmt.Sprintf("unknown %T", ev)
	}
}
