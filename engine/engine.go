// Package engine coordinates hotkey input, background recognizer
// callbacks, and the UI polling loop. It owns the Phase state machine
// and the event queue; collaborators push in through callback entry
// points and the UI reads out through queue consumption only.
package engine

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"murmur/gpu"
	"murmur/insert"
	"murmur/recognizer"
)

const defaultSampleInterval = 500 * time.Millisecond

// Transcript is the append-only session log. Writes are best-effort:
// a failure becomes a status event, never an interruption of dictation.
type Transcript interface {
	BeginRecording(n int) error
	Append(text string, at time.Time) error
	Flush() error
	Close() error
}

type Options struct {
	Recognizer recognizer.Recognizer
	Inserter   insert.Inserter
	// Sampler is optional; without one no VRAM events are emitted.
	Sampler gpu.Sampler
	// Transcript is optional; without one finalized lines are not logged.
	Transcript     Transcript
	SampleInterval time.Duration
}

// Engine is the coordination core. Its operations may be called from
// any goroutine; ToggleDictation and Quit are serialized against each
// other, and the brief state guard is never held across collaborator
// I/O so the hotkey capture thread is never blocked on it.
type Engine struct {
	queue       *Queue
	rec         recognizer.Recognizer
	ins         insert.Inserter
	sampler     gpu.Sampler
	transcript  Transcript
	sampleEvery time.Duration

	opMu sync.Mutex // serializes ToggleDictation and Quit

	mu        sync.Mutex // guards phase, clipMode, counters; held only for queue pushes
	phase     Phase
	clipMode  bool
	recording int
	finalized int

	done     chan struct{}
	quitOnce sync.Once
}

func New(opts Options) *Engine {
	interval := opts.SampleInterval
	if interval <= 0 {
		interval = defaultSampleInterval
	}
	return &Engine{
		queue:       NewQueue(),
		rec:         opts.Recognizer,
		ins:         opts.Inserter,
		sampler:     opts.Sampler,
		transcript:  opts.Transcript,
		sampleEvery: interval,
		done:        make(chan struct{}),
	}
}

// Events returns the queue the UI drains. Single consumer.
func (e *Engine) Events() *Queue {
	return e.queue
}

// Done is closed when Quit completes; the UI loop terminates on it.
func (e *Engine) Done() <-chan struct{} {
	return e.done
}

func (e *Engine) Phase() Phase {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.phase
}

func (e *Engine) ClipboardMode() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.clipMode
}

// Finalized reports the number of finalized lines this run.
func (e *Engine) Finalized() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.finalized
}

// Start launches the VRAM sampling loop. Dictation itself starts on the
// first ToggleDictation.
func (e *Engine) Start() {
	if e.sampler != nil {
		go e.runSampler()
	}
	e.queue.Push(StatusEvent{Text: "session started"})
}

// Callbacks returns the entry points handed to the recognizer.
func (e *Engine) Callbacks() recognizer.Callbacks {
	return recognizer.Callbacks{
		OnDraft:      e.HandleDraft,
		OnFinal:      e.HandleFinal,
		OnListening:  func() { e.handleHint(PhaseListening) },
		OnSpeech:     func() { e.handleHint(PhaseDrafting) },
		OnFinalizing: func() { e.handleHint(PhaseFinalizing) },
	}
}

// ToggleDictation starts the recognizer from Idle, or stops it from any
// active phase. The PhaseEvent for the transition is enqueued before
// return. A start failure leaves the phase at Idle and degrades to a
// status event.
func (e *Engine) ToggleDictation() {
	e.opMu.Lock()
	defer e.opMu.Unlock()

	e.mu.Lock()
	active := e.phase != PhaseIdle
	e.mu.Unlock()

	if active {
		e.stopDictation()
		return
	}

	if err := e.rec.Start(context.Background(), e.Callbacks()); err != nil {
		e.queue.Push(StatusEvent{Text: "recognizer start failed: " + err.Error()})
		return
	}

	e.mu.Lock()
	e.recording++
	n := e.recording
	e.setPhaseLocked(PhaseListening)
	e.mu.Unlock()

	if e.transcript != nil {
		if err := e.transcript.BeginRecording(n); err != nil {
			e.queue.Push(StatusEvent{Text: "session log: " + err.Error()})
		}
	}
	e.queue.Push(StatusEvent{Text: fmt.Sprintf("dictation on (recording %d)", n)})
}

// stopDictation enqueues the Idle transition first, so any callback
// still in flight on the recognizer's goroutine is discarded as a
// straggler, then stops the collaborator outside the state guard.
// Idempotent: a second stop while already Idle is a no-op.
func (e *Engine) stopDictation() {
	e.mu.Lock()
	if e.phase == PhaseIdle {
		e.mu.Unlock()
		return
	}
	e.setPhaseLocked(PhaseIdle)
	e.queue.Push(ClearEvent{})
	e.mu.Unlock()

	if err := e.rec.Stop(); err != nil {
		e.queue.Push(StatusEvent{Text: "recognizer stop: " + err.Error()})
	}
	if e.transcript != nil {
		if err := e.transcript.Flush(); err != nil {
			e.queue.Push(StatusEvent{Text: "session log: " + err.Error()})
		}
	}
	e.queue.Push(StatusEvent{Text: "dictation off"})
}

// ToggleClipboardMode flips the delivery path for subsequent finalized
// lines. No effect on phase; already-routed lines keep their
// destination.
func (e *Engine) ToggleClipboardMode() {
	e.mu.Lock()
	e.clipMode = !e.clipMode
	clip := e.clipMode
	e.mu.Unlock()

	mode := "direct typing"
	if clip {
		mode = "clipboard"
	}
	e.queue.Push(StatusEvent{Text: "typing mode: " + mode})
}

// HandleDraft is the recognizer's draft callback. Drafts arriving while
// Idle are stragglers from a stopped run and are silently discarded.
func (e *Engine) HandleDraft(text string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.phase == PhaseIdle {
		return
	}
	e.queue.Push(DraftEvent{Text: text})
}

// HandleFinal is the recognizer's commit callback: FinalEvent with a
// timestamp, session log append, and delivery through the inserter
// using the clipboard flag as it was at emission. The same straggler
// rule as drafts applies.
func (e *Engine) HandleFinal(text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}

	e.mu.Lock()
	if e.phase == PhaseIdle {
		e.mu.Unlock()
		return
	}
	at := time.Now()
	clip := e.clipMode
	e.finalized++
	e.queue.Push(FinalEvent{Text: text, At: at})
	e.setPhaseLocked(PhaseListening)
	e.mu.Unlock()

	if e.transcript != nil {
		if err := e.transcript.Append(text, at); err != nil {
			e.queue.Push(StatusEvent{Text: "session log: " + err.Error()})
		}
	}
	e.deliver(text, clip)
}

// deliver routes finalized text through the configured path. Failures
// are reported once and never retried.
func (e *Engine) deliver(text string, clip bool) {
	var err error
	if clip {
		err = e.ins.Clipboard(text)
	} else {
		err = e.ins.Type(text)
	}
	if err != nil {
		e.queue.Push(StatusEvent{Text: "text insertion failed: " + err.Error()})
	}
}

// handleHint applies a phase hint from the recognizer's VAD callbacks.
// Hints never turn dictation on or off.
func (e *Engine) handleHint(p Phase) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.phase == PhaseIdle || p == PhaseIdle {
		return
	}
	e.setPhaseLocked(p)
}

// setPhaseLocked transitions and enqueues the PhaseEvent, only on an
// actual change. Caller holds e.mu.
func (e *Engine) setPhaseLocked(p Phase) {
	if e.phase == p {
		return
	}
	e.phase = p
	e.queue.Push(PhaseEvent{Phase: p})
}

func (e *Engine) runSampler() {
	ticker := time.NewTicker(e.sampleEvery)
	defer ticker.Stop()
	for {
		select {
		case <-e.done:
			return
		case <-ticker.C:
			e.queue.Push(VRAMEvent{Sample: e.sampler.Sample()})
		}
	}
}

// Quit stops the recognizer if running, flushes and closes the session
// log, and closes Done. All finalized lines are enqueued strictly
// before Done closes. Idempotent.
func (e *Engine) Quit() {
	e.opMu.Lock()
	defer e.opMu.Unlock()

	e.quitOnce.Do(func() {
		e.mu.Lock()
		active := e.phase != PhaseIdle
		if active {
			e.setPhaseLocked(PhaseIdle)
		}
		e.mu.Unlock()

		if active {
			if err := e.rec.Stop(); err != nil {
				e.queue.Push(StatusEvent{Text: "recognizer stop: " + err.Error()})
			}
		}
		if e.transcript != nil {
			if err := e.transcript.Close(); err != nil {
				e.queue.Push(StatusEvent{Text: "session log: " + err.Error()})
			}
		}
		close(e.done)
	})
}
