package recognizer

import (
	"context"
	"sync"
	"time"
)

// ScriptStep is one scripted callback with a delay before it fires.
type ScriptStep struct {
	Delay time.Duration
	Draft string
	Final string
}

// Fake is a Recognizer for tests and -fake runs. Callbacks can be
// driven directly with the Emit methods, or replayed from a script on
// Start.
type Fake struct {
	mu       sync.Mutex
	cb       Callbacks
	started  bool
	startErr error
	script   []ScriptStep
	cancel   context.CancelFunc

	stops int
}

func NewFake() *Fake {
	return &Fake{}
}

// FailStart makes the next Start return err.
func (f *Fake) FailStart(err error) {
	f.mu.Lock()
	f.startErr = err
	f.mu.Unlock()
}

// SetScript replays the given steps on each Start.
func (f *Fake) SetScript(steps []ScriptStep) {
	f.mu.Lock()
	f.script = steps
	f.mu.Unlock()
}

func (f *Fake) Start(ctx context.Context, cb Callbacks) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.startErr != nil {
		return f.startErr
	}
	f.started = true
	f.cb = cb

	if len(f.script) > 0 {
		runCtx, cancel := context.WithCancel(ctx)
		f.cancel = cancel
		go f.replay(runCtx, cb, f.script)
	}
	return nil
}

func (f *Fake) replay(ctx context.Context, cb Callbacks, steps []ScriptStep) {
	for _, step := range steps {
		select {
		case <-ctx.Done():
			return
		case <-time.After(step.Delay):
		}
		if step.Draft != "" {
			cb.draft(step.Draft)
		}
		if step.Final != "" {
			cb.final(step.Final)
		}
	}
}

func (f *Fake) Stop() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.started {
		return nil
	}
	f.started = false
	f.stops++
	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}
	return nil
}

// Started reports whether a run is in progress.
func (f *Fake) Started() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.started
}

// Stops counts completed Stop calls that ended a run.
func (f *Fake) Stops() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stops
}

func (f *Fake) callbacks() Callbacks {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cb
}

// EmitDraft invokes the registered draft callback, simulating the
// collaborator's worker goroutine.
func (f *Fake) EmitDraft(text string) { f.callbacks().draft(text) }

// EmitFinal invokes the registered final callback.
func (f *Fake) EmitFinal(text string) { f.callbacks().final(text) }

// EmitSpeech invokes the speech-started phase hint.
func (f *Fake) EmitSpeech() { f.callbacks().speech() }

// EmitFinalizing invokes the committing phase hint.
func (f *Fake) EmitFinalizing() { f.callbacks().finalizing() }

// EmitListening invokes the waiting-for-speech phase hint.
func (f *Fake) EmitListening() { f.callbacks().listening() }
