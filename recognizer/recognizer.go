// Package recognizer wraps the real-time speech-to-text collaborator.
// The engine consumes it through Callbacks only; the collaborator owns
// audio capture and all model state.
package recognizer

import "context"

// Callbacks are invoked from the recognizer's own goroutines. Draft and
// final callbacks for the same utterance arrive in draft-then-final
// order; that ordering is the collaborator's contract, not enforced
// here. Handlers must not panic: the goroutine invoking them belongs to
// the recognizer.
type Callbacks struct {
	// OnDraft delivers the latest in-progress transcript.
	OnDraft func(text string)
	// OnFinal delivers a committed utterance.
	OnFinal func(text string)
	// OnListening signals that the recognizer is waiting for speech.
	OnListening func()
	// OnSpeech signals that live text has started arriving.
	OnSpeech func()
	// OnFinalizing signals that the current utterance is being committed.
	OnFinalizing func()
}

func (cb Callbacks) draft(text string) {
	if cb.OnDraft != nil {
		cb.OnDraft(text)
	}
}

func (cb Callbacks) final(text string) {
	if cb.OnFinal != nil {
		cb.OnFinal(text)
	}
}

func (cb Callbacks) listening() {
	if cb.OnListening != nil {
		cb.OnListening()
	}
}

func (cb Callbacks) speech() {
	if cb.OnSpeech != nil {
		cb.OnSpeech()
	}
}

func (cb Callbacks) finalizing() {
	if cb.OnFinalizing != nil {
		cb.OnFinalizing()
	}
}

// Recognizer is the transcription collaborator boundary. Start begins a
// dictation run and returns once the collaborator is accepting audio;
// Stop ends it and is a no-op when nothing is running.
type Recognizer interface {
	Start(ctx context.Context, cb Callbacks) error
	Stop() error
}

// Config carries the settings forwarded to the collaborator at Start.
// SilenceDuration is the end-of-utterance cutoff; it is enforced by the
// collaborator, not by the engine.
type Config struct {
	Model           string
	Language        string
	SilenceDuration float64
	Endpoint        string
	APIKey          string
	SampleRate      int
	Channels        int
	// SourceCommand produces raw PCM16 audio on stdout, e.g.
	// ["parec", "--format=s16le", "--rate=16000", "--channels=1"].
	SourceCommand []string
}
