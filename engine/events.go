package engine

import (
	"time"

	"murmur/gpu"
)

// EventKind tags the concrete type of a queued event.
type EventKind int

const (
	KindPhase EventKind = iota
	KindDraft
	KindFinal
	KindVRAM
	KindStatus
	KindClear
)

// Event is a tagged value pushed onto the queue by engine operations and
// collaborator callbacks, and drained by the single UI consumer.
type Event interface {
	EventKind() EventKind
}

// PhaseEvent announces a phase transition. Emitted only on actual change.
type PhaseEvent struct {
	Phase Phase
}

func (PhaseEvent) EventKind() EventKind { return KindPhase }

// DraftEvent carries the latest in-progress transcript. Each draft
// replaces the previous one for display; drafts are never accumulated.
type DraftEvent struct {
	Text string
}

func (DraftEvent) EventKind() EventKind { return KindDraft }

// FinalEvent carries a committed transcript line. Never mutated after
// emission; the same text goes to the session log and the inserter.
type FinalEvent struct {
	Text string
	At   time.Time
}

func (FinalEvent) EventKind() EventKind { return KindFinal }

// VRAMEvent is a periodic GPU memory snapshot, independent of phase.
type VRAMEvent struct {
	Sample gpu.Sample
}

func (VRAMEvent) EventKind() EventKind { return KindVRAM }

// StatusEvent carries an informational or diagnostic message for the
// status line. Collaborator failures degrade to this, never to a panic
// on the collaborator's goroutine.
type StatusEvent struct {
	Text string
}

func (StatusEvent) EventKind() EventKind { return KindStatus }

// ClearEvent tells the display to reset the transcript panel. The lines
// it clears are already in the session log.
type ClearEvent struct{}

func (ClearEvent) EventKind() EventKind { return KindClear }
