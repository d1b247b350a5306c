package engine

// Phase is the dictation engine's current mode. Exactly one phase is
// active at any instant; transitions are published on the event queue.
type Phase int

const (
	// PhaseIdle means dictation is toggled off.
	PhaseIdle Phase = iota
	// PhaseListening means dictation is on and waiting for speech.
	PhaseListening
	// PhaseDrafting means live transcript text is arriving.
	PhaseDrafting
	// PhaseFinalizing means an utterance is being committed.
	PhaseFinalizing
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseListening:
		return "listening"
	case PhaseDrafting:
		return "drafting"
	case PhaseFinalizing:
		return "finalizing"
	default:
		return "unknown"
	}
}
