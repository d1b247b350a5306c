// Package insert delivers finalized text into the focused application,
// either by simulated keystrokes or by placing it on the system
// clipboard. There is no retry on failure: repeating keystroke
// simulation risks duplicate input.
package insert

// Inserter is the text-insertion collaborator boundary.
type Inserter interface {
	// Type simulates keystrokes into the OS-focused window.
	Type(text string) error
	// Clipboard places text on the system clipboard without typing it.
	Clipboard(text string) error
}
