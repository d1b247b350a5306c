// Package hotkey captures the three global key combinations:
// Ctrl+Alt+D toggles dictation, Ctrl+Alt+C toggles clipboard mode,
// Ctrl+Alt+Q quits. Bindings are fixed; they are not reconfigurable at
// runtime.
package hotkey

// Hotkeys delivers binding activations on buffered channels. Sends are
// non-blocking: the capture mechanism may stall input delivery
// system-wide while a handler runs, so handlers only enqueue.
type Hotkeys interface {
	Register() error
	Unregister()
	Dictate() <-chan struct{}
	Clipboard() <-chan struct{}
	Quit() <-chan struct{}
}
