package hotkey

import (
	"sync"

	hook "github.com/robotn/gohook"
)

type gohookKeys struct {
	dictate   chan struct{}
	clipboard chan struct{}
	quit      chan struct{}
	once      sync.Once
}

func New() Hotkeys {
	return &gohookKeys{
		dictate:   make(chan struct{}, 1),
		clipboard: make(chan struct{}, 1),
		quit:      make(chan struct{}, 1),
	}
}

func (h *gohookKeys) Register() error {
	bind := func(key string, ch chan struct{}) {
		hook.Register(hook.KeyDown, []string{"ctrl", "alt", key}, func(hook.Event) {
			select {
			case ch <- struct{}{}:
			default:
			}
		})
	}
	bind("d", h.dictate)
	bind("c", h.clipboard)
	bind("q", h.quit)

	go func() {
		<-hook.Process(hook.Start())
	}()
	return nil
}

func (h *gohookKeys) Unregister() {
	h.once.Do(hook.End)
}

func (h *gohookKeys) Dictate() <-chan struct{}   { return h.dictate }
func (h *gohookKeys) Clipboard() <-chan struct{} { return h.clipboard }
func (h *gohookKeys) Quit() <-chan struct{}      { return h.quit }
