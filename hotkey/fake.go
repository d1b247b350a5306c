package hotkey

type FakeHotkeys struct {
	dictate   chan struct{}
	clipboard chan struct{}
	quit      chan struct{}
}

func NewFake() *FakeHotkeys {
	return &FakeHotkeys{
		dictate:   make(chan struct{}, 1),
		clipboard: make(chan struct{}, 1),
		quit:      make(chan struct{}, 1),
	}
}

func (f *FakeHotkeys) Register() error { return nil }
func (f *FakeHotkeys) Unregister()     {}

func (f *FakeHotkeys) Dictate() <-chan struct{}   { return f.dictate }
func (f *FakeHotkeys) Clipboard() <-chan struct{} { return f.clipboard }
func (f *FakeHotkeys) Quit() <-chan struct{}      { return f.quit }

func (f *FakeHotkeys) SimDictate()   { f.dictate <- struct{}{} }
func (f *FakeHotkeys) SimClipboard() { f.clipboard <- struct{}{} }
func (f *FakeHotkeys) SimQuit()      { f.quit <- struct{}{} }
