package insert

import "sync"

// Delivery records one Inserter call: which path it took and the text.
type Delivery struct {
	Text      string
	Clipboard bool
}

// Fake records deliveries for tests and can be made to fail.
type Fake struct {
	mu         sync.Mutex
	deliveries []Delivery
	typeErr    error
	clipErr    error
}

func NewFake() *Fake {
	return &Fake{}
}

func (f *Fake) FailType(err error) {
	f.mu.Lock()
	f.typeErr = err
	f.mu.Unlock()
}

func (f *Fake) FailClipboard(err error) {
	f.mu.Lock()
	f.clipErr = err
	f.mu.Unlock()
}

func (f *Fake) Type(text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.typeErr != nil {
		return f.typeErr
	}
	f.deliveries = append(f.deliveries, Delivery{Text: text})
	return nil
}

func (f *Fake) Clipboard(text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.clipErr != nil {
		return f.clipErr
	}
	f.deliveries = append(f.deliveries, Delivery{Text: text, Clipboard: true})
	return nil
}

func (f *Fake) Deliveries() []Delivery {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Delivery, len(f.deliveries))
	copy(out, f.deliveries)
	return out
}
