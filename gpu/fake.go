package gpu

import "sync"

// FakeSampler returns scripted samples for tests and -fake runs.
type FakeSampler struct {
	mu      sync.Mutex
	samples []Sample
	next    int
}

func NewFake(samples ...Sample) *FakeSampler {
	return &FakeSampler{samples: samples}
}

func (f *FakeSampler) Sample() Sample {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.samples) == 0 {
		return Sample{}
	}
	s := f.samples[f.next]
	if f.next < len(f.samples)-1 {
		f.next++
	}
	return s
}
