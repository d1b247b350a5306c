// Package gpu reports GPU memory usage for the VRAM footer. The real
// sampler shells out to nvidia-smi; a missing or failing tool is
// reported as an unavailable sample, never as a fatal error.
package gpu

// Sample is a point-in-time snapshot of GPU memory.
type Sample struct {
	Available  bool
	Name       string
	UsedBytes  uint64
	TotalBytes uint64
	// AppBytes is the growth in used memory since the first sample of
	// this run, attributing model load to the app rather than to
	// whatever the desktop already held.
	AppBytes uint64
}

func (s Sample) FreeBytes() uint64 {
	if s.TotalBytes < s.UsedBytes {
		return 0
	}
	return s.TotalBytes - s.UsedBytes
}

// PctFree returns free memory as a percentage of total, 100 when the
// sample is unavailable.
func (s Sample) PctFree() float64 {
	if !s.Available || s.TotalBytes == 0 {
		return 100
	}
	return float64(s.FreeBytes()) / float64(s.TotalBytes) * 100
}

type Sampler interface {
	Sample() Sample
}
