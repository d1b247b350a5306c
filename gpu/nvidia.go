package gpu

import (
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"sync"
)

const mib = 1024 * 1024

// NvidiaSMI samples GPU memory by running nvidia-smi. The first
// successful reading becomes the baseline for app-attributed usage.
type NvidiaSMI struct {
	path string

	mu          sync.Mutex
	baseline    uint64
	baselineSet bool
}

func NewNvidiaSMI() *NvidiaSMI {
	path, err := exec.LookPath("nvidia-smi")
	if err != nil {
		path = ""
	}
	return &NvidiaSMI{path: path}
}

func (s *NvidiaSMI) Sample() Sample {
	if s.path == "" {
		return Sample{}
	}

	out, err := exec.Command(s.path,
		"--query-gpu=name,memory.used,memory.total",
		"--format=csv,noheader,nounits").Output()
	if err != nil {
		return Sample{}
	}

	name, used, total, err := parseQueryLine(string(out))
	if err != nil {
		return Sample{}
	}

	s.mu.Lock()
	if !s.baselineSet {
		s.baseline = used
		s.baselineSet = true
	}
	var app uint64
	if used > s.baseline {
		app = used - s.baseline
	}
	s.mu.Unlock()

	return Sample{
		Available:  true,
		Name:       name,
		UsedBytes:  used,
		TotalBytes: total,
		AppBytes:   app,
	}
}

// parseQueryLine parses the first line of
// "--query-gpu=name,memory.used,memory.total --format=csv,noheader,nounits"
// output. Memory values are reported in MiB.
func parseQueryLine(out string) (name string, used, total uint64, err error) {
	line, _, _ := strings.Cut(strings.TrimSpace(out), "\n")
	parts := strings.Split(line, ",")
	if len(parts) != 3 {
		return "", 0, 0, fmt.Errorf("unexpected nvidia-smi output: %q", line)
	}
	name = strings.TrimSpace(parts[0])
	usedMiB, err := strconv.ParseUint(strings.TrimSpace(parts[1]), 10, 64)
	if err != nil {
		return "", 0, 0, fmt.Errorf("parsing memory.used: %w", err)
	}
	totalMiB, err := strconv.ParseUint(strings.TrimSpace(parts[2]), 10, 64)
	if err != nil {
		return "", 0, 0, fmt.Errorf("parsing memory.total: %w", err)
	}
	return name, usedMiB * mib, totalMiB * mib, nil
}
