package gpu

import "testing"

func TestParseQueryLine(t *testing.T) {
	name, used, total, err := parseQueryLine("NVIDIA GeForce RTX 3060, 2048, 12288\n")
	if err != nil {
		t.Fatal(err)
	}
	if name != "NVIDIA GeForce RTX 3060" {
		t.Errorf("name = %q", name)
	}
	if used != 2048*mib {
		t.Errorf("used = %d, want %d", used, 2048*mib)
	}
	if total != 12288*mib {
		t.Errorf("total = %d, want %d", total, 12288*mib)
	}
}

func TestParseQueryLineMultiGPUUsesFirst(t *testing.T) {
	out := "GPU A, 100, 8192\nGPU B, 200, 8192\n"
	name, used, _, err := parseQueryLine(out)
	if err != nil {
		t.Fatal(err)
	}
	if name != "GPU A" || used != 100*mib {
		t.Errorf("got %q used=%d, want first GPU", name, used)
	}
}

func TestParseQueryLineMalformed(t *testing.T) {
	for _, out := range []string{"", "just text", "a, b, c", "name, 12"} {
		if _, _, _, err := parseQueryLine(out); err == nil {
			t.Errorf("expected error for %q", out)
		}
	}
}

func TestSampleFree(t *testing.T) {
	s := Sample{Available: true, UsedBytes: 3 * mib, TotalBytes: 4 * mib}
	if got := s.FreeBytes(); got != mib {
		t.Errorf("FreeBytes = %d, want %d", got, mib)
	}
	if got := s.PctFree(); got != 25 {
		t.Errorf("PctFree = %v, want 25", got)
	}
}

func TestSampleUnavailablePctFree(t *testing.T) {
	if got := (Sample{}).PctFree(); got != 100 {
		t.Errorf("PctFree = %v, want 100 for unavailable sample", got)
	}
}
