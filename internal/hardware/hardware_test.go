// internal/hardware/hardware_test.go
package hardware

import (
	"context"
	"testing"
)

func TestHostIDStable(t *testing.T) {
	a := hostID("box", "linux", "amd64")
	b := hostID("box", "linux", "amd64")
	if a != b {
		t.Fatalf("host id not stable: %q vs %q", a, b)
	}
	if len(a) != 12 {
		t.Fatalf("host id length: %q", a)
	}
	if a == hostID("other", "linux", "amd64") {
		t.Fatal("different hosts should hash differently")
	}
}

func TestParseGPUProbe(t *testing.T) {
	name, vram := parseGPUProbe("NVIDIA GeForce RTX 4090, 24564\n")
	if name != "NVIDIA GeForce RTX 4090" || vram != 24564 {
		t.Fatalf("parseGPUProbe = %q %v", name, vram)
	}

	name, vram = parseGPUProbe("")
	if name != "CPU Only" || vram != 0 {
		t.Fatalf("empty probe = %q %v", name, vram)
	}
}

func TestDetectPopulatesBasics(t *testing.T) {
	fp := Detect(context.Background())
	if fp.HostID == "" || fp.Platform == "" || fp.CPUCores < 1 {
		t.Fatalf("incomplete fingerprint: %+v", fp)
	}
}
