// internal/hardware/hardware.go
// Package hardware produces a lightweight host fingerprint embedded in
// calibration results.
package hardware

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strconv"
	"strings"
	"time"
)

const gpuProbeTimeout = 10 * time.Second

// Fingerprint identifies the hardware a calibration ran on. The host id is a
// stable anonymous hash, not a hostname.
type Fingerprint struct {
	HostID       string  `json:"host_id"`
	Platform     string  `json:"platform"`
	Architecture string  `json:"architecture"`
	CPUCores     int     `json:"cpu_cores"`
	GPUModel     string  `json:"gpu_model"`
	GPUVRAMMB    float64 `json:"gpu_vram_mb"`
}

// Detect collects the current host's fingerprint. GPU detection is
// best-effort; hosts without nvidia-smi report "CPU Only".
func Detect(ctx context.Context) Fingerprint {
	hostname, _ := os.Hostname()
	gpuModel, gpuVRAM := detectGPU(ctx)

	return Fingerprint{
		HostID:       hostID(hostname, runtime.GOOS, runtime.GOARCH),
		Platform:     runtime.GOOS,
		Architecture: runtime.GOARCH,
		CPUCores:     runtime.NumCPU(),
		GPUModel:     gpuModel,
		GPUVRAMMB:    gpuVRAM,
	}
}

// hostID hashes host identity into a short anonymous identifier.
func hostID(parts ...string) string {
	sum := md5.Sum([]byte(strings.Join(parts, "-")))
	return hex.EncodeToString(sum[:])[:12]
}

func detectGPU(ctx context.Context) (string, float64) {
	probeCtx, cancel := context.WithTimeout(ctx, gpuProbeTimeout)
	defer cancel()

	out, err := exec.CommandContext(probeCtx, "nvidia-smi",
		"--query-gpu=name,memory.total", "--format=csv,noheader,nounits").Output()
	if err != nil {
		return "CPU Only", 0
	}
	return parseGPUProbe(string(out))
}

// parseGPUProbe reads the first line of nvidia-smi CSV output.
func parseGPUProbe(out string) (string, float64) {
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) == 0 || strings.TrimSpace(lines[0]) == "" {
		return "CPU Only", 0
	}
	parts := strings.SplitN(lines[0], ",", 2)
	if len(parts) < 2 {
		return "CPU Only", 0
	}
	name := strings.TrimSpace(parts[0])
	vram, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return name, 0
	}
	return name, vram
}

// String renders a single-line summary for logs.
func (f Fingerprint) String() string {
	return fmt.Sprintf("%s/%s %d cores, %s", f.Platform, f.Architecture, f.CPUCores, f.GPUModel)
}
