// internal/calibrate/memory.go
package calibrate

import (
	"regexp"
	"strconv"
	"strings"
)

// paramCountPattern matches a parameter-count token like "7b" or "0.5B" in a
// model identifier.
var paramCountPattern = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)b\b`)

// bytesPerParameter maps quantization tags to approximate bytes per
// parameter. Identifiers with no recognized tag assume 1.0.
var bytesPerParameter = []struct {
	tag string
	bpp float64
}{
	{"fp16", 2.0},
	{"bf16", 2.0},
	{"q2", 0.25},
	{"q3", 0.375},
	{"q4", 0.5},
	{"q5", 0.625},
	{"q6", 0.75},
	{"q8", 1.0},
}

const memoryOverheadFactor = 1.15

// EstimatePeakMemoryMB derives an approximate peak memory footprint from a
// model identifier's parameter count and quantization tag. It returns nil
// when no parameter count parses; absence must surface as unknown, never as
// zero.
func EstimatePeakMemoryMB(modelIdentifier string) *float64 {
	match := paramCountPattern.FindStringSubmatch(modelIdentifier)
	if match == nil {
		return nil
	}
	params, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		return nil
	}

	bpp := 1.0
	lower := strings.ToLower(modelIdentifier)
	for _, entry := range bytesPerParameter {
		if strings.Contains(lower, entry.tag) {
			bpp = entry.bpp
			break
		}
	}

	mb := params * 1e9 * bpp * memoryOverheadFactor / (1024 * 1024)
	return &mb
}
