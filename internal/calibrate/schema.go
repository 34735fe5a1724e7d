// internal/calibrate/schema.go
package calibrate

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// resultSchema validates a complete calibration result document. A violation
// here indicates a builder bug, not bad user input.
const resultSchema = `{
  "type": "object",
  "required": ["schema_version", "generated_at", "calibration_version", "execution_mode", "runtime", "objective", "hardware", "suite_path", "suite_task_breakdown", "models", "summary"],
  "properties": {
    "schema_version": {"type": "string", "minLength": 1},
    "generated_at": {"type": "string", "minLength": 1},
    "calibration_version": {"type": "string", "minLength": 1},
    "execution_mode": {"enum": ["dry-run", "contract-only", "full"]},
    "runtime": {"type": "string", "minLength": 1},
    "objective": {"enum": ["speed", "quality", "balanced"]},
    "hardware": {"type": "object"},
    "suite_path": {"type": "string"},
    "suite_task_breakdown": {
      "type": "object",
      "additionalProperties": {"type": "integer", "minimum": 0}
    },
    "models": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["model_identifier", "status"],
        "properties": {
          "model_identifier": {"type": "string", "minLength": 1},
          "status": {"enum": ["pending", "success", "failed", "skipped"]},
          "metrics": {
            "type": "object",
            "required": ["ttft_ms", "tokens_per_second", "latency_ms_p50", "latency_ms_p95"],
            "properties": {
              "ttft_ms": {"type": "number", "minimum": 0},
              "tokens_per_second": {"type": "number", "minimum": 0},
              "latency_ms_p50": {"type": "number", "minimum": 0},
              "latency_ms_p95": {"type": "number", "minimum": 0},
              "peak_memory_mb": {"type": "number", "exclusiveMinimum": 0}
            }
          },
          "quality": {
            "type": "object",
            "required": ["overall_score", "task_scores", "check_pass_rate"],
            "properties": {
              "overall_score": {"type": "number", "minimum": 0, "maximum": 100},
              "task_scores": {
                "type": "object",
                "additionalProperties": {"type": "number", "minimum": 0, "maximum": 100}
              },
              "check_pass_rate": {"type": "number", "minimum": 0, "maximum": 1}
            }
          },
          "traces": {"type": "object"},
          "error": {"type": "string"}
        }
      }
    },
    "summary": {
      "type": "object",
      "required": ["total_models", "successful", "failed", "skipped", "pending"],
      "additionalProperties": {"type": "integer", "minimum": 0}
    }
  }
}`

// ValidateResult checks a built result against the document schema.
func ValidateResult(res *Result) error {
	outcome, err := gojsonschema.Validate(gojsonschema.NewStringLoader(resultSchema), gojsonschema.NewGoLoader(res))
	if err != nil {
		return fmt.Errorf("error validating calibration result: %w", err)
	}
	if !outcome.Valid() {
		var details []string
		for _, desc := range outcome.Errors() {
			details = append(details, desc.String())
		}
		return fmt.Errorf("internal error: calibration result failed schema validation: %s", strings.Join(details, "; "))
	}
	return nil
}
