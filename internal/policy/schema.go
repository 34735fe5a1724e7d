// internal/policy/schema.go
package policy

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// policySchema validates a calibration policy document.
const policySchema = `{
  "type": "object",
  "required": ["schema_version", "generated_at", "objective", "source", "routing"],
  "properties": {
    "schema_version": {"type": "string", "minLength": 1},
    "generated_at": {"type": "string", "minLength": 1},
    "objective": {"enum": ["speed", "quality", "balanced"]},
    "source": {
      "type": "object",
      "required": ["calibration_version"],
      "properties": {
        "calibration_version": {"type": "string", "minLength": 1},
        "calibration_result_path": {"type": "string"}
      }
    },
    "routing": {
      "type": "object",
      "minProperties": 1,
      "additionalProperties": {
        "type": "object",
        "required": ["primary", "fallbacks", "rationale"],
        "properties": {
          "primary": {"type": "string", "minLength": 1},
          "fallbacks": {"type": "array", "items": {"type": "string", "minLength": 1}},
          "min_quality": {"type": "number", "minimum": 0, "maximum": 100},
          "rationale": {"type": "string", "minLength": 1}
        }
      }
    },
    "metadata": {
      "type": "object",
      "additionalProperties": {"type": "string"}
    }
  }
}`

// enterpriseSchema validates the enterprise policy dialect.
const enterpriseSchema = `{
  "type": "object",
  "required": ["schema_version", "organization", "default_model"],
  "properties": {
    "schema_version": {"type": "string", "minLength": 1},
    "organization": {"type": "string", "minLength": 1},
    "default_model": {"type": "string", "minLength": 1},
    "task_overrides": {
      "type": "object",
      "additionalProperties": {"type": "string", "minLength": 1}
    }
  }
}`

// ValidatePolicy checks a policy document against the schema, plus the
// structural invariant that a route's primary never repeats in its fallbacks.
func ValidatePolicy(p *Policy) error {
	if err := validateAgainst(policySchema, gojsonschema.NewGoLoader(p), "calibration policy"); err != nil {
		return err
	}
	for task, entry := range p.Routing {
		for _, fb := range entry.Fallbacks {
			if fb == entry.Primary {
				return fmt.Errorf("internal error: route %q lists primary %q among its fallbacks", task, entry.Primary)
			}
		}
	}
	return nil
}

func validateAgainst(schema string, doc gojsonschema.JSONLoader, label string) error {
	outcome, err := gojsonschema.Validate(gojsonschema.NewStringLoader(schema), doc)
	if err != nil {
		return fmt.Errorf("error validating %s: %w", label, err)
	}
	if !outcome.Valid() {
		var details []string
		for _, desc := range outcome.Errors() {
			details = append(details, desc.String())
		}
		return fmt.Errorf("%s failed schema validation: %s", label, strings.Join(details, "; "))
	}
	return nil
}
