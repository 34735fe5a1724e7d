// internal/harness/quality.go
package harness

import (
	"regexp"
	"strings"

	"github.com/mwiater/calroute/internal/suite"
)

// CheckResult records the outcome of grading one check.
type CheckResult struct {
	Type     string  `json:"type"`
	Expected string  `json:"expected"`
	Weight   float64 `json:"weight"`
	Passed   bool    `json:"passed"`
	Error    string  `json:"error,omitempty"`
}

// Evaluation is the weight-normalized grading outcome for one response.
type Evaluation struct {
	Results      []CheckResult
	PassedWeight float64
	TotalWeight  float64
	PassRate     float64
}

// Evaluate grades a response against its checks. Weights at or below zero
// default to 1. A regex that fails to compile is recorded as a failed check
// with an inline error; sibling checks still evaluate. Zero checks means the
// prompt auto-passes with a pass rate of 1.
func Evaluate(response string, checks []suite.Check) Evaluation {
	eval := Evaluation{PassRate: 1}
	if len(checks) == 0 {
		return eval
	}

	for _, check := range checks {
		weight := check.Weight
		if weight <= 0 {
			weight = 1
		}

		result := CheckResult{
			Type:     check.Type,
			Expected: check.Expected,
			Weight:   weight,
		}

		switch check.Type {
		case suite.CheckExact:
			result.Passed = strings.TrimSpace(response) == strings.TrimSpace(check.Expected)
		case suite.CheckContains:
			result.Passed = strings.Contains(response, check.Expected)
		case suite.CheckRegex:
			re, err := regexp.Compile(check.Expected)
			if err != nil {
				result.Error = err.Error()
			} else {
				result.Passed = re.MatchString(response)
			}
		default:
			result.Error = "unknown check type: " + check.Type
		}

		eval.TotalWeight += weight
		if result.Passed {
			eval.PassedWeight += weight
		}
		eval.Results = append(eval.Results, result)
	}

	eval.PassRate = eval.PassedWeight / eval.TotalWeight
	return eval
}
