// internal/suite/types.go
// Package suite loads and validates line-delimited prompt suites.
package suite

// Check is a weighted graded assertion against a model response.
type Check struct {
	Type     string  `json:"type"`
	Expected string  `json:"expected"`
	Weight   float64 `json:"weight,omitempty"`
}

// Entry is a single task-labeled benchmark prompt with optional checks.
type Entry struct {
	ID     string  `json:"id,omitempty"`
	Task   string  `json:"task,omitempty"`
	Prompt string  `json:"prompt"`
	Checks []Check `json:"checks,omitempty"`
}

// Suite is an ordered prompt suite grouped by task.
type Suite struct {
	Path          string
	Entries       []Entry
	TaskBreakdown map[string]int
}

// Check type identifiers accepted by the entry schema.
const (
	CheckExact    = "exact"
	CheckContains = "contains"
	CheckRegex    = "regex"
)
