// internal/suite/loader.go
package suite

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// ErrEmptySuite indicates a suite file with zero valid entries.
var ErrEmptySuite = errors.New("prompt suite contains no valid entries")

// ParseError reports a line that is not valid JSON.
type ParseError struct {
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("suite line %d: invalid JSON: %v", e.Line, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ValidationError reports a line that parsed but violates the entry schema.
type ValidationError struct {
	Line    int
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("suite line %d: field %q: %s", e.Line, e.Field, e.Message)
}

// entrySchema validates one suite line. Weight, when present, must be positive.
const entrySchema = `{
  "type": "object",
  "required": ["prompt"],
  "properties": {
    "id": {"type": "string", "minLength": 1},
    "task": {"type": "string"},
    "prompt": {"type": "string", "minLength": 1},
    "checks": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["type", "expected"],
        "properties": {
          "type": {"enum": ["exact", "contains", "regex"]},
          "expected": {"type": "string"},
          "weight": {"type": "number", "exclusiveMinimum": 0}
        },
        "additionalProperties": false
      }
    }
  },
  "additionalProperties": false
}`

// Load reads a JSON Lines prompt suite, skipping blank lines. Each non-blank
// line must parse and validate; missing ids are synthesized as prompt-<n> and
// blank tasks normalize to "general". Re-loading the same file yields
// identical entries in identical order.
func Load(path string) (*Suite, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading prompt suite: %w", err)
	}

	schemaLoader := gojsonschema.NewStringLoader(entrySchema)

	s := &Suite{
		Path:          path,
		TaskBreakdown: make(map[string]int),
	}

	for i, line := range strings.Split(string(raw), "\n") {
		lineNo := i + 1
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		var entry Entry
		if err := json.Unmarshal([]byte(trimmed), &entry); err != nil {
			return nil, &ParseError{Line: lineNo, Err: err}
		}

		result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewStringLoader(trimmed))
		if err != nil {
			return nil, &ParseError{Line: lineNo, Err: err}
		}
		if !result.Valid() {
			first := result.Errors()[0]
			return nil, &ValidationError{Line: lineNo, Field: first.Field(), Message: first.Description()}
		}

		if strings.TrimSpace(entry.ID) == "" {
			entry.ID = fmt.Sprintf("prompt-%d", len(s.Entries)+1)
		}
		entry.Task = strings.TrimSpace(entry.Task)
		if entry.Task == "" {
			entry.Task = "general"
		}

		s.Entries = append(s.Entries, entry)
		s.TaskBreakdown[entry.Task]++
	}

	if len(s.Entries) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrEmptySuite)
	}

	return s, nil
}

// Tasks returns the suite's task names in deterministic (sorted) order.
func (s *Suite) Tasks() []string {
	tasks := make([]string, 0, len(s.TaskBreakdown))
	for task := range s.TaskBreakdown {
		tasks = append(tasks, task)
	}
	sort.Strings(tasks)
	return tasks
}
