// internal/policy/store.go
package policy

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	"github.com/mwiater/calroute/internal/calibrate"
	"github.com/mwiater/calroute/internal/util"
)

// DefaultPolicyFilenames is the ordered default-discovery probe list.
var DefaultPolicyFilenames = []string{
	"calibration-policy.yaml",
	"calibration-policy.yml",
	"calibration-policy.json",
}

// Write serializes payload (a calibration result or policy) to path: YAML
// when the extension is .yaml/.yml, pretty JSON with a trailing newline
// otherwise. Parent directories are created; an existing directory at path
// is refused.
func Write(path string, payload any) error {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return fmt.Errorf("refusing to write %q: path is a directory", path)
	}

	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("error creating output directory: %w", err)
		}
	}

	var data []byte
	var err error
	if isYAMLPath(path) {
		data, err = marshalYAML(payload)
	} else {
		data, err = json.MarshalIndent(payload, "", "  ")
		data = append(data, '\n')
	}
	if err != nil {
		return fmt.Errorf("error serializing %q: %w", path, err)
	}

	return util.WriteFile(path, data)
}

// Load reads and validates a calibration policy. The four failure classes
// (missing file, not a file, parse error, schema error) each get a distinct
// user-facing message.
func Load(path string) (*Policy, error) {
	doc, err := readDocument(path)
	if err != nil {
		return nil, err
	}

	if err := validateAgainst(policySchema, gojsonschema.NewBytesLoader(doc), fmt.Sprintf("policy file %q", path)); err != nil {
		return nil, err
	}

	var p Policy
	if err := json.Unmarshal(doc, &p); err != nil {
		return nil, fmt.Errorf("could not decode policy file %q: %w", path, err)
	}
	return &p, nil
}

// LoadAny loads a policy file that may be either dialect: it tries the
// calibration schema first, then the enterprise schema, and returns a
// discriminated result rather than branching on errors.
func LoadAny(path string) (*AnyPolicy, error) {
	doc, err := readDocument(path)
	if err != nil {
		return nil, err
	}

	calErr := validateAgainst(policySchema, gojsonschema.NewBytesLoader(doc), "calibration dialect")
	if calErr == nil {
		var p Policy
		if err := json.Unmarshal(doc, &p); err != nil {
			return nil, fmt.Errorf("could not decode policy file %q: %w", path, err)
		}
		return &AnyPolicy{Kind: KindCalibration, Calibration: &p}, nil
	}

	entErr := validateAgainst(enterpriseSchema, gojsonschema.NewBytesLoader(doc), "enterprise dialect")
	if entErr == nil {
		var p EnterprisePolicy
		if err := json.Unmarshal(doc, &p); err != nil {
			return nil, fmt.Errorf("could not decode policy file %q: %w", path, err)
		}
		return &AnyPolicy{Kind: KindEnterprise, Enterprise: &p}, nil
	}

	return nil, fmt.Errorf("policy file %q matches neither dialect: %v; %v", path, calErr, entErr)
}

// LoadResult reads and validates a stored calibration result document.
func LoadResult(path string) (*calibrate.Result, error) {
	doc, err := readDocument(path)
	if err != nil {
		return nil, err
	}

	var res calibrate.Result
	if err := json.Unmarshal(doc, &res); err != nil {
		return nil, fmt.Errorf("could not decode calibration result %q: %w", path, err)
	}
	if err := calibrate.ValidateResult(&res); err != nil {
		return nil, fmt.Errorf("calibration result %q: %w", path, err)
	}
	return &res, nil
}

// DiscoverDefault probes the fixed filename list under baseDir and returns
// the first policy that both exists and validates, along with its path. The
// base directory is injected by the caller so discovery stays pure and
// testable.
func DiscoverDefault(baseDir string) (*Policy, string, error) {
	var lastErr error
	for _, name := range DefaultPolicyFilenames {
		path := filepath.Join(baseDir, name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		p, err := Load(path)
		if err != nil {
			lastErr = err
			continue
		}
		return p, path, nil
	}
	if lastErr != nil {
		return nil, "", fmt.Errorf("no valid default policy under %q: %w", baseDir, lastErr)
	}
	return nil, "", fmt.Errorf("no default policy found under %q (tried %s)", baseDir, strings.Join(DefaultPolicyFilenames, ", "))
}

// readDocument loads path and returns its contents as JSON bytes, converting
// YAML documents via an intermediate decode.
func readDocument(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("file %q does not exist", path)
		}
		return nil, fmt.Errorf("could not stat %q: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%q is not a file", path)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read %q: %w", path, err)
	}

	if isYAMLPath(path) {
		var intermediate any
		if err := yaml.Unmarshal(raw, &intermediate); err != nil {
			return nil, fmt.Errorf("could not parse %q as YAML: %w", path, err)
		}
		doc, err := json.Marshal(intermediate)
		if err != nil {
			return nil, fmt.Errorf("could not convert %q to JSON: %w", path, err)
		}
		return doc, nil
	}

	if !json.Valid(raw) {
		return nil, fmt.Errorf("could not parse %q as JSON", path)
	}
	return raw, nil
}

// marshalYAML serializes through JSON first so YAML output carries the same
// field names as the JSON dialect.
func marshalYAML(payload any) ([]byte, error) {
	jsonBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	var intermediate any
	if err := json.Unmarshal(jsonBytes, &intermediate); err != nil {
		return nil, err
	}
	return yaml.Marshal(intermediate)
}

func isYAMLPath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	default:
		return false
	}
}
