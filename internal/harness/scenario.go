package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/jsonx/internal/seria"
)

// Scenario defines a conformance test scenario.
type Scenario struct {
	// Name uniquely identifies this scenario; it also names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Symbols maps registry identifiers to symbol descriptions.
	Symbols map[string]string `yaml:"symbols,omitempty"`

	// Cases are decoded and re-encoded in order.
	Cases []Case `yaml:"cases"`

	// Assertions validate properties across cases.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// Case is a single input with an optional expectation.
// Exactly one of Text, Tree and CUE is set.
type Case struct {
	Name string `yaml:"name"`

	// Text is input in the text grammar. An empty string is valid input.
	Text *string `yaml:"text,omitempty"`

	// Tree is JSON-framed tree input.
	Tree *string `yaml:"tree,omitempty"`

	// CUE is a path to a CUE file, resolved against the scenario directory.
	CUE string `yaml:"cue,omitempty"`

	Expect *ExpectClause `yaml:"expect,omitempty"`
}

// ExpectClause specifies the expected outcome of a case.
// Unset fields are not checked.
type ExpectClause struct {
	// Text is the exact text grammar output.
	Text *string `yaml:"text,omitempty"`

	// Tree is the exact JSON-framed tree output.
	Tree *string `yaml:"tree,omitempty"`

	// Kind is the category of the decoded value (object, array, date...).
	Kind string `yaml:"kind,omitempty"`

	// Error is the expected error code. When set the case must fail.
	Error string `yaml:"error,omitempty"`
}

// Input names the kind of input a case carries.
func (c *Case) Input() string {
	switch {
	case c.Text != nil:
		return InputText
	case c.Tree != nil:
		return InputTree
	case c.CUE != "":
		return InputCUE
	}
	return ""
}

// Input kinds.
const (
	InputText = "text"
	InputTree = "tree"
	InputCUE  = "cue"
)

// Assertion validates properties across cases.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	// Case restricts round-trip assertions to one case.
	Case string `yaml:"case,omitempty"`

	// Cases lists the cases compared by same_tree.
	Cases []string `yaml:"cases,omitempty"`

	// Frames lists the frames used by frame_round_trip.
	Frames []string `yaml:"frames,omitempty"`

	// Count is the expected warning count (used by warning_count).
	Count int `yaml:"count,omitempty"`
}

// Assertion type constants.
const (
	AssertRoundTrip      = "round_trip"
	AssertFrameRoundTrip = "frame_round_trip"
	AssertStoreRoundTrip = "store_round_trip"
	AssertSameTree       = "same_tree"
	AssertWarningCount   = "warning_count"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
// CUE case paths are resolved against the scenario's directory.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data, filepath.Dir(path))
}

// ParseScenario parses scenario YAML. Relative CUE paths are joined to
// baseDir when it is not empty.
func ParseScenario(data []byte, baseDir string) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	for i, c := range scenario.Cases {
		if c.CUE != "" && !filepath.IsAbs(c.CUE) && baseDir != "" {
			scenario.Cases[i].CUE = filepath.Join(baseDir, c.CUE)
		}
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Cases) == 0 {
		return fmt.Errorf("cases list is required and must be non-empty")
	}

	names := make(map[string]bool, len(s.Cases))
	for i, c := range s.Cases {
		if c.Name == "" {
			return fmt.Errorf("cases[%d]: name is required", i)
		}
		if names[c.Name] {
			return fmt.Errorf("cases[%d]: duplicate name %q", i, c.Name)
		}
		names[c.Name] = true

		inputs := 0
		if c.Text != nil {
			inputs++
		}
		if c.Tree != nil {
			inputs++
		}
		if c.CUE != "" {
			inputs++
			if _, err := os.Stat(c.CUE); os.IsNotExist(err) {
				return fmt.Errorf("cases[%d]: cue file not found: %s", i, c.CUE)
			}
		}
		if inputs != 1 {
			return fmt.Errorf("cases[%d]: exactly one of text, tree or cue is required", i)
		}

		if e := c.Expect; e != nil && e.Error != "" && (e.Text != nil || e.Tree != nil || e.Kind != "") {
			return fmt.Errorf("cases[%d].expect: error cannot be combined with text, tree or kind", i)
		}
	}

	for i, a := range s.Assertions {
		if err := validateAssertion(i, &a, names); err != nil {
			return err
		}
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion, cases map[string]bool) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}
	if a.Case != "" && !cases[a.Case] {
		return fmt.Errorf("assertions[%d]: unknown case %q", index, a.Case)
	}

	switch a.Type {
	case AssertRoundTrip, AssertStoreRoundTrip:
	case AssertFrameRoundTrip:
		if len(a.Frames) == 0 {
			return fmt.Errorf("assertions[%d]: frames list is required for frame_round_trip", index)
		}
		for _, f := range a.Frames {
			if _, err := seria.ParseFrame(f); err != nil {
				return fmt.Errorf("assertions[%d]: %w", index, err)
			}
		}
	case AssertSameTree:
		if len(a.Cases) < 2 {
			return fmt.Errorf("assertions[%d]: at least two cases are required for same_tree", index)
		}
		for _, name := range a.Cases {
			if !cases[name] {
				return fmt.Errorf("assertions[%d]: unknown case %q", index, name)
			}
		}
	case AssertWarningCount:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for warning_count", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
