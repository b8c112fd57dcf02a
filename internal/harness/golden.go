package harness

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// snapshotCase is the golden form of one case: its outcome without the
// full error message, which may carry platform-dependent detail.
type snapshotCase struct {
	Name  string          `json:"name"`
	Kind  string          `json:"kind,omitempty"`
	Text  string          `json:"text,omitempty"`
	Tree  json.RawMessage `json:"tree,omitempty"`
	Error string          `json:"error,omitempty"`
}

// Snapshot renders a result as JSON lines: a header line with the
// scenario name, then one line per case.
func Snapshot(scenarioName string, result *Result) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(map[string]any{"scenario": scenarioName, "pass": result.Pass}); err != nil {
		return nil, err
	}
	for _, c := range result.Cases {
		sc := snapshotCase{Name: c.Name, Kind: c.Kind, Text: c.Text, Error: c.Error}
		if c.Tree != "" {
			sc.Tree = json.RawMessage(c.Tree)
		}
		if err := enc.Encode(sc); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

// RunWithGolden executes a scenario and compares its snapshot against
// testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return err
	}
	return AssertGolden(t, scenario.Name, result)
}

// AssertGolden compares the snapshot of an existing result against the
// golden file named scenarioName.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	data, err := Snapshot(scenarioName, result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, data)
	return nil
}
