package harness

import (
	"context"
	"fmt"
	"strings"

	"github.com/roach88/jsonx/internal/ir"
	"github.com/roach88/jsonx/internal/seria"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string // Assertion type for categorization
	Case     string // Case the failure refers to, if any
	Expected string // Human-readable expected outcome
	Actual   string // Human-readable actual outcome
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "Assertion failed: %s", e.Type)
	if e.Case != "" {
		fmt.Fprintf(&buf, " (case %q)", e.Case)
	}
	fmt.Fprintf(&buf, "\n  Expected: %s\n  Actual: %s", e.Expected, e.Actual)
	return buf.String()
}

// AssertionContext provides what assertions need beyond the result.
type AssertionContext struct {
	Ctx     context.Context
	Harness *Harness
}

// EvaluateAssertions runs every assertion and returns one message per failure.
func EvaluateAssertions(result *Result, assertions []Assertion, actx *AssertionContext) []string {
	var errs []string
	for i, a := range assertions {
		var err error
		switch a.Type {
		case AssertRoundTrip:
			err = assertRoundTrip(result, a, actx.Harness)
		case AssertFrameRoundTrip:
			err = assertFrameRoundTrip(result, a, actx.Harness)
		case AssertStoreRoundTrip:
			err = assertStoreRoundTrip(actx.Ctx, result, a, actx.Harness)
		case AssertSameTree:
			err = assertSameTree(result, a)
		case AssertWarningCount:
			err = assertWarningCount(result, a)
		default:
			err = fmt.Errorf("unknown assertion type %q", a.Type)
		}
		if err != nil {
			errs = append(errs, fmt.Sprintf("assertions[%d]: %v", i, err))
		}
	}
	return errs
}

// targets returns the decoded cases an assertion applies to.
func targets(result *Result, a Assertion) []*CaseResult {
	var out []*CaseResult
	for _, c := range result.Cases {
		if !c.decoded || (a.Case != "" && c.Name != a.Case) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// assertRoundTrip re-parses each case's text and tree output and compares
// the results with the decoded value.
func assertRoundTrip(result *Result, a Assertion, h *Harness) error {
	for _, c := range targets(result, a) {
		if c.Error != "" {
			continue
		}
		fromText, err := h.text.Parse(c.Text)
		if err != nil {
			return &AssertionError{Type: a.Type, Case: c.Name, Expected: "text output parses", Actual: err.Error()}
		}
		if !ir.Equal(c.value, fromText) {
			return &AssertionError{Type: a.Type, Case: c.Name, Expected: "text round trip preserves value", Actual: "value changed: " + c.Text}
		}
		fromTree, err := h.tree.Parse(c.Tree)
		if err != nil {
			return &AssertionError{Type: a.Type, Case: c.Name, Expected: "tree output parses", Actual: err.Error()}
		}
		if !ir.Equal(c.value, fromTree) {
			return &AssertionError{Type: a.Type, Case: c.Name, Expected: "tree round trip preserves value", Actual: "value changed: " + c.Tree}
		}
	}
	return nil
}

func assertFrameRoundTrip(result *Result, a Assertion, h *Harness) error {
	for _, name := range a.Frames {
		frame, err := seria.ParseFrame(name)
		if err != nil {
			return err
		}
		for _, c := range targets(result, a) {
			if c.Error != "" {
				continue
			}
			data, err := h.tree.Marshal(c.value, frame)
			if err != nil {
				return &AssertionError{Type: a.Type, Case: c.Name, Expected: string(frame) + " marshal succeeds", Actual: err.Error()}
			}
			back, err := h.tree.Unmarshal(data, frame)
			if err != nil {
				return &AssertionError{Type: a.Type, Case: c.Name, Expected: string(frame) + " unmarshal succeeds", Actual: err.Error()}
			}
			if !ir.Equal(c.value, back) {
				return &AssertionError{Type: a.Type, Case: c.Name, Expected: string(frame) + " round trip preserves value", Actual: "value changed"}
			}
		}
	}
	return nil
}

// assertStoreRoundTrip writes each value to the store under its case
// name and reads it back.
func assertStoreRoundTrip(ctx context.Context, result *Result, a Assertion, h *Harness) error {
	for _, c := range targets(result, a) {
		if c.Error != "" {
			continue
		}
		key, err := h.store.Put(ctx, c.Name, c.value)
		if err != nil {
			return &AssertionError{Type: a.Type, Case: c.Name, Expected: "store put succeeds", Actual: err.Error()}
		}
		back, err := h.store.Get(ctx, key)
		if err != nil {
			return &AssertionError{Type: a.Type, Case: c.Name, Expected: "store get succeeds", Actual: err.Error()}
		}
		if !ir.Equal(c.value, back) {
			return &AssertionError{Type: a.Type, Case: c.Name, Expected: "store round trip preserves value", Actual: "value changed"}
		}
	}
	return nil
}

func assertSameTree(result *Result, a Assertion) error {
	first, _ := result.Case(a.Cases[0])
	for _, name := range a.Cases[1:] {
		other, _ := result.Case(name)
		if first == nil || other == nil || first.Tree == "" || first.Tree != other.Tree {
			var want, got string
			if first != nil {
				want = first.Tree
			}
			if other != nil {
				got = other.Tree
			}
			return &AssertionError{
				Type:     a.Type,
				Case:     name,
				Expected: fmt.Sprintf("tree of %q: %s", a.Cases[0], want),
				Actual:   got,
			}
		}
	}
	return nil
}

func assertWarningCount(result *Result, a Assertion) error {
	if result.Warnings != a.Count {
		return &AssertionError{
			Type:     a.Type,
			Expected: fmt.Sprintf("%d warnings", a.Count),
			Actual:   fmt.Sprintf("%d warnings", result.Warnings),
		}
	}
	return nil
}
