package harness

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/roach88/jsonx/internal/cuesrc"
	"github.com/roach88/jsonx/internal/ir"
	"github.com/roach88/jsonx/internal/registry"
	"github.com/roach88/jsonx/internal/seria"
	"github.com/roach88/jsonx/internal/store"
	"github.com/roach88/jsonx/internal/testutil"
	"github.com/roach88/jsonx/internal/typify"
)

// Harness is the test execution engine. It holds the codecs, the
// in-memory store and the log capture of one scenario run.
type Harness struct {
	store    *store.Store
	text     *typify.Codec
	tree     *seria.Codec
	logger   *slog.Logger
	recorder *testutil.LogRecorder
}

// Run executes a test scenario and returns the result.
//
// Each scenario runs against fresh registries and a fresh in-memory
// database. The returned error reports infrastructure failures only;
// case and assertion failures are recorded in the Result.
func Run(scenario *Scenario) (*Result, error) {
	logger, recorder := testutil.NewLogger()

	reg := registry.New()
	for id, desc := range scenario.Symbols {
		reg.RegisterSymbol(ir.NewSymbol(desc), id)
	}
	tree := seria.New(reg, seria.WithLogger(logger))

	st, err := store.Open(":memory:", tree, store.WithKeyGenerator(testutil.NewSequenceKeys(scenario.Name)))
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	h := &Harness{
		store:    st,
		text:     typify.New(reg, typify.WithLogger(logger)),
		tree:     tree,
		logger:   logger,
		recorder: recorder,
	}

	result := NewResult()
	for _, c := range scenario.Cases {
		cr := h.runCase(c)
		result.Cases = append(result.Cases, cr)
		if !cr.Pass {
			result.Pass = false
		}
	}
	result.Warnings = len(recorder.Warnings())

	actx := &AssertionContext{Ctx: context.Background(), Harness: h}
	for _, msg := range EvaluateAssertions(result, scenario.Assertions, actx) {
		result.AddError(msg)
	}
	return result, nil
}

// runCase decodes the case input, encodes the value into both forms and
// checks the expect clause.
func (h *Harness) runCase(c Case) *CaseResult {
	cr := &CaseResult{Name: c.Name, Input: c.Input()}

	v, err := h.decode(c)
	if err == nil {
		cr.value, cr.decoded = v, true
		cr.Kind = ir.Classify(v).String()
		cr.Text, err = h.text.Stringify(v)
	}
	if err == nil {
		cr.Tree, err = h.tree.Stringify(v)
	}
	if err != nil {
		cr.Error = ErrorCode(err)
		cr.Message = err.Error()
	}

	failures := checkExpect(c.Expect, cr)
	cr.Pass = len(failures) == 0
	for _, f := range failures {
		h.recordFailure(c.Name, f)
	}
	return cr
}

func (h *Harness) decode(c Case) (any, error) {
	switch c.Input() {
	case InputText:
		return h.text.Parse(*c.Text)
	case InputTree:
		return h.tree.Parse(*c.Tree)
	case InputCUE:
		return cuesrc.Load(c.CUE)
	}
	return nil, fmt.Errorf("case %q has no input", c.Name)
}

// recordFailure logs at Info so failures do not count as codec warnings.
func (h *Harness) recordFailure(name, msg string) {
	h.logger.Info("case failed", "case", name, "reason", msg)
}

// checkExpect compares a case outcome against its expect clause and
// returns one message per mismatch. Without an expect clause the case
// must simply succeed.
func checkExpect(e *ExpectClause, cr *CaseResult) []string {
	var out []string
	if e == nil {
		e = &ExpectClause{}
	}

	if e.Error != "" {
		switch {
		case cr.Error == "":
			out = append(out, fmt.Sprintf("case %q: expected error %s, got success", cr.Name, e.Error))
		case cr.Error != e.Error:
			out = append(out, fmt.Sprintf("case %q: expected error %s, got %s: %s", cr.Name, e.Error, cr.Error, cr.Message))
		}
		return out
	}
	if cr.Error != "" {
		return append(out, fmt.Sprintf("case %q: unexpected error: %s", cr.Name, cr.Message))
	}

	if e.Kind != "" && e.Kind != cr.Kind {
		out = append(out, fmt.Sprintf("case %q: expected kind %s, got %s", cr.Name, e.Kind, cr.Kind))
	}
	if e.Text != nil && *e.Text != cr.Text {
		out = append(out, fmt.Sprintf("case %q: expected text %s, got %s", cr.Name, *e.Text, cr.Text))
	}
	if e.Tree != nil && *e.Tree != cr.Tree {
		out = append(out, fmt.Sprintf("case %q: expected tree %s, got %s", cr.Name, *e.Tree, cr.Tree))
	}
	return out
}

// ErrorCode returns the code carried by a codec, frame or import error,
// "INVALID_FRAME" for frame errors and "ERROR" for anything else.
func ErrorCode(err error) string {
	var (
		lexErr       *typify.LexError
		parseErr     *typify.ParseError
		transformErr *typify.TransformError
		stringifyErr *typify.StringifyError
		decodeErr    *seria.DecodeError
		encodeErr    *seria.EncodeError
		frameErr     *seria.FrameError
		cueErr       *cuesrc.Error
	)
	switch {
	case errors.As(err, &lexErr):
		return string(lexErr.Code)
	case errors.As(err, &parseErr):
		return string(parseErr.Code)
	case errors.As(err, &transformErr):
		return string(transformErr.Code)
	case errors.As(err, &stringifyErr):
		return string(stringifyErr.Code)
	case errors.As(err, &decodeErr):
		return string(decodeErr.Code)
	case errors.As(err, &encodeErr):
		return string(encodeErr.Code)
	case errors.As(err, &frameErr):
		return "INVALID_FRAME"
	case errors.As(err, &cueErr):
		return cueErr.Code
	}
	return "ERROR"
}
