package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/jsonx/internal/harness"
	"github.com/roach88/jsonx/internal/ir"
	"github.com/roach88/jsonx/internal/seria"
	"github.com/roach88/jsonx/internal/typify"
)

// Value forms accepted by --from and --to.
const (
	FormText = "text"
	FormTree = "tree"
)

// ValueResult is the JSON payload for a converted value. Trees are
// always embedded in the JSON frame.
type ValueResult struct {
	Key  string          `json:"key,omitempty"`
	Kind string          `json:"kind"`
	Text string          `json:"text,omitempty"`
	Tree json.RawMessage `json:"tree,omitempty"`
}

// readInput reads the file named by args[0], or stdin when there is no
// argument or it is "-".
func readInput(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "cannot read input", err)
	}
	return data, nil
}

func validForm(flag, form string) error {
	if form != FormText && form != FormTree {
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid --%s %q: must be text or tree", flag, form))
	}
	return nil
}

// frameFlag resolves --frame, falling back to the configured frame.
func (o *RootOptions) frameFlag(name string) (seria.Frame, error) {
	if name == "" {
		cfg, err := o.Config()
		if err != nil {
			return "", err
		}
		return cfg.Frame(), nil
	}
	f, err := seria.ParseFrame(name)
	if err != nil {
		return "", WrapExitError(ExitCommandError, "invalid --frame", err)
	}
	return f, nil
}

// decodeValue decodes data given in the from form.
func decodeValue(text *typify.Codec, tree *seria.Codec, from string, frame seria.Frame, data []byte) (any, error) {
	if from == FormText {
		return text.Parse(string(data))
	}
	return tree.Unmarshal(data, frame)
}

// emitValue writes v in the to form. In JSON format the value is
// wrapped in a ValueResult; in text format the encoding is written raw.
func emitValue(f *OutputFormatter, text *typify.Codec, tree *seria.Codec, key, to string, frame seria.Frame, v any) error {
	if f.Format == "json" {
		res := ValueResult{Key: key, Kind: ir.Classify(v).String()}
		var err error
		if to == FormText {
			res.Text, err = text.Stringify(v)
		} else {
			var data []byte
			data, err = tree.Marshal(v, seria.FrameJSON)
			res.Tree = data
		}
		if err != nil {
			return reportError(f, err)
		}
		return f.Success(res)
	}

	if to == FormText {
		s, err := text.Stringify(v)
		if err != nil {
			return reportError(f, err)
		}
		return f.Success(s)
	}

	data, err := tree.Marshal(v, frame)
	if err != nil {
		return reportError(f, err)
	}
	if frame == seria.FrameJSON {
		data = append(data, '\n')
	}
	return f.Success(data)
}

// reportError prints a codec error with its code and returns an
// ExitFailure so the process exits non-zero.
func reportError(f *OutputFormatter, err error) error {
	code := harness.ErrorCode(err)
	if ferr := f.Error(code, err.Error(), nil); ferr != nil {
		return ferr
	}
	return WrapExitError(ExitFailure, code, err)
}
