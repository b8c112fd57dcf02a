package cli

import (
	"github.com/spf13/cobra"
)

// ConvertOptions holds flags for the convert command.
type ConvertOptions struct {
	*RootOptions
	From  string
	To    string
	Frame string
}

// NewConvertCommand creates the convert command.
func NewConvertCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ConvertOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "convert [file]",
		Short: "Convert a value between text and tree forms",
		Long: `Decode a value from one form and encode it in another.

The text form is the readable grammar (Ref, Set, Map, Date, ...). The
tree form is the tagged tree, framed as JSON, YAML or CBOR. Input is
read from the file, or stdin when the file is "-" or omitted.

Examples:
  jsonx convert --from text --to tree value.txt
  jsonx convert --from tree --to text --frame cbor value.cbor
  echo '[1,Ref("#")]' | jsonx convert --to tree --frame yaml`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.From, "from", FormText, "input form (text|tree)")
	cmd.Flags().StringVar(&opts.To, "to", FormTree, "output form (text|tree)")
	cmd.Flags().StringVar(&opts.Frame, "frame", "", "tree frame (json|yaml|cbor), default from config")

	return cmd
}

func runConvert(opts *ConvertOptions, args []string, cmd *cobra.Command) error {
	if err := validForm("from", opts.From); err != nil {
		return err
	}
	if err := validForm("to", opts.To); err != nil {
		return err
	}
	frame, err := opts.frameFlag(opts.Frame)
	if err != nil {
		return err
	}
	text, tree, err := opts.codecs(cmd)
	if err != nil {
		return err
	}

	data, err := readInput(cmd, args)
	if err != nil {
		return err
	}

	f := opts.formatter(cmd)
	v, err := decodeValue(text, tree, opts.From, frame, data)
	if err != nil {
		return reportError(f, err)
	}
	f.VerboseLog("decoded %s input (%d bytes)", opts.From, len(data))

	return emitValue(f, text, tree, "", opts.To, frame, v)
}
