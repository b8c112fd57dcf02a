package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/jsonx/internal/cuesrc"
)

// ImportOptions holds flags for the import command.
type ImportOptions struct {
	*RootOptions
	To    string
	Frame string
}

// NewImportCommand creates the import command.
func NewImportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ImportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "import <file.cue>",
		Short: "Import a concrete CUE value",
		Long: `Evaluate a CUE file and encode its value.

Fields tagged @jsonx(date), @jsonx(url), @jsonx(bigint), @jsonx(set),
@jsonx(regexp) or @jsonx(symbol) become the corresponding builtin
values. The value must be concrete.

Examples:
  jsonx import person.cue
  jsonx import person.cue --to tree --frame yaml`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.To, "to", FormText, "output form (text|tree)")
	cmd.Flags().StringVar(&opts.Frame, "frame", "", "tree frame (json|yaml|cbor), default from config")

	return cmd
}

func runImport(opts *ImportOptions, path string, cmd *cobra.Command) error {
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

	f := opts.formatter(cmd)
	v, err := cuesrc.Load(path)
	if err != nil {
		return reportError(f, err)
	}
	return emitValue(f, text, tree, "", opts.To, frame, v)
}
